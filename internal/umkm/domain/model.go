package domain

import "time"

type ListingStatus string

const (
	StatusPending  ListingStatus = "pending"
	StatusApproved ListingStatus = "approved"
	StatusRejected ListingStatus = "rejected"
)

func (s ListingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// CategoryAll is the sentinel meaning "no category filter".
const CategoryAll = "Semua"

var Categories = []string{
	"Kuliner",
	"Fashion",
	"Kerajinan",
	"Jasa",
	"Agribisnis & Pertanian",
	"Toko Kelontong",
}

func ValidCategory(c string) bool {
	for _, known := range Categories {
		if known == c {
			return true
		}
	}
	return false
}

// IsAllCategories reports whether c selects every category.
func IsAllCategories(c string) bool {
	return c == "" || c == CategoryAll || c == "all"
}

type PaymentMethod string

const (
	PaymentCash  PaymentMethod = "Tunai"
	PaymentQRIS  PaymentMethod = "QRIS"
	PaymentDebit PaymentMethod = "Debit"
)

func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentCash, PaymentQRIS, PaymentDebit:
		return true
	}
	return false
}

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type OperatingHours struct {
	Monday    string `json:"monday"`
	Tuesday   string `json:"tuesday"`
	Wednesday string `json:"wednesday"`
	Thursday  string `json:"thursday"`
	Friday    string `json:"friday"`
	Saturday  string `json:"saturday"`
	Sunday    string `json:"sunday"`
}

type Contact struct {
	Phone     string `json:"phone"`
	WhatsApp  string `json:"whatsapp"`
	Email     string `json:"email"`
	Instagram string `json:"instagram"`
	Facebook  string `json:"facebook"`
}

// Listing is a single business entry of the directory.
type Listing struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Category        string          `json:"category"`
	Address         string          `json:"address"`
	District        string          `json:"district"`
	MapsURL         string          `json:"maps_url"`
	Location        *Location       `json:"location,omitempty"`
	OperatingHours  OperatingHours  `json:"operating_hours"`
	Contact         Contact         `json:"contact"`
	Photos          []string        `json:"photos"`
	Payments        []PaymentMethod `json:"payments"`
	Status          ListingStatus   `json:"status"`
	RejectionReason string          `json:"rejection_reason,omitempty"`
	Views           int64           `json:"views"`
	OwnerID         string          `json:"owner_id"`
	OwnerName       string          `json:"owner_name"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (l *Listing) IsApproved() bool {
	return l.Status == StatusApproved
}

type Favorite struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ListingID string    `json:"listing_id"`
	CreatedAt time.Time `json:"created_at"`
}

type ModerationAction string

const (
	ActionApproved ModerationAction = "approved"
	ActionRejected ModerationAction = "rejected"
)

// ActivityLog records one moderation decision.
type ActivityLog struct {
	ID          string           `json:"id"`
	AdminID     string           `json:"admin_id"`
	AdminName   string           `json:"admin_name"`
	ListingID   string           `json:"listing_id"`
	ListingName string           `json:"listing_name"`
	OwnerID     string           `json:"owner_id"`
	OwnerName   string           `json:"owner_name"`
	Action      ModerationAction `json:"action"`
	Reason      string           `json:"reason"`
	CreatedAt   time.Time        `json:"created_at"`
}

// Statistics is the admin overview of approved listings.
type Statistics struct {
	TotalListings int64            `json:"total_listings"`
	PerCategory   map[string]int64 `json:"per_category"`
}

// Actor identifies who performs a mutation.
type Actor struct {
	UserID  string
	Name    string
	IsAdmin bool
}
