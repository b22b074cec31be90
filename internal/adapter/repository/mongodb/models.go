package mongodb

import (
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/umkm/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	listingsCollection     = "umkm"
	favoritesCollection    = "favorites"
	activityLogsCollection = "activity_logs"
	usersCollection        = "users"
)

type locationDocument struct {
	Latitude  float64 `bson:"latitude"`
	Longitude float64 `bson:"longitude"`
}

type operatingHoursDocument struct {
	Monday    string `bson:"monday,omitempty"`
	Tuesday   string `bson:"tuesday,omitempty"`
	Wednesday string `bson:"wednesday,omitempty"`
	Thursday  string `bson:"thursday,omitempty"`
	Friday    string `bson:"friday,omitempty"`
	Saturday  string `bson:"saturday,omitempty"`
	Sunday    string `bson:"sunday,omitempty"`
}

type contactDocument struct {
	Phone     string `bson:"phone,omitempty"`
	WhatsApp  string `bson:"whatsapp,omitempty"`
	Email     string `bson:"email,omitempty"`
	Instagram string `bson:"instagram,omitempty"`
	Facebook  string `bson:"facebook,omitempty"`
}

// listingDocument is the stored shape of a listing.
type listingDocument struct {
	ID              primitive.ObjectID     `bson:"_id,omitempty"`
	Name            string                 `bson:"name"`
	Description     string                 `bson:"description"`
	Category        string                 `bson:"category"`
	Address         string                 `bson:"address"`
	District        string                 `bson:"district"`
	MapsURL         string                 `bson:"maps_url,omitempty"`
	Location        *locationDocument      `bson:"location,omitempty"`
	OperatingHours  operatingHoursDocument `bson:"operating_hours"`
	Contact         contactDocument        `bson:"contact"`
	Photos          []string               `bson:"photos"`
	Payments        []string               `bson:"payments"`
	Status          string                 `bson:"status"`
	RejectionReason string                 `bson:"rejection_reason,omitempty"`
	Views           int64                  `bson:"views"`
	OwnerID         string                 `bson:"owner_id"`
	OwnerName       string                 `bson:"owner_name"`
	CreatedAt       time.Time              `bson:"created_at"`
	UpdatedAt       time.Time              `bson:"updated_at"`
}

type favoriteDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"user_id"`
	ListingID string             `bson:"listing_id"`
	CreatedAt time.Time          `bson:"created_at"`
}

type activityLogDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	AdminID     string             `bson:"admin_id"`
	AdminName   string             `bson:"admin_name"`
	ListingID   string             `bson:"umkm_id"`
	ListingName string             `bson:"umkm_name"`
	OwnerID     string             `bson:"owner_id"`
	OwnerName   string             `bson:"owner_name"`
	Action      string             `bson:"action"`
	Reason      string             `bson:"reason,omitempty"`
	CreatedAt   time.Time          `bson:"created_at"`
}

// objectID parses a hex id. An empty id yields NilObjectID so that
// inserts with omitempty let MongoDB assign one.
func objectID(id string) (primitive.ObjectID, error) {
	if id == "" {
		return primitive.NilObjectID, nil
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid id %q: %w", id, err)
	}
	return oid, nil
}

func toListingDocument(l *domain.Listing) (*listingDocument, error) {
	if l == nil {
		return nil, nil
	}
	oid, err := objectID(l.ID)
	if err != nil {
		return nil, fmt.Errorf("toListingDocument: %w", err)
	}

	doc := &listingDocument{
		ID:          oid,
		Name:        l.Name,
		Description: l.Description,
		Category:    l.Category,
		Address:     l.Address,
		District:    l.District,
		MapsURL:     l.MapsURL,
		OperatingHours: operatingHoursDocument{
			Monday:    l.OperatingHours.Monday,
			Tuesday:   l.OperatingHours.Tuesday,
			Wednesday: l.OperatingHours.Wednesday,
			Thursday:  l.OperatingHours.Thursday,
			Friday:    l.OperatingHours.Friday,
			Saturday:  l.OperatingHours.Saturday,
			Sunday:    l.OperatingHours.Sunday,
		},
		Contact: contactDocument{
			Phone:     l.Contact.Phone,
			WhatsApp:  l.Contact.WhatsApp,
			Email:     l.Contact.Email,
			Instagram: l.Contact.Instagram,
			Facebook:  l.Contact.Facebook,
		},
		Photos:          nonNilStrings(l.Photos),
		Payments:        make([]string, 0, len(l.Payments)),
		Status:          string(l.Status),
		RejectionReason: l.RejectionReason,
		Views:           l.Views,
		OwnerID:         l.OwnerID,
		OwnerName:       l.OwnerName,
		CreatedAt:       l.CreatedAt,
		UpdatedAt:       l.UpdatedAt,
	}
	if l.Location != nil {
		doc.Location = &locationDocument{Latitude: l.Location.Latitude, Longitude: l.Location.Longitude}
	}
	for _, p := range l.Payments {
		doc.Payments = append(doc.Payments, string(p))
	}
	return doc, nil
}

func toDomainListing(d *listingDocument) *domain.Listing {
	if d == nil {
		return nil
	}
	l := &domain.Listing{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		Category:    d.Category,
		Address:     d.Address,
		District:    d.District,
		MapsURL:     d.MapsURL,
		OperatingHours: domain.OperatingHours{
			Monday:    d.OperatingHours.Monday,
			Tuesday:   d.OperatingHours.Tuesday,
			Wednesday: d.OperatingHours.Wednesday,
			Thursday:  d.OperatingHours.Thursday,
			Friday:    d.OperatingHours.Friday,
			Saturday:  d.OperatingHours.Saturday,
			Sunday:    d.OperatingHours.Sunday,
		},
		Contact: domain.Contact{
			Phone:     d.Contact.Phone,
			WhatsApp:  d.Contact.WhatsApp,
			Email:     d.Contact.Email,
			Instagram: d.Contact.Instagram,
			Facebook:  d.Contact.Facebook,
		},
		Photos:          nonNilStrings(d.Photos),
		Payments:        make([]domain.PaymentMethod, 0, len(d.Payments)),
		Status:          domain.ListingStatus(d.Status),
		RejectionReason: d.RejectionReason,
		Views:           d.Views,
		OwnerID:         d.OwnerID,
		OwnerName:       d.OwnerName,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
	if d.Location != nil {
		l.Location = &domain.Location{Latitude: d.Location.Latitude, Longitude: d.Location.Longitude}
	}
	for _, p := range d.Payments {
		l.Payments = append(l.Payments, domain.PaymentMethod(p))
	}
	return l
}

func toDomainListings(docs []*listingDocument) []*domain.Listing {
	out := make([]*domain.Listing, 0, len(docs))
	for _, doc := range docs {
		out = append(out, toDomainListing(doc))
	}
	return out
}

func toFavoriteDocument(f *domain.Favorite) (*favoriteDocument, error) {
	if f == nil {
		return nil, nil
	}
	oid, err := objectID(f.ID)
	if err != nil {
		return nil, fmt.Errorf("toFavoriteDocument: %w", err)
	}
	return &favoriteDocument{
		ID:        oid,
		UserID:    f.UserID,
		ListingID: f.ListingID,
		CreatedAt: f.CreatedAt,
	}, nil
}

func toDomainFavorites(docs []*favoriteDocument) []*domain.Favorite {
	out := make([]*domain.Favorite, 0, len(docs))
	for _, d := range docs {
		out = append(out, &domain.Favorite{
			ID:        d.ID.Hex(),
			UserID:    d.UserID,
			ListingID: d.ListingID,
			CreatedAt: d.CreatedAt,
		})
	}
	return out
}

func toActivityLogDocument(a *domain.ActivityLog) (*activityLogDocument, error) {
	oid, err := objectID(a.ID)
	if err != nil {
		return nil, fmt.Errorf("toActivityLogDocument: %w", err)
	}
	return &activityLogDocument{
		ID:          oid,
		AdminID:     a.AdminID,
		AdminName:   a.AdminName,
		ListingID:   a.ListingID,
		ListingName: a.ListingName,
		OwnerID:     a.OwnerID,
		OwnerName:   a.OwnerName,
		Action:      string(a.Action),
		Reason:      a.Reason,
		CreatedAt:   a.CreatedAt,
	}, nil
}

func toDomainActivityLogs(docs []*activityLogDocument) []*domain.ActivityLog {
	out := make([]*domain.ActivityLog, 0, len(docs))
	for _, d := range docs {
		out = append(out, &domain.ActivityLog{
			ID:          d.ID.Hex(),
			AdminID:     d.AdminID,
			AdminName:   d.AdminName,
			ListingID:   d.ListingID,
			ListingName: d.ListingName,
			OwnerID:     d.OwnerID,
			OwnerName:   d.OwnerName,
			Action:      domain.ModerationAction(d.Action),
			Reason:      d.Reason,
			CreatedAt:   d.CreatedAt,
		})
	}
	return out
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
