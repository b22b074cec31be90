package search

import (
	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/umkm/domain"
)

// Document is the engine-side projection of an approved listing.
// Timestamps are Unix milliseconds so they stay sortable in the engine.
type Document struct {
	ID             string                 `json:"id"`
	Name           string                 `json:"name"`
	Description    string                 `json:"description"`
	Category       string                 `json:"category"`
	Address        string                 `json:"address"`
	District       string                 `json:"district"`
	MapsURL        string                 `json:"maps_url"`
	Location       *domain.Location       `json:"location,omitempty"`
	OperatingHours domain.OperatingHours  `json:"operating_hours"`
	Contact        domain.Contact         `json:"contact"`
	Photos         []string               `json:"photos"`
	Payments       []domain.PaymentMethod `json:"payments"`
	Status         string                 `json:"status"`
	OwnerID        string                 `json:"owner_id"`
	OwnerName      string                 `json:"owner_name"`
	Views          int64                  `json:"views"`
	CreatedAt      int64                  `json:"created_at"`
	UpdatedAt      int64                  `json:"updated_at"`
}

// Hit is one search result. Formatted carries highlighted copies of the
// highlight attributes and is empty on the primary-store path.
type Hit struct {
	Document
	Formatted map[string]interface{} `json:"_formatted,omitempty"`
}

func NewDocument(l *domain.Listing) Document {
	photos := l.Photos
	if photos == nil {
		photos = []string{}
	}
	payments := l.Payments
	if payments == nil {
		payments = []domain.PaymentMethod{}
	}
	return Document{
		ID:             l.ID,
		Name:           l.Name,
		Description:    l.Description,
		Category:       l.Category,
		Address:        l.Address,
		District:       l.District,
		MapsURL:        l.MapsURL,
		Location:       l.Location,
		OperatingHours: l.OperatingHours,
		Contact:        l.Contact,
		Photos:         photos,
		Payments:       payments,
		Status:         string(l.Status),
		OwnerID:        l.OwnerID,
		OwnerName:      l.OwnerName,
		Views:          l.Views,
		CreatedAt:      l.CreatedAt.UnixMilli(),
		UpdatedAt:      l.UpdatedAt.UnixMilli(),
	}
}

func NewDocuments(listings []*domain.Listing) []Document {
	docs := make([]Document, 0, len(listings))
	for _, l := range listings {
		docs = append(docs, NewDocument(l))
	}
	return docs
}
