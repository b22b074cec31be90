package domain

import "time"

const (
	SubjectListingCreated  = "umkm.created"
	SubjectListingUpdated  = "umkm.updated"
	SubjectListingDeleted  = "umkm.deleted"
	SubjectListingVerified = "umkm.verified"
)

// ListingEvent is the payload of every listing lifecycle subject.
type ListingEvent struct {
	ListingID  string        `json:"umkm_id"`
	Name       string        `json:"name"`
	Category   string        `json:"category"`
	Status     ListingStatus `json:"status"`
	OwnerID    string        `json:"owner_id"`
	ActorID    string        `json:"actor_id"`
	Reason     string        `json:"reason,omitempty"`
	OccurredAt time.Time     `json:"occurred_at"`
}

func NewListingEvent(l *Listing, actorID string) ListingEvent {
	return ListingEvent{
		ListingID:  l.ID,
		Name:       l.Name,
		Category:   l.Category,
		Status:     l.Status,
		OwnerID:    l.OwnerID,
		ActorID:    actorID,
		OccurredAt: time.Now().UTC(),
	}
}
