package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/search"
	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/umkm/domain"
	"go.uber.org/zap"
)

const (
	DefaultTopLimit = 5
	MaxTopLimit     = 50
)

// ListingDeps wires the listing workflow. Cache, Publisher, Mailer and
// Recorder are optional.
type ListingDeps struct {
	Listings  domain.ListingRepository
	Favorites domain.FavoriteRepository
	Activity  domain.ActivityLogRepository
	Users     domain.UserRepository
	Index     IndexSync
	Searcher  Searcher
	Resolver  CoordinateResolver
	Cache     StatsCache
	Publisher EventPublisher
	Mailer    Mailer
	Recorder  MutationRecorder
}

// ListingInput carries the editable fields of a listing. On update, empty
// strings and nil slices keep the stored value.
type ListingInput struct {
	Name           string
	Description    string
	Category       string
	Address        string
	District       string
	MapsURL        string
	Location       *domain.Location
	OperatingHours *domain.OperatingHours
	Contact        *domain.Contact
	Payments       []domain.PaymentMethod
	Photos         []string
	Status         domain.ListingStatus
}

type ListingUsecase struct {
	deps   ListingDeps
	logger *logger.Logger
}

func NewListingUsecase(deps ListingDeps, log *logger.Logger) *ListingUsecase {
	if deps.Recorder == nil {
		deps.Recorder = nopRecorder{}
	}
	return &ListingUsecase{deps: deps, logger: log.Named("listing_usecase")}
}

// Create stores a new listing for the actor. Only admins may choose the
// initial status; everyone else starts pending.
func (uc *ListingUsecase) Create(ctx context.Context, actor domain.Actor, in ListingInput) (*domain.Listing, error) {
	listing := &domain.Listing{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Category:    in.Category,
		Address:     strings.TrimSpace(in.Address),
		District:    strings.TrimSpace(in.District),
		MapsURL:     strings.TrimSpace(in.MapsURL),
		Location:    in.Location,
		Payments:    in.Payments,
		Photos:      in.Photos,
		Status:      domain.StatusPending,
		OwnerID:     actor.UserID,
		OwnerName:   uc.ownerName(ctx, actor),
	}
	if in.OperatingHours != nil {
		listing.OperatingHours = *in.OperatingHours
	}
	if in.Contact != nil {
		listing.Contact = *in.Contact
	}
	if actor.IsAdmin && in.Status != "" {
		listing.Status = in.Status
	}
	if listing.Photos == nil {
		listing.Photos = []string{}
	}

	if listing.MapsURL != "" && listing.Location == nil {
		uc.locate(ctx, listing)
	}
	if err := listing.Validate(); err != nil {
		return nil, err
	}

	if err := uc.deps.Listings.Create(ctx, listing); err != nil {
		uc.logger.Error("Failed to create listing", zap.Error(err), zap.String("owner_id", actor.UserID))
		return nil, fmt.Errorf("create listing: %w", err)
	}
	uc.logger.Info("Listing created", zap.String("listing_id", listing.ID), zap.String("status", string(listing.Status)))

	uc.afterMutation(ctx, listing, "create", domain.SubjectListingCreated, actor.UserID)
	return listing, nil
}

// Update edits a listing owned by the actor (admins may edit any).
func (uc *ListingUsecase) Update(ctx context.Context, actor domain.Actor, id string, in ListingInput) (*domain.Listing, error) {
	listing, err := uc.deps.Listings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canModify(actor, listing) {
		uc.logger.Warn("User forbidden to update listing",
			zap.String("listing_id", id), zap.String("owner_id", listing.OwnerID), zap.String("user_id", actor.UserID))
		return nil, domain.ErrForbidden
	}

	previousURL := listing.MapsURL
	applyInput(listing, in)
	if actor.IsAdmin && in.Status != "" {
		listing.Status = in.Status
		if in.Status == domain.StatusApproved {
			listing.RejectionReason = ""
		}
	}

	if listing.MapsURL != "" && (listing.MapsURL != previousURL || listing.Location == nil) {
		uc.locate(ctx, listing)
	}
	if err := listing.Validate(); err != nil {
		return nil, err
	}

	if err := uc.deps.Listings.Update(ctx, listing); err != nil {
		uc.logger.Error("Failed to update listing", zap.Error(err), zap.String("listing_id", id))
		return nil, fmt.Errorf("update listing: %w", err)
	}

	uc.afterMutation(ctx, listing, "update", domain.SubjectListingUpdated, actor.UserID)
	return listing, nil
}

// Delete removes the listing, its search document and its favorites.
func (uc *ListingUsecase) Delete(ctx context.Context, actor domain.Actor, id string) error {
	listing, err := uc.deps.Listings.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !canModify(actor, listing) {
		uc.logger.Warn("User forbidden to delete listing",
			zap.String("listing_id", id), zap.String("owner_id", listing.OwnerID), zap.String("user_id", actor.UserID))
		return domain.ErrForbidden
	}

	if err := uc.deps.Listings.Delete(ctx, id); err != nil {
		uc.logger.Error("Failed to delete listing", zap.Error(err), zap.String("listing_id", id))
		return fmt.Errorf("delete listing: %w", err)
	}

	if err := uc.deps.Index.Remove(ctx, id); err != nil {
		uc.logger.Warn("Search index not updated after delete", zap.String("listing_id", id), zap.Error(err))
	}
	if uc.deps.Favorites != nil {
		if err := uc.deps.Favorites.RemoveByListingID(ctx, id); err != nil {
			uc.logger.Warn("Failed to remove favorites of deleted listing", zap.String("listing_id", id), zap.Error(err))
		}
	}
	uc.invalidate(ctx)
	uc.publish(ctx, domain.SubjectListingDeleted, domain.NewListingEvent(listing, actor.UserID))
	uc.deps.Recorder.IncListingMutation("delete")
	return nil
}

// Verify approves or rejects a listing, records the decision and notifies
// the owner by email.
func (uc *ListingUsecase) Verify(ctx context.Context, admin domain.Actor, id string, action domain.ModerationAction, reason string) (*domain.Listing, error) {
	if !admin.IsAdmin {
		return nil, domain.ErrForbidden
	}
	if action != domain.ActionApproved && action != domain.ActionRejected {
		return nil, fmt.Errorf("%w: unknown moderation action %q", domain.ErrInvalidListingData, action)
	}

	listing, err := uc.deps.Listings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if action == domain.ActionApproved {
		listing.Status = domain.StatusApproved
		listing.RejectionReason = ""
	} else {
		listing.Status = domain.StatusRejected
		listing.RejectionReason = strings.TrimSpace(reason)
	}

	if err := uc.deps.Listings.Update(ctx, listing); err != nil {
		uc.logger.Error("Failed to persist moderation decision", zap.Error(err), zap.String("listing_id", id))
		return nil, fmt.Errorf("verify listing: %w", err)
	}

	entry := &domain.ActivityLog{
		AdminID:     admin.UserID,
		AdminName:   admin.Name,
		ListingID:   listing.ID,
		ListingName: listing.Name,
		OwnerID:     listing.OwnerID,
		OwnerName:   listing.OwnerName,
		Action:      action,
		Reason:      strings.TrimSpace(reason),
	}
	if entry.OwnerName == "" {
		entry.OwnerName = "Unknown"
	}
	if err := uc.deps.Activity.Create(ctx, entry); err != nil {
		uc.logger.Error("Failed to write activity log", zap.Error(err), zap.String("listing_id", id))
	}

	uc.afterMutation(ctx, listing, "verify", domain.SubjectListingVerified, admin.UserID)
	uc.notifyOwner(ctx, listing, action, entry.Reason)
	return listing, nil
}

func (uc *ListingUsecase) Get(ctx context.Context, id string) (*domain.Listing, error) {
	return uc.deps.Listings.FindByID(ctx, id)
}

// List pages through listings. Text queries go through the search router;
// plain browsing reads the primary store newest first.
func (uc *ListingUsecase) List(ctx context.Context, q search.Query) (*search.Page, error) {
	q = q.Normalize()
	if q.Text != "" {
		return uc.deps.Searcher.Search(ctx, q)
	}

	filter := q.StoreFilter()
	total, err := uc.deps.Listings.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count listings: %w", err)
	}
	listings, err := uc.deps.Listings.Find(ctx, filter, domain.SortField{Field: search.FieldCreatedAt, Descending: true}, q.Offset(), int64(q.PageSize))
	if err != nil {
		return nil, fmt.Errorf("find listings: %w", err)
	}

	hits := make([]search.Hit, 0, len(listings))
	for _, l := range listings {
		hits = append(hits, search.Hit{Document: search.NewDocument(l)})
	}
	page := search.NewPage(q, hits, total)
	page.Engine = search.StoreName
	return page, nil
}

func (uc *ListingUsecase) IncrementView(ctx context.Context, id string) (int64, error) {
	return uc.deps.Listings.IncrementViews(ctx, id)
}

// Top returns the most viewed approved listings.
func (uc *ListingUsecase) Top(ctx context.Context, limit int64) ([]*domain.Listing, error) {
	if limit <= 0 {
		limit = DefaultTopLimit
	}
	if limit > MaxTopLimit {
		limit = MaxTopLimit
	}

	if uc.deps.Cache != nil {
		cached, err := uc.deps.Cache.GetTop(ctx, limit)
		if err != nil {
			uc.logger.Warn("Top cache read failed", zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	top, err := uc.deps.Listings.Top(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("top listings: %w", err)
	}
	if uc.deps.Cache != nil {
		if err := uc.deps.Cache.SetTop(ctx, limit, top); err != nil {
			uc.logger.Warn("Top cache write failed", zap.Error(err))
		}
	}
	return top, nil
}

// Statistics counts approved listings per category. Every known category
// is present, zero when empty.
func (uc *ListingUsecase) Statistics(ctx context.Context) (*domain.Statistics, error) {
	if uc.deps.Cache != nil {
		cached, err := uc.deps.Cache.GetStatistics(ctx)
		if err != nil {
			uc.logger.Warn("Statistics cache read failed", zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	counts, err := uc.deps.Listings.CountByCategory(ctx, domain.StatusApproved)
	if err != nil {
		return nil, fmt.Errorf("count by category: %w", err)
	}
	st := &domain.Statistics{PerCategory: make(map[string]int64, len(domain.Categories))}
	for _, c := range domain.Categories {
		st.PerCategory[c] = 0
	}
	for c, n := range counts {
		st.PerCategory[c] = n
		st.TotalListings += n
	}

	if uc.deps.Cache != nil {
		if err := uc.deps.Cache.SetStatistics(ctx, st); err != nil {
			uc.logger.Warn("Statistics cache write failed", zap.Error(err))
		}
	}
	return st, nil
}

func (uc *ListingUsecase) ListActivityLogs(ctx context.Context, page, pageSize int) ([]*domain.ActivityLog, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = search.DefaultPageSize
	}
	if pageSize > search.MaxPageSize {
		pageSize = search.MaxPageSize
	}
	return uc.deps.Activity.List(ctx, int64(page-1)*int64(pageSize), int64(pageSize))
}

// FixMissingLocations back-fills coordinates for listings that have a map
// link but no location. It returns how many listings were updated.
func (uc *ListingUsecase) FixMissingLocations(ctx context.Context) (int, error) {
	listings, err := uc.deps.Listings.FindMissingLocation(ctx)
	if err != nil {
		return 0, fmt.Errorf("find listings without location: %w", err)
	}

	fixed := 0
	for _, l := range listings {
		if err := ctx.Err(); err != nil {
			return fixed, err
		}
		if !uc.locate(ctx, l) {
			continue
		}
		if err := uc.deps.Listings.Update(ctx, l); err != nil {
			uc.logger.Error("Failed to store resolved location", zap.String("listing_id", l.ID), zap.Error(err))
			continue
		}
		if err := uc.deps.Index.Apply(ctx, l); err != nil {
			uc.logger.Warn("Search index not updated", zap.String("listing_id", l.ID), zap.Error(err))
		}
		fixed++
	}
	if fixed > 0 {
		uc.invalidate(ctx)
	}
	uc.logger.Info("Location back-fill finished", zap.Int("candidates", len(listings)), zap.Int("fixed", fixed))
	return fixed, nil
}

// locate fills listing.Location from its maps URL and reports success.
func (uc *ListingUsecase) locate(ctx context.Context, listing *domain.Listing) bool {
	if uc.deps.Resolver == nil {
		return false
	}
	coords, ok := uc.deps.Resolver.Resolve(ctx, listing.MapsURL)
	if !ok {
		uc.logger.Debug("No coordinates in maps url", zap.String("maps_url", listing.MapsURL))
		return false
	}
	listing.Location = &domain.Location{Latitude: coords.Latitude, Longitude: coords.Longitude}
	return true
}

// afterMutation runs the side effects every persisted change shares.
func (uc *ListingUsecase) afterMutation(ctx context.Context, listing *domain.Listing, kind, subject, actorID string) {
	if err := uc.deps.Index.Apply(ctx, listing); err != nil {
		if errors.Is(err, search.ErrIndexUnavailable) {
			uc.logger.Warn("Search index unavailable, listing will be indexed on next reindex",
				zap.String("listing_id", listing.ID))
		} else {
			uc.logger.Error("Search index sync failed", zap.String("listing_id", listing.ID), zap.Error(err))
		}
	}
	uc.invalidate(ctx)

	event := domain.NewListingEvent(listing, actorID)
	event.Reason = listing.RejectionReason
	uc.publish(ctx, subject, event)
	uc.deps.Recorder.IncListingMutation(kind)
}

func (uc *ListingUsecase) invalidate(ctx context.Context) {
	if uc.deps.Cache == nil {
		return
	}
	if err := uc.deps.Cache.Invalidate(ctx); err != nil {
		uc.logger.Warn("Cache invalidation failed", zap.Error(err))
	}
}

func (uc *ListingUsecase) publish(ctx context.Context, subject string, event domain.ListingEvent) {
	if uc.deps.Publisher == nil {
		return
	}
	if err := uc.deps.Publisher.Publish(ctx, subject, event); err != nil {
		uc.logger.Warn("Failed to publish listing event", zap.String("subject", subject), zap.Error(err))
	}
}

func (uc *ListingUsecase) notifyOwner(ctx context.Context, listing *domain.Listing, action domain.ModerationAction, reason string) {
	if uc.deps.Mailer == nil || uc.deps.Users == nil {
		return
	}
	email, err := uc.deps.Users.GetEmailByID(ctx, listing.OwnerID)
	if err != nil || email == "" {
		uc.logger.Warn("Owner email unavailable, skipping notification", zap.String("owner_id", listing.OwnerID), zap.Error(err))
		return
	}
	if err := uc.deps.Mailer.SendModerationResult(ctx, email, listing, action, reason); err != nil {
		uc.logger.Warn("Failed to send moderation email", zap.String("listing_id", listing.ID), zap.Error(err))
	}
}

func (uc *ListingUsecase) ownerName(ctx context.Context, actor domain.Actor) string {
	if actor.Name != "" || uc.deps.Users == nil {
		return actor.Name
	}
	name, err := uc.deps.Users.GetNameByID(ctx, actor.UserID)
	if err != nil {
		uc.logger.Debug("Owner name lookup failed", zap.String("user_id", actor.UserID), zap.Error(err))
		return ""
	}
	return name
}

func canModify(actor domain.Actor, listing *domain.Listing) bool {
	return actor.IsAdmin || (actor.UserID != "" && actor.UserID == listing.OwnerID)
}

func applyInput(l *domain.Listing, in ListingInput) {
	if v := strings.TrimSpace(in.Name); v != "" {
		l.Name = v
	}
	if v := strings.TrimSpace(in.Description); v != "" {
		l.Description = v
	}
	if in.Category != "" {
		l.Category = in.Category
	}
	if v := strings.TrimSpace(in.Address); v != "" {
		l.Address = v
	}
	if v := strings.TrimSpace(in.District); v != "" {
		l.District = v
	}
	if v := strings.TrimSpace(in.MapsURL); v != "" {
		l.MapsURL = v
	}
	if in.Location != nil {
		l.Location = in.Location
	}
	if in.OperatingHours != nil {
		l.OperatingHours = *in.OperatingHours
	}
	if in.Contact != nil {
		l.Contact = *in.Contact
	}
	if in.Payments != nil {
		l.Payments = in.Payments
	}
	if in.Photos != nil {
		l.Photos = in.Photos
	}
}
