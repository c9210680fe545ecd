package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Priyanka03s/travel-sid-sub002/internal/config"
	"github.com/Priyanka03s/travel-sid-sub002/internal/db"
	"github.com/Priyanka03s/travel-sid-sub002/internal/models"
	"github.com/Priyanka03s/travel-sid-sub002/internal/pricing"
	"github.com/Priyanka03s/travel-sid-sub002/internal/publish"
	"github.com/Priyanka03s/travel-sid-sub002/internal/storage"
)

// IListingService defines the interface for listing-related operations.
type IListingService interface {
	CreateListing(ctx context.Context, hostID string, kind models.ListingKind, draft *models.Listing) (*models.Listing, []string, error)
	FindListingByID(ctx context.Context, listingID string) (*models.Listing, error)
	FindPublishedListing(ctx context.Context, listingID string) (*models.Listing, error)
	FindHostListing(ctx context.Context, listingID, hostID string) (*models.Listing, error)
	UpdateListing(ctx context.Context, listingID, hostID string, draft *models.Listing) (*models.Listing, []string, error)
	PublishListing(ctx context.Context, listingID, hostID string) (*models.Listing, publish.Result, error)
	CancelListing(ctx context.Context, listingID, hostID string) (*models.Listing, error)
	ListHostListings(ctx context.Context, hostID string, kind models.ListingKind) ([]models.Listing, error)
	SearchPublished(ctx context.Context, params SearchParams) ([]models.Listing, string, error)
	RefreshQuote(ctx context.Context, listingID string) (*models.Listing, error)
	ConfirmImage(ctx context.Context, listingID, hostID, imageKey string) error
	AddImage(ctx context.Context, listingID, imageKey string) error
}

// IListingCache is the read-through cache for published listings.
type IListingCache interface {
	Get(ctx context.Context, id string) (*models.Listing, error)
	Set(ctx context.Context, l *models.Listing) error
	Invalidate(ctx context.Context, id string) error
}

// ITaskEnqueuer schedules background work triggered by listing changes.
type ITaskEnqueuer interface {
	EnqueueListingPublished(ctx context.Context, listingID string) error
	EnqueueEarlyBirdClose(ctx context.Context, listingID string, at time.Time) error
	EnqueueImageProcess(ctx context.Context, listingID, imageKey string) error
}

const defaultSearchLimit = 20

// SearchParams filters the public listing search.
type SearchParams struct {
	Kind        models.ListingKind
	Destination string
	Category    string
	Limit       int
	Cursor      string
}

// listingService implements IListingService.
type listingService struct {
	db    *mongo.Database
	cfg   *config.Config
	cache IListingCache
	tasks ITaskEnqueuer
	now   func() time.Time
}

// NewListingService creates a new ListingService. cache and tasks may be nil.
func NewListingService(db *mongo.Database, cfg *config.Config, cache IListingCache, tasks ITaskEnqueuer) IListingService {
	return &listingService{
		db:    db,
		cfg:   cfg,
		cache: cache,
		tasks: tasks,
		now:   func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

func (s *listingService) collection() *mongo.Collection {
	return s.db.Collection(db.ListingsCollection)
}

func parseListingID(listingID string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(listingID)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: invalid id %q", ErrListingNotFound, listingID)
	}
	return id, nil
}

// checkInput runs entry validation and logs any lenient-decode normalizations.
// The normalizations are returned as warnings for the caller to display.
func checkInput(l *models.Listing) ([]string, error) {
	if problems := pricing.ValidateListingInput(l); len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}
	for _, note := range l.Pricing.Normalizations {
		log.Printf("WARN: listing %s pricing normalized: %s", l.ID.Hex(), note)
	}
	return l.Pricing.Normalizations, nil
}

// applyDraft copies the host-editable sections of draft onto l.
func applyDraft(l, draft *models.Listing) {
	l.Title = strings.TrimSpace(draft.Title)
	l.Description = draft.Description
	l.Category = strings.TrimSpace(draft.Category)
	l.Destination = strings.TrimSpace(draft.Destination)
	l.Location = strings.TrimSpace(draft.Location)
	l.StartDate = draft.StartDate
	l.EndDate = draft.EndDate
	l.Itinerary = draft.Itinerary
	l.Accommodation = draft.Accommodation
	l.Pricing = draft.Pricing
	l.BasePrice = draft.BasePrice
	l.EarlyBooking = draft.EarlyBooking
	l.PaymentType = draft.PaymentType
	l.InitialPaymentPercentage = draft.InitialPaymentPercentage
	l.FullPaymentDeadline = draft.FullPaymentDeadline
	l.PartialPaymentDeadline = draft.PartialPaymentDeadline
	l.BookingDeadline = draft.BookingDeadline
	l.AdditionalPayments = draft.AdditionalPayments
	l.MinParticipants = draft.MinParticipants
	l.MaxParticipants = draft.MaxParticipants
	l.Logistics = draft.Logistics
	l.AdditionalFields = draft.AdditionalFields
	if l.PaymentType == "" {
		l.PaymentType = models.PaymentFull
	}
}

func editableFields(l *models.Listing) bson.M {
	return bson.M{
		"title":                      l.Title,
		"description":                l.Description,
		"category":                   l.Category,
		"destination":                l.Destination,
		"location":                   l.Location,
		"start_date":                 l.StartDate,
		"end_date":                   l.EndDate,
		"itinerary":                  l.Itinerary,
		"accommodation":              l.Accommodation,
		"pricing":                    l.Pricing,
		"base_price":                 l.BasePrice,
		"early_booking":              l.EarlyBooking,
		"payment_type":               l.PaymentType,
		"initial_payment_percentage": l.InitialPaymentPercentage,
		"full_payment_deadline":      l.FullPaymentDeadline,
		"partial_payment_deadline":   l.PartialPaymentDeadline,
		"booking_deadline":           l.BookingDeadline,
		"additional_payments":        l.AdditionalPayments,
		"min_participants":           l.MinParticipants,
		"max_participants":           l.MaxParticipants,
		"logistics":                  l.Logistics,
		"additional_fields":          l.AdditionalFields,
		"updated_at":                 l.UpdatedAt,
	}
}

// CreateListing validates the draft and stores it as a new draft listing.
func (s *listingService) CreateListing(ctx context.Context, hostID string, kind models.ListingKind, draft *models.Listing) (*models.Listing, []string, error) {
	if !kind.Valid() {
		return nil, nil, &ValidationError{Problems: []string{fmt.Sprintf("unknown listing kind %q", kind)}}
	}
	now := s.now()
	newListing := &models.Listing{
		Kind:      kind,
		HostID:    hostID,
		Images:    []string{},
		Status:    models.StatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyDraft(newListing, draft)

	warnings, err := checkInput(newListing)
	if err != nil {
		return nil, nil, err
	}

	insert := func(ctx context.Context) error {
		newListing.ID = primitive.NewObjectID()
		_, insertErr := s.collection().InsertOne(ctx, newListing)
		return insertErr
	}
	if err := db.InsertWithFreshID(ctx, db.DefaultInsertAttempts, insert); err != nil {
		return nil, nil, fmt.Errorf("failed to insert new %s for host %s (last attempted ID: %s): %w",
			kind, hostID, newListing.ID.Hex(), err)
	}

	log.Printf("Created %s %s for host %s", kind, newListing.ID.Hex(), hostID)
	return newListing, warnings, nil
}

// FindListingByID finds a listing in any state. It does NOT check ownership.
func (s *listingService) FindListingByID(ctx context.Context, listingID string) (*models.Listing, error) {
	id, err := parseListingID(listingID)
	if err != nil {
		return nil, err
	}
	var listing models.Listing
	err = s.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&listing)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("error finding listing by ID %s: %w", listingID, err)
	}
	return &listing, nil
}

// FindPublishedListing returns a published listing, reading through the cache.
func (s *listingService) FindPublishedListing(ctx context.Context, listingID string) (*models.Listing, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, listingID)
		if err != nil {
			log.Printf("WARN: %v", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	listing, err := s.FindListingByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.Status != models.StatusPublished {
		return nil, ErrListingNotFound
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, listing); err != nil {
			log.Printf("WARN: %v", err)
		}
	}
	return listing, nil
}

// FindHostListing returns a listing in any state if hostID owns it.
func (s *listingService) FindHostListing(ctx context.Context, listingID, hostID string) (*models.Listing, error) {
	listing, err := s.FindListingByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.HostID != hostID {
		return nil, ErrNotOwner
	}
	return listing, nil
}

// UpdateListing replaces the editable sections of a listing owned by hostID.
// A published listing stays published only if the edit still passes the
// publish gate; its stored quote is recomputed. Concurrent edits are
// last-write-wins.
func (s *listingService) UpdateListing(ctx context.Context, listingID, hostID string, draft *models.Listing) (*models.Listing, []string, error) {
	listing, err := s.FindHostListing(ctx, listingID, hostID)
	if err != nil {
		return nil, nil, err
	}
	if listing.Status == models.StatusCancelled {
		return nil, nil, ErrListingCancelled
	}

	now := s.now()
	applyDraft(listing, draft)
	listing.UpdatedAt = now

	warnings, err := checkInput(listing)
	if err != nil {
		return nil, nil, err
	}

	set := editableFields(listing)
	if listing.Status == models.StatusPublished {
		res := publish.CanPublish(listing, now)
		if !res.Ready {
			return nil, nil, &NotReadyError{Result: res}
		}
		req := pricing.PaymentRequirementFor(listing.PaymentType, listing.InitialPaymentPercentage)
		listing.Quote = &res.Quote
		listing.PaymentRequirement = &req
		set["quote"] = listing.Quote
		set["payment_requirement"] = listing.PaymentRequirement
	}

	filter := bson.M{
		"_id":     listing.ID,
		"host_id": hostID,
		"status":  bson.M{"$ne": models.StatusCancelled},
	}
	result, err := s.collection().UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to update listing %s: %w", listingID, err)
	}
	if result.MatchedCount == 0 {
		// Cancelled between the read and the write.
		return nil, nil, ErrListingCancelled
	}

	s.invalidate(ctx, listingID)
	if listing.Status == models.StatusPublished {
		s.scheduleEarlyBirdClose(ctx, listingID, listing)
	}
	return listing, warnings, nil
}

// PublishListing runs the publish gate and flips a draft to published.
// The write is conditional on the listing still being a draft, so of two
// concurrent publishes exactly one succeeds.
func (s *listingService) PublishListing(ctx context.Context, listingID, hostID string) (*models.Listing, publish.Result, error) {
	listing, err := s.FindHostListing(ctx, listingID, hostID)
	if err != nil {
		return nil, publish.Result{}, err
	}
	switch listing.Status {
	case models.StatusPublished:
		return nil, publish.Result{}, ErrAlreadyPublished
	case models.StatusCancelled:
		return nil, publish.Result{}, ErrListingCancelled
	}

	now := s.now()
	res, err := publish.Publish(listing, now)
	if err != nil {
		if errors.Is(err, publish.ErrNotReady) {
			return nil, res, &NotReadyError{Result: res}
		}
		return nil, res, ErrAlreadyPublished
	}

	update := bson.M{"$set": bson.M{
		"status":              listing.Status,
		"published_date":      listing.PublishedDate,
		"quote":               listing.Quote,
		"payment_requirement": listing.PaymentRequirement,
		"updated_at":          listing.UpdatedAt,
	}}
	filter := bson.M{
		"_id":     listing.ID,
		"host_id": hostID,
		"status":  models.StatusDraft,
	}
	result, err := s.collection().UpdateOne(ctx, filter, update)
	if err != nil {
		return nil, res, fmt.Errorf("db error publishing listing %s: %w", listingID, err)
	}
	if result.MatchedCount == 0 {
		return nil, res, ErrAlreadyPublished
	}

	for _, w := range res.Warnings {
		log.Printf("WARN: listing %s published with warning: %s", listingID, w)
	}
	log.Printf("Published %s %s at final price %.2f", listing.Kind, listingID, listing.Quote.FinalPrice)

	s.invalidate(ctx, listingID)
	if s.tasks != nil {
		if err := s.tasks.EnqueueListingPublished(ctx, listingID); err != nil {
			log.Printf("WARN: failed to enqueue publish task for listing %s: %v", listingID, err)
		}
	}
	s.scheduleEarlyBirdClose(ctx, listingID, listing)
	return listing, res, nil
}

// scheduleEarlyBirdClose queues a quote refresh for the end of an open
// early-bird window. Repeats for the same end date are dropped by the queue.
func (s *listingService) scheduleEarlyBirdClose(ctx context.Context, listingID string, l *models.Listing) {
	if s.tasks == nil || l.Quote == nil || !l.Quote.EarlyBirdApplicable || l.EarlyBooking.EarlyBookingEndDate == nil {
		return
	}
	if err := s.tasks.EnqueueEarlyBirdClose(ctx, listingID, *l.EarlyBooking.EarlyBookingEndDate); err != nil {
		log.Printf("WARN: failed to schedule early-bird close for listing %s: %v", listingID, err)
	}
}

// CancelListing marks a listing cancelled. Drafts and published listings
// can both be cancelled; cancellation is final.
func (s *listingService) CancelListing(ctx context.Context, listingID, hostID string) (*models.Listing, error) {
	id, err := parseListingID(listingID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	filter := bson.M{
		"_id":     id,
		"host_id": hostID,
		"status":  bson.M{"$ne": models.StatusCancelled},
	}
	update := bson.M{"$set": bson.M{
		"status":       models.StatusCancelled,
		"cancelled_at": now,
		"updated_at":   now,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Listing
	err = s.collection().FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("failed to cancel listing %s: %w", listingID, err)
		}
		// Work out why it did not match.
		existing, findErr := s.FindHostListing(ctx, listingID, hostID)
		if findErr != nil {
			return nil, findErr
		}
		if existing.Status == models.StatusCancelled {
			return nil, ErrListingCancelled
		}
		return nil, fmt.Errorf("listing %s cannot be cancelled (condition not met)", listingID)
	}

	s.invalidate(ctx, listingID)
	log.Printf("Cancelled %s %s", updated.Kind, listingID)
	return &updated, nil
}

// ListHostListings returns all listings of a host, newest first. An empty
// kind returns every kind.
func (s *listingService) ListHostListings(ctx context.Context, hostID string, kind models.ListingKind) ([]models.Listing, error) {
	filter := bson.M{"host_id": hostID}
	if kind != "" {
		filter["kind"] = kind
	}
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})

	cursor, err := s.collection().Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list listings for host %s: %w", hostID, err)
	}
	defer cursor.Close(ctx)

	listings := []models.Listing{}
	if err := cursor.All(ctx, &listings); err != nil {
		return nil, fmt.Errorf("failed to decode listings for host %s: %w", hostID, err)
	}
	return listings, nil
}

func encodeCursor(l models.Listing) string {
	if l.PublishedDate == nil {
		return ""
	}
	return fmt.Sprintf("%d_%s", l.PublishedDate.UnixMilli(), l.ID.Hex())
}

func decodeCursor(cursor string) (time.Time, primitive.ObjectID, bool) {
	parts := strings.Split(cursor, "_")
	if len(parts) != 2 {
		return time.Time{}, primitive.NilObjectID, false
	}
	ms, tsErr := strconv.ParseInt(parts[0], 10, 64)
	lastID, idErr := primitive.ObjectIDFromHex(parts[1])
	if tsErr != nil || idErr != nil {
		return time.Time{}, primitive.NilObjectID, false
	}
	return time.UnixMilli(ms).UTC(), lastID, true
}

// SearchPublished pages through published listings, newest first.
// The returned cursor is empty on the last page.
func (s *listingService) SearchPublished(ctx context.Context, params SearchParams) ([]models.Listing, string, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if s.cfg != nil && s.cfg.SearchMaxLimit > 0 && limit > s.cfg.SearchMaxLimit {
		limit = s.cfg.SearchMaxLimit
	}

	filter := bson.M{"status": models.StatusPublished}
	if params.Kind != "" {
		filter["kind"] = params.Kind
	}
	if params.Destination != "" {
		filter["destination"] = params.Destination
	}
	if params.Category != "" {
		filter["category"] = params.Category
	}

	if params.Cursor != "" {
		if cursorTime, lastID, ok := decodeCursor(params.Cursor); ok {
			filter["$or"] = bson.A{
				bson.M{"published_date": cursorTime, "_id": bson.M{"$lt": lastID}},
				bson.M{"published_date": bson.M{"$lt": cursorTime}},
			}
		} else {
			log.Printf("WARN: Invalid cursor format received: %s", params.Cursor)
		}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "published_date", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit + 1))

	cursor, err := s.collection().Find(ctx, filter, opts)
	if err != nil {
		return nil, "", fmt.Errorf("failed to execute listing search query: %w", err)
	}
	defer cursor.Close(ctx)

	results := []models.Listing{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, "", fmt.Errorf("failed to decode listing search results: %w", err)
	}

	nextCursor := ""
	if len(results) > limit {
		results = results[:limit]
		nextCursor = encodeCursor(results[limit-1])
	}
	return results, nextCursor, nil
}

// RefreshQuote recomputes the stored quote of a published listing, e.g.
// once its early-bird window has closed. Other states are returned as is.
func (s *listingService) RefreshQuote(ctx context.Context, listingID string) (*models.Listing, error) {
	listing, err := s.FindListingByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.Status != models.StatusPublished {
		return listing, nil
	}

	now := s.now()
	quote := pricing.Quote(pricing.QuoteInputFor(listing), pricing.AllTiers, now)
	update := bson.M{"$set": bson.M{"quote": quote, "updated_at": now}}
	filter := bson.M{"_id": listing.ID, "status": models.StatusPublished}
	if _, err := s.collection().UpdateOne(ctx, filter, update); err != nil {
		return nil, fmt.Errorf("failed to refresh quote of listing %s: %w", listingID, err)
	}
	listing.Quote = &quote
	listing.UpdatedAt = now

	s.invalidate(ctx, listingID)
	log.Printf("Refreshed quote of listing %s: final price %.2f", listingID, quote.FinalPrice)
	return listing, nil
}

// ConfirmImage checks that an uploaded key belongs to the host's listing
// and queues it for processing. The key is attached once processed.
func (s *listingService) ConfirmImage(ctx context.Context, listingID, hostID, imageKey string) error {
	listing, err := s.FindHostListing(ctx, listingID, hostID)
	if err != nil {
		return err
	}
	if listing.Status == models.StatusCancelled {
		return ErrListingCancelled
	}
	if !strings.HasPrefix(imageKey, storage.ListingPrefix(hostID, listingID)) || strings.Contains(imageKey, "..") {
		return &ValidationError{Problems: []string{"image key does not belong to this listing"}}
	}
	if s.tasks == nil {
		return s.AddImage(ctx, listingID, imageKey)
	}
	if err := s.tasks.EnqueueImageProcess(ctx, listingID, imageKey); err != nil {
		return fmt.Errorf("failed to enqueue image processing for listing %s: %w", listingID, err)
	}
	return nil
}

// AddImage adds a processed image key to a listing's image array.
func (s *listingService) AddImage(ctx context.Context, listingID, imageKey string) error {
	id, err := parseListingID(listingID)
	if err != nil {
		return err
	}
	update := bson.M{
		"$addToSet": bson.M{"images": imageKey},
		"$set":      bson.M{"updated_at": s.now()},
	}
	result, err := s.collection().UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("db error adding image %s to listing %s: %w", imageKey, listingID, err)
	}
	if result.MatchedCount == 0 {
		return ErrListingNotFound
	}
	if result.ModifiedCount == 0 {
		log.Printf("Image key %s already attached to listing %s", imageKey, listingID)
	}
	s.invalidate(ctx, listingID)
	return nil
}

func (s *listingService) invalidate(ctx context.Context, listingID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, listingID); err != nil {
		log.Printf("WARN: %v", err)
	}
}
