package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Priyanka03s/travel-sid-sub002/internal/db"
	"github.com/Priyanka03s/travel-sid-sub002/internal/models"
)

// IFieldConfigService serves the per-kind wizard form configuration.
// It only shapes the UI; pricing and the publish gate never consult it.
type IFieldConfigService interface {
	Load(ctx context.Context) error
	SubscribeToChanges(ctx context.Context) error
	GetFieldConfig(ctx context.Context, kind models.ListingKind) (*models.FieldConfig, error)
	SetFieldConfig(ctx context.Context, kind models.ListingKind, fields map[string]models.FieldSetting) (*models.FieldConfig, error)
}

const fieldConfigUpdateChannel = "field_config_updates"

// fieldConfigService implements IFieldConfigService.
type fieldConfigService struct {
	db    *mongo.Database
	rdb   *redis.Client
	cache map[models.ListingKind]*models.FieldConfig
	mutex sync.RWMutex
}

// NewFieldConfigService loads the stored configs and starts listening for
// updates published by other instances.
func NewFieldConfigService(database *mongo.Database, rdb *redis.Client) IFieldConfigService {
	s := &fieldConfigService{
		db:    database,
		rdb:   rdb,
		cache: make(map[models.ListingKind]*models.FieldConfig),
	}
	if err := s.Load(context.Background()); err != nil {
		log.Printf("WARNING: Failed to load field configs from DB: %v. Using built-in defaults", err)
	}
	go func() {
		if err := s.SubscribeToChanges(context.Background()); err != nil {
			log.Printf("ERROR: Field config Pub/Sub listener stopped: %v", err)
		}
	}()
	return s
}

// DefaultFieldConfig is served for kinds without a stored configuration.
func DefaultFieldConfig(kind models.ListingKind) *models.FieldConfig {
	place := "location"
	if kind == models.KindTrip {
		place = "destination"
	}
	names := []string{"title", "description", place, "category", "startDate", "endDate",
		"itinerary", "accommodation", "pricing", "basePrice", "earlyBooking", "paymentType",
		"minParticipants", "maxParticipants", "logistics", "images"}
	required := map[string]bool{"title": true, "description": true, place: true, "category": true, "startDate": true}

	fields := make(map[string]models.FieldSetting, len(names))
	for i, name := range names {
		fields[name] = models.FieldSetting{Enabled: true, Required: required[name], Order: i}
	}
	if kind != models.KindTrip {
		fields["itinerary"] = models.FieldSetting{Enabled: false, Order: fields["itinerary"].Order}
	}
	return &models.FieldConfig{Kind: kind, Fields: fields}
}

// Load fetches all field configs from DB and replaces the in-memory cache.
func (s *fieldConfigService) Load(ctx context.Context) error {
	cursor, err := s.db.Collection(db.FieldConfigsCollection).Find(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("failed to query field configs: %w", err)
	}
	defer cursor.Close(ctx)

	newCache := make(map[models.ListingKind]*models.FieldConfig)
	for cursor.Next(ctx) {
		var fc models.FieldConfig
		if err := cursor.Decode(&fc); err != nil {
			log.Printf("WARN: Failed to decode field config during load: %v", err)
			continue
		}
		newCache[fc.Kind] = &fc
	}
	if err := cursor.Err(); err != nil {
		return fmt.Errorf("error iterating field config cursor: %w", err)
	}

	s.mutex.Lock()
	s.cache = newCache
	s.mutex.Unlock()
	log.Printf("Loaded %d field configs into cache from DB.", len(newCache))
	return nil
}

// GetFieldConfig returns the cached config for kind, or the defaults.
func (s *fieldConfigService) GetFieldConfig(ctx context.Context, kind models.ListingKind) (*models.FieldConfig, error) {
	if !kind.Valid() {
		return nil, &ValidationError{Problems: []string{fmt.Sprintf("unknown listing kind %q", kind)}}
	}
	s.mutex.RLock()
	fc, exists := s.cache[kind]
	s.mutex.RUnlock()
	if exists {
		return fc, nil
	}
	return DefaultFieldConfig(kind), nil
}

// SetFieldConfig upserts the config for kind and notifies other instances.
func (s *fieldConfigService) SetFieldConfig(ctx context.Context, kind models.ListingKind, fields map[string]models.FieldSetting) (*models.FieldConfig, error) {
	if !kind.Valid() {
		return nil, &ValidationError{Problems: []string{fmt.Sprintf("unknown listing kind %q", kind)}}
	}
	fc := &models.FieldConfig{Kind: kind, Fields: fields, UpdatedAt: time.Now().UTC()}

	filter := bson.M{"kind": kind}
	update := bson.M{"$set": bson.M{"kind": kind, "fields": fields, "updated_at": fc.UpdatedAt}}
	opts := options.Update().SetUpsert(true)
	if _, err := s.db.Collection(db.FieldConfigsCollection).UpdateOne(ctx, filter, update, opts); err != nil {
		return nil, fmt.Errorf("failed to upsert field config for %s: %w", kind, err)
	}

	s.mutex.Lock()
	s.cache[kind] = fc
	s.mutex.Unlock()

	if s.rdb != nil {
		if err := s.rdb.Publish(ctx, fieldConfigUpdateChannel, string(kind)).Err(); err != nil {
			log.Printf("WARN: Failed to publish field config update for %s: %v", kind, err)
		}
	}
	log.Printf("Updated field config for %s and published notification.", kind)
	return fc, nil
}

// SubscribeToChanges reloads the cache whenever an update is published.
func (s *fieldConfigService) SubscribeToChanges(ctx context.Context) error {
	if s.rdb == nil {
		log.Println("Redis client not configured, cannot subscribe to field config changes.")
		return nil
	}

	pubsub := s.rdb.Subscribe(ctx, fieldConfigUpdateChannel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to receive confirmation from Redis Pub/Sub subscription: %w", err)
	}

	log.Println("Subscribed to Redis channel for field config updates:", fieldConfigUpdateChannel)
	for msg := range pubsub.Channel() {
		log.Printf("Received field config update for %s", msg.Payload)
		if err := s.Load(context.Background()); err != nil {
			log.Printf("ERROR reloading field configs after notification: %v", err)
		}
	}

	log.Println("Field config Pub/Sub listener stopped.")
	return nil
}
