package handlers_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Priyanka03s/travel-sid-sub002/internal/models"
	"github.com/Priyanka03s/travel-sid-sub002/internal/publish"
	"github.com/Priyanka03s/travel-sid-sub002/internal/services"
)

// --- Mocks ---

// MockListingService implements services.IListingService
type MockListingService struct {
	mock.Mock
}

func listingOrNil(args mock.Arguments) *models.Listing {
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*models.Listing)
}

func stringsOrNil(v interface{}) []string {
	if v == nil {
		return nil
	}
	return v.([]string)
}

func (m *MockListingService) CreateListing(ctx context.Context, hostID string, kind models.ListingKind, draft *models.Listing) (*models.Listing, []string, error) {
	args := m.Called(ctx, hostID, kind, draft)
	return listingOrNil(args), stringsOrNil(args.Get(1)), args.Error(2)
}

func (m *MockListingService) FindListingByID(ctx context.Context, listingID string) (*models.Listing, error) {
	args := m.Called(ctx, listingID)
	return listingOrNil(args), args.Error(1)
}

func (m *MockListingService) FindPublishedListing(ctx context.Context, listingID string) (*models.Listing, error) {
	args := m.Called(ctx, listingID)
	return listingOrNil(args), args.Error(1)
}

func (m *MockListingService) FindHostListing(ctx context.Context, listingID, hostID string) (*models.Listing, error) {
	args := m.Called(ctx, listingID, hostID)
	return listingOrNil(args), args.Error(1)
}

func (m *MockListingService) UpdateListing(ctx context.Context, listingID, hostID string, draft *models.Listing) (*models.Listing, []string, error) {
	args := m.Called(ctx, listingID, hostID, draft)
	return listingOrNil(args), stringsOrNil(args.Get(1)), args.Error(2)
}

func (m *MockListingService) PublishListing(ctx context.Context, listingID, hostID string) (*models.Listing, publish.Result, error) {
	args := m.Called(ctx, listingID, hostID)
	return listingOrNil(args), args.Get(1).(publish.Result), args.Error(2)
}

func (m *MockListingService) CancelListing(ctx context.Context, listingID, hostID string) (*models.Listing, error) {
	args := m.Called(ctx, listingID, hostID)
	return listingOrNil(args), args.Error(1)
}

func (m *MockListingService) ListHostListings(ctx context.Context, hostID string, kind models.ListingKind) ([]models.Listing, error) {
	args := m.Called(ctx, hostID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Listing), args.Error(1)
}

func (m *MockListingService) SearchPublished(ctx context.Context, params services.SearchParams) ([]models.Listing, string, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]models.Listing), args.String(1), args.Error(2)
}

func (m *MockListingService) RefreshQuote(ctx context.Context, listingID string) (*models.Listing, error) {
	args := m.Called(ctx, listingID)
	return listingOrNil(args), args.Error(1)
}

func (m *MockListingService) ConfirmImage(ctx context.Context, listingID, hostID, imageKey string) error {
	return m.Called(ctx, listingID, hostID, imageKey).Error(0)
}

func (m *MockListingService) AddImage(ctx context.Context, listingID, imageKey string) error {
	return m.Called(ctx, listingID, imageKey).Error(0)
}

// MockS3Storage implements storage.IS3Storage
type MockS3Storage struct {
	mock.Mock
}

func (m *MockS3Storage) GeneratePresignedPutURL(ctx context.Context, hostID, listingID, filename, contentType string) (string, string, error) {
	args := m.Called(ctx, hostID, listingID, filename, contentType)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockS3Storage) GetObject(ctx context.Context, key string) ([]byte, string, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]byte), args.String(1), args.Error(2)
}

func (m *MockS3Storage) PutObject(ctx context.Context, key string, data []byte, contentType string) error {
	return m.Called(ctx, key, data, contentType).Error(0)
}

func (m *MockS3Storage) PublicURL(key string) string {
	return m.Called(key).String(0)
}

// MockFieldConfigService implements services.IFieldConfigService
type MockFieldConfigService struct {
	mock.Mock
}

func (m *MockFieldConfigService) Load(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockFieldConfigService) SubscribeToChanges(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockFieldConfigService) GetFieldConfig(ctx context.Context, kind models.ListingKind) (*models.FieldConfig, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FieldConfig), args.Error(1)
}

func (m *MockFieldConfigService) SetFieldConfig(ctx context.Context, kind models.ListingKind, fields map[string]models.FieldSetting) (*models.FieldConfig, error) {
	args := m.Called(ctx, kind, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FieldConfig), args.Error(1)
}
