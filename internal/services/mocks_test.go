package services

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/Priyanka03s/travel-sid-sub002/internal/models"
)

// MockListingCache implements IListingCache
type MockListingCache struct {
	mock.Mock
}

func (m *MockListingCache) Get(ctx context.Context, id string) (*models.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Listing), args.Error(1)
}

func (m *MockListingCache) Set(ctx context.Context, l *models.Listing) error {
	return m.Called(ctx, l).Error(0)
}

func (m *MockListingCache) Invalidate(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// MockTaskEnqueuer implements ITaskEnqueuer
type MockTaskEnqueuer struct {
	mock.Mock
}

func (m *MockTaskEnqueuer) EnqueueListingPublished(ctx context.Context, listingID string) error {
	return m.Called(ctx, listingID).Error(0)
}

func (m *MockTaskEnqueuer) EnqueueEarlyBirdClose(ctx context.Context, listingID string, at time.Time) error {
	return m.Called(ctx, listingID, at).Error(0)
}

func (m *MockTaskEnqueuer) EnqueueImageProcess(ctx context.Context, listingID, imageKey string) error {
	return m.Called(ctx, listingID, imageKey).Error(0)
}
