package db

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func duplicateIDError(id primitive.ObjectID) error {
	return mongo.WriteException{WriteErrors: []mongo.WriteError{{
		Code:    11000,
		Message: fmt.Sprintf("E11000 duplicate key error collection: test.listings index: _id_ dup key: { _id: ObjectId('%s') }", id.Hex()),
	}}}
}

func TestInsertWithFreshID_FirstAttempt(t *testing.T) {
	var calls int
	err := InsertWithFreshID(context.Background(), 3, func(context.Context) error {
		calls++
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestInsertWithFreshID_OtherErrorStops(t *testing.T) {
	var calls int
	boom := errors.New("connection reset")
	err := InsertWithFreshID(context.Background(), 3, func(context.Context) error {
		calls++
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestInsertWithFreshID_GivesUp(t *testing.T) {
	var calls int
	id := primitive.NewObjectID()
	err := InsertWithFreshID(context.Background(), 3, func(context.Context) error {
		calls++
		return duplicateIDError(id)
	})

	require.Error(t, err)
	assert.True(t, mongo.IsDuplicateKeyError(err))
	assert.Equal(t, 3, calls)
}

func TestInsertWithFreshID_CollisionResolves(t *testing.T) {
	taken := primitive.NewObjectID()
	free := primitive.NewObjectID()
	next := []primitive.ObjectID{taken, taken, free}
	inserted := map[primitive.ObjectID]bool{taken: true}

	var calls int
	err := InsertWithFreshID(context.Background(), DefaultInsertAttempts, func(context.Context) error {
		id := next[calls]
		calls++
		if inserted[id] {
			return duplicateIDError(id)
		}
		inserted[id] = true
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.True(t, inserted[free])
}

func TestInsertWithFreshID_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls int
	err := InsertWithFreshID(ctx, DefaultInsertAttempts, func(context.Context) error {
		calls++
		cancel()
		return duplicateIDError(primitive.NewObjectID())
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
