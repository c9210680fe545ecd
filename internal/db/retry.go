package db

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

// DefaultInsertAttempts bounds InsertWithFreshID in the listing store.
const DefaultInsertAttempts = 4

const insertBackoff = 50 * time.Millisecond

// InsertWithFreshID runs insert until it no longer hits a duplicate key, at
// most attempts times. insert must assign a new document ID on every call.
// Any other error, or a cancelled ctx, ends the loop.
func InsertWithFreshID(ctx context.Context, attempts int, insert func(ctx context.Context) error) error {
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = insert(ctx); err == nil || !mongo.IsDuplicateKeyError(err) {
			return err
		}
		if attempt == attempts {
			break
		}
		log.Printf("WARN: duplicate key on insert attempt %d, retrying with a new ID", attempt)

		timer := time.NewTimer(time.Duration(attempt) * insertBackoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return err
}
