package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FieldSetting controls how the listing wizard renders one form field.
type FieldSetting struct {
	Enabled  bool `bson:"enabled" json:"enabled"`
	Required bool `bson:"required" json:"required"`
	Order    int  `bson:"order" json:"order" validate:"gte=0"`
}

// FieldConfig is the per-kind form configuration consumed by the UI.
// Stored in the `field_configs` collection, one document per kind.
type FieldConfig struct {
	ID        primitive.ObjectID      `bson:"_id,omitempty" json:"-"`
	Kind      ListingKind             `bson:"kind" json:"kind"`
	Fields    map[string]FieldSetting `bson:"fields" json:"fields"`
	UpdatedAt time.Time               `bson:"updated_at" json:"updatedAt"`
}
