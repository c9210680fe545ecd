package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

// CostItem is one itemized cost line.
type CostItem struct {
	Name string  `bson:"name" json:"name"`
	Cost float64 `bson:"cost" json:"cost"`
}

// Pricing is the cost breakdown entered by the host.
// Flat category values are optional; when present and non-zero they take
// precedence over the matching itemized list.
//
// Pricing decodes leniently from both JSON and BSON: malformed sub-values
// (a string where a list is expected, a non-numeric cost, ...) are replaced
// by safe defaults and each replacement is recorded in Normalizations.
// BSON keys deliberately match the JSON keys so both paths share one decoder.
type Pricing struct {
	Accommodation       *float64   `bson:"accommodation,omitempty" json:"accommodation,omitempty"`
	Transportation      *float64   `bson:"transportation,omitempty" json:"transportation,omitempty"`
	Activities          *float64   `bson:"activities,omitempty" json:"activities,omitempty"`
	BufferPercentage    float64    `bson:"bufferPercentage" json:"bufferPercentage"`
	YourFee             float64    `bson:"yourFee" json:"yourFee"`
	AccommodationItems  []CostItem `bson:"accommodationItems" json:"accommodationItems"`
	TransportationItems []CostItem `bson:"transportationItems" json:"transportationItems"`
	ActivityItems       []CostItem `bson:"activityItems" json:"activityItems"`

	Normalizations []string `bson:"-" json:"-"`
}

type pricingWire struct {
	Accommodation       json.RawMessage `json:"accommodation"`
	Transportation      json.RawMessage `json:"transportation"`
	Activities          json.RawMessage `json:"activities"`
	BufferPercentage    json.RawMessage `json:"bufferPercentage"`
	YourFee             json.RawMessage `json:"yourFee"`
	AccommodationItems  json.RawMessage `json:"accommodationItems"`
	TransportationItems json.RawMessage `json:"transportationItems"`
	ActivityItems       json.RawMessage `json:"activityItems"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Pricing) UnmarshalJSON(data []byte) error {
	*p = Pricing{}
	kind := jsonKind(data)
	if kind == "null" || kind == "" {
		return nil
	}
	if kind != "object" {
		p.Normalizations = append(p.Normalizations, fmt.Sprintf("pricing: expected object, got %s; using defaults", kind))
		return nil
	}

	var w pricingWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	c := &coercer{}
	p.Accommodation = c.optional("accommodation", w.Accommodation)
	p.Transportation = c.optional("transportation", w.Transportation)
	p.Activities = c.optional("activities", w.Activities)
	p.BufferPercentage, _ = c.number("bufferPercentage", w.BufferPercentage)
	p.YourFee, _ = c.number("yourFee", w.YourFee)
	p.AccommodationItems = c.items("accommodationItems", w.AccommodationItems)
	p.TransportationItems = c.items("transportationItems", w.TransportationItems)
	p.ActivityItems = c.items("activityItems", w.ActivityItems)
	p.Normalizations = c.notes
	return nil
}

// UnmarshalBSON implements bson.Unmarshaler by routing stored documents
// through the same lenient decoder as request bodies.
func (p *Pricing) UnmarshalBSON(data []byte) error {
	ext, err := bson.MarshalExtJSON(bson.Raw(data), false, false)
	if err != nil {
		return fmt.Errorf("pricing: converting stored document: %w", err)
	}
	return p.UnmarshalJSON(ext)
}

type coercer struct {
	notes []string
}

func (c *coercer) notef(format string, args ...interface{}) {
	c.notes = append(c.notes, fmt.Sprintf(format, args...))
}

// number reads a numeric value. Numeric strings are accepted, blank strings
// and null count as absent. Anything else is reported and treated as 0.
func (c *coercer) number(field string, raw json.RawMessage) (float64, bool) {
	switch kind := jsonKind(raw); kind {
	case "", "null":
		return 0, false
	case "number":
		var v float64
		if err := json.Unmarshal(raw, &v); err != nil {
			c.notef("%s: unreadable number %s treated as 0", field, string(raw))
			return 0, false
		}
		return v, true
	case "string":
		var s string
		_ = json.Unmarshal(raw, &s)
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, false
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			c.notef("%s: non-numeric value %q treated as 0", field, s)
			return 0, false
		}
		return v, true
	default:
		c.notef("%s: expected number, got %s; treated as 0", field, kind)
		return 0, false
	}
}

func (c *coercer) optional(field string, raw json.RawMessage) *float64 {
	v, ok := c.number(field, raw)
	if !ok {
		return nil
	}
	return &v
}

func (c *coercer) items(field string, raw json.RawMessage) []CostItem {
	switch kind := jsonKind(raw); kind {
	case "", "null":
		return nil
	case "array":
	default:
		c.notef("%s: expected list, got %s; treated as empty", field, kind)
		return nil
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		c.notef("%s: unreadable list; treated as empty", field)
		return nil
	}
	items := make([]CostItem, 0, len(elems))
	for i, elem := range elems {
		if k := jsonKind(elem); k != "object" {
			c.notef("%s[%d]: expected object, got %s; dropped", field, i, k)
			continue
		}
		var e struct {
			Name json.RawMessage `json:"name"`
			Cost json.RawMessage `json:"cost"`
		}
		if err := json.Unmarshal(elem, &e); err != nil {
			c.notef("%s[%d]: unreadable item; dropped", field, i)
			continue
		}
		var item CostItem
		if k := jsonKind(e.Name); k == "string" {
			_ = json.Unmarshal(e.Name, &item.Name)
		} else if k != "" && k != "null" {
			item.Name = strings.Trim(string(e.Name), `"`)
		}
		item.Cost, _ = c.number(fmt.Sprintf("%s[%d].cost", field, i), e.Cost)
		items = append(items, item)
	}
	return items
}

// jsonKind classifies a raw JSON value by its first significant byte.
func jsonKind(raw []byte) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	switch raw[0] {
	case '{':
		return "object"
	case '[':
		return "array"
	case '"':
		return "string"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	default:
		return "number"
	}
}
