package models

// TierName identifies one of the four fixed accommodation tiers.
type TierName string

const (
	TierShared   TierName = "shared"
	TierPrivate  TierName = "private"
	TierCamping  TierName = "camping"
	TierGlamping TierName = "glamping"
)

// TierNames lists the tiers in display order.
var TierNames = []TierName{TierShared, TierPrivate, TierCamping, TierGlamping}

// Valid reports whether n names a known tier.
func (n TierName) Valid() bool {
	for _, t := range TierNames {
		if t == n {
			return true
		}
	}
	return false
}

// TierDay prices one additional night after day 1.
type TierDay struct {
	Day   int     `bson:"day" json:"day"`
	Name  string  `bson:"name" json:"name"`
	Price float64 `bson:"price" json:"price"`
}

// Tier is one accommodation option. TierPrice covers day 1.
type Tier struct {
	TierPrice float64   `bson:"tier_price" json:"tierPrice"`
	TierName  string    `bson:"tier_name" json:"tierName"`
	TierImage string    `bson:"tier_image" json:"tierImage"`
	TierDays  []TierDay `bson:"tier_days" json:"tierDays"`
}

// AccommodationTiers holds the four tiers of a trip.
type AccommodationTiers struct {
	Shared   Tier `bson:"shared" json:"shared"`
	Private  Tier `bson:"private" json:"private"`
	Camping  Tier `bson:"camping" json:"camping"`
	Glamping Tier `bson:"glamping" json:"glamping"`
}

// Tier returns the tier with the given name.
func (a *AccommodationTiers) Tier(name TierName) (Tier, bool) {
	if a == nil {
		return Tier{}, false
	}
	switch name {
	case TierShared:
		return a.Shared, true
	case TierPrivate:
		return a.Private, true
	case TierCamping:
		return a.Camping, true
	case TierGlamping:
		return a.Glamping, true
	}
	return Tier{}, false
}
