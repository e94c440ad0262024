package clients

import (
	"context"

	"github.com/shopspring/decimal"
)

// RateFeedClient fetches a full exchange-rate snapshot from the external feed.
// The returned map is code -> units per one base-currency unit.
type RateFeedClient interface {
	FetchRates(ctx context.Context) (map[string]decimal.Decimal, error)
}

// GeoLocation is the result of a geo-IP lookup.
type GeoLocation struct {
	Country     string
	CountryCode string
	Timezone    string
}

// GeoIPClient resolves an IP address to a location.
type GeoIPClient interface {
	Lookup(ctx context.Context, ipAddress string) (*GeoLocation, error)
}
