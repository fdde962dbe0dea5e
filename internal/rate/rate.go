package rate

import (
	"context"
	"strings"
)

// Quote is a carrier-quoted delivery price (so'm) and ETA.
type Quote struct {
	Price    int64
	ETAHours int
}

// Carrier asks a live carrier for a delivery quote. A nil quote with a nil
// error means the carrier has no data; callers treat errors the same way.
type Carrier interface {
	Quote(ctx context.Context, regionCode, cityName string, weightKg float64) (*Quote, error)
}

// Unavailable never has data. It is the default carrier.
type Unavailable struct{}

func NewUnavailable() *Unavailable { return &Unavailable{} }

func (Unavailable) Quote(ctx context.Context, regionCode, cityName string, weightKg float64) (*Quote, error) {
	return nil, nil
}

// BTS is a placeholder for the BTS Express rate API. Until the integration
// exists it reports no data, like Unavailable.
type BTS struct{}

func NewBTS() *BTS { return &BTS{} }

func (b *BTS) Quote(ctx context.Context, regionCode, cityName string, weightKg float64) (*Quote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return nil, nil
}

// NewByName returns a Carrier by provider name. Unknown names fall back to
// Unavailable.
func NewByName(name string) Carrier {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "bts":
		return NewBTS()
	default:
		return NewUnavailable()
	}
}
