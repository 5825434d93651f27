package oracle

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"lever/core"
	"lever/pkg/number"
)

// PriceFeed implements core.IPriceFeed over posted observations.
type PriceFeed struct {
	mu sync.Mutex

	spot      decimal.Decimal
	reference decimal.Decimal
	updatedAt time.Time

	// exponential time-weighting window, seconds
	window int64
	now    func() time.Time
}

// New price feed, fed by Post. The reference price is an exponential
// time-weighted average of posted spots over the configured window, so a
// sudden spot move cannot drag the reference with it.
func New(cfg core.Oracle) *PriceFeed {
	window := cfg.TWAPWindow
	if window <= 0 {
		window = 1800
	}

	return &PriceFeed{
		window: window,
		now:    time.Now,
	}
}

// Post records a new spot observation.
func (f *PriceFeed) Post(price decimal.Decimal) error {
	if price.Sign() <= 0 {
		return core.ErrInvalidAmount
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	now := f.now()

	if f.reference.Sign() <= 0 {
		f.reference = price
	} else {
		elapsed := now.Unix() - f.updatedAt.Unix()
		if elapsed > 0 {
			weight := decimal.NewFromInt(elapsed).DivRound(decimal.NewFromInt(elapsed+f.window), number.MaxPrecision)
			f.reference = f.reference.Add(price.Sub(f.reference).Mul(weight)).Truncate(number.MaxPrecision)
		}
	}

	f.spot = price
	f.updatedAt = now

	return nil
}

func (f *PriceFeed) Quote(ctx context.Context) (*core.PriceQuote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.spot.Sign() <= 0 {
		return nil, core.ErrInvalidPrice
	}

	return &core.PriceQuote{
		Spot:      f.spot,
		Reference: f.reference,
	}, nil
}
