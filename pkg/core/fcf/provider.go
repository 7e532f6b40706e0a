// Package fcf retrieves the baseline free-cash-flow figure the simulation
// engine projects from. Providers return either a positive figure or a typed
// Unavailable error carrying the reason; callers must treat any unavailable
// result as a hard stop and run zero trials.
package fcf

import (
	"context"
	"errors"
	"fmt"
)

// Reason tags why no usable base FCF exists for a ticker.
type Reason string

const (
	ReasonLookupFailed Reason = "lookup_failed"
	ReasonMissingField Reason = "missing_field"
	ReasonNonPositive  Reason = "non_positive"
)

// Unavailable is the explicit "no valuation possible for this input" signal.
type Unavailable struct {
	Ticker string
	Reason Reason
	Detail string
}

func (u *Unavailable) Error() string {
	return fmt.Sprintf("base fcf unavailable for %s (%s): %s", u.Ticker, u.Reason, u.Detail)
}

// BaseFCF is one retrieved baseline free-cash-flow figure, in USD.
type BaseFCF struct {
	Ticker     string  `json:"ticker"`
	FiscalYear int     `json:"fiscal_year"`
	Value      float64 `json:"value"`
	Source     string  `json:"source"`
}

// Provider retrieves the baseline free cash flow for a ticker.
type Provider interface {
	BaseFCF(ctx context.Context, ticker string) (*BaseFCF, error)
}

// Chain tries providers in order, falling through to the next one whenever
// the current provider reports Unavailable. Non-Unavailable errors stop the
// chain immediately.
type Chain []Provider

func (c Chain) BaseFCF(ctx context.Context, ticker string) (*BaseFCF, error) {
	if len(c) == 0 {
		return nil, &Unavailable{Ticker: ticker, Reason: ReasonLookupFailed, Detail: "no providers configured"}
	}

	var last error
	for _, p := range c {
		base, err := p.BaseFCF(ctx, ticker)
		if err == nil {
			return base, nil
		}
		var unavailable *Unavailable
		if !errors.As(err, &unavailable) {
			return nil, err
		}
		last = err
	}
	return nil, last
}
