package driver

import (
	"context"
	"time"
)

const DefaultTickInterval = time.Second

// Ticker is a subsystem advanced once per simulation tick. Every Ticker in
// a tick sees the same timestamp.
type Ticker interface {
	Tick(ctx context.Context, now time.Time) error
}

// Driver owns the fixed-interval clock that serializes all world mutation.
type Driver struct {
	interval time.Duration
	tickers  []Ticker
}

func NewDriver(tickers []Ticker, opts ...DriverOpt) *Driver {
	d := &Driver{
		interval: DefaultTickInterval,
		tickers:  tickers,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

func (d *Driver) Start(ctx context.Context) error {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			if err := d.Tick(ctx, now); err != nil {
				return err
			}
		}
	}
}

// Tick advances every subsystem with a shared timestamp, in registration
// order.
func (d *Driver) Tick(ctx context.Context, now time.Time) error {
	for _, t := range d.tickers {
		if err := t.Tick(ctx, now); err != nil {
			return err
		}
	}
	return nil
}
