package driver

import (
	"context"
	"errors"
	"testing"
	"time"
)

type recordingTicker struct {
	name  string
	log   *[]string
	times *[]time.Time
	err   error
}

func (r *recordingTicker) Tick(_ context.Context, now time.Time) error {
	*r.log = append(*r.log, r.name)
	*r.times = append(*r.times, now)
	return r.err
}

func TestTickOrderAndSharedTimestamp(t *testing.T) {
	var log []string
	var times []time.Time

	d := NewDriver([]Ticker{
		&recordingTicker{name: "game", log: &log, times: &times},
		&recordingTicker{name: "sessions", log: &log, times: &times},
	})

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	if err := d.Tick(context.Background(), now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(log) != 2 || log[0] != "game" || log[1] != "sessions" {
		t.Errorf("tick order = %v, want [game sessions]", log)
	}
	for i, ts := range times {
		if !ts.Equal(now) {
			t.Errorf("ticker %d saw timestamp %v, want %v", i, ts, now)
		}
	}
}

func TestTickStopsOnError(t *testing.T) {
	var log []string
	var times []time.Time
	boom := errors.New("boom")

	d := NewDriver([]Ticker{
		&recordingTicker{name: "first", log: &log, times: &times, err: boom},
		&recordingTicker{name: "second", log: &log, times: &times},
	})

	if err := d.Tick(context.Background(), time.Now()); !errors.Is(err, boom) {
		t.Fatalf("error = %v, want %v", err, boom)
	}
	if len(log) != 1 {
		t.Errorf("tickers run = %v, want only the failing one", log)
	}
}
