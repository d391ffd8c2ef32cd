package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
	"github.com/thornvale/mud/internal/game"
)

// GameConfig overrides the simulation's balance defaults. Empty fields keep
// the built-in values.
type GameConfig struct {
	PlayerRespawnDelay string `json:"player_respawn_delay,omitempty"`
	DecayWindow        string `json:"decay_window,omitempty"`
	PersistInterval    string `json:"persist_interval,omitempty"`
	MeleeDelay         string `json:"melee_delay,omitempty"`
}

func (c *GameConfig) validate() error {
	el := errors.NewErrorList()

	for name, val := range map[string]string{
		"player_respawn_delay": c.PlayerRespawnDelay,
		"decay_window":         c.DecayWindow,
		"persist_interval":     c.PersistInterval,
		"melee_delay":          c.MeleeDelay,
	} {
		if val == "" {
			continue
		}
		if _, err := time.ParseDuration(val); err != nil {
			el.Add(fmt.Errorf("parsing %s: %w", name, err))
		}
	}

	return el.Err()
}

func (c *GameConfig) buildTuning() *game.Tuning {
	t := game.DefaultTuning()
	if c.PlayerRespawnDelay != "" {
		t.PlayerRespawnDelay, _ = time.ParseDuration(c.PlayerRespawnDelay)
	}
	if c.DecayWindow != "" {
		t.DecayWindow, _ = time.ParseDuration(c.DecayWindow)
	}
	if c.PersistInterval != "" {
		t.PersistInterval, _ = time.ParseDuration(c.PersistInterval)
	}
	if c.MeleeDelay != "" {
		t.MeleeDelay, _ = time.ParseDuration(c.MeleeDelay)
	}
	return t
}
