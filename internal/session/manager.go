package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/thornvale/mud/internal/game"
)

// Publisher is the outbound side the manager fans events out through.
type Publisher interface {
	Publish(playerId string, data []byte) error
}

// Manager projects each tick's event journal onto per-player subjects. It
// runs as the driver ticker directly after the simulation, so every event
// it sees is from a settled world.
type Manager struct {
	game *game.Game
	pub  Publisher
	log  *slog.Logger
}

func NewManager(g *game.Game, pub Publisher) *Manager {
	return &Manager{
		game: g,
		pub:  pub,
		log:  slog.Default(),
	}
}

// Tick drains the journal and delivers each event to the players allowed to
// see it. The same raw event is projected once per recipient; a recipient
// never sees an event outside their current room.
func (m *Manager) Tick(_ context.Context, _ time.Time) error {
	for _, e := range m.game.DrainEvents() {
		msg := m.project(e)
		if msg == nil {
			continue
		}
		data, err := json.Marshal(msg)
		if err != nil {
			m.log.Error("marshaling event", "kind", e.Kind, "error", err)
			continue
		}
		for _, playerId := range m.game.Recipients(e) {
			if err := m.pub.Publish(playerId, data); err != nil {
				m.log.Warn("publishing event", "player", playerId, "error", err)
			}
		}
	}
	return nil
}

// project converts a journal event into its wire form. Move events carry a
// full room snapshot for their single recipient.
func (m *Manager) project(e game.Event) *Message {
	msg := &Message{
		Kind:   string(e.Kind),
		Actor:  e.Actor,
		Target: e.Target,
		Damage: e.Damage,
		Text:   e.Text,
		Item:   e.Item,
	}
	if e.Kind == game.EventMove && e.Only != "" {
		snap, err := m.game.Snapshot(e.Only)
		if err != nil {
			m.log.Warn("building room snapshot", "player", e.Only, "error", err)
			return nil
		}
		msg.Room = snap
	}
	return msg
}
