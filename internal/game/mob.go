package game

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
	"github.com/thornvale/mud/internal/storage"
)

// RouteLeg is one stop on a patrol route: where to go and how long to wait
// in the previous room before going.
type RouteLeg struct {
	RoomId storage.Identifier `json:"room_id"`
	Wait   string             `json:"wait"` // duration string
}

func (l *RouteLeg) Validate() error {
	el := errors.NewErrorList()

	el.Add(l.RoomId.Validate())
	if _, err := time.ParseDuration(l.Wait); err != nil {
		el.Add(fmt.Errorf("parsing wait: %w", err))
	}

	return el.Err()
}

// WaitDuration returns the leg's parsed wait time. Validate catches bad
// strings at load, so errors here collapse to zero.
func (l *RouteLeg) WaitDuration() time.Duration {
	d, _ := time.ParseDuration(l.Wait)
	return d
}

// MobTemplate is an immutable mob definition loaded from asset files. Live
// Mob instances are stamped from it at spawn.
type MobTemplate struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Level       int                `json:"level"`
	HealthBase  int                `json:"health_base"`
	Strength    int                `json:"strength"`
	Stamina     int                `json:"stamina"`
	Agility     int                `json:"agility"`
	Money       int                `json:"money,omitempty"`
	FactionId   storage.Identifier `json:"faction_id,omitempty"`

	SpawnRoomId  storage.Identifier   `json:"spawn_room_id"`
	RespawnDelay string               `json:"respawn_delay,omitempty"`
	ItemIds      []storage.Identifier `json:"item_ids,omitempty"`

	Route          []*RouteLeg         `json:"route,omitempty"`
	FactionRewards []*FactionReward    `json:"faction_rewards,omitempty"`
	Conversations  []*ConversationNode `json:"conversations,omitempty"`
	Shop           *Shop               `json:"shop,omitempty"`
}

func (t *MobTemplate) Validate() error {
	el := errors.NewErrorList()

	if t.Name == "" {
		el.Add(fmt.Errorf("mob name is required"))
	}
	if t.Level < 1 {
		el.Add(fmt.Errorf("level must be at least 1"))
	}
	if t.HealthBase <= 0 {
		el.Add(fmt.Errorf("health base must be positive"))
	}
	el.Add(t.SpawnRoomId.Validate())
	if t.RespawnDelay != "" {
		if _, err := time.ParseDuration(t.RespawnDelay); err != nil {
			el.Add(fmt.Errorf("parsing respawn delay: %w", err))
		}
	}
	for i, leg := range t.Route {
		if err := leg.Validate(); err != nil {
			el.Add(fmt.Errorf("route leg %d: %w", i, err))
		}
	}
	seen := map[string]bool{}
	for _, node := range t.Conversations {
		if err := node.Validate(); err != nil {
			el.Add(fmt.Errorf("conversation node %q: %w", node.Id, err))
			continue
		}
		if seen[node.Id] {
			el.Add(fmt.Errorf("duplicate conversation node id: %q", node.Id))
		}
		seen[node.Id] = true
	}
	for _, node := range t.Conversations {
		for _, resp := range node.Responses {
			if !seen[resp.NodeId] {
				el.Add(fmt.Errorf("conversation node %q: response points at unknown node %q", node.Id, resp.NodeId))
			}
		}
	}
	if t.Shop != nil {
		el.Add(t.Shop.Validate())
	}

	return el.Err()
}

// RespawnDuration returns the template's respawn delay, or zero to use the
// world default.
func (t *MobTemplate) RespawnDuration() time.Duration {
	if t.RespawnDelay == "" {
		return 0
	}
	d, _ := time.ParseDuration(t.RespawnDelay)
	return d
}

// Mob is a live NPC instance stamped from a template.
type Mob struct {
	Character

	TemplateId storage.Identifier
	Template   *MobTemplate

	// DamageTotals is the aggro ledger: cumulative damage per attacker
	// wire id. The highest total holds the mob's attention.
	DamageTotals map[string]int

	SpawnRoomId  storage.Identifier
	RespawnDelay time.Duration

	Route      []*RouteLeg
	RouteIndex int
	MoveTime   time.Time // when the current leg's wait started

	Shop *ShopState

	// conversations is the dialogue arena keyed by node id.
	conversations map[string]*ConversationNode
}

// ConversationNode looks up a dialogue node by id, nil when absent.
func (m *Mob) ConversationNode(id string) *ConversationNode {
	return m.conversations[id]
}

// RootConversations returns the dialogue roots in template order.
func (m *Mob) RootConversations() []*ConversationNode {
	var roots []*ConversationNode
	for _, node := range m.Template.Conversations {
		if node.ParentId == "" {
			roots = append(roots, node)
		}
	}
	return roots
}

// RecordDamage adds a hit to the aggro ledger and returns the attacker wire
// id that now holds the mob's attention. The previous target keeps it unless
// another attacker's total is strictly higher; among strictly higher totals
// the lowest id wins, keeping retargeting deterministic.
func (m *Mob) RecordDamage(attackerId string, damage int) string {
	if m.DamageTotals == nil {
		m.DamageTotals = make(map[string]int)
	}
	m.DamageTotals[attackerId] += damage

	best := m.Attacking
	bestTotal := m.DamageTotals[best]
	for id, total := range m.DamageTotals {
		if total > bestTotal || (total == bestTotal && best != m.Attacking && id < best) {
			best, bestTotal = id, total
		}
	}
	if best == "" {
		best = attackerId
	}
	return best
}

// EndCombat clears the aggro ledger and restarts the patrol clock so the
// mob resumes its route from now.
func (m *Mob) EndCombat(now time.Time) {
	m.Attacking = ""
	m.DamageTotals = nil
	if len(m.Route) > 0 {
		m.MoveTime = now
	}
}
