package game

import (
	"github.com/thornvale/mud/internal/storage"
)

// ConversationCursor marks a player's position in a mob's dialogue graph.
type ConversationCursor struct {
	MobId  string
	NodeId string
}

// Player is a connected (or recently connected) character. Exactly one
// connection drives a player at a time.
type Player struct {
	Character

	SpeciesId storage.Identifier

	// Active is true while a connection is attached. Inactive players stay
	// in the world registry so their state survives reconnects, but they
	// take no part in ticks.
	Active bool

	// Encumbered players carry more than their capacity and cannot move.
	Encumbered bool

	// Conversation is nil unless mid-dialogue with a mob.
	Conversation *ConversationCursor

	// PendingMove is consumed by the next tick; commands never move the
	// player directly.
	PendingMove Direction

	// RespawnRequested short-circuits the respawn delay.
	RespawnRequested bool
}
