package game

import "github.com/thornvale/mud/internal/storage"

// EventKind tags an outbound broadcast message.
type EventKind string

const (
	EventMove   EventKind = "move"
	EventEnter  EventKind = "enter"
	EventLeave  EventKind = "leave"
	EventSay    EventKind = "say"
	EventYell   EventKind = "yell"
	EventAttack EventKind = "attack"
	EventDie    EventKind = "die"
	EventTake   EventKind = "take"
	EventDrop   EventKind = "drop"
	EventDecay  EventKind = "decay"
	EventEquip  EventKind = "equip"
	EventBuy    EventKind = "buy"
	EventSell   EventKind = "sell"
)

// EntityRef is the tagged reference carried in wire messages: a closed kind
// discriminant alongside an opaque id.
type EntityRef struct {
	Kind Kind   `json:"kind"`
	Id   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// ItemView is an item as it appears on the wire.
type ItemView struct {
	InstanceId string             `json:"instance_id"`
	TemplateId storage.Identifier `json:"template_id"`
	Name       string             `json:"name"`
	Rarity     Rarity             `json:"rarity,omitempty"`
	Value      int                `json:"value,omitempty"`
}

func viewOf(item *ItemInstance) *ItemView {
	if item == nil {
		return nil
	}
	return &ItemView{
		InstanceId: item.InstanceId,
		TemplateId: item.TemplateId,
		Name:       item.Tmpl.Name,
		Rarity:     item.Tmpl.Rarity,
		Value:      item.Tmpl.Value,
	}
}

// Event is one room-scoped entry in the tick's mutation journal. The
// session layer walks the journal after each tick and projects it per
// subscriber: a controller only sees events in its player's current room.
type Event struct {
	Kind   EventKind
	RoomId storage.Identifier

	Actor  *EntityRef
	Target *EntityRef

	Damage int
	Text   string
	Item   *ItemView

	// Exclude suppresses delivery to one player, used so an actor is not
	// echoed a redundant copy of an event they caused.
	Exclude string

	// Only restricts delivery to a single player, used for self-only
	// messages like room snapshots after movement.
	Only string
}
