package session

import "github.com/thornvale/mud/internal/game"

// Command is one inbound tagged message from a client. Kind selects which
// fields are meaningful.
type Command struct {
	Kind string `json:"kind"`

	// Login fields, first message only.
	Name    string `json:"name,omitempty"`
	Species string `json:"species,omitempty"`

	Direction string `json:"direction,omitempty"`
	Target    string `json:"target,omitempty"`
	Item      string `json:"item,omitempty"`
	Text      string `json:"text,omitempty"`
}

// Inbound command kinds.
const (
	CmdLogin    = "login"
	CmdMove     = "move"
	CmdAttack   = "attack"
	CmdSay      = "say"
	CmdYell     = "yell"
	CmdConsider = "consider"
	CmdHail     = "hail"
	CmdTake     = "take"
	CmdDrop     = "drop"
	CmdEquip    = "equip"
	CmdShop     = "shop"
	CmdBuy      = "buy"
	CmdSell     = "sell"
	CmdRespawn  = "respawn"
)

// Message is one outbound tagged message to a client.
type Message struct {
	Kind string `json:"kind"`

	Room *game.RoomSnapshot `json:"room,omitempty"`

	Actor  *game.EntityRef `json:"actor,omitempty"`
	Target *game.EntityRef `json:"target,omitempty"`

	Damage int              `json:"damage,omitempty"`
	Text   string           `json:"text,omitempty"`
	Item   *game.ItemView   `json:"item,omitempty"`
	Items  []*game.ItemView `json:"items,omitempty"`

	// Consider results.
	Threat   string `json:"threat,omitempty"`
	Standing string `json:"standing,omitempty"`
}

// Outbound message kinds beyond the event kinds echoed from the game.
const (
	MsgError = "error"
	MsgShop  = "shop"
)
