package game

import (
	"fmt"
	"strings"
	"time"

	"github.com/pixil98/go-errors"
	"github.com/thornvale/mud/internal/storage"
)

// Slot identifies an equipment location.
type Slot string

const (
	SlotNone   Slot = ""
	SlotHead   Slot = "head"
	SlotChest  Slot = "chest"
	SlotArms   Slot = "arms"
	SlotLegs   Slot = "legs"
	SlotWeapon Slot = "weapon"
)

var validSlots = map[Slot]bool{
	SlotHead:   true,
	SlotChest:  true,
	SlotArms:   true,
	SlotLegs:   true,
	SlotWeapon: true,
}

// Rarity buckets an item for display purposes.
type Rarity string

const (
	RarityCommon   Rarity = "common"
	RarityUncommon Rarity = "uncommon"
	RarityRare     Rarity = "rare"
	RarityEpic     Rarity = "epic"
)

// Item is an immutable item template loaded from asset files.
type Item struct {
	Name   string `json:"name"`
	Rarity Rarity `json:"rarity"`

	// Slot is empty for items that cannot be equipped.
	Slot Slot `json:"slot,omitempty"`

	// Damage and Delay only apply when Slot is "weapon".
	Damage int    `json:"damage,omitempty"`
	Delay  string `json:"delay,omitempty"` // attack cadence, duration string

	// Attribute modifiers applied while equipped.
	Strength     int `json:"strength,omitempty"`
	Stamina      int `json:"stamina,omitempty"`
	Agility      int `json:"agility,omitempty"`
	Intelligence int `json:"intelligence,omitempty"`

	Weight int `json:"weight"`
	Value  int `json:"value"`
}

func (i *Item) Validate() error {
	el := errors.NewErrorList()

	if i.Name == "" {
		el.Add(fmt.Errorf("item name is required"))
	}
	if i.Slot != SlotNone && !validSlots[i.Slot] {
		el.Add(fmt.Errorf("unknown equipment slot: %q", i.Slot))
	}
	if i.Delay != "" {
		if _, err := time.ParseDuration(i.Delay); err != nil {
			el.Add(fmt.Errorf("parsing delay: %w", err))
		}
	}
	if i.Weight < 0 {
		el.Add(fmt.Errorf("weight must not be negative"))
	}

	return el.Err()
}

// AttackDelay returns the weapon's cadence, or zero when unset.
func (i *Item) AttackDelay() time.Duration {
	if i.Delay == "" {
		return 0
	}
	d, err := time.ParseDuration(i.Delay)
	if err != nil {
		return 0
	}
	return d
}

// matchItemName reports whether str names an item instance, matching the
// template name case-insensitively.
func matchItemName(item *ItemInstance, str string) bool {
	return strings.EqualFold(item.Tmpl.Name, str)
}

// ItemInstance is a single copy of an item template: carried in an
// inventory, stocked by a shop, or lying on the ground. Ground copies carry
// drop bookkeeping that drives decay.
type ItemInstance struct {
	InstanceId string
	TemplateId storage.Identifier
	Tmpl       *Item

	// DropTime is zero unless the instance is on the ground.
	DropTime  time.Time
	DroppedBy string // wire id of whoever dropped it

	// Decayed instances have been removed from play and never reappear.
	Decayed bool
}
