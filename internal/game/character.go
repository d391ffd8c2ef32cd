package game

import (
	"strings"
	"time"

	"github.com/thornvale/mud/internal/storage"
)

// Kind is the closed entity discriminant carried in wire messages.
type Kind string

const (
	KindPlayer Kind = "player"
	KindMob    Kind = "mob"
)

// Character is the capability set shared by players and mobs. Player and Mob
// embed it; resolver functions operate on it without runtime type checks.
type Character struct {
	Id   string // wire id: character record id for players, instance id for mobs
	Kind Kind
	Name string

	Level      int
	Experience int

	// Health is clamped to [0, MaxHealth]. Zero means dead: not a valid
	// combat target, movement actor, or loot source until respawn.
	Health int

	// Trained attributes plus species base values.
	Strength         int
	Stamina          int
	Agility          int
	Intelligence     int
	StrengthBase     int
	StaminaBase      int
	AgilityBase      int
	IntelligenceBase int
	HealthBase       int

	Money int

	RoomId storage.Identifier
	ZoneId storage.Identifier

	Items     map[string]*ItemInstance
	Equipment map[Slot]string // slot -> carried item instance id

	Factions map[storage.Identifier]int

	// Combat state.
	Attacking      string // wire id of current target, empty when idle
	Attacker       string // wire id of whoever hit us this tick
	Damage         int    // damage taken this tick; -1 means nothing happened
	NextAttackTime time.Time
	KillTime       time.Time // set on death, cleared on respawn
}

func (c *Character) Alive() bool {
	return c.Health > 0
}

// ApplyDamage subtracts damage and clamps health at zero.
func (c *Character) ApplyDamage(n int) {
	c.Health -= n
	if c.Health < 0 {
		c.Health = 0
	}
}

func (c *Character) AddItem(item *ItemInstance) {
	if c.Items == nil {
		c.Items = make(map[string]*ItemInstance)
	}
	c.Items[item.InstanceId] = item
}

// RemoveItem takes an item out of the inventory, unequipping it first if
// needed. Returns nil when the instance is not carried.
func (c *Character) RemoveItem(instanceId string) *ItemInstance {
	item, ok := c.Items[instanceId]
	if !ok {
		return nil
	}
	for slot, id := range c.Equipment {
		if id == instanceId {
			delete(c.Equipment, slot)
		}
	}
	delete(c.Items, instanceId)
	return item
}

// EquippedItem returns the item instance in the given slot, or nil.
func (c *Character) EquippedItem(slot Slot) *ItemInstance {
	id, ok := c.Equipment[slot]
	if !ok {
		return nil
	}
	return c.Items[id]
}

// Weapon is shorthand for the equipped weapon, nil when unarmed.
func (c *Character) Weapon() *ItemInstance {
	return c.EquippedItem(SlotWeapon)
}

// CountItems returns how many carried instances share a template.
func (c *Character) CountItems(templateId storage.Identifier) int {
	n := 0
	for _, item := range c.Items {
		if item.TemplateId == templateId {
			n++
		}
	}
	return n
}

// CarriedWeight sums the weight of every carried item.
func (c *Character) CarriedWeight() int {
	total := 0
	for _, item := range c.Items {
		total += item.Tmpl.Weight
	}
	return total
}

// EffectiveStrength is trained strength plus base plus equipment bonuses.
func (c *Character) EffectiveStrength() int {
	return c.Strength + c.StrengthBase + c.equipmentBonus(func(i *Item) int { return i.Strength })
}

func (c *Character) EffectiveStamina() int {
	return c.Stamina + c.StaminaBase + c.equipmentBonus(func(i *Item) int { return i.Stamina })
}

func (c *Character) EffectiveAgility() int {
	return c.Agility + c.AgilityBase + c.equipmentBonus(func(i *Item) int { return i.Agility })
}

func (c *Character) EffectiveIntelligence() int {
	return c.Intelligence + c.IntelligenceBase + c.equipmentBonus(func(i *Item) int { return i.Intelligence })
}

func (c *Character) equipmentBonus(f func(*Item) int) int {
	total := 0
	for _, id := range c.Equipment {
		if item, ok := c.Items[id]; ok {
			total += f(item.Tmpl)
		}
	}
	return total
}

func (c *Character) FactionScore(id storage.Identifier) int {
	return c.Factions[id]
}

// AdjustFaction applies a standing change, creating the entry when absent.
func (c *Character) AdjustFaction(id storage.Identifier, delta int) {
	if c.Factions == nil {
		c.Factions = make(map[storage.Identifier]int)
	}
	c.Factions[id] += delta
}

// MatchName reports whether str names this character: a full
// case-insensitive match, or a prefix match at a word boundary.
func (c *Character) MatchName(str string) bool {
	name := strings.ToLower(c.Name)
	str = strings.ToLower(str)
	if name == str {
		return true
	}
	for pos := strings.Index(name, str); pos >= 0; {
		if pos == 0 || name[pos-1] == ' ' {
			return true
		}
		next := strings.Index(name[pos+1:], str)
		if next < 0 {
			break
		}
		pos += 1 + next
	}
	return false
}

// Ref builds the tagged wire reference for this character.
func (c *Character) Ref() EntityRef {
	return EntityRef{Kind: c.Kind, Id: c.Id, Name: c.Name}
}
