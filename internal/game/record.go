package game

import (
	"fmt"

	"github.com/pixil98/go-errors"
	"github.com/thornvale/mud/internal/storage"
)

// ItemRecord is one carried item in a persisted character.
type ItemRecord struct {
	InstanceId string             `json:"instance_id"`
	TemplateId storage.Identifier `json:"template_id"`
	Equipped   Slot               `json:"equipped,omitempty"`
}

// CharacterRecord is the persisted form of a player character: the mutable
// fields flushed to the store on disconnect and periodically while attached.
// Immutable template data (species, item definitions) is referenced by id
// and rejoined at load.
type CharacterRecord struct {
	Name      string             `json:"name"`
	SpeciesId storage.Identifier `json:"species_id"`

	Level        int `json:"level"`
	Experience   int `json:"experience"`
	Health       int `json:"health"`
	Strength     int `json:"strength"`
	Stamina      int `json:"stamina"`
	Agility      int `json:"agility"`
	Intelligence int `json:"intelligence"`
	Money        int `json:"money"`

	RoomId storage.Identifier `json:"room_id"`

	Items    []*ItemRecord              `json:"items,omitempty"`
	Factions map[storage.Identifier]int `json:"factions,omitempty"`
}

func (r *CharacterRecord) Validate() error {
	el := errors.NewErrorList()

	if r.Name == "" {
		el.Add(fmt.Errorf("character name is required"))
	}
	el.Add(r.SpeciesId.Validate())
	if r.Level < 1 {
		el.Add(fmt.Errorf("level must be at least 1"))
	}
	if r.Health < 0 {
		el.Add(fmt.Errorf("health must not be negative"))
	}
	for i, item := range r.Items {
		if item.InstanceId == "" {
			el.Add(fmt.Errorf("item %d: instance id is required", i))
		}
		if err := item.TemplateId.Validate(); err != nil {
			el.Add(fmt.Errorf("item %d: %w", i, err))
		}
		if item.Equipped != SlotNone && !validSlots[item.Equipped] {
			el.Add(fmt.Errorf("item %d: unknown equipment slot: %q", i, item.Equipped))
		}
	}

	return el.Err()
}
