package command

import (
	"fmt"
	"os"

	"github.com/pixil98/go-errors"
	"github.com/thornvale/mud/internal/game"
	"github.com/thornvale/mud/internal/storage"
)

type StorageConfig struct {
	Characters AssetConfig[*game.CharacterRecord] `json:"characters"`
	Zones      AssetConfig[*game.Zone]            `json:"zones"`
	Rooms      AssetConfig[*game.Room]            `json:"rooms"`
	Mobs       AssetConfig[*game.MobTemplate]     `json:"mobs"`
	Items      AssetConfig[*game.Item]            `json:"items"`
	Species    AssetConfig[*game.Species]         `json:"species"`
}

func (c *StorageConfig) validate() error {
	el := errors.NewErrorList()
	el.Add(c.Characters.Validate("characters"))
	el.Add(c.Zones.Validate("zones"))
	el.Add(c.Rooms.Validate("rooms"))
	el.Add(c.Mobs.Validate("mobs"))
	el.Add(c.Items.Validate("items"))
	el.Add(c.Species.Validate("species"))
	return el.Err()
}

// Stores is every asset store the simulation loads from.
type Stores struct {
	Characters storage.Storer[*game.CharacterRecord]
	Zones      storage.Storer[*game.Zone]
	Rooms      storage.Storer[*game.Room]
	Mobs       storage.Storer[*game.MobTemplate]
	Items      storage.Storer[*game.Item]
	Species    storage.Storer[*game.Species]
}

func (c *StorageConfig) buildStores() (*Stores, error) {
	chars, err := c.Characters.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating character store: %w", err)
	}
	zones, err := c.Zones.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating zone store: %w", err)
	}
	rooms, err := c.Rooms.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating room store: %w", err)
	}
	mobs, err := c.Mobs.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating mob store: %w", err)
	}
	items, err := c.Items.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating item store: %w", err)
	}
	species, err := c.Species.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating species store: %w", err)
	}

	return &Stores{
		Characters: chars,
		Zones:      zones,
		Rooms:      rooms,
		Mobs:       mobs,
		Items:      items,
		Species:    species,
	}, nil
}

type AssetConfig[T storage.ValidatingSpec] struct {
	Path string `json:"path"`
}

func (c *AssetConfig[T]) Validate(name string) error {
	if c.Path == "" {
		return fmt.Errorf("%s: path is required", name)
	}
	if _, err := os.Stat(c.Path); err != nil {
		return fmt.Errorf("%s: invalid path %q: %w", name, c.Path, err)
	}

	return nil
}

func (c *AssetConfig[T]) BuildFileStore() (*storage.FileStore[T], error) {
	return storage.NewFileStore[T](c.Path)
}
