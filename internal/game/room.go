package game

import (
	"fmt"

	"github.com/pixil98/go-errors"
	"github.com/thornvale/mud/internal/storage"
)

// Direction is a compass exit label.
type Direction string

const (
	DirNorth Direction = "north"
	DirSouth Direction = "south"
	DirEast  Direction = "east"
	DirWest  Direction = "west"
	DirUp    Direction = "up"
	DirDown  Direction = "down"
)

var validDirections = map[Direction]bool{
	DirNorth: true,
	DirSouth: true,
	DirEast:  true,
	DirWest:  true,
	DirUp:    true,
	DirDown:  true,
}

// ParseDirection normalizes a direction string, accepting the usual
// single-letter abbreviations.
func ParseDirection(s string) (Direction, bool) {
	switch Direction(s) {
	case "n":
		return DirNorth, true
	case "s":
		return DirSouth, true
	case "e":
		return DirEast, true
	case "w":
		return DirWest, true
	case "u":
		return DirUp, true
	case "d":
		return DirDown, true
	}
	d := Direction(s)
	return d, validDirections[d]
}

// Exit links a room to a destination. The destination's zone is cached at
// load time so zone transitions are detected without a second lookup.
type Exit struct {
	RoomId storage.Identifier `json:"room_id"`
	ZoneId storage.Identifier `json:"-"`
}

// Room is one location in the world graph. Structure (exits, zone) is fixed
// after load; the membership maps change every tick.
type Room struct {
	Id          storage.Identifier  `json:"-"`
	ZoneId      storage.Identifier  `json:"zone_id"`
	Name        string              `json:"name"`
	Description string              `json:"description,omitempty"`
	Exits       map[Direction]*Exit `json:"exits,omitempty"`

	// Live membership. An entity's RoomId always matches exactly one
	// room's map; the world registry keeps the pairing atomic.
	Mobs    map[string]*Mob          `json:"-"`
	Players map[string]*Player       `json:"-"`
	Items   map[string]*ItemInstance `json:"-"`
}

func (r *Room) Validate() error {
	el := errors.NewErrorList()

	if r.Name == "" {
		el.Add(fmt.Errorf("room name is required"))
	}
	el.Add(r.ZoneId.Validate())
	for dir, exit := range r.Exits {
		if !validDirections[dir] {
			el.Add(fmt.Errorf("unknown exit direction: %q", dir))
		}
		if exit == nil {
			el.Add(fmt.Errorf("exit %s has no destination", dir))
			continue
		}
		el.Add(exit.RoomId.Validate())
	}

	return el.Err()
}

// Exit returns the destination of an exit, or nil when the direction is
// closed off.
func (r *Room) Exit(dir Direction) *Exit {
	return r.Exits[dir]
}

// FindMob returns the first present mob matching str by id or name.
func (r *Room) FindMob(str string) *Mob {
	if m, ok := r.Mobs[str]; ok {
		return m
	}
	for _, m := range r.Mobs {
		if m.MatchName(str) {
			return m
		}
	}
	return nil
}

// FindItem returns the first ground item matching str by instance id or
// template name.
func (r *Room) FindItem(str string) *ItemInstance {
	if item, ok := r.Items[str]; ok {
		return item
	}
	for _, item := range r.Items {
		if matchItemName(item, str) {
			return item
		}
	}
	return nil
}
