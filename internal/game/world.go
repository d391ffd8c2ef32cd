package game

import (
	"fmt"

	"github.com/thornvale/mud/internal/storage"
)

// World is the room/zone graph plus the global entity registries. It is
// built once at boot from the asset stores; structure never changes at
// runtime, only membership does.
type World struct {
	zones map[storage.Identifier]*Zone
	rooms map[storage.Identifier]*Room

	mobs    map[string]*Mob    // by instance id
	players map[string]*Player // by character id
}

// NewWorld assembles the graph from loaded assets, caching each exit's
// destination zone and rejecting exits into rooms that do not exist.
func NewWorld(zones map[storage.Identifier]*Zone, rooms map[storage.Identifier]*Room) (*World, error) {
	w := &World{
		zones:   zones,
		rooms:   rooms,
		mobs:    make(map[string]*Mob),
		players: make(map[string]*Player),
	}

	for id, room := range rooms {
		room.Id = id
		if _, ok := zones[room.ZoneId]; !ok {
			return nil, fmt.Errorf("room %s references unknown zone %s", id, room.ZoneId)
		}
		if room.Mobs == nil {
			room.Mobs = make(map[string]*Mob)
		}
		if room.Players == nil {
			room.Players = make(map[string]*Player)
		}
		if room.Items == nil {
			room.Items = make(map[string]*ItemInstance)
		}
	}
	for id, room := range rooms {
		for dir, exit := range room.Exits {
			dest, ok := rooms[exit.RoomId]
			if !ok {
				return nil, fmt.Errorf("room %s exit %s references unknown room %s", id, dir, exit.RoomId)
			}
			exit.ZoneId = dest.ZoneId
		}
	}

	return w, nil
}

func (w *World) Zone(id storage.Identifier) *Zone {
	return w.zones[id]
}

func (w *World) Room(id storage.Identifier) *Room {
	return w.rooms[id]
}

func (w *World) Mob(id string) *Mob {
	return w.mobs[id]
}

func (w *World) Player(id string) *Player {
	return w.players[id]
}

func (w *World) Mobs() map[string]*Mob {
	return w.mobs
}

func (w *World) Players() map[string]*Player {
	return w.players
}

// AddMob registers a mob and places it in a room. The mob's RoomId and the
// room's membership map change together.
func (w *World) AddMob(m *Mob, roomId storage.Identifier) error {
	room, ok := w.rooms[roomId]
	if !ok {
		return fmt.Errorf("%w: %s", ErrRoomNotFound, roomId)
	}
	w.mobs[m.Id] = m
	room.Mobs[m.Id] = m
	m.RoomId = roomId
	m.ZoneId = room.ZoneId
	return nil
}

// RemoveMob takes a mob out of its room but keeps it registered, so dead
// mobs can wait out their respawn delay off-map.
func (w *World) RemoveMob(m *Mob) {
	if room, ok := w.rooms[m.RoomId]; ok {
		delete(room.Mobs, m.Id)
	}
	m.RoomId = ""
}

// MoveMob relocates a mob atomically from the caller's perspective.
func (w *World) MoveMob(m *Mob, to storage.Identifier) error {
	dest, ok := w.rooms[to]
	if !ok {
		return fmt.Errorf("%w: %s", ErrRoomNotFound, to)
	}
	if room, ok := w.rooms[m.RoomId]; ok {
		delete(room.Mobs, m.Id)
	}
	dest.Mobs[m.Id] = m
	m.RoomId = to
	m.ZoneId = dest.ZoneId
	return nil
}

// AddPlayer registers a player and places them in a room.
func (w *World) AddPlayer(p *Player, roomId storage.Identifier) error {
	room, ok := w.rooms[roomId]
	if !ok {
		return fmt.Errorf("%w: %s", ErrRoomNotFound, roomId)
	}
	w.players[p.Id] = p
	room.Players[p.Id] = p
	p.RoomId = roomId
	p.ZoneId = room.ZoneId
	return nil
}

// RemovePlayer drops a player from their room and the registry.
func (w *World) RemovePlayer(p *Player) {
	if room, ok := w.rooms[p.RoomId]; ok {
		delete(room.Players, p.Id)
	}
	delete(w.players, p.Id)
	p.RoomId = ""
}

// MovePlayer relocates a player, updating ZoneId so callers can detect
// zone crossings by comparing before and after.
func (w *World) MovePlayer(p *Player, to storage.Identifier) error {
	dest, ok := w.rooms[to]
	if !ok {
		return fmt.Errorf("%w: %s", ErrRoomNotFound, to)
	}
	if room, ok := w.rooms[p.RoomId]; ok {
		delete(room.Players, p.Id)
	}
	dest.Players[p.Id] = p
	p.RoomId = to
	p.ZoneId = dest.ZoneId
	return nil
}

// AddItem puts a ground item in a room.
func (w *World) AddItem(item *ItemInstance, roomId storage.Identifier) error {
	room, ok := w.rooms[roomId]
	if !ok {
		return fmt.Errorf("%w: %s", ErrRoomNotFound, roomId)
	}
	room.Items[item.InstanceId] = item
	return nil
}

// RemoveItem takes a ground item out of a room.
func (w *World) RemoveItem(item *ItemInstance, roomId storage.Identifier) {
	if room, ok := w.rooms[roomId]; ok {
		delete(room.Items, item.InstanceId)
	}
}

// AdjacentRooms returns the distinct rooms one exit away, for yells.
func (w *World) AdjacentRooms(roomId storage.Identifier) []*Room {
	room, ok := w.rooms[roomId]
	if !ok {
		return nil
	}
	seen := map[storage.Identifier]bool{roomId: true}
	var out []*Room
	for _, exit := range room.Exits {
		if seen[exit.RoomId] {
			continue
		}
		seen[exit.RoomId] = true
		if dest, ok := w.rooms[exit.RoomId]; ok {
			out = append(out, dest)
		}
	}
	return out
}
