package game

// RoomSnapshot is the full self-only view a player receives after moving,
// respawning, or logging in.
type RoomSnapshot struct {
	ZoneId      string      `json:"zone_id"`
	ZoneName    string      `json:"zone_name"`
	RoomId      string      `json:"room_id"`
	RoomName    string      `json:"room_name"`
	Description string      `json:"description,omitempty"`
	Exits       []string    `json:"exits,omitempty"`
	Entities    []EntityRef `json:"entities,omitempty"`
	Items       []*ItemView `json:"items,omitempty"`
}

// Snapshot builds a player's view of their current room.
func (g *Game) Snapshot(playerId string) (*RoomSnapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p := g.world.Player(playerId)
	if p == nil {
		return nil, ErrPlayerNotFound
	}
	room := g.world.Room(p.RoomId)
	if room == nil {
		return nil, ErrRoomNotFound
	}

	snap := &RoomSnapshot{
		ZoneId:      string(room.ZoneId),
		RoomId:      string(room.Id),
		RoomName:    room.Name,
		Description: room.Description,
	}
	if zone := g.world.Zone(room.ZoneId); zone != nil {
		snap.ZoneName = zone.Name
	}
	for dir := range room.Exits {
		snap.Exits = append(snap.Exits, string(dir))
	}
	for _, id := range sortedKeys(room.Mobs) {
		if m := room.Mobs[id]; m.Alive() {
			snap.Entities = append(snap.Entities, m.Ref())
		}
	}
	for _, id := range sortedKeys(room.Players) {
		other := room.Players[id]
		if other.Id != p.Id && other.Active {
			snap.Entities = append(snap.Entities, other.Ref())
		}
	}
	for _, id := range sortedKeys(room.Items) {
		snap.Items = append(snap.Items, viewOf(room.Items[id]))
	}
	return snap, nil
}

// Recipients lists the active players who should see an event, applying the
// room-visibility rule plus the event's Only and Exclude restrictions.
func (g *Game) Recipients(e Event) []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if e.Only != "" {
		if p := g.world.Player(e.Only); p != nil && p.Active {
			return []string{e.Only}
		}
		return nil
	}

	room := g.world.Room(e.RoomId)
	if room == nil {
		return nil
	}
	var ids []string
	for _, id := range sortedKeys(room.Players) {
		p := room.Players[id]
		if !p.Active || p.Id == e.Exclude {
			continue
		}
		ids = append(ids, p.Id)
	}
	return ids
}
