package game

import (
	"context"
	"sort"
	"time"
)

// Tick adapts the simulation to the driver's clock.
func (g *Game) Tick(_ context.Context, now time.Time) error {
	g.Update(now)
	return nil
}

// Update advances the simulation one tick. Mobs resolve strictly before
// players so a player who kills a mob this tick does not also take its hit,
// even under identical timestamps. A fault in one entity's processing is
// logged and skips only that entity.
func (g *Game) Update(now time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.resetTick()

	for _, id := range sortedKeys(g.world.Mobs()) {
		g.tickEntity("mob", id, func() { g.tickMob(g.world.Mob(id), now) })
	}
	for _, id := range sortedKeys(g.world.Players()) {
		g.tickEntity("player", id, func() { g.tickPlayer(g.world.Player(id), now) })
	}

	g.decayItems(now)

	if g.tuning.PersistInterval > 0 && now.Sub(g.lastPersist) >= g.tuning.PersistInterval {
		g.flushPlayers()
		g.lastPersist = now
	}
}

// tickEntity isolates one entity's processing so a panic cannot halt the
// tick for everyone else.
func (g *Game) tickEntity(kind, id string, f func()) {
	defer func() {
		if r := recover(); r != nil {
			g.log.Error("entity tick panicked", "kind", kind, "id", id, "panic", r)
		}
	}()
	f()
}

// resetTick clears the per-tick combat markers on every character, mob and
// player alike, and rederives player encumbrance.
func (g *Game) resetTick() {
	for _, m := range g.world.Mobs() {
		m.Damage = -1
		m.Attacker = ""
	}
	for _, p := range g.world.Players() {
		p.Damage = -1
		p.Attacker = ""
		p.Encumbered = p.CarriedWeight() > MaxWeight(g.tuning, &p.Character)
	}
}

func (g *Game) tickMob(m *Mob, now time.Time) {
	if m == nil {
		return
	}

	if !m.Alive() {
		if m.Attacking != "" {
			m.EndCombat(now)
		}
		if !m.KillTime.IsZero() && now.Sub(m.KillTime) >= m.RespawnDelay {
			g.respawnMob(m, now)
		}
		return
	}

	if m.Attacking != "" {
		target := g.world.Player(m.Attacking)
		if target == nil || !target.Active || !target.Alive() || target.RoomId != m.RoomId {
			m.EndCombat(now)
			return
		}
		if !now.Before(m.NextAttackTime) {
			g.resolveAttack(&m.Character, &target.Character, now)
			if !target.Alive() {
				g.emit(Event{Kind: EventDie, RoomId: m.RoomId, Actor: refOf(&m.Character), Target: refOf(&target.Character)})
				m.EndCombat(now)
			}
		}
		return
	}

	if len(m.Route) > 0 {
		g.tickRoute(m, now)
	}
}

// tickRoute walks a mob along its patrol. The mob must still be in the
// leg's expected source room; if something displaced it the clock restarts
// and the route resumes from wherever it is.
func (g *Game) tickRoute(m *Mob, now time.Time) {
	leg := m.Route[m.RouteIndex]
	if now.Sub(m.MoveTime) < leg.WaitDuration() {
		return
	}

	expected := m.SpawnRoomId
	if m.RouteIndex > 0 {
		expected = m.Route[m.RouteIndex-1].RoomId
	}
	if m.RoomId != expected {
		g.log.Warn("mob off route, restarting leg clock", "mob", m.Id, "room", m.RoomId, "expected", expected)
		m.MoveTime = now
		return
	}

	from := m.RoomId
	if err := g.world.MoveMob(m, leg.RoomId); err != nil {
		g.log.Error("moving mob along route", "mob", m.Id, "error", err)
		return
	}
	g.emit(Event{Kind: EventLeave, RoomId: from, Actor: refOf(&m.Character)})
	g.emit(Event{Kind: EventEnter, RoomId: m.RoomId, Actor: refOf(&m.Character)})

	m.RouteIndex = (m.RouteIndex + 1) % len(m.Route)
	m.MoveTime = now
}

// respawnMob brings a dead mob back at its spawn room with full health and
// a fresh inventory.
func (g *Game) respawnMob(m *Mob, now time.Time) {
	m.KillTime = time.Time{}
	m.Health = MaxHealth(&m.Character)
	m.Items = make(map[string]*ItemInstance)
	m.Equipment = nil
	m.Money = m.Template.Money
	for _, itemId := range m.Template.ItemIds {
		item, err := g.instantiate(itemId)
		if err != nil {
			g.log.Error("restocking mob on respawn", "mob", m.Id, "item", itemId, "error", err)
			continue
		}
		m.AddItem(item)
	}

	if err := g.world.MoveMob(m, m.SpawnRoomId); err != nil {
		g.log.Error("respawning mob", "mob", m.Id, "error", err)
		return
	}
	m.RouteIndex = 0
	m.MoveTime = now
	g.emit(Event{Kind: EventEnter, RoomId: m.RoomId, Actor: refOf(&m.Character)})
}

func (g *Game) tickPlayer(p *Player, now time.Time) {
	if p == nil || !p.Active {
		return
	}

	if !p.Alive() {
		p.Attacking = ""
		p.Conversation = nil
		p.PendingMove = ""
		if p.RespawnRequested || (!p.KillTime.IsZero() && now.Sub(p.KillTime) >= g.tuning.PlayerRespawnDelay) {
			g.respawnPlayer(p, now)
		}
		return
	}

	if p.PendingMove != "" {
		g.resolveMove(p)
	}

	if p.Attacking != "" {
		target := g.world.Mob(p.Attacking)
		if target == nil || !target.Alive() || target.RoomId != p.RoomId {
			p.Attacking = ""
			return
		}
		if !now.Before(p.NextAttackTime) {
			damage := g.resolveAttack(&p.Character, &target.Character, now)
			if !target.Alive() {
				g.killMob(target, p, now)
				p.Attacking = ""
			} else if damage > 0 {
				target.Attacking = target.RecordDamage(p.Id, damage)
			}
		}
	}
}

// resolveMove applies a queued room transition and hands the player a fresh
// room snapshot.
func (g *Game) resolveMove(p *Player) {
	dir := p.PendingMove
	p.PendingMove = ""

	room := g.world.Room(p.RoomId)
	if room == nil {
		g.log.Error("player in unknown room", "player", p.Id, "room", p.RoomId)
		return
	}
	exit := room.Exit(dir)
	if exit == nil {
		return
	}

	from := p.RoomId
	if err := g.world.MovePlayer(p, exit.RoomId); err != nil {
		g.log.Error("moving player", "player", p.Id, "error", err)
		return
	}
	p.Conversation = nil

	g.emit(Event{Kind: EventLeave, RoomId: from, Actor: refOf(&p.Character), Exclude: p.Id})
	g.emit(Event{Kind: EventEnter, RoomId: p.RoomId, Actor: refOf(&p.Character), Exclude: p.Id})
	g.emit(Event{Kind: EventMove, RoomId: p.RoomId, Actor: refOf(&p.Character), Only: p.Id})
}

// respawnPlayer returns a dead player to their species' starting room at
// full health.
func (g *Game) respawnPlayer(p *Player, now time.Time) {
	sp, err := g.species.Get(p.SpeciesId)
	if err != nil {
		g.log.Error("respawning player", "player", p.Id, "species", p.SpeciesId, "error", err)
		return
	}

	from := p.RoomId
	if err := g.world.MovePlayer(p, sp.StartRoomId); err != nil {
		g.log.Error("respawning player", "player", p.Id, "error", err)
		return
	}
	p.Health = MaxHealth(&p.Character)
	p.KillTime = time.Time{}
	p.RespawnRequested = false

	g.emit(Event{Kind: EventLeave, RoomId: from, Actor: refOf(&p.Character), Exclude: p.Id})
	g.emit(Event{Kind: EventEnter, RoomId: p.RoomId, Actor: refOf(&p.Character), Exclude: p.Id})
	g.emit(Event{Kind: EventMove, RoomId: p.RoomId, Actor: refOf(&p.Character), Only: p.Id})
}

// resolveAttack rolls one swing from attacker to defender, applies damage,
// and stamps the attacker's next cooldown. Returns the damage this swing
// dealt, zero on a miss.
func (g *Game) resolveAttack(attacker, defender *Character, now time.Time) int {
	attacker.NextAttackTime = now.Add(NextAttackDelay(g.tuning, attacker))

	damage := 0
	if WillHit(g.tuning, g.rng.Float64(), attacker.Level, defender.Level) {
		damage = RollDamage(g.tuning, g.dice, attacker)
		defender.ApplyDamage(damage)
		defender.Damage = damage
		defender.Attacker = attacker.Id
		if !defender.Alive() {
			defender.KillTime = now
		}
	}

	g.emit(Event{
		Kind:   EventAttack,
		RoomId: attacker.RoomId,
		Actor:  refOf(attacker),
		Target: refOf(defender),
		Damage: damage,
	})
	return damage
}

// killMob settles a mob's death: experience and faction rewards to the
// killer, a fresh per-kill copy of each carried item on the ground, and the
// corpse off the map until respawn.
func (g *Game) killMob(m *Mob, killer *Player, now time.Time) {
	g.emit(Event{Kind: EventDie, RoomId: m.RoomId, Actor: refOf(&killer.Character), Target: refOf(&m.Character)})

	reward := ExperienceReward(g.tuning, killer.Level, m.Level)
	if reward > 0 {
		killer.Experience += reward
		killer.Level = ExperienceLevel(g.tuning, killer.Experience)
	}
	for _, fr := range m.Template.FactionRewards {
		killer.AdjustFaction(fr.FactionId, fr.Score)
	}

	roomId := m.RoomId
	for _, carried := range m.Items {
		loot, err := g.instantiate(carried.TemplateId)
		if err != nil {
			g.log.Error("dropping mob loot", "mob", m.Id, "item", carried.TemplateId, "error", err)
			continue
		}
		loot.DropTime = now
		loot.DroppedBy = killer.Id
		if err := g.world.AddItem(loot, roomId); err != nil {
			continue
		}
		g.emit(Event{Kind: EventDrop, RoomId: roomId, Actor: refOf(&m.Character), Item: viewOf(loot)})
	}

	m.EndCombat(now)
	g.world.RemoveMob(m)
}

// decayItems removes ground loot that has outlived the decay window.
func (g *Game) decayItems(now time.Time) {
	for _, id := range sortedKeys(g.world.rooms) {
		room := g.world.rooms[id]
		for _, item := range room.Items {
			if item.DropTime.IsZero() || now.Sub(item.DropTime) < g.tuning.DecayWindow {
				continue
			}
			item.Decayed = true
			g.world.RemoveItem(item, room.Id)
			g.emit(Event{Kind: EventDecay, RoomId: room.Id, Item: viewOf(item)})
		}
	}
}

// flushPlayers persists every attached player.
func (g *Game) flushPlayers() {
	for _, p := range g.world.Players() {
		if !p.Active {
			continue
		}
		if err := g.persistPlayer(p); err != nil {
			g.log.Error("persisting character", "character", p.Id, "error", err)
		}
	}
}

// sortedKeys returns map keys in a stable order so tick resolution is
// deterministic.
func sortedKeys[K ~string, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
