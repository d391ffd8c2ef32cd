package game

import (
	"sort"
	"time"
)

// activePlayer resolves a command's issuing player. Callers hold the lock.
func (g *Game) activePlayer(playerId string) (*Player, error) {
	p := g.world.Player(playerId)
	if p == nil || !p.Active {
		return nil, ErrPlayerNotFound
	}
	return p, nil
}

// livingPlayer is activePlayer plus the dead-player gate: a player at zero
// health can do nothing but talk and wait for respawn.
func (g *Game) livingPlayer(playerId string) (*Player, error) {
	p, err := g.activePlayer(playerId)
	if err != nil {
		return nil, err
	}
	if !p.Alive() {
		return nil, NewUserError("you are dead")
	}
	return p, nil
}

// Move records movement intent. The exit is validated now; the actual room
// transition happens on the next tick.
func (g *Game) Move(playerId string, dir Direction) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, err := g.livingPlayer(playerId)
	if err != nil {
		return err
	}
	if p.Encumbered {
		return NewUserError("you are carrying too much to move")
	}
	room := g.world.Room(p.RoomId)
	if room == nil {
		return ErrRoomNotFound
	}
	if room.Exit(dir) == nil {
		return NewUserError("you cannot go that way")
	}
	p.PendingMove = dir
	return nil
}

// Attack records combat intent against a mob in the player's room.
func (g *Game) Attack(playerId, target string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, err := g.livingPlayer(playerId)
	if err != nil {
		return err
	}
	room := g.world.Room(p.RoomId)
	if room == nil {
		return ErrRoomNotFound
	}
	m := room.FindMob(target)
	if m == nil || !m.Alive() {
		return NewUserError("there is nothing here by that name to attack")
	}
	p.Attacking = m.Id
	return nil
}

// SayText broadcasts speech to the player's room and, when a conversation
// cursor is open, steps the dialogue engine with the spoken text.
func (g *Game) SayText(playerId, text string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, err := g.activePlayer(playerId)
	if err != nil {
		return err
	}
	g.emit(Event{Kind: EventSay, RoomId: p.RoomId, Actor: refOf(&p.Character), Text: text, Exclude: p.Id})

	if p.Conversation != nil {
		g.stepConversation(p, text)
	}
	return nil
}

// Yell broadcasts speech to the player's room and every adjacent room.
func (g *Game) Yell(playerId, text string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, err := g.activePlayer(playerId)
	if err != nil {
		return err
	}
	g.emit(Event{Kind: EventYell, RoomId: p.RoomId, Actor: refOf(&p.Character), Text: text, Exclude: p.Id})
	for _, room := range g.world.AdjacentRooms(p.RoomId) {
		g.emit(Event{Kind: EventYell, RoomId: room.Id, Actor: refOf(&p.Character), Text: text})
	}
	return nil
}

// Consider sizes up a mob: the threat tier for the level delta and the
// player's standing with the mob's faction.
func (g *Game) Consider(playerId, target string) (ThreatTier, FactionTier, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, err := g.activePlayer(playerId)
	if err != nil {
		return ThreatTier{}, FactionTier{}, err
	}
	room := g.world.Room(p.RoomId)
	if room == nil {
		return ThreatTier{}, FactionTier{}, ErrRoomNotFound
	}
	m := room.FindMob(target)
	if m == nil {
		return ThreatTier{}, FactionTier{}, NewUserError("there is nothing here by that name")
	}

	threat := ThreatFor(p.Level, m.Level)
	standing := FactionTierFor(p.FactionScore(m.Template.FactionId))
	return threat, standing, nil
}

// Hail opens a conversation with a mob: the best qualifying root node wins,
// preferring the latest match when several qualify. Hailing at the hostile
// standing floor provokes an attack instead.
func (g *Game) Hail(playerId, target string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, err := g.livingPlayer(playerId)
	if err != nil {
		return err
	}
	room := g.world.Room(p.RoomId)
	if room == nil {
		return ErrRoomNotFound
	}
	m := room.FindMob(target)
	if m == nil || !m.Alive() {
		return NewUserError("there is nobody here by that name")
	}

	if m.Template.FactionId != "" && Hostile(p.FactionScore(m.Template.FactionId)) {
		m.Attacking = p.Id
		return nil
	}

	var chosen *ConversationNode
	for _, root := range m.RootConversations() {
		if root.ConditionsMet(p) {
			chosen = root
		}
	}
	if chosen == nil {
		return NewUserError("they have nothing to say to you")
	}

	p.Conversation = &ConversationCursor{MobId: m.Id, NodeId: chosen.Id}
	g.applyConversationRewards(p, chosen)
	g.emit(Event{Kind: EventSay, RoomId: p.RoomId, Actor: refOf(&m.Character), Text: chosen.Render(p.Name)})
	return nil
}

// stepConversation advances an open dialogue with spoken text: one edge per
// input, entered only when the target node's conditions all hold. Callers
// hold the lock.
func (g *Game) stepConversation(p *Player, text string) {
	m := g.world.Mob(p.Conversation.MobId)
	if m == nil || !m.Alive() || m.RoomId != p.RoomId {
		p.Conversation = nil
		return
	}
	node := m.ConversationNode(p.Conversation.NodeId)
	if node == nil {
		p.Conversation = nil
		return
	}

	resp := node.MatchResponse(text)
	if resp == nil {
		return
	}
	next := m.ConversationNode(resp.NodeId)
	if next == nil || !next.ConditionsMet(p) {
		return
	}

	p.Conversation.NodeId = next.Id
	g.applyConversationRewards(p, next)
	g.emit(Event{Kind: EventSay, RoomId: p.RoomId, Actor: refOf(&m.Character), Text: next.Render(p.Name)})
}

// applyConversationRewards grants a node's rewards once, on entry.
func (g *Game) applyConversationRewards(p *Player, node *ConversationNode) {
	for _, reward := range node.Rewards {
		if reward.ItemId != "" {
			item, err := g.instantiate(reward.ItemId)
			if err != nil {
				g.log.Error("granting conversation reward", "item", reward.ItemId, "error", err)
				continue
			}
			p.AddItem(item)
		}
		p.Money += reward.Money
		if reward.Experience > 0 {
			p.Experience += reward.Experience
			p.Level = ExperienceLevel(g.tuning, p.Experience)
		}
	}
}

// Take picks up a ground item.
func (g *Game) Take(playerId, itemStr string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, err := g.livingPlayer(playerId)
	if err != nil {
		return err
	}
	room := g.world.Room(p.RoomId)
	if room == nil {
		return ErrRoomNotFound
	}
	item := room.FindItem(itemStr)
	if item == nil {
		return NewUserError("there is nothing here by that name")
	}

	g.world.RemoveItem(item, p.RoomId)
	item.DropTime = time.Time{}
	item.DroppedBy = ""
	p.AddItem(item)
	g.emit(Event{Kind: EventTake, RoomId: p.RoomId, Actor: refOf(&p.Character), Item: viewOf(item)})
	return nil
}

// Drop puts a carried item on the ground, stamped for decay.
func (g *Game) Drop(playerId, itemStr string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, err := g.livingPlayer(playerId)
	if err != nil {
		return err
	}
	item := findCarried(p, itemStr)
	if item == nil {
		return NewUserError("you are not carrying that")
	}

	p.RemoveItem(item.InstanceId)
	item.DropTime = g.now()
	item.DroppedBy = p.Id
	if err := g.world.AddItem(item, p.RoomId); err != nil {
		return err
	}
	g.emit(Event{Kind: EventDrop, RoomId: p.RoomId, Actor: refOf(&p.Character), Item: viewOf(item)})
	return nil
}

// EquipItem equips a carried item, or unequips it if it is already worn.
func (g *Game) EquipItem(playerId, itemStr string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, err := g.livingPlayer(playerId)
	if err != nil {
		return err
	}
	item := findCarried(p, itemStr)
	if item == nil {
		return NewUserError("you are not carrying that")
	}
	slot := item.Tmpl.Slot
	if slot == SlotNone {
		return NewUserError("that cannot be equipped")
	}

	if p.Equipment[slot] == item.InstanceId {
		delete(p.Equipment, slot)
	} else {
		if p.Equipment == nil {
			p.Equipment = make(map[Slot]string)
		}
		p.Equipment[slot] = item.InstanceId
	}
	if max := MaxHealth(&p.Character); p.Health > max {
		p.Health = max
	}
	g.emit(Event{Kind: EventEquip, RoomId: p.RoomId, Actor: refOf(&p.Character), Item: viewOf(item), Only: p.Id})
	return nil
}

// ShopList returns a shopkeeper's current stock.
func (g *Game) ShopList(playerId, target string) ([]*ItemView, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, m, err := g.shopkeeper(playerId, target)
	if err != nil {
		return nil, err
	}
	var views []*ItemView
	for _, item := range m.Shop.Stock {
		views = append(views, viewOf(item))
	}
	sort.Slice(views, func(i, j int) bool { return views[i].Name < views[j].Name })
	return views, nil
}

// Buy purchases an item from a shopkeeper's stock.
func (g *Game) Buy(playerId, target, itemStr string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, m, err := g.shopkeeper(playerId, target)
	if err != nil {
		return err
	}
	item := m.Shop.FindStock(itemStr)
	if item == nil {
		return NewUserError("they are not selling that")
	}
	if err := m.Shop.Buy(p, item); err != nil {
		return err
	}
	g.emit(Event{Kind: EventBuy, RoomId: p.RoomId, Actor: refOf(&p.Character), Target: refOf(&m.Character), Item: viewOf(item), Only: p.Id})
	return nil
}

// Sell sells a carried item to a shopkeeper.
func (g *Game) Sell(playerId, target, itemStr string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, m, err := g.shopkeeper(playerId, target)
	if err != nil {
		return err
	}
	item := findCarried(p, itemStr)
	if item == nil {
		return NewUserError("you are not carrying that")
	}
	if err := m.Shop.Sell(p, item); err != nil {
		return err
	}
	g.emit(Event{Kind: EventSell, RoomId: p.RoomId, Actor: refOf(&p.Character), Target: refOf(&m.Character), Item: viewOf(item), Only: p.Id})
	return nil
}

// shopkeeper resolves a living, co-located mob that runs a shop. Callers
// hold the lock.
func (g *Game) shopkeeper(playerId, target string) (*Player, *Mob, error) {
	p, err := g.livingPlayer(playerId)
	if err != nil {
		return nil, nil, err
	}
	room := g.world.Room(p.RoomId)
	if room == nil {
		return nil, nil, ErrRoomNotFound
	}
	m := room.FindMob(target)
	if m == nil || !m.Alive() {
		return nil, nil, NewUserError("there is nobody here by that name")
	}
	if m.Shop == nil {
		return nil, nil, NewUserError("they are not running a shop")
	}
	return p, m, nil
}

// RespawnNow asks for an immediate respawn, skipping the remaining delay.
func (g *Game) RespawnNow(playerId string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, err := g.activePlayer(playerId)
	if err != nil {
		return err
	}
	if p.Alive() {
		return NewUserError("you are not dead")
	}
	p.RespawnRequested = true
	return nil
}

// findCarried matches a carried item by instance id or template name.
func findCarried(p *Player, str string) *ItemInstance {
	if item, ok := p.Items[str]; ok {
		return item
	}
	for _, item := range p.Items {
		if matchItemName(item, str) {
			return item
		}
	}
	return nil
}
