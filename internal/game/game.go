package game

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/thornvale/mud/internal/storage"
)

// Game is one isolated simulation: the world graph, every live entity, the
// balance tuning, and the tick's event journal. All mutation happens under
// one mutex; commands apply intent immediately and the tick resolves it.
type Game struct {
	mu sync.Mutex

	world  *World
	tuning *Tuning

	chars   storage.Storer[*CharacterRecord]
	species storage.Storer[*Species]
	items   storage.Storer[*Item]

	rng  *rand.Rand
	dice Dice
	now  func() time.Time

	events      []Event
	lastPersist time.Time

	log *slog.Logger
}

// GameOpt adjusts a Game at construction, mostly to pin randomness and time
// in tests.
type GameOpt func(*Game)

func WithDice(d Dice) GameOpt {
	return func(g *Game) { g.dice = d }
}

func WithClock(now func() time.Time) GameOpt {
	return func(g *Game) { g.now = now }
}

func WithRand(r *rand.Rand) GameOpt {
	return func(g *Game) { g.rng = r }
}

func WithLogger(l *slog.Logger) GameOpt {
	return func(g *Game) { g.log = l }
}

// NewGame assembles a simulation from loaded assets and spawns one mob
// instance per template.
func NewGame(
	world *World,
	tuning *Tuning,
	chars storage.Storer[*CharacterRecord],
	species storage.Storer[*Species],
	items storage.Storer[*Item],
	mobs storage.Storer[*MobTemplate],
	opts ...GameOpt,
) (*Game, error) {
	g := &Game{
		world:   world,
		tuning:  tuning,
		chars:   chars,
		species: species,
		items:   items,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		now:     time.Now,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.dice == nil {
		g.dice = func(sides int) int { return g.rng.Intn(sides) + 1 }
	}

	templates, err := mobs.GetAll()
	if err != nil {
		return nil, fmt.Errorf("loading mob templates: %w", err)
	}
	ids := make([]storage.Identifier, 0, len(templates))
	for id := range templates {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		if err := g.spawnMob(id, templates[id]); err != nil {
			return nil, fmt.Errorf("spawning mob %s: %w", id, err)
		}
	}

	return g, nil
}

// spawnMob stamps a live instance from a template and places it in its
// spawn room with its inventory and shop stock materialized.
func (g *Game) spawnMob(templateId storage.Identifier, tmpl *MobTemplate) error {
	m := &Mob{
		Character: Character{
			Id:         uuid.NewString(),
			Kind:       KindMob,
			Name:       tmpl.Name,
			Level:      tmpl.Level,
			HealthBase: tmpl.HealthBase,
			Strength:   tmpl.Strength,
			Stamina:    tmpl.Stamina,
			Agility:    tmpl.Agility,
			Money:      tmpl.Money,
			Damage:     -1,
		},
		TemplateId:    templateId,
		Template:      tmpl,
		SpawnRoomId:   tmpl.SpawnRoomId,
		RespawnDelay:  tmpl.RespawnDuration(),
		Route:         tmpl.Route,
		conversations: make(map[string]*ConversationNode),
	}
	if m.RespawnDelay == 0 {
		m.RespawnDelay = g.tuning.PlayerRespawnDelay
	}
	for _, node := range tmpl.Conversations {
		m.conversations[node.Id] = node
	}
	m.Health = MaxHealth(&m.Character)

	for _, itemId := range tmpl.ItemIds {
		item, err := g.instantiate(itemId)
		if err != nil {
			return err
		}
		m.AddItem(item)
	}
	if tmpl.Shop != nil {
		m.Shop = &ShopState{Money: tmpl.Shop.Money, Stock: make(map[string]*ItemInstance)}
		for _, itemId := range tmpl.Shop.ItemIds {
			item, err := g.instantiate(itemId)
			if err != nil {
				return err
			}
			m.Shop.Stock[item.InstanceId] = item
		}
	}

	if len(m.Route) > 0 {
		m.MoveTime = g.now()
	}
	return g.world.AddMob(m, m.SpawnRoomId)
}

// instantiate stamps a fresh item instance from a template.
func (g *Game) instantiate(templateId storage.Identifier) (*ItemInstance, error) {
	tmpl, err := g.items.Get(templateId)
	if err != nil {
		return nil, fmt.Errorf("loading item %s: %w", templateId, err)
	}
	return &ItemInstance{
		InstanceId: uuid.NewString(),
		TemplateId: templateId,
		Tmpl:       tmpl,
	}, nil
}

// World exposes the registry for the session layer's read-only projections.
func (g *Game) World() *World {
	return g.world
}

// Tuning exposes the balance constants.
func (g *Game) Tuning() *Tuning {
	return g.tuning
}

// DrainEvents hands the accumulated journal to the caller and resets it.
func (g *Game) DrainEvents() []Event {
	g.mu.Lock()
	defer g.mu.Unlock()
	events := g.events
	g.events = nil
	return events
}

func (g *Game) emit(e Event) {
	g.events = append(g.events, e)
}

// AttachPlayer connects a character by name, creating it with the species'
// base stats when it does not exist yet. Returns the live player.
func (g *Game) AttachPlayer(name string, speciesId storage.Identifier) (*Player, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	charId := storage.Identifier(strings.ToLower(strings.TrimSpace(name)))
	if err := charId.Validate(); err != nil {
		return nil, NewUserError("that is not a usable character name")
	}

	if existing := g.world.Player(string(charId)); existing != nil {
		if existing.Active {
			return nil, ErrPlayerExists
		}
		existing.Active = true
		g.emit(Event{Kind: EventEnter, RoomId: existing.RoomId, Actor: refOf(&existing.Character), Exclude: existing.Id})
		return existing, nil
	}

	record, err := g.chars.Get(charId)
	if err != nil {
		record, err = g.createRecord(charId, name, speciesId)
		if err != nil {
			return nil, err
		}
	}

	p, err := g.materialize(charId, record)
	if err != nil {
		return nil, err
	}
	p.Active = true

	roomId := record.RoomId
	if g.world.Room(roomId) == nil {
		sp, err := g.species.Get(p.SpeciesId)
		if err != nil {
			return nil, fmt.Errorf("loading species %s: %w", p.SpeciesId, err)
		}
		roomId = sp.StartRoomId
	}
	if err := g.world.AddPlayer(p, roomId); err != nil {
		return nil, err
	}

	g.emit(Event{Kind: EventEnter, RoomId: p.RoomId, Actor: refOf(&p.Character), Exclude: p.Id})
	return p, nil
}

// createRecord builds and saves a brand new character from species stats.
func (g *Game) createRecord(charId storage.Identifier, name string, speciesId storage.Identifier) (*CharacterRecord, error) {
	sp, err := g.species.Get(speciesId)
	if err != nil {
		return nil, NewUserError("that species does not exist")
	}
	record := &CharacterRecord{
		Name:      strings.TrimSpace(name),
		SpeciesId: speciesId,
		Level:     1,
		Health:    sp.HealthBase,
		RoomId:    sp.StartRoomId,
	}
	if err := g.chars.Save(charId, record); err != nil {
		return nil, fmt.Errorf("saving character %s: %w", charId, err)
	}
	return record, nil
}

// materialize turns a persisted record into a live player, rejoining item
// templates and species base stats by id.
func (g *Game) materialize(charId storage.Identifier, record *CharacterRecord) (*Player, error) {
	sp, err := g.species.Get(record.SpeciesId)
	if err != nil {
		return nil, fmt.Errorf("loading species %s: %w", record.SpeciesId, err)
	}

	p := &Player{
		Character: Character{
			Id:               string(charId),
			Kind:             KindPlayer,
			Name:             record.Name,
			Level:            record.Level,
			Experience:       record.Experience,
			Health:           record.Health,
			Strength:         record.Strength,
			Stamina:          record.Stamina,
			Agility:          record.Agility,
			Intelligence:     record.Intelligence,
			StrengthBase:     sp.Strength,
			StaminaBase:      sp.Stamina,
			AgilityBase:      sp.Agility,
			IntelligenceBase: sp.Intelligence,
			HealthBase:       sp.HealthBase,
			Money:            record.Money,
			Items:            make(map[string]*ItemInstance),
			Equipment:        make(map[Slot]string),
			Factions:         record.Factions,
			Damage:           -1,
		},
		SpeciesId: record.SpeciesId,
	}

	for _, ir := range record.Items {
		tmpl, err := g.items.Get(ir.TemplateId)
		if err != nil {
			g.log.Warn("dropping unknown item from character", "character", charId, "item", ir.TemplateId)
			continue
		}
		item := &ItemInstance{InstanceId: ir.InstanceId, TemplateId: ir.TemplateId, Tmpl: tmpl}
		p.AddItem(item)
		if ir.Equipped != SlotNone {
			p.Equipment[ir.Equipped] = item.InstanceId
		}
	}

	if max := MaxHealth(&p.Character); p.Health > max {
		p.Health = max
	}
	return p, nil
}

// DetachPlayer disconnects a player: state is persisted and the entity goes
// inactive but stays in the world for the tick to reconcile.
func (g *Game) DetachPlayer(playerId string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	p := g.world.Player(playerId)
	if p == nil {
		return ErrPlayerNotFound
	}
	p.Active = false
	p.Attacking = ""
	p.Conversation = nil
	p.PendingMove = ""

	if err := g.persistPlayer(p); err != nil {
		g.log.Error("persisting character on detach", "character", playerId, "error", err)
	}

	g.emit(Event{Kind: EventLeave, RoomId: p.RoomId, Actor: refOf(&p.Character), Exclude: p.Id})
	return nil
}

// persistPlayer flushes a player's mutable fields to the character store.
// Callers hold the game lock.
func (g *Game) persistPlayer(p *Player) error {
	record := &CharacterRecord{
		Name:         p.Name,
		SpeciesId:    p.SpeciesId,
		Level:        p.Level,
		Experience:   p.Experience,
		Health:       p.Health,
		Strength:     p.Strength,
		Stamina:      p.Stamina,
		Agility:      p.Agility,
		Intelligence: p.Intelligence,
		Money:        p.Money,
		RoomId:       p.RoomId,
		Factions:     p.Factions,
	}
	for _, item := range p.Items {
		ir := &ItemRecord{InstanceId: item.InstanceId, TemplateId: item.TemplateId}
		for slot, id := range p.Equipment {
			if id == item.InstanceId {
				ir.Equipped = slot
			}
		}
		record.Items = append(record.Items, ir)
	}
	return g.chars.Save(storage.Identifier(p.Id), record)
}

func refOf(c *Character) *EntityRef {
	r := c.Ref()
	return &r
}
