package game

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/thornvale/mud/internal/storage"
)

// memStore is an in-memory Storer for tests.
type memStore[T storage.ValidatingSpec] struct {
	records map[storage.Identifier]T
}

func newMemStore[T storage.ValidatingSpec](records map[storage.Identifier]T) *memStore[T] {
	if records == nil {
		records = map[storage.Identifier]T{}
	}
	return &memStore[T]{records: records}
}

func (s *memStore[T]) Save(id storage.Identifier, o T) error {
	s.records[id] = o
	return nil
}

func (s *memStore[T]) Get(id storage.Identifier) (T, error) {
	record, ok := s.records[id]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %s", storage.ErrNotFound, id)
	}
	return record, nil
}

func (s *memStore[T]) GetAll() (map[storage.Identifier]T, error) {
	return s.records, nil
}

// scriptedSource feeds rand.Rand a fixed sequence of Int63 values so hit
// rolls resolve in a chosen order. 1<<62 yields Float64 0.5, 0 yields 0.
type scriptedSource struct {
	values []int64
	i      int
}

func (s *scriptedSource) Int63() int64 {
	v := s.values[s.i%len(s.values)]
	s.i++
	return v
}

func (s *scriptedSource) Seed(int64) {}

func scriptedRand(values ...int64) *rand.Rand {
	return rand.New(&scriptedSource{values: values})
}

// fakeClock hands out a settable time.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) time.Time {
	c.t = c.t.Add(d)
	return c.t
}

func newTestWorld(t *testing.T) *World {
	t.Helper()
	zones := map[storage.Identifier]*Zone{
		"test-zone": {Name: "Test Zone"},
	}
	rooms := map[storage.Identifier]*Room{
		"room-1": {
			ZoneId: "test-zone",
			Name:   "Room One",
			Exits:  map[Direction]*Exit{DirNorth: {RoomId: "room-2"}},
		},
		"room-2": {
			ZoneId: "test-zone",
			Name:   "Room Two",
			Exits:  map[Direction]*Exit{DirSouth: {RoomId: "room-1"}},
		},
	}
	w, err := NewWorld(zones, rooms)
	if err != nil {
		t.Fatalf("building world: %v", err)
	}
	return w
}

type testFixture struct {
	game  *Game
	world *World
	clock *fakeClock
	chars *memStore[*CharacterRecord]
}

// alwaysHitTuning removes the miss chance so combat tests are fully
// determined by the injected dice.
func alwaysHitTuning() *Tuning {
	tun := DefaultTuning()
	tun.MissEvenBase = 0
	tun.MissEvenScale = 0
	tun.MissUnevenBase = 0
	tun.MissUnevenScale = 0
	return tun
}

func newTestGame(t *testing.T, tun *Tuning, items map[storage.Identifier]*Item, mobs map[storage.Identifier]*MobTemplate, dice Dice, extra ...GameOpt) *testFixture {
	t.Helper()

	if tun == nil {
		tun = alwaysHitTuning()
	}
	clock := &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	chars := newMemStore[*CharacterRecord](nil)
	species := newMemStore(map[storage.Identifier]*Species{
		"human": {
			Name:        "Human",
			StartRoomId: "room-1",
			HealthBase:  100,
			Strength:    10,
			Stamina:     10,
		},
	})
	world := newTestWorld(t)

	opts := []GameOpt{WithClock(clock.Now)}
	if dice != nil {
		opts = append(opts, WithDice(dice))
	}
	opts = append(opts, extra...)
	g, err := NewGame(world, tun, chars, species, newMemStore(items), newMemStore(mobs), opts...)
	if err != nil {
		t.Fatalf("building game: %v", err)
	}
	return &testFixture{game: g, world: world, clock: clock, chars: chars}
}

func (f *testFixture) attach(t *testing.T, name string) *Player {
	t.Helper()
	p, err := f.game.AttachPlayer(name, "human")
	if err != nil {
		t.Fatalf("attaching %s: %v", name, err)
	}
	return p
}

// soleMob returns the single mob in the world, failing when there is not
// exactly one.
func (f *testFixture) soleMob(t *testing.T) *Mob {
	t.Helper()
	mobs := f.world.Mobs()
	if len(mobs) != 1 {
		t.Fatalf("expected exactly one mob, got %d", len(mobs))
	}
	for _, m := range mobs {
		return m
	}
	return nil
}
