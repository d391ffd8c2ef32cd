package game

import (
	"testing"
	"time"

	"github.com/pixil98/go-testutil"
	"github.com/thornvale/mud/internal/storage"
)

func ratTemplate() *MobTemplate {
	return &MobTemplate{
		Name:        "Giant Rat",
		Level:       5,
		HealthBase:  10,
		SpawnRoomId: "room-1",
		ItemIds:     []storage.Identifier{"rat-tail"},
		FactionRewards: []*FactionReward{
			{FactionId: "rat-catchers", Score: 5},
		},
	}
}

func ratItems() map[storage.Identifier]*Item {
	return map[storage.Identifier]*Item{
		"rat-tail": {Name: "Rat Tail", Rarity: RarityCommon, Weight: 1, Value: 2},
	}
}

func TestCombatKill(t *testing.T) {
	fixedDice := func(sides int) int { return 8 }
	f := newTestGame(t, nil, ratItems(), map[storage.Identifier]*MobTemplate{"rat": ratTemplate()}, fixedDice)

	p := f.attach(t, "alice")
	p.Level = 5
	p.Experience = 130000 // level 5 on the default curve

	rat := f.soleMob(t)
	testutil.AssertEqual(t, "rat starting health", rat.Health, 10)

	if err := f.game.Attack(p.Id, "giant rat"); err != nil {
		t.Fatalf("attack: %v", err)
	}
	f.game.Update(f.clock.Advance(time.Second))

	// roll 8, no weapon, level 5/2 = 2 -> 10 damage kills the rat outright
	testutil.AssertEqual(t, "rat health", rat.Health, 0)
	testutil.AssertEqual(t, "experience gained", p.Experience, 130075)
	testutil.AssertEqual(t, "level unchanged", p.Level, 5)
	testutil.AssertEqual(t, "faction reward", p.FactionScore("rat-catchers"), 5)
	testutil.AssertEqual(t, "player combat cleared", p.Attacking, "")

	// corpse leaves the room until respawn, loot drops in its place
	room := f.world.Room("room-1")
	testutil.AssertEqual(t, "mobs in room", len(room.Mobs), 0)
	testutil.AssertEqual(t, "loot on ground", len(room.Items), 1)
	for _, item := range room.Items {
		testutil.AssertEqual(t, "loot template", string(item.TemplateId), "rat-tail")
		testutil.AssertEqual(t, "loot claimant", item.DroppedBy, p.Id)
		if item.DropTime.IsZero() {
			t.Error("expected loot to be stamped with drop time")
		}
	}
}

func TestTrivialKillGrantsNoExperience(t *testing.T) {
	fixedDice := func(sides int) int { return 20 }
	f := newTestGame(t, nil, ratItems(), map[storage.Identifier]*MobTemplate{"rat": ratTemplate()}, fixedDice)

	p := f.attach(t, "alice")
	p.Level = 20
	p.Experience = 8500000 // deep into level 20

	if err := f.game.Attack(p.Id, "giant rat"); err != nil {
		t.Fatalf("attack: %v", err)
	}
	f.game.Update(f.clock.Advance(time.Second))

	rat := f.soleMob(t)
	testutil.AssertEqual(t, "rat dead", rat.Alive(), false)
	testutil.AssertEqual(t, "no experience for trivial kill", p.Experience, 8500000)
}

func TestAggroLedger(t *testing.T) {
	m := &Mob{Character: Character{Id: "mob-1", Kind: KindMob, Name: "Rat"}}

	m.Attacking = m.RecordDamage("player-a", 10)
	testutil.AssertEqual(t, "first attacker holds aggro", m.Attacking, "player-a")

	m.Attacking = m.RecordDamage("player-b", 15)
	testutil.AssertEqual(t, "higher total takes aggro", m.Attacking, "player-b")

	// a pulls even at 15: the current target keeps aggro on a tie
	m.Attacking = m.RecordDamage("player-a", 5)
	testutil.AssertEqual(t, "tie retains current target", m.Attacking, "player-b")

	m.Attacking = m.RecordDamage("player-a", 1)
	testutil.AssertEqual(t, "strictly higher total retakes aggro", m.Attacking, "player-a")
}

func TestAggroCreditsOnlyLandedHits(t *testing.T) {
	fixedDice := func(sides int) int { return 5 }
	ogre := &MobTemplate{
		Name:        "Ogre",
		Level:       5,
		HealthBase:  500,
		SpawnRoomId: "room-1",
	}
	// alice's roll lands, bob's misses; players resolve in id order
	rng := scriptedRand(1<<62, 0)
	f := newTestGame(t, DefaultTuning(), nil, map[storage.Identifier]*MobTemplate{"ogre": ogre}, fixedDice, WithRand(rng))

	alice := f.attach(t, "alice")
	alice.Level = 5
	bob := f.attach(t, "bob")
	bob.Level = 5

	m := f.soleMob(t)
	if err := f.game.Attack(alice.Id, "ogre"); err != nil {
		t.Fatalf("attack: %v", err)
	}
	if err := f.game.Attack(bob.Id, "ogre"); err != nil {
		t.Fatalf("attack: %v", err)
	}
	f.game.Update(f.clock.Advance(time.Second))

	// roll 5, no weapon, level 5/2 = 2 -> alice's hit lands for 7
	testutil.AssertEqual(t, "ogre health", m.Health, MaxHealth(&m.Character)-7)
	testutil.AssertEqual(t, "alice credited her hit", m.DamageTotals[alice.Id], 7)
	if _, ok := m.DamageTotals[bob.Id]; ok {
		t.Errorf("missed swing entered the ledger: %v", m.DamageTotals)
	}
	testutil.AssertEqual(t, "aggro on alice", m.Attacking, alice.Id)
}

func TestMobKillBroadcastsDeath(t *testing.T) {
	fixedDice := func(sides int) int { return 20 }
	ogre := &MobTemplate{
		Name:        "Ogre",
		Level:       5,
		HealthBase:  500,
		SpawnRoomId: "room-1",
	}
	f := newTestGame(t, nil, nil, map[storage.Identifier]*MobTemplate{"ogre": ogre}, fixedDice)

	alice := f.attach(t, "alice")
	alice.Health = 5
	f.attach(t, "bob")

	m := f.soleMob(t)
	m.Attacking = alice.Id
	f.game.DrainEvents()

	f.game.Update(f.clock.Advance(time.Second))
	testutil.AssertEqual(t, "alice dead", alice.Alive(), false)
	testutil.AssertEqual(t, "ogre combat ended", m.Attacking, "")

	var die *Event
	for _, e := range f.game.DrainEvents() {
		if e.Kind == EventDie {
			die = &e
		}
	}
	if die == nil {
		t.Fatal("expected a die event for the player's death")
	}
	testutil.AssertEqual(t, "die attacker", die.Actor.Id, m.Id)
	testutil.AssertEqual(t, "die corpse", die.Target.Id, alice.Id)

	recipients := f.game.Recipients(*die)
	testutil.AssertEqual(t, "co-located players see the death", len(recipients), 2)
}

func TestDeadPlayerCommandsAreNoOps(t *testing.T) {
	f := newTestGame(t, nil, ratItems(), map[storage.Identifier]*MobTemplate{"rat": ratTemplate()}, nil)

	p := f.attach(t, "alice")
	p.Health = 0
	p.KillTime = f.clock.Now()

	if err := f.game.Move(p.Id, DirNorth); !IsUserError(err) {
		t.Errorf("expected user error from move, got %v", err)
	}
	if err := f.game.Attack(p.Id, "giant rat"); !IsUserError(err) {
		t.Errorf("expected user error from attack, got %v", err)
	}
	if err := f.game.Take(p.Id, "rat tail"); !IsUserError(err) {
		t.Errorf("expected user error from take, got %v", err)
	}
	if err := f.game.EquipItem(p.Id, "anything"); !IsUserError(err) {
		t.Errorf("expected user error from equip, got %v", err)
	}
	testutil.AssertEqual(t, "no pending move", string(p.PendingMove), "")
}

func TestPlayerRespawn(t *testing.T) {
	f := newTestGame(t, nil, nil, nil, nil)

	p := f.attach(t, "alice")
	if err := f.game.Move(p.Id, DirNorth); err != nil {
		t.Fatalf("move: %v", err)
	}
	f.game.Update(f.clock.Advance(time.Second))
	testutil.AssertEqual(t, "player moved", string(p.RoomId), "room-2")

	p.Health = 0
	p.KillTime = f.clock.Now()

	// respawn delay has not elapsed yet
	f.game.Update(f.clock.Advance(time.Second))
	testutil.AssertEqual(t, "still dead in place", string(p.RoomId), "room-2")
	testutil.AssertEqual(t, "still at zero health", p.Health, 0)

	f.game.Update(f.clock.Advance(10 * time.Second))
	testutil.AssertEqual(t, "back at start room", string(p.RoomId), "room-1")
	testutil.AssertEqual(t, "health restored", p.Health, MaxHealth(&p.Character))
	if !p.KillTime.IsZero() {
		t.Error("expected kill time to be cleared")
	}
}

func TestRespawnOnRequest(t *testing.T) {
	f := newTestGame(t, nil, nil, nil, nil)

	p := f.attach(t, "alice")
	p.Health = 0
	p.KillTime = f.clock.Now()

	if err := f.game.RespawnNow(p.Id); err != nil {
		t.Fatalf("respawn request: %v", err)
	}
	f.game.Update(f.clock.Advance(time.Second))
	testutil.AssertEqual(t, "respawned early", p.Health > 0, true)
}

func TestItemDecay(t *testing.T) {
	f := newTestGame(t, nil, nil, nil, nil)

	p := f.attach(t, "alice")
	heavy := &ItemInstance{
		InstanceId: "stone-1",
		TemplateId: "stone",
		Tmpl:       &Item{Name: "Stone", Weight: 1},
	}
	p.AddItem(heavy)
	if err := f.game.Drop(p.Id, "stone"); err != nil {
		t.Fatalf("drop: %v", err)
	}

	room := f.world.Room("room-1")
	testutil.AssertEqual(t, "item on ground", len(room.Items), 1)

	// within the window the item stays
	f.game.Update(f.clock.Advance(30 * time.Second))
	testutil.AssertEqual(t, "item still on ground", len(room.Items), 1)

	f.game.Update(f.clock.Advance(31 * time.Second))
	testutil.AssertEqual(t, "item decayed away", len(room.Items), 0)
	testutil.AssertEqual(t, "instance flagged", heavy.Decayed, true)
}

func TestEquipRoundTrip(t *testing.T) {
	f := newTestGame(t, nil, nil, nil, nil)

	p := f.attach(t, "alice")
	p.Level = 10

	baseHealth := MaxHealth(&p.Character)
	baseWeight := MaxWeight(f.game.Tuning(), &p.Character)

	helm := &ItemInstance{
		InstanceId: "helm-1",
		TemplateId: "helm",
		Tmpl:       &Item{Name: "Helm", Slot: SlotHead, Stamina: 10, Strength: 2, Weight: 3},
	}
	p.AddItem(helm)

	if err := f.game.EquipItem(p.Id, "helm"); err != nil {
		t.Fatalf("equip: %v", err)
	}
	if MaxHealth(&p.Character) == baseHealth {
		t.Error("expected equipped stamina to raise max health")
	}

	// equipping the same item again unequips it
	if err := f.game.EquipItem(p.Id, "helm"); err != nil {
		t.Fatalf("unequip: %v", err)
	}
	testutil.AssertEqual(t, "max health restored", MaxHealth(&p.Character), baseHealth)
	testutil.AssertEqual(t, "max weight restored", MaxWeight(f.game.Tuning(), &p.Character), baseWeight)
}

func TestEncumbranceBlocksMovement(t *testing.T) {
	f := newTestGame(t, nil, nil, nil, nil)

	p := f.attach(t, "alice")
	boulder := &ItemInstance{
		InstanceId: "boulder-1",
		TemplateId: "boulder",
		Tmpl:       &Item{Name: "Boulder", Weight: 10000},
	}
	p.AddItem(boulder)

	f.game.Update(f.clock.Advance(time.Second))
	testutil.AssertEqual(t, "player encumbered", p.Encumbered, true)

	if err := f.game.Move(p.Id, DirNorth); !IsUserError(err) {
		t.Errorf("expected user error from move while encumbered, got %v", err)
	}
}

func TestMobPatrolRoute(t *testing.T) {
	patroller := &MobTemplate{
		Name:        "Sentry",
		Level:       3,
		HealthBase:  50,
		SpawnRoomId: "room-1",
		Route: []*RouteLeg{
			{RoomId: "room-2", Wait: "1s"},
			{RoomId: "room-1", Wait: "1s"},
		},
	}
	f := newTestGame(t, nil, nil, map[storage.Identifier]*MobTemplate{"sentry": patroller}, nil)
	m := f.soleMob(t)

	// three quarter-second ticks: wait not yet elapsed
	for i := 0; i < 3; i++ {
		f.game.Update(f.clock.Advance(250 * time.Millisecond))
		testutil.AssertEqual(t, "sentry holds position", string(m.RoomId), "room-1")
	}

	// fourth tick completes the wait and moves the sentry
	f.game.Update(f.clock.Advance(250 * time.Millisecond))
	testutil.AssertEqual(t, "sentry advanced a leg", string(m.RoomId), "room-2")
	testutil.AssertEqual(t, "route index wrapped forward", m.RouteIndex, 1)

	// the next leg takes another full second, even with irregular ticks
	f.game.Update(f.clock.Advance(700 * time.Millisecond))
	testutil.AssertEqual(t, "sentry waiting on second leg", string(m.RoomId), "room-2")
	f.game.Update(f.clock.Advance(400 * time.Millisecond))
	testutil.AssertEqual(t, "sentry returned", string(m.RoomId), "room-1")
	testutil.AssertEqual(t, "route index wrapped to start", m.RouteIndex, 0)
}

func TestMobRespawnsWithFreshInventory(t *testing.T) {
	fixedDice := func(sides int) int { return 20 }
	f := newTestGame(t, nil, ratItems(), map[storage.Identifier]*MobTemplate{"rat": ratTemplate()}, fixedDice)

	p := f.attach(t, "alice")
	p.Level = 5
	p.Experience = 130000

	if err := f.game.Attack(p.Id, "giant rat"); err != nil {
		t.Fatalf("attack: %v", err)
	}
	f.game.Update(f.clock.Advance(time.Second))

	rat := f.soleMob(t)
	testutil.AssertEqual(t, "rat dead", rat.Alive(), false)
	testutil.AssertEqual(t, "rat off the map", string(rat.RoomId), "")

	// respawn delay defaults to the player respawn delay when unset
	f.game.Update(f.clock.Advance(11 * time.Second))
	testutil.AssertEqual(t, "rat back at spawn", string(rat.RoomId), "room-1")
	testutil.AssertEqual(t, "rat healed", rat.Health, MaxHealth(&rat.Character))
	testutil.AssertEqual(t, "inventory restocked", len(rat.Items), 1)
}

func TestHealthClampedAfterTick(t *testing.T) {
	fixedDice := func(sides int) int { return 20 }
	tun := alwaysHitTuning()
	big := &MobTemplate{
		Name:        "Ogre",
		Level:       5,
		HealthBase:  500,
		SpawnRoomId: "room-1",
	}
	f := newTestGame(t, tun, nil, map[storage.Identifier]*MobTemplate{"ogre": big}, fixedDice)

	p := f.attach(t, "alice")
	p.Health = 5
	ogre := f.soleMob(t)
	ogre.Attacking = p.Id

	f.game.Update(f.clock.Advance(time.Second))
	testutil.AssertEqual(t, "health floored at zero", p.Health, 0)
	if p.KillTime.IsZero() {
		t.Error("expected kill time to be stamped")
	}
}
