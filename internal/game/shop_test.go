package game

import (
	"testing"

	"github.com/pixil98/go-testutil"
	"github.com/thornvale/mud/internal/storage"
)

func merchantTemplate() *MobTemplate {
	return &MobTemplate{
		Name:        "Merchant",
		Level:       1,
		HealthBase:  20,
		SpawnRoomId: "room-1",
		Shop: &Shop{
			Money:   20,
			ItemIds: []storage.Identifier{"lantern"},
		},
	}
}

func shopItems() map[storage.Identifier]*Item {
	return map[storage.Identifier]*Item{
		"lantern": {Name: "Lantern", Weight: 2, Value: 15},
	}
}

func TestShopList(t *testing.T) {
	f := newTestGame(t, nil, shopItems(), map[storage.Identifier]*MobTemplate{"merchant": merchantTemplate()}, nil)

	p := f.attach(t, "alice")
	views, err := f.game.ShopList(p.Id, "merchant")
	if err != nil {
		t.Fatalf("shop list: %v", err)
	}
	testutil.AssertEqual(t, "stock size", len(views), 1)
	testutil.AssertEqual(t, "stock name", views[0].Name, "Lantern")
	testutil.AssertEqual(t, "stock price", views[0].Value, 15)
}

func TestBuyTransfersMoneyAndItem(t *testing.T) {
	f := newTestGame(t, nil, shopItems(), map[storage.Identifier]*MobTemplate{"merchant": merchantTemplate()}, nil)

	p := f.attach(t, "alice")
	p.Money = 20

	if err := f.game.Buy(p.Id, "merchant", "lantern"); err != nil {
		t.Fatalf("buy: %v", err)
	}

	m := f.soleMob(t)
	testutil.AssertEqual(t, "buyer debited", p.Money, 5)
	testutil.AssertEqual(t, "shop credited", m.Shop.Money, 35)
	testutil.AssertEqual(t, "buyer carries item", len(p.Items), 1)
	testutil.AssertEqual(t, "stock emptied", len(m.Shop.Stock), 0)
}

func TestBuyWithoutFundsChangesNothing(t *testing.T) {
	f := newTestGame(t, nil, shopItems(), map[storage.Identifier]*MobTemplate{"merchant": merchantTemplate()}, nil)

	p := f.attach(t, "alice")
	p.Money = 5

	err := f.game.Buy(p.Id, "merchant", "lantern")
	if !IsUserError(err) {
		t.Fatalf("expected user error, got %v", err)
	}

	m := f.soleMob(t)
	testutil.AssertEqual(t, "buyer money untouched", p.Money, 5)
	testutil.AssertEqual(t, "shop money untouched", m.Shop.Money, 20)
	testutil.AssertEqual(t, "buyer carries nothing", len(p.Items), 0)
	testutil.AssertEqual(t, "stock untouched", len(m.Shop.Stock), 1)
}

func TestSellMirrorsBuy(t *testing.T) {
	f := newTestGame(t, nil, shopItems(), map[storage.Identifier]*MobTemplate{"merchant": merchantTemplate()}, nil)

	p := f.attach(t, "alice")
	p.AddItem(&ItemInstance{
		InstanceId: "lantern-2",
		TemplateId: "lantern",
		Tmpl:       &Item{Name: "Lantern", Weight: 2, Value: 15},
	})

	if err := f.game.Sell(p.Id, "merchant", "lantern"); err != nil {
		t.Fatalf("sell: %v", err)
	}

	m := f.soleMob(t)
	testutil.AssertEqual(t, "seller paid", p.Money, 15)
	testutil.AssertEqual(t, "shop debited", m.Shop.Money, 5)
	testutil.AssertEqual(t, "seller carries nothing", len(p.Items), 0)
	testutil.AssertEqual(t, "stock grew", len(m.Shop.Stock), 2)
}

func TestSellBeyondShopFundsChangesNothing(t *testing.T) {
	f := newTestGame(t, nil, shopItems(), map[storage.Identifier]*MobTemplate{"merchant": merchantTemplate()}, nil)

	p := f.attach(t, "alice")
	crown := &ItemInstance{
		InstanceId: "crown-1",
		TemplateId: "crown",
		Tmpl:       &Item{Name: "Crown", Weight: 1, Value: 500},
	}
	p.AddItem(crown)

	err := f.game.Sell(p.Id, "merchant", "crown")
	if !IsUserError(err) {
		t.Fatalf("expected user error, got %v", err)
	}

	m := f.soleMob(t)
	testutil.AssertEqual(t, "seller money untouched", p.Money, 0)
	testutil.AssertEqual(t, "seller keeps item", len(p.Items), 1)
	testutil.AssertEqual(t, "shop money untouched", m.Shop.Money, 20)
}
