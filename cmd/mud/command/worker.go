package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-service"
	"github.com/thornvale/mud/internal/driver"
	"github.com/thornvale/mud/internal/game"
	"github.com/thornvale/mud/internal/listener"
	"github.com/thornvale/mud/internal/messaging"
	"github.com/thornvale/mud/internal/session"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	stores, err := cfg.Storage.buildStores()
	if err != nil {
		return nil, fmt.Errorf("building stores: %w", err)
	}

	zones, err := stores.Zones.GetAll()
	if err != nil {
		return nil, fmt.Errorf("loading zones: %w", err)
	}
	rooms, err := stores.Rooms.GetAll()
	if err != nil {
		return nil, fmt.Errorf("loading rooms: %w", err)
	}
	world, err := game.NewWorld(zones, rooms)
	if err != nil {
		return nil, fmt.Errorf("building world: %w", err)
	}

	g, err := game.NewGame(
		world,
		cfg.Game.buildTuning(),
		stores.Characters,
		stores.Species,
		stores.Items,
		stores.Mobs,
	)
	if err != nil {
		return nil, fmt.Errorf("building game: %w", err)
	}

	nats, err := cfg.Nats.buildNatsServer()
	if err != nil {
		return nil, fmt.Errorf("building nats server: %w", err)
	}
	pub := messaging.NewPlayerPublisher(nats)

	sessions := session.NewManager(g, pub)

	tickInterval := driver.DefaultTickInterval
	if cfg.TickInterval != "" {
		tickInterval, err = time.ParseDuration(cfg.TickInterval)
		if err != nil {
			return nil, fmt.Errorf("parsing tick_interval: %w", err)
		}
	}
	drv := driver.NewDriver(
		[]driver.Ticker{g, sessions},
		driver.WithTickInterval(tickInterval),
	)

	cm := listener.NewConnectionManager(g, pub)
	listeners := make(service.WorkerList, len(cfg.Listeners))
	for i, l := range cfg.Listeners {
		lst, err := l.BuildListener(cm)
		if err != nil {
			return nil, fmt.Errorf("creating listener %d: %w", i, err)
		}
		listeners[fmt.Sprintf("listener-%d", i)] = lst
	}

	return service.WorkerList{
		"nats":      nats,
		"driver":    drv,
		"listeners": &listeners,
	}, nil
}
