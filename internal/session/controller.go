package session

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/pixil98/go-log"
	"github.com/thornvale/mud/internal/game"
	"github.com/thornvale/mud/internal/messaging"
	"github.com/thornvale/mud/internal/storage"
)

// Controller drives one client connection: it parses inbound tagged
// commands into game calls and relays the player's broadcast subject back
// out. It never touches world state directly.
type Controller struct {
	game *game.Game
	pub  *messaging.PlayerPublisher
	conn io.ReadWriter

	playerId string

	writeMu sync.Mutex
}

func NewController(g *game.Game, pub *messaging.PlayerPublisher, conn io.ReadWriter) *Controller {
	return &Controller{
		game: g,
		pub:  pub,
		conn: conn,
	}
}

// Run handles the connection until the client disconnects or the context is
// canceled. The first message must be a login.
func (c *Controller) Run(ctx context.Context) error {
	logger := log.GetLogger(ctx)

	scanner := bufio.NewScanner(c.conn)
	if !scanner.Scan() {
		return fmt.Errorf("connection closed before login")
	}

	var login Command
	if err := json.Unmarshal(scanner.Bytes(), &login); err != nil {
		return fmt.Errorf("parsing login: %w", err)
	}
	if login.Kind != CmdLogin {
		return fmt.Errorf("expected login, got %q", login.Kind)
	}

	player, err := c.game.AttachPlayer(login.Name, storage.Identifier(login.Species))
	if err != nil {
		c.send(&Message{Kind: MsgError, Text: err.Error()})
		return fmt.Errorf("attaching player: %w", err)
	}
	c.playerId = player.Id

	unsubscribe, err := c.pub.Subscribe(c.playerId, c.relay)
	if err != nil {
		return fmt.Errorf("subscribing to player subject: %w", err)
	}
	defer func() {
		unsubscribe()
		if err := c.game.DetachPlayer(c.playerId); err != nil {
			logger.WithError(err).Warn("detaching player")
		}
	}()

	if snap, err := c.game.Snapshot(c.playerId); err == nil {
		c.send(&Message{Kind: string(game.EventMove), Room: snap})
	}

	// Stop blocking on Read when the context is canceled; the listener
	// closes the underlying connection, which unblocks the scanner.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			if closer, ok := c.conn.(io.Closer); ok {
				closer.Close()
			}
		case <-done:
		}
	}()

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var cmd Command
		if err := json.Unmarshal(line, &cmd); err != nil {
			c.send(&Message{Kind: MsgError, Text: "unparseable command"})
			continue
		}
		c.dispatch(&cmd)
	}
	return scanner.Err()
}

// relay copies a broadcast payload from the player's subject to the client.
func (c *Controller) relay(data []byte) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.Write(append(data, '\n'))
}

func (c *Controller) send(msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	c.relay(data)
}

// dispatch routes one inbound command to the game. Command failures go back
// to this connection only.
func (c *Controller) dispatch(cmd *Command) {
	var err error
	switch cmd.Kind {
	case CmdMove:
		dir, ok := game.ParseDirection(cmd.Direction)
		if !ok {
			err = game.NewUserError("that is not a direction")
			break
		}
		err = c.game.Move(c.playerId, dir)
	case CmdAttack:
		err = c.game.Attack(c.playerId, cmd.Target)
	case CmdSay:
		err = c.game.SayText(c.playerId, cmd.Text)
	case CmdYell:
		err = c.game.Yell(c.playerId, cmd.Text)
	case CmdConsider:
		var threat game.ThreatTier
		var standing game.FactionTier
		threat, standing, err = c.game.Consider(c.playerId, cmd.Target)
		if err == nil {
			c.send(&Message{Kind: CmdConsider, Threat: threat.Name, Standing: standing.Name})
		}
	case CmdHail:
		err = c.game.Hail(c.playerId, cmd.Target)
	case CmdTake:
		err = c.game.Take(c.playerId, cmd.Item)
	case CmdDrop:
		err = c.game.Drop(c.playerId, cmd.Item)
	case CmdEquip:
		err = c.game.EquipItem(c.playerId, cmd.Item)
	case CmdShop:
		var items []*game.ItemView
		items, err = c.game.ShopList(c.playerId, cmd.Target)
		if err == nil {
			c.send(&Message{Kind: MsgShop, Items: items})
		}
	case CmdBuy:
		err = c.game.Buy(c.playerId, cmd.Target, cmd.Item)
	case CmdSell:
		err = c.game.Sell(c.playerId, cmd.Target, cmd.Item)
	case CmdRespawn:
		err = c.game.RespawnNow(c.playerId)
	default:
		err = game.NewUserError(fmt.Sprintf("unknown command: %s", cmd.Kind))
	}

	if err != nil {
		c.send(&Message{Kind: MsgError, Text: err.Error()})
	}
}
