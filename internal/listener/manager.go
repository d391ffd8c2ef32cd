package listener

import (
	"context"
	"io"
	"log/slog"

	"github.com/thornvale/mud/internal/game"
	"github.com/thornvale/mud/internal/messaging"
	"github.com/thornvale/mud/internal/session"
)

// ConnectionManager hands accepted connections to fresh session
// controllers, whatever transport they arrived over.
type ConnectionManager struct {
	game *game.Game
	pub  *messaging.PlayerPublisher
}

func NewConnectionManager(g *game.Game, pub *messaging.PlayerPublisher) *ConnectionManager {
	return &ConnectionManager{
		game: g,
		pub:  pub,
	}
}

func (m *ConnectionManager) AcceptConnection(ctx context.Context, conn io.ReadWriter) {
	ctrl := session.NewController(m.game, m.pub, conn)
	if err := ctrl.Run(ctx); err != nil {
		slog.WarnContext(ctx, "player session ended", "error", err)
	}
}
