package messaging

import "fmt"

// PlayerPublisher delivers outbound messages on per-player subjects. Each
// connected session subscribes to its own player's subject, so delivery and
// connection lifetime stay decoupled from the simulation.
type PlayerPublisher struct {
	server *NatsServer
}

func NewPlayerPublisher(server *NatsServer) *PlayerPublisher {
	return &PlayerPublisher{server: server}
}

func playerSubject(playerId string) string {
	return fmt.Sprintf("player-%s", playerId)
}

func (p *PlayerPublisher) Publish(playerId string, data []byte) error {
	return p.server.Publish(playerSubject(playerId), data)
}

// Subscribe attaches a handler to one player's subject.
func (p *PlayerPublisher) Subscribe(playerId string, handler func(data []byte)) (func(), error) {
	return p.server.Subscribe(playerSubject(playerId), handler)
}
