package game

import (
	"fmt"

	"github.com/pixil98/go-errors"
	"github.com/thornvale/mud/internal/storage"
)

// Species is a playable race template: base attributes for new characters
// and the room they first appear in.
type Species struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	StartRoomId storage.Identifier `json:"start_room_id"`

	HealthBase   int `json:"health_base"`
	Strength     int `json:"strength"`
	Stamina      int `json:"stamina"`
	Agility      int `json:"agility"`
	Intelligence int `json:"intelligence"`
}

func (s *Species) Validate() error {
	el := errors.NewErrorList()

	if s.Name == "" {
		el.Add(fmt.Errorf("species name is required"))
	}
	el.Add(s.StartRoomId.Validate())
	if s.HealthBase <= 0 {
		el.Add(fmt.Errorf("health base must be positive"))
	}

	return el.Err()
}
