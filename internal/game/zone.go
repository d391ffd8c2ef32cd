package game

import (
	"fmt"

	"github.com/pixil98/go-errors"
)

// Zone groups rooms for display and zone-crossing notifications.
type Zone struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func (z *Zone) Validate() error {
	el := errors.NewErrorList()

	if z.Name == "" {
		el.Add(fmt.Errorf("zone name is required"))
	}

	return el.Err()
}
