package storage

import (
	"fmt"
	"regexp"

	"github.com/pixil98/go-errors"
)

var identifierPattern = regexp.MustCompile(`^[a-zA-Z0-9-]+$`)

// ValidatingSpec is implemented by every asset payload so stores can reject
// malformed content at load time instead of at first use.
type ValidatingSpec interface {
	Validate() error
}

// Identifier is the key type for all template data (zones, rooms, items,
// mob templates, ...) and for player character records.
type Identifier string

func (id Identifier) String() string {
	return string(id)
}

// Validate rejects empty or non-alphanumeric identifiers.
func (id Identifier) Validate() error {
	if id == "" {
		return fmt.Errorf("identifier must be set")
	}
	if !identifierPattern.MatchString(string(id)) {
		return fmt.Errorf("identifier must be alphanumeric: %q", id)
	}
	return nil
}

// Asset is the versioned envelope every asset file is wrapped in.
type Asset[T ValidatingSpec] struct {
	Version    uint       `json:"version"`
	Identifier Identifier `json:"id"`
	Spec       T          `json:"spec"`
}

func (a *Asset[T]) Id() Identifier {
	return a.Identifier
}

func (a *Asset[T]) Validate() error {
	el := errors.NewErrorList()

	if a.Version == 0 {
		el.Add(fmt.Errorf("version must be set"))
	}

	if a.Identifier == "" {
		el.Add(fmt.Errorf("id must be set"))
	} else if !identifierPattern.MatchString(a.Identifier.String()) {
		el.Add(fmt.Errorf("id must be alphanumeric: %q", a.Identifier))
	}

	el.Add(a.Spec.Validate())

	return el.Err()
}
