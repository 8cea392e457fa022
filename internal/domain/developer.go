package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Developer can be assigned to plannings whose time windows do not overlap.
type Developer struct {
	id   string
	name string
}

// NewDeveloper creates a developer with a fresh identity.
func NewDeveloper(name string) (*Developer, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("developer: %w", ErrInvalidName)
	}
	return &Developer{id: uuid.New().String(), name: name}, nil
}

func (d *Developer) ID() string   { return d.id }
func (d *Developer) Name() string { return d.name }

func (d *Developer) String() string {
	return d.name
}
