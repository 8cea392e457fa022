// Package snapshot coordinates single-generation save and restore across
// stateful components.
package snapshot

// Snapshotter is a component that can capture and restore its own state.
// Load reports false when there is nothing to restore.
type Snapshotter interface {
	Save()
	Load() bool
}

// Coordinator saves and loads its components in a fixed order.
//
// Load is not transactional: when some component has no capture it reports
// false, but the components that do have one are still restored. Callers keep
// the components consistent by always saving through the coordinator.
type Coordinator struct {
	components []Snapshotter
}

func NewCoordinator(components ...Snapshotter) *Coordinator {
	return &Coordinator{components: components}
}

// Add appends a component to the end of the order.
func (c *Coordinator) Add(s Snapshotter) {
	c.components = append(c.components, s)
}

// Save captures every component, overwriting earlier captures.
func (c *Coordinator) Save() {
	for _, s := range c.components {
		s.Save()
	}
}

// Load restores every component and reports whether all of them had a capture.
func (c *Coordinator) Load() bool {
	ok := true
	for _, s := range c.components {
		ok = s.Load() && ok
	}
	return ok
}
