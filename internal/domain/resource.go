package domain

import (
	"fmt"
	"slices"
	"strings"

	"github.com/alexanderramin/taskman/internal/timespan"
	"github.com/google/uuid"
)

// Resource is a concrete instance of a ResourceType that plannings reserve.
type Resource struct {
	id    string
	name  string
	rtype *ResourceType
}

func (r *Resource) ID() string          { return r.id }
func (r *Resource) Name() string        { return r.name }
func (r *Resource) Type() *ResourceType { return r.rtype }
func (r *Resource) String() string      { return r.name }

// ResourceType groups interchangeable resources. Its relations to other types
// are held by the owning ResourceGraph.
type ResourceType struct {
	id           int
	name         string
	availability timespan.Window
	graph        *ResourceGraph
}

func (rt *ResourceType) ID() int                            { return rt.id }
func (rt *ResourceType) Name() string                       { return rt.name }
func (rt *ResourceType) DailyAvailability() timespan.Window { return rt.availability }
func (rt *ResourceType) String() string                     { return rt.name }

// Resources returns the type's instances in creation order.
func (rt *ResourceType) Resources() []*Resource {
	return slices.Clone(rt.graph.resources[rt.id])
}

// CreateResource adds a named instance to the type.
func (rt *ResourceType) CreateResource(name string) (*Resource, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("resource of type %q: %w", rt.name, ErrInvalidName)
	}
	for _, r := range rt.graph.resources[rt.id] {
		if r.name == name {
			return nil, fmt.Errorf("resource %q of type %q: %w", name, rt.name, ErrDuplicateResource)
		}
	}
	r := &Resource{id: uuid.New().String(), name: name, rtype: rt}
	rt.graph.resources[rt.id] = append(rt.graph.resources[rt.id], r)
	return r, nil
}

// AddRequiredResourceType records that rt cannot be used without other.
func (rt *ResourceType) AddRequiredResourceType(other *ResourceType) error {
	if err := rt.graph.owns(other); err != nil {
		return err
	}
	return rt.graph.addRequires(rt.id, other.id)
}

// AddConflictedResourceType records that rt and other cannot be used together.
func (rt *ResourceType) AddConflictedResourceType(other *ResourceType) error {
	if err := rt.graph.owns(other); err != nil {
		return err
	}
	return rt.graph.addConflicts(rt.id, other.id)
}

// RequiredResourceTypes returns the directly required types.
func (rt *ResourceType) RequiredResourceTypes() []*ResourceType {
	return rt.graph.lookup(rt.graph.requires[rt.id])
}

// ConflictingResourceTypes returns every type rt conflicts with, in either
// direction of the recorded relation.
func (rt *ResourceType) ConflictingResourceTypes() []*ResourceType {
	ids := slices.Clone(rt.graph.conflicts[rt.id])
	for _, t := range rt.graph.types {
		if slices.Contains(rt.graph.conflicts[t.id], rt.id) && !slices.Contains(ids, t.id) {
			ids = append(ids, t.id)
		}
	}
	return rt.graph.lookup(ids)
}

// Requires reports whether rt requires other, directly or transitively.
func (rt *ResourceType) Requires(other *ResourceType) bool {
	return other != nil && rt.graph.reaches(rt.graph.requires, rt.id, other.id)
}

// ConflictsWith reports whether rt and other directly conflict. The relation
// is symmetric.
func (rt *ResourceType) ConflictsWith(other *ResourceType) bool {
	return other != nil && rt.graph.conflictsDirect(rt.id, other.id)
}

// ResourceTypeSpec describes a resource type to create. Availability defaults
// to the standard working window when left zero.
type ResourceTypeSpec struct {
	Name          string
	Availability  timespan.Window
	Requires      []*ResourceType
	ConflictsWith []*ResourceType
}

// ResourceGraph owns resource types, their instances and the requires and
// conflicts relations between types. Relations are adjacency lists keyed by
// the types' stable ids.
type ResourceGraph struct {
	types     []*ResourceType
	requires  map[int][]int
	conflicts map[int][]int
	resources map[int][]*Resource
	nextID    int

	saved *resourceGraphSnapshot
}

func NewResourceGraph() *ResourceGraph {
	return &ResourceGraph{
		requires:  make(map[int][]int),
		conflicts: make(map[int][]int),
		resources: make(map[int][]*Resource),
		nextID:    1,
	}
}

// CreateType validates spec and adds the new type. Nothing is added when any
// relation in spec is rejected.
func (g *ResourceGraph) CreateType(spec ResourceTypeSpec) (*ResourceType, error) {
	if strings.TrimSpace(spec.Name) == "" {
		return nil, fmt.Errorf("resource type: %w", ErrInvalidName)
	}
	if g.Type(spec.Name) != nil {
		return nil, fmt.Errorf("resource type %q: %w", spec.Name, ErrDuplicateResourceType)
	}
	window := spec.Availability
	if window == (timespan.Window{}) {
		window = timespan.DefaultWorkDay.Window
	} else if _, err := timespan.NewWindow(window.Start, window.End); err != nil {
		return nil, fmt.Errorf("resource type %q: %w", spec.Name, err)
	}
	for _, other := range append(slices.Clone(spec.Requires), spec.ConflictsWith...) {
		if err := g.owns(other); err != nil {
			return nil, fmt.Errorf("resource type %q: %w", spec.Name, err)
		}
	}

	rt := &ResourceType{id: g.nextID, name: spec.Name, availability: window, graph: g}
	g.nextID++
	g.types = append(g.types, rt)

	// A fresh type has no incoming edges, so rolling back only needs to drop
	// its own adjacency entries.
	rollback := func() {
		g.types = g.types[:len(g.types)-1]
		delete(g.requires, rt.id)
		delete(g.conflicts, rt.id)
		delete(g.resources, rt.id)
	}
	for _, req := range spec.Requires {
		if err := g.addRequires(rt.id, req.id); err != nil {
			rollback()
			return nil, fmt.Errorf("resource type %q: %w", spec.Name, err)
		}
	}
	for _, con := range spec.ConflictsWith {
		if err := g.addConflicts(rt.id, con.id); err != nil {
			rollback()
			return nil, fmt.Errorf("resource type %q: %w", spec.Name, err)
		}
	}
	return rt, nil
}

// Types returns all resource types in creation order.
func (g *ResourceGraph) Types() []*ResourceType {
	return slices.Clone(g.types)
}

// Type finds a resource type by name, or nil.
func (g *ResourceGraph) Type(name string) *ResourceType {
	for _, t := range g.types {
		if t.name == name {
			return t
		}
	}
	return nil
}

func (g *ResourceGraph) owns(rt *ResourceType) error {
	if rt == nil {
		return ErrMissingResourceType
	}
	if rt.graph != g || !slices.Contains(g.types, rt) {
		return fmt.Errorf("resource type %q: %w", rt.name, ErrForeignResourceType)
	}
	return nil
}

func (g *ResourceGraph) addRequires(a, b int) error {
	switch {
	case a == b:
		return fmt.Errorf("%s requires itself: %w", g.name(a), ErrResourceTypeCycle)
	case slices.Contains(g.requires[a], b):
		return fmt.Errorf("%s already requires %s: %w", g.name(a), g.name(b), ErrDuplicateRelation)
	case g.reaches(g.requires, b, a):
		return fmt.Errorf("%s already requires %s: %w", g.name(b), g.name(a), ErrResourceTypeCycle)
	}
	// Every type that ends up requiring b's closure must not conflict with it.
	needs := append([]int{a}, g.dependents(a)...)
	for _, x := range append([]int{b}, g.closure(g.requires, b)...) {
		for _, n := range needs {
			if g.conflictsDirect(n, x) {
				return fmt.Errorf("%s conflicts with %s: %w", g.name(n), g.name(x), ErrConflictingRelation)
			}
		}
	}
	g.requires[a] = append(g.requires[a], b)
	return nil
}

func (g *ResourceGraph) addConflicts(a, b int) error {
	switch {
	case a == b:
		return fmt.Errorf("%s conflicts with itself: %w", g.name(a), ErrConflictingRelation)
	case g.conflictsDirect(a, b):
		return fmt.Errorf("%s already conflicts with %s: %w", g.name(a), g.name(b), ErrDuplicateRelation)
	case g.reaches(g.conflicts, b, a):
		return fmt.Errorf("%s conflicts back to %s: %w", g.name(b), g.name(a), ErrResourceTypeCycle)
	case g.reaches(g.requires, a, b) || g.reaches(g.requires, b, a):
		return fmt.Errorf("%s and %s are already required: %w", g.name(a), g.name(b), ErrConflictingRelation)
	}
	g.conflicts[a] = append(g.conflicts[a], b)
	return nil
}

func (g *ResourceGraph) conflictsDirect(a, b int) bool {
	return slices.Contains(g.conflicts[a], b) || slices.Contains(g.conflicts[b], a)
}

// reaches walks rel breadth-first from "from" and reports whether "to" is
// reachable through at least one edge.
func (g *ResourceGraph) reaches(rel map[int][]int, from, to int) bool {
	return slices.Contains(g.closure(rel, from), to)
}

func (g *ResourceGraph) closure(rel map[int][]int, from int) []int {
	seen := map[int]bool{}
	var out []int
	queue := slices.Clone(rel[from])
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
		queue = append(queue, rel[n]...)
	}
	return out
}

// dependents returns the types that require id, directly or transitively.
func (g *ResourceGraph) dependents(id int) []int {
	var out []int
	for _, t := range g.types {
		if g.reaches(g.requires, t.id, id) {
			out = append(out, t.id)
		}
	}
	return out
}

func (g *ResourceGraph) lookup(ids []int) []*ResourceType {
	out := make([]*ResourceType, 0, len(ids))
	for _, id := range ids {
		for _, t := range g.types {
			if t.id == id {
				out = append(out, t)
				break
			}
		}
	}
	return out
}

func (g *ResourceGraph) name(id int) string {
	for _, t := range g.types {
		if t.id == id {
			return t.name
		}
	}
	return fmt.Sprintf("#%d", id)
}

type resourceGraphSnapshot struct {
	types     []*ResourceType
	requires  map[int][]int
	conflicts map[int][]int
	resources map[int][]*Resource
}

func (g *ResourceGraph) snapshot() *resourceGraphSnapshot {
	s := &resourceGraphSnapshot{
		types:     slices.Clone(g.types),
		requires:  cloneAdjacency(g.requires),
		conflicts: cloneAdjacency(g.conflicts),
		resources: make(map[int][]*Resource, len(g.resources)),
	}
	for id, rs := range g.resources {
		s.resources[id] = slices.Clone(rs)
	}
	return s
}

func (g *ResourceGraph) restore(s *resourceGraphSnapshot) {
	g.types = slices.Clone(s.types)
	g.requires = cloneAdjacency(s.requires)
	g.conflicts = cloneAdjacency(s.conflicts)
	g.resources = make(map[int][]*Resource, len(s.resources))
	for id, rs := range s.resources {
		g.resources[id] = slices.Clone(rs)
	}
}

// Save captures the graph, overwriting any earlier capture.
func (g *ResourceGraph) Save() {
	g.saved = g.snapshot()
}

// Load restores the last capture. It reports false when nothing was saved.
func (g *ResourceGraph) Load() bool {
	if g.saved == nil {
		return false
	}
	g.restore(g.saved)
	return true
}

func cloneAdjacency(m map[int][]int) map[int][]int {
	out := make(map[int][]int, len(m))
	for k, v := range m {
		out[k] = slices.Clone(v)
	}
	return out
}
