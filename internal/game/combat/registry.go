package combat

import "fmt"

// Registry tracks the active enemies that can be hit-tested and ticked.
// An enemy leaves the registry when it dies.
type Registry struct {
	byID  map[string]*Enemy
	order []string
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]*Enemy)}
}

// Register adds en to the registry and arranges for it to be removed on death.
//
// Precondition: en must be non-nil.
// Postcondition: Get(en.ID()) returns en; returns an error when the id is taken or en is dead.
func (r *Registry) Register(en *Enemy) error {
	if en.IsDead() {
		return fmt.Errorf("registry: enemy %q is dead", en.ID())
	}
	if _, exists := r.byID[en.ID()]; exists {
		return fmt.Errorf("registry: enemy %q already registered", en.ID())
	}
	r.byID[en.ID()] = en
	r.order = append(r.order, en.ID())
	en.OnDeath(func(e *Entity) { r.Unregister(e.ID()) })
	return nil
}

// Unregister removes the enemy with id. It reports whether it was present.
func (r *Registry) Unregister(id string) bool {
	if _, ok := r.byID[id]; !ok {
		return false
	}
	delete(r.byID, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Get returns the enemy with id.
func (r *Registry) Get(id string) (*Enemy, bool) {
	en, ok := r.byID[id]
	return en, ok
}

// Len returns the number of registered enemies.
func (r *Registry) Len() int { return len(r.byID) }

// Living returns the registered enemies in registration order.
//
// Postcondition: the returned slice is a copy; registering or unregistering
// while iterating it is safe.
func (r *Registry) Living() []*Enemy {
	out := make([]*Enemy, 0, len(r.order))
	for _, id := range r.order {
		if en := r.byID[id]; !en.IsDead() {
			out = append(out, en)
		}
	}
	return out
}

// Entities returns the living enemies' entities, for ResolveSwing.
func (r *Registry) Entities() []*Entity {
	living := r.Living()
	out := make([]*Entity, len(living))
	for i, en := range living {
		out[i] = en.Entity
	}
	return out
}
