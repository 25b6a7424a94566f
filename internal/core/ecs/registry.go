package ecs

// Remover is implemented by every table so the Registry can drop an entity
// from all tables its kind participates in.
type Remover interface {
	Remove(id EntityID) (row int, moved EntityID)
}

type registryEntry struct {
	mask  Capability
	table Remover
}

// Registry tracks component tables by the capability flags that place an
// entity in them.
type Registry struct {
	entries []registryEntry
}

func NewRegistry() *Registry {
	return &Registry{
		entries: make([]registryEntry, 0, 4),
	}
}

// Register adds a table. An entity lands in it when its kind's flags share
// any bit with mask.
func (r *Registry) Register(mask Capability, table Remover) {
	r.entries = append(r.entries, registryEntry{mask: mask, table: table})
}

// RemoveAll swap-removes id from every table implied by caps.
func (r *Registry) RemoveAll(id EntityID, caps Capability) {
	for _, e := range r.entries {
		if caps&e.mask != 0 {
			e.table.Remove(id)
		}
	}
}
