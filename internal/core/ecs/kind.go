package ecs

import "fmt"

// Kind tags what an entity is. Values double as array indices.
type Kind uint8

const (
	KindSolid Kind = iota
	KindLight

	KindCount
)

func (k Kind) String() string {
	switch k {
	case KindSolid:
		return "solid"
	case KindLight:
		return "light"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool { return k < KindCount }

// Capability is the set of tables a kind participates in.
type Capability uint8

const (
	HasTransform Capability = 1 << iota
	HasEuler
	HasLight
)

// HasPosition covers every kind that needs a row in the position table.
const HasPosition = HasTransform | HasLight

func (c Capability) Has(flag Capability) bool { return c&flag != 0 }

// Capabilities maps a kind to its flags. Read-only.
type Capabilities interface {
	Capabilities(kind Kind) Capability
}

// CapabilityTable is a fixed lookup indexed by kind.
type CapabilityTable [KindCount]Capability

func (t *CapabilityTable) Capabilities(kind Kind) Capability {
	if !kind.Valid() {
		return 0
	}
	return t[kind]
}

// DefaultCapabilities: solids rotate, lights shine, both have a transform.
var DefaultCapabilities = &CapabilityTable{
	KindSolid: HasTransform | HasEuler,
	KindLight: HasTransform | HasLight,
}
