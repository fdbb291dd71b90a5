package facet

// Facet is one independent relevance signal.
type Facet string

// Facet constants.
const (
	// Type matches the requested sensor type against the item type.
	Type Facet = "type"
	// Module matches requested application scenarios against compatible modules.
	Module Facet = "module"
	// Environment matches requested operating conditions against environment tags.
	Environment Facet = "environment"
	// NLU is the semantic similarity between query and item embeddings.
	NLU Facet = "nlu"
)

// All returns every facet in canonical scoring order.
func All() []Facet {
	return []Facet{Type, Module, Environment, NLU}
}

// IsValid checks if the facet is one of the supported values.
func (f Facet) IsValid() bool {
	return f == Type || f == Module || f == Environment || f == NLU
}
