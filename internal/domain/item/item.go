package item

import "fmt"

// Attributes holds display-only sensor properties. They are returned to the
// caller alongside a recommendation but never participate in scoring.
type Attributes struct {
	Features         string
	IPRating         string
	PowerConsumption float64 // watts, 0 = unspecified
	OperatingTemp    string
	MeasureRange     string
	Precision        string
}

// Item is a validated catalog entry. Immutable once constructed; the scoring
// engine only ever holds references to it.
type Item struct {
	id         string
	name       string
	sensorType string
	modules    []string
	envTags    []string
	vector     []float32
	attrs      Attributes
}

// New validates and creates a catalog item.
func New(
	id, name, sensorType string,
	modules, envTags []string,
	vector []float32,
	attrs Attributes,
) (Item, error) {
	if id == "" {
		return Item{}, fmt.Errorf("item id is required")
	}
	if name == "" {
		return Item{}, fmt.Errorf("item name is required")
	}
	if sensorType == "" {
		return Item{}, fmt.Errorf("item sensor type is required")
	}
	return Reconstruct(id, name, sensorType, modules, envTags, vector, attrs), nil
}

// Reconstruct creates an item from trusted storage data, skipping validation.
func Reconstruct(
	id, name, sensorType string,
	modules, envTags []string,
	vector []float32,
	attrs Attributes,
) Item {
	return Item{
		id:         id,
		name:       name,
		sensorType: sensorType,
		modules:    modules,
		envTags:    envTags,
		vector:     vector,
		attrs:      attrs,
	}
}

// ID returns the stable unique identifier.
func (i *Item) ID() string { return i.id }

// Name returns the display name.
func (i *Item) Name() string { return i.name }

// SensorType returns the categorical sensor type tag.
func (i *Item) SensorType() string { return i.sensorType }

// Modules returns the compatible application scenario tags.
func (i *Item) Modules() []string { return i.modules }

// EnvTags returns the operating condition tags.
func (i *Item) EnvTags() []string { return i.envTags }

// Vector returns the precomputed semantic embedding.
func (i *Item) Vector() []float32 { return i.vector }

// Attrs returns the display attributes.
func (i *Item) Attrs() Attributes { return i.attrs }
