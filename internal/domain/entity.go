package domain

// EntityCategory is the closed set of domain categories an extracted entity
// can belong to. A node may legitimately carry several categories.
type EntityCategory string

const (
	CategoryRole       EntityCategory = "role"
	CategoryPrinciple  EntityCategory = "principle"
	CategoryObligation EntityCategory = "obligation"
	CategoryResource   EntityCategory = "resource"
	CategoryEvent      EntityCategory = "event"
	CategoryAction     EntityCategory = "action"
	CategoryCapability EntityCategory = "capability"
	CategoryState      EntityCategory = "state"
)

// AllCategories lists every category in a fixed order. Extraction is total:
// each of these yields a (possibly empty) entity list for any graph.
var AllCategories = []EntityCategory{
	CategoryRole,
	CategoryPrinciple,
	CategoryObligation,
	CategoryResource,
	CategoryEvent,
	CategoryAction,
	CategoryCapability,
	CategoryState,
}

// String returns the string representation of the EntityCategory.
func (c EntityCategory) String() string {
	return string(c)
}

// IsValid checks if the EntityCategory is one of the defined constants.
func (c EntityCategory) IsValid() bool {
	switch c {
	case CategoryRole, CategoryPrinciple, CategoryObligation, CategoryResource,
		CategoryEvent, CategoryAction, CategoryCapability, CategoryState:
		return true
	}
	return false
}

// SemanticEntity is a read-time projection of a graph node into a domain
// category. It is recomputed on demand and never persisted; its lifetime is
// bounded by the graph cache.
type SemanticEntity struct {
	URI         string           `json:"uri"`
	Label       string           `json:"label"`
	Description string           `json:"description,omitempty"`
	ParentClass string           `json:"parent_class,omitempty"`
	Category    EntityCategory   `json:"category"`
	Capability  []SemanticEntity `json:"capabilities,omitempty"` // Role only
}

// EntitiesByCategory maps every category to its extracted entities. All
// categories are present as keys, empty or not.
type EntitiesByCategory map[EntityCategory][]SemanticEntity
