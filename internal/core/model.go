package core

// Category is one of the closed set of triage folders a message can land in.
type Category string

// Triage categories.
const (
	CategoryWork       Category = "Work"
	CategoryPersonal   Category = "Personal"
	CategoryPromotions Category = "Promotions"
	CategorySocial     Category = "Social"
	CategoryUpdates    Category = "Updates"
)

// DefaultCategories is the full category set used when no instruction narrows it.
var DefaultCategories = []Category{
	CategoryWork,
	CategoryPersonal,
	CategoryPromotions,
	CategorySocial,
	CategoryUpdates,
}

// NarrowedCategories is the two-folder set selected by a restrictive instruction.
var NarrowedCategories = []Category{
	CategoryWork,
	CategorySocial,
}

// MessageRef identifies a message without its content
type MessageRef struct {
	ID string
}

// Message represents a fetched mail message
type Message struct {
	ID      string
	Subject string
	Snippet string
	Body    string
}

// Label is a provider-side tag attachable to messages
type Label struct {
	ID   string
	Name string
}
