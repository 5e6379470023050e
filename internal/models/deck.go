package models

import "time"

// Default face labels applied when a deck is created or updated without them.
const (
	DefaultFrontLabel = "Question"
	DefaultBackLabel  = "Answer"
)

// Deck is an organizational container for cards. Decks may nest under a
// parent deck; the tree is not cycle-checked here.
type Deck struct {
	ID           int64     `json:"id"`
	ParentDeckID *int64    `json:"parent_deck_id,omitempty"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	FrontLabel   string    `json:"front_label"`
	BackLabel    string    `json:"back_label"`
	CreatedAt    time.Time `json:"created_at"`
}
