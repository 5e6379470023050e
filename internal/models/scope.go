package models

// Scope selects the boundary a study queue draws cards from: a single deck,
// or every deck when DeckID is zero.
type Scope struct {
	DeckID int64 `json:"deck_id"`
}

// AllDecks is the scope covering every deck.
func AllDecks() Scope { return Scope{} }

// DeckScope is the scope covering a single deck.
func DeckScope(deckID int64) Scope { return Scope{DeckID: deckID} }

// IsAllDecks reports whether the scope covers every deck.
func (s Scope) IsAllDecks() bool { return s.DeckID == 0 }
