package models

import "time"

// Card is a single study unit belonging to a deck. The scheduling fields
// (interval, ease factor, next review date, review count, success rate) are
// owned by the srs package and change only by applying a computed schedule.
type Card struct {
	ID             int64     `json:"id"`
	DeckID         int64     `json:"deck_id"`
	FrontContent   string    `json:"front_content"`
	BackContent    string    `json:"back_content"`
	FrontImageURL  string    `json:"front_image_url,omitempty"`
	BackImageURL   string    `json:"back_image_url,omitempty"`
	IntervalDays   int       `json:"interval_days"`
	EaseFactor     float64   `json:"ease_factor"`
	NextReviewDate time.Time `json:"next_review_date"`
	ReviewCount    int       `json:"review_count"`
	SuccessRate    float64   `json:"success_rate"`
	CreatedAt      time.Time `json:"created_at"`
}

// IsNew reports whether the card has never been reviewed.
func (c Card) IsNew() bool { return c.ReviewCount == 0 }

// IsDue reports whether the card is due for review at t.
func (c Card) IsDue(t time.Time) bool { return !c.NextReviewDate.After(t) }

// CardUpdate carries the user-editable card fields. Scheduling state is
// excluded on purpose; it only changes through a recorded review.
type CardUpdate struct {
	DeckID        int64  `json:"deck_id"`
	FrontContent  string `json:"front_content"`
	BackContent   string `json:"back_content"`
	FrontImageURL string `json:"front_image_url"`
	BackImageURL  string `json:"back_image_url"`
}
