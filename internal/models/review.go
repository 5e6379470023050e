package models

import "time"

// Review is one append-only audit record per rating event. Reviews are never
// mutated or deleted; statistics consumers read them as-is.
type Review struct {
	ID               int64     `json:"id"`
	CardID           int64     `json:"card_id"`
	PerformanceScore int       `json:"performance_score"`
	TimeTaken        float64   `json:"time_taken"`
	Success          bool      `json:"success"`
	ReviewedAt       time.Time `json:"reviewed_at"`
}
