package entities

import "time"

// CommunityRating is one user-submitted rating (0..100) for a content URL.
// The community signal fed to the aggregator is the mean of all ratings.
type CommunityRating struct {
	ID         string    `json:"id"`
	ContentURL string    `json:"content_url"`
	Rating     float64   `json:"rating"`
	RaterID    string    `json:"rater_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
