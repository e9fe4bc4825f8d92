package domain

import "time"

// Feedback is a free-form product survey answer. Every answer is optional.
type Feedback struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Experience string    `json:"experience"`
	Liked      string    `json:"liked"`
	Disliked   string    `json:"disliked"`
	Bug        string    `json:"bug"`
	Navigation string    `json:"navigation"`
	Recommend  string    `json:"recommend"`
	Suggestion string    `json:"suggestion"`
	Features   string    `json:"features"`
	Usability  string    `json:"usability"`
	CreatedAt  time.Time `json:"createdAt"`
}
