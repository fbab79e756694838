package domain

import "time"

// Category groups projects on the portfolio page.
type Category struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Slug      string    `json:"slug" bson:"slug"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
}
