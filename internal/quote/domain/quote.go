package domain

import "time"

// Author of one or more quotes.
type Author struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Quote is a single deliverable quote with its denormalized author.
type Quote struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	Text        string    `json:"quote" gorm:"column:quote;not null"`
	Description string    `json:"description,omitempty"`
	AuthorID    string    `json:"-" gorm:"index;not null"`
	Author      *Author   `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AuthorName returns the author's display name, empty when not loaded.
func (q *Quote) AuthorName() string {
	if q.Author == nil {
		return ""
	}
	return q.Author.Name
}
