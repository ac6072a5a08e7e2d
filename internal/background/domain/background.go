package domain

import "time"

// Background is an uploadable background image for the mobile client. The
// image bytes live in the same row; listings omit them.
type Background struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	Filename    string    `json:"filename" gorm:"not null"`
	ContentType string    `json:"contentType" gorm:"not null"`
	Clean       bool      `json:"clean" gorm:"default:false"`
	Size        int64     `json:"size"`
	Data        []byte    `json:"-" gorm:"type:bytea"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
