package domain

import "time"

// AuthProvider identifies the social sign-in provider that issued a user's identity.
type AuthProvider string

const (
	ProviderGoogle AuthProvider = "google"
	ProviderApple  AuthProvider = "apple"
)

// Platform tags the kind of device a push token belongs to.
type Platform string

const (
	PlatformIOS     Platform = "ios"
	PlatformAndroid Platform = "android"
	PlatformWeb     Platform = "web"
)

// User is a push subscriber. Slots, devices and current quotes are embedded
// collections owned by the user row and are always loaded together.
type User struct {
	ID             string               `json:"id" gorm:"primaryKey"`
	AuthProvider   AuthProvider         `json:"auth_provider" gorm:"uniqueIndex:idx_users_provider_subject;not null"`
	ProviderUserID string               `json:"provider_user_id" gorm:"uniqueIndex:idx_users_provider_subject;not null"`
	Email          string               `json:"email,omitempty"`
	FullName       string               `json:"full_name,omitempty"`
	TimeZone       string               `json:"time_zone" gorm:"not null"`
	Slots          []NotificationSlot   `json:"notification_schedule" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Devices        []DeviceRegistration `json:"devices" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CurrentQuotes  []CurrentQuoteEntry  `json:"current_quotes" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

// NotificationSlot is one daily delivery time in the user's local timezone.
// (Hour, Minute) is unique within a user's slot set; Position preserves the
// order the user declared the slots in.
type NotificationSlot struct {
	ID         string     `json:"-" gorm:"primaryKey"`
	UserID     string     `json:"-" gorm:"index;not null;uniqueIndex:idx_slots_user_time"`
	Hour       int        `json:"hour" gorm:"not null;uniqueIndex:idx_slots_user_time"`
	Minute     int        `json:"minute" gorm:"not null;uniqueIndex:idx_slots_user_time"`
	Position   int        `json:"-" gorm:"not null;default:0"`
	LastSentAt *time.Time `json:"last_sent_at,omitempty"`
}

// DeviceRegistration is one push-capable device. The push token is an opaque
// external identifier; registering the same token again replaces the platform
// and last-active fields for that device only.
type DeviceRegistration struct {
	ID           string    `json:"-" gorm:"primaryKey"`
	UserID       string    `json:"-" gorm:"index;not null"`
	PushToken    string    `json:"-" gorm:"not null;index"`
	Platform     Platform  `json:"platform" gorm:"default:ios"`
	LastActiveAt time.Time `json:"last_active_at" gorm:"not null"`
}

// CurrentQuoteEntry records the quote most recently delivered for one slot.
// At most one entry exists per (hour, minute) pair per user; recording a new
// delivery replaces the prior entry for that slot.
type CurrentQuoteEntry struct {
	ID      string    `json:"-" gorm:"primaryKey"`
	UserID  string    `json:"-" gorm:"index;not null"`
	Hour    int       `json:"hour" gorm:"not null"`
	Minute  int       `json:"minute" gorm:"not null"`
	QuoteID string    `json:"quote_id" gorm:"not null"`
	SentAt  time.Time `json:"sent_at" gorm:"not null"`
}
