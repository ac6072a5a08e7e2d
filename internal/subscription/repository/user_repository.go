package repository

import (
	"errors"
	"fmt"
	"time"

	subdomain "quotepush-backend/internal/subscription/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRepository defines storage operations for push subscribers.
type UserRepository interface {
	FindByIdentity(provider subdomain.AuthProvider, providerUserID string) (*subdomain.User, error)
	ListSubscribed() ([]*subdomain.User, error)
	SaveSubscription(user *subdomain.User) error
	CommitDelivery(userID string, hour, minute int, quoteID string, sentAt time.Time) error
}

// userRepository implements UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new instance of userRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func withEmbedded(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Slots", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Devices").
		Preload("CurrentQuotes")
}

func (r *userRepository) FindByIdentity(provider subdomain.AuthProvider, providerUserID string) (*subdomain.User, error) {
	var user subdomain.User
	err := withEmbedded(r.db).
		Where("auth_provider = ? AND provider_user_id = ?", provider, providerUserID).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// ListSubscribed returns every user with slots, devices and current quotes
// populated. Slots come back in declaration order so repeated scheduler runs
// process them deterministically.
func (r *userRepository) ListSubscribed() ([]*subdomain.User, error) {
	var users []*subdomain.User
	err := withEmbedded(r.db).Order("created_at ASC").Find(&users).Error
	return users, err
}

// SaveSubscription persists the full subscription state of one user in a
// single transaction: the user row is upserted and the embedded collections
// are replaced wholesale with the ones on the given user.
func (r *userRepository) SaveSubscription(user *subdomain.User) error {
	now := time.Now()
	if user.ID == "" {
		user.ID = uuid.New().String()
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	for i := range user.Slots {
		user.Slots[i].ID = uuid.New().String()
		user.Slots[i].UserID = user.ID
		user.Slots[i].Position = i
	}
	for i := range user.Devices {
		user.Devices[i].ID = uuid.New().String()
		user.Devices[i].UserID = user.ID
	}
	for i := range user.CurrentQuotes {
		user.CurrentQuotes[i].ID = uuid.New().String()
		user.CurrentQuotes[i].UserID = user.ID
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Slots", "Devices", "CurrentQuotes").Save(user).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&subdomain.NotificationSlot{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&subdomain.DeviceRegistration{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&subdomain.CurrentQuoteEntry{}).Error; err != nil {
			return err
		}
		if len(user.Slots) > 0 {
			if err := tx.Create(&user.Slots).Error; err != nil {
				return err
			}
		}
		if len(user.Devices) > 0 {
			if err := tx.Create(&user.Devices).Error; err != nil {
				return err
			}
		}
		if len(user.CurrentQuotes) > 0 {
			if err := tx.Create(&user.CurrentQuotes).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// CommitDelivery durably records one delivered slot in a single transaction:
// the matching slot's last-sent timestamp is updated and the current-quote
// entry for that (hour, minute) is replaced. Only rows belonging to the given
// user and slot are touched, so concurrent updates to the user's other slots
// or devices are not clobbered.
func (r *userRepository) CommitDelivery(userID string, hour, minute int, quoteID string, sentAt time.Time) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&subdomain.NotificationSlot{}).
			Where("user_id = ? AND hour = ? AND minute = ?", userID, hour, minute).
			Update("last_sent_at", sentAt)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("no slot %02d:%02d for user %s", hour, minute, userID)
		}

		if err := tx.Where("user_id = ? AND hour = ? AND minute = ?", userID, hour, minute).
			Delete(&subdomain.CurrentQuoteEntry{}).Error; err != nil {
			return err
		}

		return tx.Create(&subdomain.CurrentQuoteEntry{
			ID:      uuid.New().String(),
			UserID:  userID,
			Hour:    hour,
			Minute:  minute,
			QuoteID: quoteID,
			SentAt:  sentAt,
		}).Error
	})
}
