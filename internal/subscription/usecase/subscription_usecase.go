package usecase

import (
	"errors"
	"fmt"
	"time"

	authusecase "quotepush-backend/internal/auth/usecase"
	subdomain "quotepush-backend/internal/subscription/domain"
	"quotepush-backend/internal/subscription/repository"
)

// ErrValidation reports a malformed subscription request.
var ErrValidation = errors.New("validation failed")

// SlotInput is one requested delivery time.
type SlotInput struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// UpsertSubscriptionInput is the full subscription state a client submits.
type UpsertSubscriptionInput struct {
	Provider      subdomain.AuthProvider `json:"provider" binding:"required"`
	IdentityToken string                 `json:"identity_token" binding:"required"`
	PushToken     string                 `json:"push_token" binding:"required"`
	Platform      subdomain.Platform     `json:"platform"`
	TimeZone      string                 `json:"time_zone" binding:"required"`
	Slots         []SlotInput            `json:"notification_schedule"`
}

// SubscriptionUsecase registers and updates push subscriptions.
type SubscriptionUsecase interface {
	Upsert(input *UpsertSubscriptionInput) (*subdomain.User, error)
}

// subscriptionUsecase implements SubscriptionUsecase interface
type subscriptionUsecase struct {
	userRepo repository.UserRepository
	identity authusecase.IdentityUsecase
	maxSlots int
}

// NewSubscriptionUsecase creates a new instance of subscriptionUsecase
func NewSubscriptionUsecase(userRepo repository.UserRepository, identity authusecase.IdentityUsecase, maxSlots int) SubscriptionUsecase {
	return &subscriptionUsecase{
		userRepo: userRepo,
		identity: identity,
		maxSlots: maxSlots,
	}
}

func (u *subscriptionUsecase) Upsert(input *UpsertSubscriptionInput) (*subdomain.User, error) {
	if err := validateInput(input, u.maxSlots); err != nil {
		return nil, err
	}

	profile, err := u.identity.VerifyIdentityToken(input.Provider, input.IdentityToken)
	if err != nil {
		return nil, err
	}

	existing, err := u.userRepo.FindByIdentity(input.Provider, profile.ProviderUserID)
	if err != nil {
		return nil, err
	}

	user := existing
	if user == nil {
		user = &subdomain.User{
			AuthProvider:   input.Provider,
			ProviderUserID: profile.ProviderUserID,
		}
	}
	if profile.Email != "" {
		user.Email = profile.Email
	}
	if profile.FullName != "" {
		user.FullName = profile.FullName
	}
	user.TimeZone = input.TimeZone

	user.Slots = normalizeSlots(input.Slots, user.Slots)
	user.Devices = mergeDevices(input.PushToken, input.Platform, user.Devices, time.Now())
	user.CurrentQuotes = pruneCurrentQuotes(user.Slots, user.CurrentQuotes)

	if err := u.userRepo.SaveSubscription(user); err != nil {
		return nil, err
	}
	return user, nil
}

func validateInput(input *UpsertSubscriptionInput, maxSlots int) error {
	if input.Provider != subdomain.ProviderGoogle && input.Provider != subdomain.ProviderApple {
		return fmt.Errorf("%w: provider must be google or apple", ErrValidation)
	}
	if !isValidTimeZone(input.TimeZone) {
		return fmt.Errorf("%w: time_zone must be a valid IANA name", ErrValidation)
	}
	if len(input.Slots) > maxSlots {
		return fmt.Errorf("%w: at most %d notification slots are allowed", ErrValidation, maxSlots)
	}
	for _, slot := range input.Slots {
		if slot.Hour < 0 || slot.Hour > 23 {
			return fmt.Errorf("%w: hour must be an integer 0-23", ErrValidation)
		}
		if slot.Minute < 0 || slot.Minute > 59 {
			return fmt.Errorf("%w: minute must be an integer 0-59", ErrValidation)
		}
	}
	return nil
}

func isValidTimeZone(timeZone string) bool {
	if timeZone == "" {
		return false
	}
	_, err := time.LoadLocation(timeZone)
	return err == nil
}

// normalizeSlots deduplicates the requested slots by (hour, minute), keeping
// the first occurrence, and carries over last-sent timestamps from the slots
// the user already had so re-registering does not reset the debounce state.
func normalizeSlots(requested []SlotInput, existing []subdomain.NotificationSlot) []subdomain.NotificationSlot {
	seen := make(map[[2]int]bool, len(requested))
	slots := make([]subdomain.NotificationSlot, 0, len(requested))

	for _, req := range requested {
		key := [2]int{req.Hour, req.Minute}
		if seen[key] {
			continue
		}
		seen[key] = true

		slot := subdomain.NotificationSlot{Hour: req.Hour, Minute: req.Minute}
		for _, prev := range existing {
			if prev.Hour == req.Hour && prev.Minute == req.Minute && prev.LastSentAt != nil {
				t := *prev.LastSentAt
				slot.LastSentAt = &t
				break
			}
		}
		slots = append(slots, slot)
	}
	return slots
}

// mergeDevices upserts the registering device by push token: the matching
// device (if any) is replaced with fresh platform and last-active values and
// every other device is preserved.
func mergeDevices(pushToken string, platform subdomain.Platform, existing []subdomain.DeviceRegistration, now time.Time) []subdomain.DeviceRegistration {
	if platform == "" {
		platform = subdomain.PlatformIOS
	}

	devices := make([]subdomain.DeviceRegistration, 0, len(existing)+1)
	for _, device := range existing {
		if device.PushToken != pushToken {
			devices = append(devices, device)
		}
	}
	return append(devices, subdomain.DeviceRegistration{
		PushToken:    pushToken,
		Platform:     platform,
		LastActiveAt: now,
	})
}

// pruneCurrentQuotes drops delivery-tracking entries whose slot no longer
// exists in the user's schedule.
func pruneCurrentQuotes(slots []subdomain.NotificationSlot, entries []subdomain.CurrentQuoteEntry) []subdomain.CurrentQuoteEntry {
	allowed := make(map[[2]int]bool, len(slots))
	for _, slot := range slots {
		allowed[[2]int{slot.Hour, slot.Minute}] = true
	}

	kept := make([]subdomain.CurrentQuoteEntry, 0, len(entries))
	for _, entry := range entries {
		if allowed[[2]int{entry.Hour, entry.Minute}] {
			kept = append(kept, entry)
		}
	}
	return kept
}
