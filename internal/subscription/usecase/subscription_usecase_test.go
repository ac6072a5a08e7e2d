package usecase

import (
	"errors"
	"testing"
	"time"

	authdomain "quotepush-backend/internal/auth/domain"
	subdomain "quotepush-backend/internal/subscription/domain"
)

func TestNormalizeSlots_DeduplicatesAndPreservesLastSent(t *testing.T) {
	lastSent := time.Date(2025, time.June, 10, 9, 0, 0, 0, time.UTC)
	existing := []subdomain.NotificationSlot{
		{Hour: 9, Minute: 0, LastSentAt: &lastSent},
		{Hour: 20, Minute: 30},
	}

	got := normalizeSlots([]SlotInput{
		{Hour: 9, Minute: 0},
		{Hour: 9, Minute: 0}, // duplicate
		{Hour: 12, Minute: 15},
	}, existing)

	if len(got) != 2 {
		t.Fatalf("slots = %d, want 2 after dedupe", len(got))
	}
	if got[0].Hour != 9 || got[0].Minute != 0 || got[1].Hour != 12 || got[1].Minute != 15 {
		t.Errorf("unexpected slot order %+v", got)
	}
	if got[0].LastSentAt == nil || !got[0].LastSentAt.Equal(lastSent) {
		t.Error("lastSentAt of the surviving slot was not carried over")
	}
	if got[1].LastSentAt != nil {
		t.Error("new slot unexpectedly inherited a lastSentAt")
	}
}

func TestMergeDevices_ReplacesByTokenAndKeepsOthers(t *testing.T) {
	now := time.Date(2025, time.June, 11, 8, 0, 0, 0, time.UTC)
	existing := []subdomain.DeviceRegistration{
		{PushToken: "tok-old", Platform: subdomain.PlatformAndroid, LastActiveAt: now.Add(-48 * time.Hour)},
		{PushToken: "tok-other", Platform: subdomain.PlatformIOS, LastActiveAt: now.Add(-time.Hour)},
	}

	got := mergeDevices("tok-old", subdomain.PlatformWeb, existing, now)

	if len(got) != 2 {
		t.Fatalf("devices = %d, want 2", len(got))
	}
	if got[0].PushToken != "tok-other" {
		t.Errorf("unrelated device not preserved: %+v", got)
	}
	merged := got[1]
	if merged.PushToken != "tok-old" || merged.Platform != subdomain.PlatformWeb || !merged.LastActiveAt.Equal(now) {
		t.Errorf("re-registered device not replaced: %+v", merged)
	}
}

func TestMergeDevices_DefaultsPlatformToIOS(t *testing.T) {
	got := mergeDevices("tok", "", nil, time.Now())
	if len(got) != 1 || got[0].Platform != subdomain.PlatformIOS {
		t.Errorf("devices = %+v, want single ios registration", got)
	}
}

func TestPruneCurrentQuotes_DropsRemovedSlots(t *testing.T) {
	slots := []subdomain.NotificationSlot{{Hour: 9, Minute: 0}}
	entries := []subdomain.CurrentQuoteEntry{
		{Hour: 9, Minute: 0, QuoteID: "q-keep"},
		{Hour: 20, Minute: 0, QuoteID: "q-drop"},
	}

	got := pruneCurrentQuotes(slots, entries)
	if len(got) != 1 || got[0].QuoteID != "q-keep" {
		t.Errorf("pruned entries = %+v, want only the 09:00 entry", got)
	}
}

func TestValidateInput(t *testing.T) {
	valid := func() *UpsertSubscriptionInput {
		return &UpsertSubscriptionInput{
			Provider:  subdomain.ProviderGoogle,
			TimeZone:  "America/New_York",
			PushToken: "tok",
			Slots:     []SlotInput{{Hour: 9, Minute: 0}},
		}
	}

	if err := validateInput(valid(), 5); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*UpsertSubscriptionInput)
	}{
		{"unknown provider", func(in *UpsertSubscriptionInput) { in.Provider = "facebook" }},
		{"bad timezone", func(in *UpsertSubscriptionInput) { in.TimeZone = "Mars/Olympus" }},
		{"hour too large", func(in *UpsertSubscriptionInput) { in.Slots = []SlotInput{{Hour: 24, Minute: 0}} }},
		{"negative minute", func(in *UpsertSubscriptionInput) { in.Slots = []SlotInput{{Hour: 9, Minute: -1}} }},
		{"too many slots", func(in *UpsertSubscriptionInput) {
			in.Slots = []SlotInput{{Hour: 1}, {Hour: 2}, {Hour: 3}, {Hour: 4}, {Hour: 5}, {Hour: 6}}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid()
			tt.mutate(in)
			err := validateInput(in, 5)
			if err == nil {
				t.Fatal("invalid input accepted")
			}
			if !errors.Is(err, ErrValidation) {
				t.Errorf("error %v does not wrap ErrValidation", err)
			}
		})
	}
}

// fakeIdentity approves every token for a fixed subject.
type fakeIdentity struct {
	profile *authdomain.VerifiedProfile
	err     error
}

func (f *fakeIdentity) VerifyIdentityToken(subdomain.AuthProvider, string) (*authdomain.VerifiedProfile, error) {
	return f.profile, f.err
}

type fakeUserRepo struct {
	existing *subdomain.User
	saved    *subdomain.User
}

func (f *fakeUserRepo) FindByIdentity(subdomain.AuthProvider, string) (*subdomain.User, error) {
	return f.existing, nil
}

func (f *fakeUserRepo) SaveSubscription(user *subdomain.User) error {
	f.saved = user
	return nil
}

func (f *fakeUserRepo) ListSubscribed() ([]*subdomain.User, error) { return nil, nil }

func (f *fakeUserRepo) CommitDelivery(string, int, int, string, time.Time) error { return nil }

func TestUpsert_CreatesUserFromVerifiedProfile(t *testing.T) {
	repo := &fakeUserRepo{}
	identity := &fakeIdentity{profile: &authdomain.VerifiedProfile{
		ProviderUserID: "google-sub-1",
		Email:          "m@example.com",
		FullName:       "Marcus",
	}}
	uc := NewSubscriptionUsecase(repo, identity, 5)

	user, err := uc.Upsert(&UpsertSubscriptionInput{
		Provider:      subdomain.ProviderGoogle,
		IdentityToken: "token",
		PushToken:     "tok-1",
		TimeZone:      "America/New_York",
		Slots:         []SlotInput{{Hour: 9, Minute: 0}},
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if repo.saved == nil {
		t.Fatal("nothing saved")
	}
	if user.ProviderUserID != "google-sub-1" || user.Email != "m@example.com" || user.FullName != "Marcus" {
		t.Errorf("profile not applied: %+v", user)
	}
	if len(user.Slots) != 1 || len(user.Devices) != 1 {
		t.Errorf("slots/devices not built: %+v", user)
	}
}

func TestUpsert_RejectsInvalidIdentityToken(t *testing.T) {
	uc := NewSubscriptionUsecase(&fakeUserRepo{}, &fakeIdentity{err: authdomain.ErrUnauthorized}, 5)

	_, err := uc.Upsert(&UpsertSubscriptionInput{
		Provider:      subdomain.ProviderApple,
		IdentityToken: "bad",
		PushToken:     "tok-1",
		TimeZone:      "UTC",
	})
	if !errors.Is(err, authdomain.ErrUnauthorized) {
		t.Errorf("err = %v, want ErrUnauthorized", err)
	}
}

func TestUpsert_UpdatesExistingUserPreservingDebounce(t *testing.T) {
	lastSent := time.Date(2025, time.June, 10, 9, 0, 0, 0, time.UTC)
	repo := &fakeUserRepo{existing: &subdomain.User{
		ID:             "u1",
		AuthProvider:   subdomain.ProviderGoogle,
		ProviderUserID: "google-sub-1",
		TimeZone:       "UTC",
		Slots:          []subdomain.NotificationSlot{{Hour: 9, Minute: 0, LastSentAt: &lastSent}},
		Devices:        []subdomain.DeviceRegistration{{PushToken: "tok-old"}},
		CurrentQuotes:  []subdomain.CurrentQuoteEntry{{Hour: 20, Minute: 0, QuoteID: "q-old"}},
	}}
	identity := &fakeIdentity{profile: &authdomain.VerifiedProfile{ProviderUserID: "google-sub-1"}}
	uc := NewSubscriptionUsecase(repo, identity, 5)

	user, err := uc.Upsert(&UpsertSubscriptionInput{
		Provider:      subdomain.ProviderGoogle,
		IdentityToken: "token",
		PushToken:     "tok-new",
		TimeZone:      "Asia/Jerusalem",
		Slots:         []SlotInput{{Hour: 9, Minute: 0}},
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if user.ID != "u1" || user.TimeZone != "Asia/Jerusalem" {
		t.Errorf("existing user not updated in place: %+v", user)
	}
	if user.Slots[0].LastSentAt == nil || !user.Slots[0].LastSentAt.Equal(lastSent) {
		t.Error("debounce state lost on re-registration")
	}
	if len(user.Devices) != 2 {
		t.Errorf("devices = %d, want old device preserved alongside the new one", len(user.Devices))
	}
	// The 20:00 slot no longer exists, so its delivery-tracking entry goes.
	if len(user.CurrentQuotes) != 0 {
		t.Errorf("current quotes = %+v, want pruned to the surviving slots", user.CurrentQuotes)
	}
}
