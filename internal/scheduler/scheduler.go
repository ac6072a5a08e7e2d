package scheduler

import (
	"context"
	"log"
	"time"

	subdomain "quotepush-backend/internal/subscription/domain"
	"quotepush-backend/pkg/push"
)

// minResendInterval suppresses repeat delivery for a slot that already fired
// within the same minute, in case two ticks land inside one minute window.
const minResendInterval = 60 * time.Second

// SubscriptionStore is the persistence surface the scheduler needs.
// Implemented by the subscription repository.
type SubscriptionStore interface {
	ListSubscribed() ([]*subdomain.User, error)
	CommitDelivery(userID string, hour, minute int, quoteID string, sentAt time.Time) error
}

// BlackoutChecker reports whether delivery is blocked for a timezone at an
// instant. Implemented by the blackout provider.
type BlackoutChecker interface {
	IsBlackout(timezone string, at time.Time) bool
}

// DeliveryScheduler walks all subscribers once per tick and pushes a quote to
// every device of each slot whose local wall-clock time matches now.
type DeliveryScheduler struct {
	users     SubscriptionStore
	selector  *QuoteSelector
	blackout  BlackoutChecker
	transport push.Transport
	interval  time.Duration
	stopChan  chan struct{}
}

// NewDeliveryScheduler creates a new scheduler. The interval should be at
// most one minute: slot matching is exact to the minute, so a slower tick
// would miss slots.
func NewDeliveryScheduler(
	users SubscriptionStore,
	quotes QuoteSource,
	blackout BlackoutChecker,
	transport push.Transport,
	interval time.Duration,
) *DeliveryScheduler {
	return &DeliveryScheduler{
		users:     users,
		selector:  NewQuoteSelector(quotes),
		blackout:  blackout,
		transport: transport,
		interval:  interval,
		stopChan:  make(chan struct{}),
	}
}

// Start begins the tick loop in a background goroutine.
func (s *DeliveryScheduler) Start() {
	log.Printf("[Scheduler] Starting delivery scheduler (interval: %s)", s.interval)

	go func() {
		// Run immediately on start
		s.Tick(context.Background(), time.Now())

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.Tick(context.Background(), time.Now())
			case <-s.stopChan:
				log.Println("[Scheduler] Scheduler stopped")
				return
			}
		}
	}()
}

// Stop terminates the tick loop.
func (s *DeliveryScheduler) Stop() {
	close(s.stopChan)
}

// Tick performs one scheduling pass at the given instant. A failure to load
// the subscriber list aborts the pass; any per-user problem is logged and
// skipped so the remaining users are still processed.
func (s *DeliveryScheduler) Tick(ctx context.Context, now time.Time) {
	users, err := s.users.ListSubscribed()
	if err != nil {
		log.Printf("[Scheduler] Failed to list subscribers: %v", err)
		return
	}

	for _, user := range users {
		s.processUser(ctx, user, now)
	}
}

// processUser evaluates every slot of one user. Slots run in declaration
// order; quote ids committed for earlier slots in this same pass join the
// exclusion set of later ones, so two slots firing in the same minute never
// carry the same quote.
func (s *DeliveryScheduler) processUser(ctx context.Context, user *subdomain.User, now time.Time) {
	if len(user.Devices) == 0 {
		return
	}

	local, ok := ResolveLocalTime(user.TimeZone, now)
	if !ok {
		log.Printf("[Scheduler] Unknown timezone %q for user %s, skipping", user.TimeZone, user.ID)
		return
	}

	usedThisTick := make(map[string]bool)

	for i := range user.Slots {
		slot := &user.Slots[i]

		if local.Hour != slot.Hour || local.Minute != slot.Minute {
			continue
		}
		if slot.LastSentAt != nil && now.Sub(*slot.LastSentAt) < minResendInterval {
			continue
		}
		if s.blackout.IsBlackout(user.TimeZone, now) {
			continue
		}

		excluded := s.excludedQuoteIDs(user, slot, usedThisTick)
		quote, err := s.selector.PickExcluding(excluded)
		if err != nil {
			log.Printf("[Scheduler] Failed to pick a quote for user %s: %v", user.ID, err)
			continue
		}
		if quote == nil || quote.Text == "" {
			continue
		}

		notification := push.NotificationData{
			Title: quote.AuthorName(),
			Body:  quote.Text,
			Data: map[string]string{
				"quoteId":  quote.ID,
				"authorId": quote.AuthorID,
			},
		}

		// Attempt every device; one acceptance makes the slot delivered.
		delivered := false
		for _, device := range user.Devices {
			if s.transport.Send(ctx, device.PushToken, notification) {
				delivered = true
			}
		}
		if !delivered {
			log.Printf("[Scheduler] No device accepted slot %02d:%02d for user %s", slot.Hour, slot.Minute, user.ID)
			continue
		}

		quoteID, ok := CanonicalQuoteID(quote.ID)
		if !ok {
			log.Printf("[Scheduler] Refusing to record delivery with malformed quote id %q for user %s", quote.ID, user.ID)
			continue
		}

		if err := s.users.CommitDelivery(user.ID, slot.Hour, slot.Minute, quoteID, now); err != nil {
			log.Printf("[Scheduler] Failed to record delivery for user %s slot %02d:%02d: %v", user.ID, slot.Hour, slot.Minute, err)
			continue
		}

		// Mirror the commit on the in-memory user so later slots in this
		// pass see the updated state.
		sentAt := now
		slot.LastSentAt = &sentAt
		s.replaceCurrentQuote(user, slot, quoteID, now)
		usedThisTick[quoteID] = true

		log.Printf("[Scheduler] Delivered quote %s to user %s for slot %02d:%02d", quoteID, user.ID, slot.Hour, slot.Minute)
	}
}

// excludedQuoteIDs collects the quote ids assigned to the user's other slots,
// plus the ids already used during this pass.
func (s *DeliveryScheduler) excludedQuoteIDs(user *subdomain.User, slot *subdomain.NotificationSlot, usedThisTick map[string]bool) map[string]bool {
	excluded := make(map[string]bool, len(user.CurrentQuotes)+len(usedThisTick))
	for _, entry := range user.CurrentQuotes {
		if entry.Hour == slot.Hour && entry.Minute == slot.Minute {
			continue
		}
		if id, ok := CanonicalQuoteID(entry.QuoteID); ok {
			excluded[id] = true
		}
	}
	for id := range usedThisTick {
		excluded[id] = true
	}
	return excluded
}

func (s *DeliveryScheduler) replaceCurrentQuote(user *subdomain.User, slot *subdomain.NotificationSlot, quoteID string, sentAt time.Time) {
	kept := user.CurrentQuotes[:0]
	for _, entry := range user.CurrentQuotes {
		if entry.Hour != slot.Hour || entry.Minute != slot.Minute {
			kept = append(kept, entry)
		}
	}
	user.CurrentQuotes = append(kept, subdomain.CurrentQuoteEntry{
		UserID:  user.ID,
		Hour:    slot.Hour,
		Minute:  slot.Minute,
		QuoteID: quoteID,
		SentAt:  sentAt,
	})
}
