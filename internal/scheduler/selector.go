package scheduler

import (
	quotedomain "quotepush-backend/internal/quote/domain"
)

// maxPickAttempts bounds the random draws made to avoid an excluded quote.
const maxPickAttempts = 5

// QuoteSource supplies uniformly random quotes. Implemented by the quote
// repository.
type QuoteSource interface {
	FindRandom() (*quotedomain.Quote, error)
}

// QuoteSelector picks a random quote while steering away from a caller-supplied
// exclusion set of recently used quote ids.
type QuoteSelector struct {
	source QuoteSource
}

// NewQuoteSelector creates a new QuoteSelector
func NewQuoteSelector(source QuoteSource) *QuoteSelector {
	return &QuoteSelector{source: source}
}

// PickExcluding draws up to maxPickAttempts random quotes and returns the
// first one whose id is not in excluded. When every attempt collides, the
// last draw is returned anyway: the exclusion is a soft preference, and a
// pool smaller than the exclusion set must not loop forever. Returns nil
// only when the quote store is empty or unreadable.
func (s *QuoteSelector) PickExcluding(excluded map[string]bool) (*quotedomain.Quote, error) {
	var last *quotedomain.Quote
	for attempt := 0; attempt < maxPickAttempts; attempt++ {
		quote, err := s.source.FindRandom()
		if err != nil {
			return nil, err
		}
		if quote == nil {
			return nil, nil
		}
		last = quote

		id, ok := CanonicalQuoteID(quote.ID)
		if ok && !excluded[id] {
			return quote, nil
		}
	}
	return last, nil
}
