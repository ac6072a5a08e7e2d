package blackout

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"sort"
	"sync"
	"time"
)

const (
	entryCategory = "candles"
	exitCategory  = "havdalah"

	// How long a failed or empty lookup is cached before the feed is queried again.
	fallbackTTL = time.Hour
)

// Window is one observance interval. An instant t is inside the window when
// Start <= t < End.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether at falls inside the window. The start boundary is
// inclusive, the end boundary exclusive.
func (w Window) Contains(at time.Time) bool {
	return !at.Before(w.Start) && at.Before(w.End)
}

type cacheEntry struct {
	window    *Window
	expiresAt time.Time
}

// Provider answers whether delivery is currently blocked by the observance
// window for a timezone. Windows come from a remote event feed and are cached
// per timezone; the cache expires exactly at the next boundary transition, so
// polling the provider every tick does not hammer the feed. Feed failures
// degrade to "not blackout" and are cached briefly as negative results.
type Provider struct {
	feedURL string
	client  *http.Client

	mu    sync.Mutex
	cache map[string]cacheEntry
}

// NewProvider creates a provider reading from the given feed URL. An empty
// URL disables the feed and falls back to the fixed weekly observance hours.
func NewProvider(feedURL string) *Provider {
	return &Provider{
		feedURL: feedURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		cache:   make(map[string]cacheEntry),
	}
}

// IsBlackout reports whether at falls inside the observance window for the
// timezone. It never fails: any feed or parse problem yields false.
func (p *Provider) IsBlackout(timezone string, at time.Time) bool {
	if p.feedURL == "" {
		return staticObservance(timezone, at)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	entry, ok := p.cache[timezone]
	if !ok || !at.Before(entry.expiresAt) {
		entry = p.refresh(timezone, at)
		p.cache[timezone] = entry
	}

	if entry.window == nil {
		return false
	}
	return entry.window.Contains(at)
}

// refresh queries the feed and computes the cache lifetime: a found window
// expires at its own start when the instant precedes it (the cache flips to
// blackout exactly on time) and at its end otherwise; a miss expires after
// the fallback TTL.
func (p *Provider) refresh(timezone string, at time.Time) cacheEntry {
	window, err := p.fetchWindow(timezone)
	if err != nil {
		log.Printf("[Blackout] Failed to fetch window for %s: %v", timezone, err)
		window = nil
	}

	expiresAt := at.Add(fallbackTTL)
	if window != nil {
		if at.Before(window.Start) {
			expiresAt = window.Start
		} else {
			expiresAt = window.End
		}
	}
	return cacheEntry{window: window, expiresAt: expiresAt}
}

type feedResponse struct {
	Items []feedItem `json:"items"`
}

type feedItem struct {
	Category string `json:"category"`
	Date     string `json:"date"`
}

type boundaryEvent struct {
	category string
	at       time.Time
}

// fetchWindow asks the feed for the upcoming boundary events of the timezone
// and pairs the first entry event with the next exit event that follows it.
// Entry events with no later exit are skipped.
func (p *Provider) fetchWindow(timezone string) (*Window, error) {
	reqURL := fmt.Sprintf("%s?timezone=%s", p.feedURL, url.QueryEscape(timezone))
	resp, err := p.client.Get(reqURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed request failed with status %d", resp.StatusCode)
	}

	var feed feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, err
	}

	events := make([]boundaryEvent, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item.Category != entryCategory && item.Category != exitCategory {
			continue
		}
		at, err := time.Parse(time.RFC3339, item.Date)
		if err != nil {
			continue
		}
		events = append(events, boundaryEvent{category: item.Category, at: at})
	}
	sort.Slice(events, func(i, j int) bool { return events[i].at.Before(events[j].at) })

	for i, event := range events {
		if event.category != entryCategory {
			continue
		}
		for _, next := range events[i+1:] {
			if next.category == exitCategory && next.at.After(event.at) {
				return &Window{Start: event.at, End: next.at}, nil
			}
		}
	}
	return nil, nil
}

// staticObservance is the feed-less fallback: delivery is blocked from Friday
// 16:00 local time through Saturday before 20:00 local time.
func staticObservance(timezone string, at time.Time) bool {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return false
	}
	local := at.In(loc)
	switch local.Weekday() {
	case time.Friday:
		return local.Hour() >= 16
	case time.Saturday:
		return local.Hour() < 20
	default:
		return false
	}
}
