package blackout

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func utc(hour, minute int) time.Time {
	return time.Date(2025, time.June, 11, hour, minute, 0, 0, time.UTC)
}

func feedServer(t *testing.T, requests *int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*requests++
		if r.URL.Query().Get("timezone") == "" {
			t.Error("feed request missing timezone parameter")
		}
		fmt.Fprint(w, body)
	}))
}

func TestIsBlackout_WindowBoundaries(t *testing.T) {
	requests := 0
	srv := feedServer(t, &requests, `{"items":[
		{"category":"candles","date":"2025-06-11T12:00:00Z"},
		{"category":"havdalah","date":"2025-06-11T13:00:00Z"}
	]}`)
	defer srv.Close()

	p := NewProvider(srv.URL)

	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"before start", utc(11, 0), false},
		{"exactly at start", utc(12, 0), true},
		{"inside", utc(12, 30), true},
		{"exactly at end", utc(13, 0), false},
		{"after end", utc(14, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.IsBlackout("America/New_York", tt.at); got != tt.want {
				t.Errorf("IsBlackout(%s) = %v, want %v", tt.at, got, tt.want)
			}
		})
	}
}

func TestIsBlackout_CacheExpiresAtBoundaries(t *testing.T) {
	requests := 0
	srv := feedServer(t, &requests, `{"items":[
		{"category":"candles","date":"2025-06-11T12:00:00Z"},
		{"category":"havdalah","date":"2025-06-11T13:00:00Z"}
	]}`)
	defer srv.Close()

	p := NewProvider(srv.URL)

	// Before the window the cache is valid until the window starts.
	p.IsBlackout("UTC", utc(11, 0))
	p.IsBlackout("UTC", utc(11, 30))
	p.IsBlackout("UTC", utc(11, 59))
	if requests != 1 {
		t.Fatalf("requests = %d, want 1 while the pre-window cache holds", requests)
	}

	// Crossing the start boundary invalidates the cache exactly once.
	p.IsBlackout("UTC", utc(12, 0))
	p.IsBlackout("UTC", utc(12, 30))
	if requests != 2 {
		t.Errorf("requests = %d, want 2 after crossing the window start", requests)
	}

	// Separate timezones get separate cache entries.
	p.IsBlackout("Asia/Tokyo", utc(12, 30))
	if requests != 3 {
		t.Errorf("requests = %d, want 3 after a second timezone", requests)
	}
}

func TestIsBlackout_UnmatchedEntrySkipped(t *testing.T) {
	requests := 0
	// The leading exit has no entry before it and the trailing entry has no
	// exit after it; only the middle pair forms a window.
	srv := feedServer(t, &requests, `{"items":[
		{"category":"havdalah","date":"2025-06-11T09:00:00Z"},
		{"category":"candles","date":"2025-06-11T12:00:00Z"},
		{"category":"havdalah","date":"2025-06-11T13:00:00Z"},
		{"category":"candles","date":"2025-06-11T18:00:00Z"}
	]}`)
	defer srv.Close()

	p := NewProvider(srv.URL)
	if p.IsBlackout("UTC", utc(9, 0)) {
		t.Error("exit event without a preceding entry treated as a window")
	}
	if !p.IsBlackout("UTC", utc(12, 30)) {
		t.Error("matched pair not treated as a window")
	}
}

func TestIsBlackout_EntryWithoutExitYieldsNoWindow(t *testing.T) {
	requests := 0
	srv := feedServer(t, &requests, `{"items":[{"category":"candles","date":"2025-06-11T12:00:00Z"}]}`)
	defer srv.Close()

	p := NewProvider(srv.URL)
	if p.IsBlackout("UTC", utc(12, 30)) {
		t.Error("unpaired entry treated as a window")
	}
}

func TestIsBlackout_FeedFailureIsNotBlackoutAndCached(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewProvider(srv.URL)
	if p.IsBlackout("UTC", utc(10, 0)) {
		t.Error("feed failure reported as blackout")
	}
	// A second lookup within the fallback TTL must not hit the feed again.
	p.IsBlackout("UTC", utc(10, 30))
	if requests != 1 {
		t.Errorf("requests = %d, want 1 (negative result cached)", requests)
	}
	// After the fallback TTL the feed is retried.
	p.IsBlackout("UTC", utc(11, 0))
	if requests != 2 {
		t.Errorf("requests = %d, want 2 after the fallback TTL", requests)
	}
}

func TestIsBlackout_MalformedFeed(t *testing.T) {
	requests := 0
	srv := feedServer(t, &requests, `{"items":`)
	defer srv.Close()

	p := NewProvider(srv.URL)
	if p.IsBlackout("UTC", utc(10, 0)) {
		t.Error("malformed feed reported as blackout")
	}
}

func TestIsBlackout_StaticObservanceFallback(t *testing.T) {
	p := NewProvider("")

	// 2025-06-13 is a Friday, 2025-06-14 a Saturday.
	nyc := func(day, hour int) time.Time {
		loc, err := time.LoadLocation("America/New_York")
		if err != nil {
			t.Fatalf("load location: %v", err)
		}
		return time.Date(2025, time.June, day, hour, 0, 0, 0, loc)
	}

	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"friday afternoon", nyc(13, 15), false},
		{"friday evening", nyc(13, 16), true},
		{"saturday morning", nyc(14, 10), true},
		{"saturday night", nyc(14, 20), false},
		{"midweek", nyc(11, 12), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.IsBlackout("America/New_York", tt.at); got != tt.want {
				t.Errorf("IsBlackout(%s) = %v, want %v", tt.at, got, tt.want)
			}
		})
	}
}

func TestIsBlackout_UnknownZoneWithStaticFallback(t *testing.T) {
	p := NewProvider("")
	if p.IsBlackout("Not/AZone", time.Now()) {
		t.Error("unknown zone reported as blackout")
	}
}
