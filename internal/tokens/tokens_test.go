package tokens

import (
	"testing"
	"time"
)

func lifetime(seconds int64) *int64 {
	return &seconds
}

func TestRecordIsExpired(t *testing.T) {
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tc := []struct {
		name      string
		expiresIn *int64
		elapsed   time.Duration
		want      bool
	}{
		{
			name:      "no lifetime never expires",
			expiresIn: nil,
			elapsed:   24 * 365 * time.Hour,
			want:      false,
		},
		{
			name:      "fresh token",
			expiresIn: lifetime(3600),
			elapsed:   3000 * time.Second,
			want:      false,
		},
		{
			name:      "inside the safety buffer",
			expiresIn: lifetime(3600),
			elapsed:   3300 * time.Second,
			want:      true,
		},
		{
			name:      "past the real deadline",
			expiresIn: lifetime(3600),
			elapsed:   3600 * time.Second,
			want:      true,
		},
		{
			name:      "zero lifetime is immediately stale",
			expiresIn: lifetime(0),
			elapsed:   0,
			want:      true,
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			rec := Record{AccessToken: "tok", CreatedAt: created, ExpiresIn: tt.expiresIn}

			got := rec.IsExpired(created.Add(tt.elapsed))
			if got != tt.want {
				t.Errorf("IsExpired(+%v) = %v, want %v", tt.elapsed, got, tt.want)
			}
		})
	}

	t.Run("monotonic over time", func(t *testing.T) {
		rec := Record{AccessToken: "tok", CreatedAt: created, ExpiresIn: lifetime(3600)}

		expired := false
		for i := 0; i <= 48; i++ {
			now := created.Add(time.Duration(i) * 5 * time.Minute)
			got := rec.IsExpired(now)
			if expired && !got {
				t.Fatalf("record flipped back to valid at +%v", now.Sub(created))
			}
			expired = got
		}

		if !expired {
			t.Error("record never expired over the sampled window")
		}
	})
}

func TestRecordTimeUntilExpiry(t *testing.T) {
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("reports real remaining lifetime", func(t *testing.T) {
		rec := Record{AccessToken: "tok", CreatedAt: created, ExpiresIn: lifetime(3600)}

		remaining, ok := rec.TimeUntilExpiry(created.Add(600 * time.Second))
		if !ok {
			t.Fatal("expected a remaining duration")
		}
		if remaining != 3000*time.Second {
			t.Errorf("expected 3000s remaining, got %v", remaining)
		}
	})

	t.Run("no lifetime reported", func(t *testing.T) {
		rec := Record{AccessToken: "tok", CreatedAt: created}

		if _, ok := rec.TimeUntilExpiry(created); ok {
			t.Error("expected no remaining duration for a non-expiring record")
		}
	})

	t.Run("negative after the deadline", func(t *testing.T) {
		rec := Record{AccessToken: "tok", CreatedAt: created, ExpiresIn: lifetime(60)}

		remaining, ok := rec.TimeUntilExpiry(created.Add(2 * time.Minute))
		if !ok {
			t.Fatal("expected a remaining duration")
		}
		if remaining >= 0 {
			t.Errorf("expected negative remaining time, got %v", remaining)
		}
	})
}

func TestNewRecord(t *testing.T) {
	zone := time.FixedZone("UTC+2", 2*60*60)
	issued := time.Date(2025, 6, 1, 14, 30, 0, 0, zone)

	rec := NewRecord("access", "refresh", lifetime(3600), issued)

	if rec.AccessToken != "access" || rec.RefreshToken != "refresh" {
		t.Errorf("unexpected tokens: %q / %q", rec.AccessToken, rec.RefreshToken)
	}

	if rec.CreatedAt.Location() != time.UTC {
		t.Errorf("expected UTC creation time, got %v", rec.CreatedAt.Location())
	}

	if !rec.CreatedAt.Equal(issued) {
		t.Errorf("expected %v, got %v", issued, rec.CreatedAt)
	}
}

func TestStorage(t *testing.T) {
	storage := Storage{}

	if _, ok := storage.Lookup("mixcloud"); ok {
		t.Error("empty storage should hold no records")
	}

	first := Record{AccessToken: "one"}
	storage.Set("mixcloud", first)

	got, ok := storage.Lookup("mixcloud")
	if !ok || got.AccessToken != "one" {
		t.Errorf("expected stored record, got %+v (ok=%v)", got, ok)
	}

	storage.Set("mixcloud", Record{AccessToken: "two"})

	got, _ = storage.Lookup("mixcloud")
	if got.AccessToken != "two" {
		t.Errorf("expected replacement record, got %q", got.AccessToken)
	}

	if _, ok := storage.Lookup("soundcloud"); ok {
		t.Error("unrelated platform should stay absent")
	}
}
