package redis

import (
	"strings"
	"testing"
	"time"
)

func TestWindowKey(t *testing.T) {
	repo := NewRateLimitRepository(nil, "")

	base := time.Unix(1_700_000_000, 0)
	k1 := repo.WindowKey("10.0.0.1", base, time.Second)
	k2 := repo.WindowKey("10.0.0.1", base.Add(999*time.Millisecond), time.Second)
	k3 := repo.WindowKey("10.0.0.1", base.Add(time.Second), time.Second)

	if !strings.HasPrefix(k1, DefaultKeyPrefix+"10.0.0.1:") {
		t.Errorf("unexpected key %q", k1)
	}
	if k1 != k2 {
		t.Errorf("same window produced different keys: %q, %q", k1, k2)
	}
	if k1 == k3 {
		t.Errorf("next window reused key %q", k1)
	}

	aligned := time.Unix(1_699_999_980, 0)
	minute := repo.WindowKey("a", aligned.Add(5*time.Second), time.Minute)
	if minute != repo.WindowKey("a", aligned.Add(55*time.Second), time.Minute) {
		t.Error("minute window split within the same minute")
	}
}

func TestCustomKeyPrefix(t *testing.T) {
	repo := NewRateLimitRepository(nil, "rl:test:")
	if key := repo.WindowKey("x", time.Unix(10, 0), time.Second); key != "rl:test:x:10" {
		t.Errorf("WindowKey() = %q", key)
	}
}
