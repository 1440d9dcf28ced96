package ranking

import (
	"strings"
	"testing"
	"time"
)

func TestScoreDecaysWithAge(t *testing.T) {
	now := time.Now()

	fresh := Score(5, now, now, DefaultGravity)
	aged := Score(5, now.Add(-24*time.Hour), now, DefaultGravity)
	stale := Score(5, now.Add(-30*24*time.Hour), now, DefaultGravity)

	if !(fresh > aged && aged > stale) {
		t.Errorf("Expected monotonic decay, got %g > %g > %g", fresh, aged, stale)
	}
	if stale <= 0 {
		t.Errorf("Positive points must keep a positive score, got %g", stale)
	}
}

func TestScoreFloorsAtZeroPoints(t *testing.T) {
	now := time.Now()
	created := now.Add(-time.Hour)

	for _, points := range []int{1, 0, -3} {
		if got := Score(points, created, now, DefaultGravity); got != 0 {
			t.Errorf("Score(points=%d) = %g, want 0", points, got)
		}
	}
}

func TestScoreClampsFutureTimestamps(t *testing.T) {
	now := time.Now()
	future := Score(5, now.Add(time.Hour), now, DefaultGravity)
	present := Score(5, now, now, DefaultGravity)
	if future != present {
		t.Errorf("Future timestamps must clamp to age zero: %g != %g", future, present)
	}
}

func TestHigherGravityBuriesFaster(t *testing.T) {
	now := time.Now()
	created := now.Add(-12 * time.Hour)

	gentle := Score(10, created, now, 1.2)
	harsh := Score(10, created, now, 2.5)
	if harsh >= gentle {
		t.Errorf("Expected higher gravity to score lower, got %g >= %g", harsh, gentle)
	}
}

func TestGravityEnvOverride(t *testing.T) {
	t.Setenv("RANKING_GRAVITY", "2.2")
	if got := Gravity(); got != 2.2 {
		t.Errorf("Gravity() = %g, want 2.2", got)
	}

	t.Setenv("RANKING_GRAVITY", "not-a-number")
	if got := Gravity(); got != DefaultGravity {
		t.Errorf("Gravity() = %g, want default %g for junk input", got, DefaultGravity)
	}

	t.Setenv("RANKING_GRAVITY", "-1")
	if got := Gravity(); got != DefaultGravity {
		t.Errorf("Gravity() = %g, want default %g for non-positive input", got, DefaultGravity)
	}
}

func TestOrderSQLEmbedsFormula(t *testing.T) {
	expr := OrderSQL("(SELECT 1)", 1.8)
	for _, fragment := range []string{"(SELECT 1)", "POWER(", "1.8"} {
		if !strings.Contains(expr, fragment) {
			t.Errorf("OrderSQL missing %q in %q", fragment, expr)
		}
	}
}
