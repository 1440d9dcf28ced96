package ranking

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"time"
)

// DefaultGravity is the decay exponent of the classic Hacker News formula
// score = (P-1) / (T+2)^G. Higher gravity buries older items faster.
const DefaultGravity = 1.8

// Gravity reads RANKING_GRAVITY from the environment, falling back to the
// default when unset or unparsable.
func Gravity() float64 {
	if v := os.Getenv("RANKING_GRAVITY"); v != "" {
		if g, err := strconv.ParseFloat(v, 64); err == nil && g > 0 {
			return g
		}
	}
	return DefaultGravity
}

// Score computes the decaying rank of an item from its point total and age.
// Items at zero or negative points always score zero, so "best" listings
// never surface down-voted content on recency alone.
func Score(points int, createdAt, now time.Time, gravity float64) float64 {
	ageHours := now.Sub(createdAt).Hours()
	if ageHours < 0 {
		ageHours = 0
	}

	numerator := float64(points - 1)
	if numerator < 0 {
		numerator = 0
	}

	return numerator / math.Pow(ageHours+2, gravity)
}

// OrderSQL renders the same formula as a Postgres ORDER BY expression, with
// pointsExpr standing in for the item's derived point total. Listings order
// by it directly instead of pulling every row into memory.
func OrderSQL(pointsExpr string, gravity float64) string {
	return fmt.Sprintf(
		"GREATEST(%s - 1, 0) / POWER(GREATEST(EXTRACT(EPOCH FROM (NOW() - posts.created_at)), 0) / 3600 + 2, %g)",
		pointsExpr, gravity,
	)
}
