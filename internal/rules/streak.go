package rules

import "github.com/haruapp/haru/internal/dateutil"

// ComputeStreak counts consecutive visited days ending at today,
// walking backward one day at a time and stopping at the first gap.
// It returns 0 when today itself has no visit. The result depends only
// on the set of dates, not their order.
func ComputeStreak(visitDates []string, today string) int {
	visited := make(map[string]bool, len(visitDates))
	for _, d := range visitDates {
		visited[d] = true
	}

	streak := 0
	day := today
	for visited[day] {
		streak++
		prev, err := dateutil.AddDays(day, -1)
		if err != nil {
			break
		}
		day = prev
	}
	return streak
}

// NeedsVisit reports whether a visit record still has to be written for
// today. It is the pure half of the record-once flow: the repository
// checks it before issuing the single create.
func NeedsVisit(visitDates []string, today string) bool {
	for _, d := range visitDates {
		if d == today {
			return false
		}
	}
	return true
}

// StreakMessage maps a streak length to the encouragement banner shown
// in the header. Tier bounds are inclusive.
func StreakMessage(days int) string {
	switch {
	case days <= 0:
		return ""
	case days <= 3:
		return "Nice start! Come back tomorrow to keep it going."
	case days <= 7:
		return "You're building a habit. Keep showing up!"
	case days <= 30:
		return "Impressive streak! Your consistency is paying off."
	default:
		return "Unstoppable! You've made this part of your life."
	}
}
