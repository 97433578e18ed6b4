package schedule

import "strings"

// Distribution week targets per difficulty tier.
const (
	easyWeeks   = 4
	mediumWeeks = 6
	hardWeeks   = 8
)

// Session capacity tiers.
const (
	longSessionMinutes   = 120
	mediumSessionMinutes = 60
)

// DistributionWeeks maps a difficulty label to the number of distinct weeks
// the exercise should appear in. English and Vietnamese labels are accepted;
// anything unrecognized lands on the medium tier.
func DistributionWeeks(difficulty string) int {
	switch strings.ToLower(strings.TrimSpace(difficulty)) {
	case "easy", "beginner", "dễ", "de", "cơ bản", "co ban":
		return easyWeeks
	case "hard", "advanced", "khó", "kho", "nâng cao", "nang cao":
		return hardWeeks
	case "medium", "intermediate", "trung bình", "trung binh", "vừa", "vua":
		return mediumWeeks
	default:
		return mediumWeeks
	}
}

// SessionCapacity returns the maximum number of exercises a session of the
// given length may hold.
func SessionCapacity(sessionMinutes int) int {
	switch {
	case sessionMinutes >= longSessionMinutes:
		return 3
	case sessionMinutes >= mediumSessionMinutes:
		return 2
	default:
		return 1
	}
}
