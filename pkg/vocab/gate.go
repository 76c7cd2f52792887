package vocab

// DefaultQuizThreshold is the entry count that unlocks quiz mode.
const DefaultQuizThreshold = 10

// GateStatus is the derived unlock/progress state for a collection size.
type GateStatus struct {
	Unlocked        bool
	ProgressPercent float64
	Remaining       int
}

// Gate derives quiz gating from the current entry count. It is pure and
// recomputed on every read so every surface reporting progress agrees as
// long as it reads the same collection.
func Gate(count, threshold int) GateStatus {
	if threshold <= 0 {
		threshold = DefaultQuizThreshold
	}
	percent := float64(count) / float64(threshold) * 100
	if percent > 100 {
		percent = 100
	}
	remaining := threshold - count
	if remaining < 0 {
		remaining = 0
	}
	return GateStatus{
		Unlocked:        count >= threshold,
		ProgressPercent: percent,
		Remaining:       remaining,
	}
}
