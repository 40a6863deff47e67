package domain

// LockOption selects a lock duration from a fixed table. Valid codes are 1..13.
type LockOption uint8

const (
	LockOneHour LockOption = iota + 1
	LockThreeHours
	LockSixHours
	LockEightHours
	LockOneDay
	LockFiveDays
	LockOneWeek
	LockTwoWeeks
	LockOneMonth
	LockThreeMonths
	LockSixMonths
	LockNineMonths
	LockOneYear
)

var lockDurations = map[LockOption]uint64{
	LockOneHour:     6,
	LockThreeHours:  18,
	LockSixHours:    36,
	LockEightHours:  48,
	LockOneDay:      144,
	LockFiveDays:    720,
	LockOneWeek:     1008,
	LockTwoWeeks:    2016,
	LockOneMonth:    4320,
	LockThreeMonths: 12960,
	LockSixMonths:   25920,
	LockNineMonths:  38880,
	LockOneYear:     52560,
}

var lockLabels = map[LockOption]string{
	LockOneHour:     "1 hour",
	LockThreeHours:  "3 hours",
	LockSixHours:    "6 hours",
	LockEightHours:  "8 hours",
	LockOneDay:      "1 day",
	LockFiveDays:    "5 days",
	LockOneWeek:     "1 week",
	LockTwoWeeks:    "2 weeks",
	LockOneMonth:    "1 month",
	LockThreeMonths: "3 months",
	LockSixMonths:   "6 months",
	LockNineMonths:  "9 months",
	LockOneYear:     "1 year",
}

// DurationOf returns the block count for option, or 0 for an unknown code.
// Callers must reject a zero result.
func DurationOf(option LockOption) uint64 {
	return lockDurations[option]
}

func (o LockOption) Valid() bool {
	return DurationOf(o) > 0
}

func (o LockOption) Label() string {
	if label, ok := lockLabels[o]; ok {
		return label
	}
	return "unknown"
}

type LockOptionInfo struct {
	Option LockOption
	Blocks uint64
	Label  string
}

// LockOptions lists the table in code order.
func LockOptions() []LockOptionInfo {
	out := make([]LockOptionInfo, 0, len(lockDurations))
	for o := LockOneHour; o <= LockOneYear; o++ {
		out = append(out, LockOptionInfo{Option: o, Blocks: lockDurations[o], Label: lockLabels[o]})
	}
	return out
}

// LockExpiry is start + duration, saturating at MaxAmount so the value
// still fits a BIGINT column.
func LockExpiry(start uint64, duration uint64) uint64 {
	if start >= MaxAmount || duration > MaxAmount-start {
		return MaxAmount
	}
	return start + duration
}

// RemainingBlocks is the number of blocks until expiry, 0 once reached.
func RemainingBlocks(now uint64, expiry uint64) uint64 {
	if now >= expiry {
		return 0
	}
	return expiry - now
}
