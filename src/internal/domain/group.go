package domain

const (
	MaxGroupMembers = 100
	MaxThreshold    = 100
)

type GroupPhase string

const (
	GroupPhaseOpen      GroupPhase = "OPEN"
	GroupPhaseClosed    GroupPhase = "CLOSED"
	GroupPhaseActive    GroupPhase = "ACTIVE"
	GroupPhaseCompleted GroupPhase = "COMPLETED"
)

// Group is a pooled savings vault. Closed is monotonic and Locked is only
// ever set on a closed group.
type Group struct {
	ID           uint64
	Creator      AccountID
	Name         string
	LockOption   LockOption
	LockDuration uint64
	Threshold    *uint32
	MemberCount  uint32
	Closed       bool
	Locked       bool
	StartBlock   *uint64
	LockExpiry   *uint64
	CreatedAt    uint64
}

// PhaseOf derives the lifecycle phase from the stored flags and now.
func PhaseOf(closed bool, locked bool, lockExpiry *uint64, now uint64) GroupPhase {
	switch {
	case !closed:
		return GroupPhaseOpen
	case !locked:
		return GroupPhaseClosed
	case lockExpiry != nil && now >= *lockExpiry:
		return GroupPhaseCompleted
	default:
		return GroupPhaseActive
	}
}

func (g Group) Phase(now uint64) GroupPhase {
	return PhaseOf(g.Closed, g.Locked, g.LockExpiry, now)
}

// ThresholdReached reports whether the roster has filled the threshold.
func (g Group) ThresholdReached() bool {
	return g.Threshold != nil && g.MemberCount >= *g.Threshold
}

func (g Group) RemainingBlocks(now uint64) uint64 {
	if g.LockExpiry == nil {
		return 0
	}
	return RemainingBlocks(now, *g.LockExpiry)
}

type GroupMember struct {
	GroupID          uint64
	Account          AccountID
	Balance          uint64
	LastDepositBlock uint64
	JoinedBlock      uint64
}
