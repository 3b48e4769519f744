package models

// Status is the closed lifecycle state of a donation.
//
// The transition graph is intentionally small:
//
//	available -> claimed -> picked
//
// picked is terminal. available can also terminate via hard deletion.
// Expiry is NOT a status: an expired donation keeps its stored status and is
// filtered out at read time.
type Status string

const (
	StatusAvailable Status = "available"
	StatusClaimed   Status = "claimed"
	StatusPicked    Status = "picked"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusAvailable, StatusClaimed, StatusPicked:
		return true
	}
	return false
}

// CanTransitionTo reports whether the state machine permits s -> target.
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusAvailable:
		return target == StatusClaimed
	case StatusClaimed:
		return target == StatusPicked
	case StatusPicked:
		return false
	}
	return false
}

func (s Status) String() string { return string(s) }
