package gate

import "timecapsule-be/internal/entity"

// Status is the profile readiness of a user for persona chat.
type Status int

const (
	// StatusNoProfile means no user record exists for the caller.
	StatusNoProfile Status = iota

	// StatusIncomplete means a record exists but the persona prompt cannot
	// be built from it yet (no name or no questionnaire answers).
	StatusIncomplete

	// StatusComplete means the profile is usable for prompt composition.
	StatusComplete
)

func (s Status) String() string {
	switch s {
	case StatusNoProfile:
		return "NO_PROFILE"
	case StatusIncomplete:
		return "INCOMPLETE"
	default:
		return "COMPLETE"
	}
}

// Classify inspects a user record and decides whether persona chat may
// proceed. It is a pure function of the record passed in.
func Classify(user *entity.User) Status {
	if user == nil {
		return StatusNoProfile
	}
	if user.Name == "" {
		return StatusIncomplete
	}
	if !hasAnyAnswer(user.ProfileData) {
		return StatusIncomplete
	}
	return StatusComplete
}

func hasAnyAnswer(profile map[string]string) bool {
	for _, v := range profile {
		if v != "" {
			return true
		}
	}
	return false
}
