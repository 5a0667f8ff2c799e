package domain

import (
	"fmt"
	"strings"
)

// ApplicationStatus is the closed set of tracking states. Any state may follow any other.
type ApplicationStatus string

const (
	StatusInterested   ApplicationStatus = "interested"
	StatusApplied      ApplicationStatus = "applied"
	StatusInterviewing ApplicationStatus = "interviewing"
	StatusOffer        ApplicationStatus = "offer"
	StatusRejected     ApplicationStatus = "rejected"
	StatusAccepted     ApplicationStatus = "accepted"
)

var applicationStatuses = []ApplicationStatus{
	StatusInterested,
	StatusApplied,
	StatusInterviewing,
	StatusOffer,
	StatusRejected,
	StatusAccepted,
}

// ApplicationStatuses returns every status in display order.
func ApplicationStatuses() []ApplicationStatus {
	out := make([]ApplicationStatus, len(applicationStatuses))
	copy(out, applicationStatuses)
	return out
}

func (s ApplicationStatus) Valid() bool {
	for _, known := range applicationStatuses {
		if s == known {
			return true
		}
	}
	return false
}

func (s ApplicationStatus) String() string {
	return string(s)
}

// ParseApplicationStatus maps a wire string to its status. Matching is exact;
// unknown tags are an error.
func ParseApplicationStatus(raw string) (ApplicationStatus, error) {
	s := ApplicationStatus(raw)
	if !s.Valid() {
		return "", fmt.Errorf("invalid status %q: must be one of %s", raw, statusList())
	}
	return s, nil
}

func (s ApplicationStatus) MarshalText() ([]byte, error) {
	return []byte(s), nil
}

// UnmarshalText rejects unknown tags at deserialization time.
func (s *ApplicationStatus) UnmarshalText(text []byte) error {
	parsed, err := ParseApplicationStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func statusList() string {
	names := make([]string, len(applicationStatuses))
	for i, s := range applicationStatuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
