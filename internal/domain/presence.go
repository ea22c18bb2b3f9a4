package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Cohort string

const (
	CohortViewers Cohort = "viewers"
	CohortWorkers Cohort = "workers"
)

var Cohorts = []Cohort{CohortViewers, CohortWorkers}

func ParseCohort(raw string) (Cohort, error) {
	c := Cohort(raw)
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCohort, raw)
	}
	return c, nil
}

func (c Cohort) Valid() bool {
	return c == CohortViewers || c == CohortWorkers
}

// Channel is the transport channel name the cohort is announced on.
func (c Cohort) Channel() string {
	switch c {
	case CohortViewers:
		return "online-users"
	case CohortWorkers:
		return "working-users"
	default:
		return string(c)
	}
}

type PresencePayload struct {
	JoinedAt time.Time `json:"joined_at"`
}

type PresenceRecord struct {
	SessionKey uuid.UUID
	JoinedAt   time.Time
}

// PresenceSnapshot is the full membership of a channel at one point in time.
// A key may appear more than once when a client reconnects.
type PresenceSnapshot struct {
	Channel string
	Records []PresenceRecord
}

func (s PresenceSnapshot) Keys() map[uuid.UUID]struct{} {
	keys := make(map[uuid.UUID]struct{}, len(s.Records))
	for _, r := range s.Records {
		keys[r.SessionKey] = struct{}{}
	}
	return keys
}
