package annotation

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Status is the workflow state of an annotation.
type Status string

const (
	StatusQueued        Status = "QUEUED"
	StatusOpenEscalated Status = "OPEN_ESCALATED"
	StatusClosed        Status = "CLOSED"
)

// ErrInvalidStatus reports a status outside the known set.
var ErrInvalidStatus = errors.New("invalid annotation status")

// maxStatusDistance bounds how far a typo may be from a known status.
const maxStatusDistance = 2

var statusDisplay = map[Status]string{
	StatusQueued:        "Queued",
	StatusOpenEscalated: "Open/Escalated",
	StatusClosed:        "Closed",
}

// Statuses lists every status in workflow order.
func Statuses() []Status {
	return []Status{StatusQueued, StatusOpenEscalated, StatusClosed}
}

// StatusValues maps status names to their display text.
func StatusValues() map[string]string {
	out := make(map[string]string, len(statusDisplay))
	for s, d := range statusDisplay {
		out[string(s)] = d
	}
	return out
}

// DisplayText returns the human readable label.
func (s Status) DisplayText() string {
	if d, ok := statusDisplay[s]; ok {
		return d
	}
	return string(s)
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	_, ok := statusDisplay[s]
	return ok
}

func (s *Status) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	parsed := Status(strings.ToUpper(strings.TrimSpace(raw)))
	if !parsed.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	*s = parsed
	return nil
}

// MatchStatus resolves free text to a status. Exact names and display text
// match case-insensitively; otherwise the closest status within a small edit
// distance wins.
func MatchStatus(input string) (Status, bool) {
	in := strings.ToLower(strings.TrimSpace(input))
	if in == "" {
		return "", false
	}
	for _, s := range Statuses() {
		if in == strings.ToLower(string(s)) || in == strings.ToLower(s.DisplayText()) {
			return s, true
		}
	}

	best, bestDist := Status(""), maxStatusDistance+1
	for _, s := range Statuses() {
		for _, candidate := range []string{strings.ToLower(string(s)), strings.ToLower(s.DisplayText())} {
			if d := levenshtein.ComputeDistance(in, candidate); d < bestDist {
				best, bestDist = s, d
			}
		}
	}
	if best == "" {
		return "", false
	}
	return best, true
}
