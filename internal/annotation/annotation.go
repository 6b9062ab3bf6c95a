// Package annotation defines annotation records and their history.
package annotation

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// MinIDLength is the shortest index or annotation id accepted.
const MinIDLength = 3

// Defaults applied to a freshly created annotation.
const (
	DefaultAssignee = ""
	DefaultContent  = ""
	DefaultStatus   = StatusQueued
)

// ErrInvalidKey reports an index or id that fails validation.
var ErrInvalidKey = errors.New("invalid annotation key")

// Annotation is one annotation row, keyed by (Index, ID).
type Annotation struct {
	Index       string    `json:"index"`
	ID          string    `json:"id"`
	AssignTo    string    `json:"assignTo"`
	LastUpdated time.Time `json:"lastUpdated"`
	UpdatedBy   string    `json:"updatedBy"`
	Status      Status    `json:"status"`
	Content     string    `json:"content"`
}

// Operation is the kind of change a history entry records.
type Operation string

const (
	OperationCreate Operation = "CREATE"
	OperationUpdate Operation = "UPDATE"
	OperationDelete Operation = "DELETE"
)

// HistoryEntry is a snapshot of an annotation taken when it changed.
type HistoryEntry struct {
	ID           string    `json:"id"`
	Index        string    `json:"index"`
	AnnotationID string    `json:"annotationId"`
	Operation    Operation `json:"operation"`
	LastUpdated  time.Time `json:"lastUpdated"`
	AssignTo     string    `json:"assignTo"`
	UpdatedBy    string    `json:"updatedBy"`
	Status       Status    `json:"status"`
	Content      string    `json:"content"`
}

// Snapshot builds the history entry for a change to a.
func Snapshot(a Annotation, op Operation) HistoryEntry {
	return HistoryEntry{
		Index:        a.Index,
		AnnotationID: a.ID,
		Operation:    op,
		LastUpdated:  a.LastUpdated,
		AssignTo:     a.AssignTo,
		UpdatedBy:    a.UpdatedBy,
		Status:       a.Status,
		Content:      a.Content,
	}
}

// ValidateIndex checks that index is long enough to name a data source.
func ValidateIndex(index string) error {
	if n := utf8.RuneCountInString(strings.TrimSpace(index)); n < MinIDLength {
		return fmt.Errorf("%w: index must be at least %d characters", ErrInvalidKey, MinIDLength)
	}
	return nil
}

// ValidateKey checks that index and id are long enough to address a row.
func ValidateKey(index, id string) error {
	if err := ValidateIndex(index); err != nil {
		return err
	}
	if n := utf8.RuneCountInString(strings.TrimSpace(id)); n < MinIDLength {
		return fmt.Errorf("%w: id must be at least %d characters", ErrInvalidKey, MinIDLength)
	}
	return nil
}

// New returns an annotation carrying the create defaults.
func New(index, id, updatedBy string, now time.Time) Annotation {
	return Annotation{
		Index:       index,
		ID:          id,
		AssignTo:    DefaultAssignee,
		LastUpdated: now,
		UpdatedBy:   updatedBy,
		Status:      DefaultStatus,
		Content:     DefaultContent,
	}
}
