package annotation

import (
	"encoding/json"
	"time"
)

// Timestamps travel as epoch milliseconds.

func (a Annotation) MarshalJSON() ([]byte, error) {
	type wire Annotation
	return json.Marshal(struct {
		wire
		LastUpdated int64 `json:"lastUpdated"`
	}{wire(a), a.LastUpdated.UnixMilli()})
}

func (a *Annotation) UnmarshalJSON(b []byte) error {
	type wire Annotation
	aux := struct {
		*wire
		LastUpdated *int64 `json:"lastUpdated"`
	}{wire: (*wire)(a)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	a.LastUpdated = fromMillis(aux.LastUpdated)
	return nil
}

func (h HistoryEntry) MarshalJSON() ([]byte, error) {
	type wire HistoryEntry
	return json.Marshal(struct {
		wire
		LastUpdated int64 `json:"lastUpdated"`
	}{wire(h), h.LastUpdated.UnixMilli()})
}

func (h *HistoryEntry) UnmarshalJSON(b []byte) error {
	type wire HistoryEntry
	aux := struct {
		*wire
		LastUpdated *int64 `json:"lastUpdated"`
	}{wire: (*wire)(h)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	h.LastUpdated = fromMillis(aux.LastUpdated)
	return nil
}

func fromMillis(ms *int64) time.Time {
	if ms == nil {
		return time.Time{}
	}
	return time.UnixMilli(*ms).UTC()
}
