package hooks

import (
	"crypto/sha1"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// ExecutionRecord is one JSONL audit line: a single hook's decision plus
// enough context to reconstruct why it fired.
type ExecutionRecord struct {
	ID             string    `json:"id"`
	Timestamp      time.Time `json:"timestamp"`
	Event          Event     `json:"event"`
	Scope          Scope     `json:"scope"`
	HookID         string    `json:"hookId"`
	Decision       Decision  `json:"decision"`
	DurationMs     int64     `json:"durationMs"`
	Stdout         []string  `json:"stdout,omitempty"`
	Stderr         []string  `json:"stderr,omitempty"`
	Error          string    `json:"error,omitempty"`
	PrecedenceRank int       `json:"precedenceRank"`
	PayloadHash    string    `json:"payloadHash"`
	TriggerID      string    `json:"triggerId"`
}

// NewExecutionRecord stamps a fresh record with a generated id and the
// SHA-1 hash of the payload bytes that triggered this hook.
func NewExecutionRecord(event Event, scope Scope, hookID string, decision Decision, duration time.Duration, payload []byte, triggerID string) ExecutionRecord {
	sum := sha1.Sum(payload)
	return ExecutionRecord{
		ID:             uuid.NewString(),
		Timestamp:      time.Now().UTC(),
		Event:          event,
		Scope:          scope,
		HookID:         hookID,
		Decision:       decision,
		DurationMs:     duration.Milliseconds(),
		PrecedenceRank: scope.PrecedenceRank(),
		PayloadHash:    hex.EncodeToString(sum[:]),
		TriggerID:      triggerID,
	}
}
