// Package journal provides operation history logging for dazzlelink
// batch commands.
package journal

import "time"

// OperationType represents the type of operation.
type OperationType string

const (
	// OpExport represents an export (serialize) operation.
	OpExport OperationType = "export"
	// OpImport represents an import (recreate) operation.
	OpImport OperationType = "import"
	// OpCheck represents a link check operation.
	OpCheck OperationType = "check"
	// OpRebase represents a rebase operation.
	OpRebase OperationType = "rebase"
)

// Outcome classifies how one link fared within an operation.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeError   Outcome = "error"
	OutcomeSkipped Outcome = "skipped"
)

// Entry represents a single journal entry.
type Entry struct {
	ID        string        `json:"id"`
	Timestamp time.Time     `json:"timestamp"`
	Operation OperationType `json:"operation"`
	Directory string        `json:"directory,omitempty"`
	Links     []LinkRecord  `json:"links"`
	Summary   Summary       `json:"summary"`
}

// LinkRecord represents one link touched by an operation.
type LinkRecord struct {
	Path    string  `json:"path"`
	Target  string  `json:"target,omitempty"`
	Outcome Outcome `json:"outcome"`
	Detail  string  `json:"detail,omitempty"`
}

// Summary contains operation totals.
type Summary struct {
	Succeeded int64 `json:"succeeded"`
	Failed    int64 `json:"failed"`
	Skipped   int64 `json:"skipped"`
}
