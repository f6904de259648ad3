// Package store persists validated inventory records. Records are append-only:
// the only mutations are removal and the pricing refresh, and a removed
// record's sequence number is never reassigned.
package store

import (
	"context"

	"github.com/totemove/inventory-cli/internal/model"
)

// RecordFilter narrows ListRecords.
type RecordFilter struct {
	ToteID string
	Status model.RecordStatus
	Limit  int
}

// Store is the persistence collaborator for the synthesis pipeline. CLI tools
// operate purely on persisted records through this interface and never bypass
// validation.
type Store interface {
	// AppendRecord stores a finalized record. (tote_id, sequence) must be
	// unique; a conflict is an error, not an overwrite.
	AppendRecord(ctx context.Context, rec *model.ValidatedRecord) error

	// MaxSequence returns the highest sequence number ever recorded for a
	// tote, 0 if the tote has no history. Removed records still count: their
	// numbers are burned and must never be reissued, even by a later process.
	MaxSequence(ctx context.Context, toteID string) (int, error)

	// UpdateRecord replaces a record's content in place. Identity
	// (tote_id, sequence) never changes; updating a missing record is an
	// error. Exists for the pricing refresh.
	UpdateRecord(ctx context.Context, rec *model.ValidatedRecord) error

	// RemoveRecord deletes a record by identity. Idempotent: removing a
	// record that does not exist is not an error.
	RemoveRecord(ctx context.Context, toteID string, sequence int) error

	GetRecord(ctx context.Context, toteID string, sequence int) (*model.ValidatedRecord, error)
	ListRecords(ctx context.Context, filter RecordFilter) ([]model.ValidatedRecord, error)

	// ListFailed returns every failed record for human triage.
	ListFailed(ctx context.Context) ([]model.ValidatedRecord, error)

	Migrate(ctx context.Context) error
	Close() error
}
