package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/totemove/inventory-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS records (
	id            TEXT PRIMARY KEY,
	tote_id       TEXT NOT NULL,
	sequence      INTEGER NOT NULL,
	item_name     TEXT NOT NULL DEFAULT '',
	status        TEXT NOT NULL,
	manual_review INTEGER NOT NULL DEFAULT 0,
	payload       TEXT NOT NULL,
	created_at    DATETIME NOT NULL DEFAULT (datetime('now')),
	UNIQUE (tote_id, sequence)
);

CREATE INDEX IF NOT EXISTS idx_records_tote ON records(tote_id);
CREATE INDEX IF NOT EXISTS idx_records_status ON records(status);

CREATE TABLE IF NOT EXISTS tote_sequences (
	tote_id      TEXT PRIMARY KEY,
	max_sequence INTEGER NOT NULL DEFAULT 0
);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) AppendRecord(ctx context.Context, rec *model.ValidatedRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal record")
	}

	review := 0
	if rec.ManualReview {
		review = 1
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin append")
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO records (id, tote_id, sequence, item_name, status, manual_review, payload, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), rec.ToteID, rec.Sequence, rec.ItemName,
		string(rec.Status), review, string(payload), time.Now().UTC(),
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: append record %s #%d", rec.ToteID, rec.Sequence)
	}

	// The high-water mark outlives the row: a removed record's number must
	// stay burned across process restarts.
	_, err = tx.ExecContext(ctx,
		`INSERT INTO tote_sequences (tote_id, max_sequence) VALUES (?, ?)
		 ON CONFLICT(tote_id) DO UPDATE SET max_sequence = MAX(max_sequence, excluded.max_sequence)`,
		rec.ToteID, rec.Sequence,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: advance high-water mark for %s", rec.ToteID)
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit append")
}

// MaxSequence reads the durable per-tote high-water mark. Surviving rows are
// counted too, so databases created before the tote_sequences table existed
// still resume correctly.
func (s *SQLiteStore) MaxSequence(ctx context.Context, toteID string) (int, error) {
	var max int
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(seq), 0) FROM (
			SELECT MAX(sequence) AS seq FROM records WHERE tote_id = ?
			UNION ALL
			SELECT max_sequence AS seq FROM tote_sequences WHERE tote_id = ?
		)`,
		toteID, toteID,
	).Scan(&max)
	if err != nil {
		return 0, eris.Wrapf(err, "sqlite: max sequence for %s", toteID)
	}
	return max, nil
}

func (s *SQLiteStore) UpdateRecord(ctx context.Context, rec *model.ValidatedRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal record")
	}

	review := 0
	if rec.ManualReview {
		review = 1
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE records SET item_name = ?, status = ?, manual_review = ?, payload = ?
		 WHERE tote_id = ? AND sequence = ?`,
		rec.ItemName, string(rec.Status), review, string(payload),
		rec.ToteID, rec.Sequence,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update record %s #%d", rec.ToteID, rec.Sequence)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: update rows affected")
	}
	if n == 0 {
		return eris.Errorf("sqlite: no record at %s #%d", rec.ToteID, rec.Sequence)
	}
	return nil
}

func (s *SQLiteStore) RemoveRecord(ctx context.Context, toteID string, sequence int) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM records WHERE tote_id = ? AND sequence = ?`,
		toteID, sequence,
	)
	return eris.Wrapf(err, "sqlite: remove record %s #%d", toteID, sequence)
}

func (s *SQLiteStore) GetRecord(ctx context.Context, toteID string, sequence int) (*model.ValidatedRecord, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM records WHERE tote_id = ? AND sequence = ?`,
		toteID, sequence,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get record %s #%d", toteID, sequence)
	}
	return unmarshalRecord(payload)
}

func (s *SQLiteStore) ListRecords(ctx context.Context, filter RecordFilter) ([]model.ValidatedRecord, error) {
	query := `SELECT payload FROM records WHERE 1=1`
	var args []any

	if filter.ToteID != "" {
		query += ` AND tote_id = ?`
		args = append(args, filter.ToteID)
	}
	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	query += ` ORDER BY tote_id, sequence`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list records")
	}
	defer rows.Close()

	var records []model.ValidatedRecord
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan record")
		}
		rec, err := unmarshalRecord(payload)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, eris.Wrap(rows.Err(), "sqlite: list records iterate")
}

func (s *SQLiteStore) ListFailed(ctx context.Context) ([]model.ValidatedRecord, error) {
	return s.ListRecords(ctx, RecordFilter{Status: model.StatusFailed})
}

func unmarshalRecord(payload string) (*model.ValidatedRecord, error) {
	var rec model.ValidatedRecord
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal record")
	}
	return &rec, nil
}
