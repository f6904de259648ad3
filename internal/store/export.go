package store

import (
	"context"
	"encoding/json"
	"os"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"

	"github.com/totemove/inventory-cli/internal/model"
)

// ExportJSON writes the full record set as a JSON array. This file is the
// authoritative export; the CSV is a projection of it.
func ExportJSON(ctx context.Context, st Store, path string) error {
	records, err := st.ListRecords(ctx, RecordFilter{})
	if err != nil {
		return err
	}
	if records == nil {
		records = []model.ValidatedRecord{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return eris.Wrap(err, "export: marshal records")
	}
	return eris.Wrapf(os.WriteFile(path, data, 0o644), "export: write %s", path)
}

// ExportCSV writes the spreadsheet projection of the record set. No
// information lives only here: the CSV is always regenerable from the
// persisted records.
func ExportCSV(ctx context.Context, st Store, path string) error {
	records, err := st.ListRecords(ctx, RecordFilter{})
	if err != nil {
		return err
	}

	rows := make([]model.CSVRow, 0, len(records))
	for i := range records {
		rows = append(rows, records[i].ToCSVRow())
	}

	data, err := csvutil.Marshal(rows)
	if err != nil {
		return eris.Wrap(err, "export: marshal csv")
	}
	return eris.Wrapf(os.WriteFile(path, data, 0o644), "export: write %s", path)
}
