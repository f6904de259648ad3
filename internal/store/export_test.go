package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/totemove/inventory-cli/internal/model"
)

func TestExportJSON_RoundTrips(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.AppendRecord(ctx, record("TOTE-001", 1, model.StatusSuccess)))
	require.NoError(t, st.AppendRecord(ctx, record("TOTE-001", 2, model.StatusFailed)))

	path := filepath.Join(t.TempDir(), "inventory.json")
	require.NoError(t, ExportJSON(ctx, st, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var records []model.ValidatedRecord
	require.NoError(t, json.Unmarshal(data, &records))
	require.Len(t, records, 2)
	assert.Equal(t, "TOTE-001", records[0].ToteID)
}

func TestExportJSON_EmptySetIsEmptyArray(t *testing.T) {
	st := newTestStore(t)
	path := filepath.Join(t.TempDir(), "inventory.json")
	require.NoError(t, ExportJSON(context.Background(), st, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(string(data)))
}

func TestExportCSV_Projection(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	rec := record("TOTE-001", 1, model.StatusSuccess)
	rec.ManualReview = true
	require.NoError(t, st.AppendRecord(ctx, rec))

	path := filepath.Join(t.TempDir(), "inventory.csv")
	require.NoError(t, ExportCSV(ctx, st, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "tote_id,item_sequence,item_name,category,estimated_value_usd,confidence,manual_review,status", lines[0])
	assert.Contains(t, lines[1], "Chrono Trigger")
	assert.Contains(t, lines[1], "YES")
	assert.Contains(t, lines[1], "success")
}
