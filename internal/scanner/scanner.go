// Package scanner watches a scan directory, maintains the active tote
// context, and feeds each new item image through the synthesis pipeline.
package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/totemove/inventory-cli/internal/model"
	"github.com/totemove/inventory-cli/internal/sequence"
	"github.com/totemove/inventory-cli/internal/store"
)

// Processor runs the synthesis pipeline for one item image.
type Processor interface {
	Process(ctx context.Context, toteID, imageURL string) (*model.ValidatedRecord, error)
}

// toteMarkerRe matches a tote context switch: a file dropped into the scan
// directory whose name is exactly the tote id.
var toteMarkerRe = regexp.MustCompile(`^TOTE-\d{3}$`)

var imageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true,
	".gif": true, ".bmp": true, ".tiff": true, ".tif": true,
}

// Scanner owns the watch loop. Items scanned before any tote context is
// set are skipped with a warning; they stay in the scan directory.
type Scanner struct {
	Dir           string
	OrganizedDir  string
	PublicBaseURL string
	Settle        time.Duration
	Store         store.Store
	Synth         Processor

	mu   sync.Mutex
	tote string
}

// SetTote sets the active tote context and prepares its output directory.
func (s *Scanner) SetTote(toteID string) error {
	if toteID == "" {
		return eris.New("scanner: empty tote id")
	}
	dir := filepath.Join(s.OrganizedDir, sequence.SafeName(toteID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrap(err, "scanner: create tote directory")
	}

	s.mu.Lock()
	s.tote = toteID
	s.mu.Unlock()

	zap.L().Info("tote context set", zap.String("tote_id", toteID))
	return nil
}

// Tote returns the active tote context, empty if none is set.
func (s *Scanner) Tote() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tote
}

// Run watches the scan directory until ctx ends.
func (s *Scanner) Run(ctx context.Context) error {
	if err := os.MkdirAll(s.OrganizedDir, 0o755); err != nil {
		return eris.Wrap(err, "scanner: create organized directory")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return eris.Wrap(err, "scanner: create watcher")
	}
	defer watcher.Close()

	if err := watcher.Add(s.Dir); err != nil {
		return eris.Wrap(err, "scanner: watch scan directory")
	}

	zap.L().Info("scanner ready",
		zap.String("scan_dir", s.Dir),
		zap.String("organized_dir", s.OrganizedDir),
	)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			// Let the scanner software finish writing the file.
			select {
			case <-time.After(s.Settle):
			case <-ctx.Done():
				return ctx.Err()
			}
			s.Handle(ctx, event.Name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			zap.L().Error("watch error", zap.Error(err))
		}
	}
}

// Handle dispatches one new file: a tote marker switches context, an item
// image runs the pipeline, anything else is ignored.
func (s *Scanner) Handle(ctx context.Context, path string) {
	name := filepath.Base(path)
	ext := strings.ToLower(filepath.Ext(name))
	stem := strings.TrimSuffix(name, filepath.Ext(name))

	if toteMarkerRe.MatchString(stem) && (imageExts[ext] || ext == ".txt") {
		if err := s.SetTote(stem); err != nil {
			zap.L().Error("tote switch failed", zap.String("file", name), zap.Error(err))
			return
		}
		// The marker carries no item; drop it.
		if err := os.Remove(path); err != nil {
			zap.L().Warn("remove tote marker failed", zap.String("file", name), zap.Error(err))
		}
		return
	}

	if !imageExts[ext] {
		return
	}

	tote := s.Tote()
	if tote == "" {
		zap.L().Warn("item scanned with no tote context, skipping", zap.String("file", name))
		return
	}

	if err := s.processItem(ctx, tote, path); err != nil {
		zap.L().Error("item processing failed", zap.String("file", name), zap.Error(err))
	}
}

func (s *Scanner) processItem(ctx context.Context, tote, path string) error {
	name := filepath.Base(path)
	rec, err := s.Synth.Process(ctx, tote, s.imageURL(name))
	if err != nil {
		return err
	}

	if rec.Status == model.StatusSuccess {
		moved, err := s.organize(path, tote, rec.ItemName)
		if err != nil {
			zap.L().Warn("organize failed, image left in scan directory",
				zap.String("file", name), zap.Error(err))
			rec.ImageFile = name
		} else {
			rec.ImageFile = moved
		}
	} else {
		rec.ImageFile = name
	}

	if err := s.Store.AppendRecord(ctx, rec); err != nil {
		return eris.Wrap(err, "scanner: append record")
	}
	return s.export(ctx)
}

// organize moves the image into the tote directory under the item's name,
// keeping a counter suffix when the same item appears more than once.
func (s *Scanner) organize(path, tote, itemName string) (string, error) {
	toteDir := filepath.Join(s.OrganizedDir, sequence.SafeName(tote))
	if err := os.MkdirAll(toteDir, 0o755); err != nil {
		return "", eris.Wrap(err, "scanner: create tote directory")
	}

	base := sequence.SafeName(itemName) + "_" + sequence.SafeName(tote)
	dest := sequence.UniquePath(toteDir, base, strings.ToLower(filepath.Ext(path)))
	if err := os.Rename(path, dest); err != nil {
		return "", eris.Wrap(err, "scanner: move image")
	}
	return filepath.Base(dest), nil
}

// export rewrites the JSON and CSV projections after every append so the
// files on disk always reflect the full record set.
func (s *Scanner) export(ctx context.Context) error {
	if err := store.ExportJSON(ctx, s.Store, filepath.Join(s.OrganizedDir, "inventory.json")); err != nil {
		return err
	}
	return store.ExportCSV(ctx, s.Store, filepath.Join(s.OrganizedDir, "inventory.csv"))
}

func (s *Scanner) imageURL(name string) string {
	return fmt.Sprintf("%s/%s", strings.TrimRight(s.PublicBaseURL, "/"), name)
}
