package transfer

import (
	"context"
	"log/slog"
	"strings"

	"drivecp/internal/drive"
)

// Locator finds a file by name within an already-resolved folder.
type Locator struct {
	store  ObjectStore
	logger *slog.Logger
}

// NewLocator creates a Locator backed by the given store.
func NewLocator(store ObjectStore, logger *slog.Logger) *Locator {
	if logger == nil {
		logger = slog.Default()
	}

	return &Locator{store: store, logger: logger}
}

// Find returns the file named fileName within folder. Zero matches fail
// with *NotFoundError.
//
// Duplicate file names are handled differently from duplicate folders:
// the first object in listing order is selected and the ambiguity is
// logged, not failed. Listings are ordered most recently created first,
// so the newest duplicate wins — a convenience policy, deterministic
// within a single call but not across remote changes.
// folderPath is the display path of folder, used in diagnostics only.
func (l *Locator) Find(ctx context.Context, folder *drive.Object, folderPath, fileName string) (*drive.Object, error) {
	matches, err := l.store.Children(ctx, folder.ID, drive.ChildQuery{
		Name: fileName,
		Kind: drive.KindFile,
	})
	if err != nil {
		return nil, &TransportError{Op: "locating file " + fileName, Err: err}
	}

	if len(matches) == 0 {
		return nil, &NotFoundError{Name: fileName, ParentPath: folderPath}
	}

	if len(matches) > 1 {
		ids := make([]string, 0, len(matches))
		for i := range matches {
			ids = append(ids, matches[i].ID)
		}

		l.logger.Warn("multiple files match name, selecting most recent",
			slog.String("name", fileName),
			slog.String("folder_id", folder.ID),
			slog.String("selected_id", matches[0].ID),
			slog.String("candidate_ids", strings.Join(ids, ",")),
		)
	}

	return &matches[0], nil
}
