package transfer

import (
	"context"
	"log/slog"

	"drivecp/internal/drive"
)

// Resolver walks a folder path from the drive root, resolving each segment
// to a folder ID via store queries. It never mutates remote state.
type Resolver struct {
	store  ObjectStore
	logger *slog.Logger
}

// NewResolver creates a Resolver backed by the given store.
func NewResolver(store ObjectStore, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}

	return &Resolver{store: store, logger: logger}
}

// Resolve walks segments in order, starting from the drive root, and returns
// the final folder. Empty segments returns the root immediately without
// issuing any query.
//
// Each segment must match exactly one folder under the current parent:
// zero matches fail with *NotFoundError, multiple matches fail with
// *AmbiguousPathError naming the candidates — duplicate folder names are a
// real Drive property and there is no deterministic tie-break for them.
func (r *Resolver) Resolve(ctx context.Context, segments []string) (*drive.Object, error) {
	current := drive.Root()

	for i, seg := range segments {
		parentPath := joinParentPath(segments[:i])

		matches, err := r.store.Children(ctx, current.ID, drive.ChildQuery{
			Name: seg,
			Kind: drive.KindFolder,
		})
		if err != nil {
			return nil, &TransportError{Op: "resolving folder " + parentPath, Err: err}
		}

		switch len(matches) {
		case 0:
			return nil, &NotFoundError{Name: seg, ParentPath: parentPath}
		case 1:
			current = &matches[0]
		default:
			ids := make([]string, 0, len(matches))
			for j := range matches {
				ids = append(ids, matches[j].ID)
			}

			return nil, &AmbiguousPathError{Segment: seg, ParentPath: parentPath, CandidateIDs: ids}
		}
	}

	r.logger.Debug("folder path resolved",
		slog.String("path", joinParentPath(segments)),
		slog.String("folder_id", current.ID),
	)

	return current, nil
}
