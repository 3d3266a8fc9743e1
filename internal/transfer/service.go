package transfer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"drivecp/internal/drive"
)

// Service coordinates list, upload, download, and remove operations by
// composing the resolver, the locator, and the store. Every operation is a
// single resolve-then-act sequence: it re-queries remote state, acts once,
// and keeps nothing — there is no partial or resumable state to clean up.
type Service struct {
	store    ObjectStore
	resolver *Resolver
	locator  *Locator
	logger   *slog.Logger
}

// NewService creates a Service backed by the given store.
func NewService(store ObjectStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		store:    store,
		resolver: NewResolver(store, logger),
		locator:  NewLocator(store, logger),
		logger:   logger,
	}
}

// Entry is one listing result. Detail is nil unless metadata was requested —
// name-only listings deliberately carry nothing else.
type Entry struct {
	Name   string
	Detail *drive.Object
}

// ListOptions configures List. The zero value lists the drive root by name.
type ListOptions struct {
	// FolderPath is the slash-delimited folder to list; empty means root.
	FolderPath string
	// IncludeMetadata populates Entry.Detail with the full descriptor.
	IncludeMetadata bool
	// SharedWithMe lists the shared-with-me collection instead of a folder.
	// FolderPath must be empty when set.
	SharedWithMe bool
}

// List returns the children of the resolved folder, most recently created
// first. Each call re-queries remote state.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]Entry, error) {
	var objects []drive.Object

	switch {
	case opts.SharedWithMe:
		if opts.FolderPath != "" {
			return nil, fmt.Errorf("cannot combine a folder path with the shared-with-me listing")
		}

		var err error

		objects, err = s.store.SharedWithMe(ctx)
		if err != nil {
			return nil, &TransportError{Op: "listing shared-with-me", Err: err}
		}
	default:
		folder, _, err := s.resolveFolder(ctx, opts.FolderPath)
		if err != nil {
			return nil, err
		}

		objects, err = s.store.Children(ctx, folder.ID, drive.ChildQuery{})
		if err != nil {
			return nil, &TransportError{Op: "listing " + displayPath(opts.FolderPath), Err: err}
		}
	}

	entries := make([]Entry, 0, len(objects))
	for i := range objects {
		e := Entry{Name: objects[i].Name}
		if opts.IncludeMetadata {
			e.Detail = &objects[i]
		}

		entries = append(entries, e)
	}

	return entries, nil
}

// UploadOptions configures Upload.
type UploadOptions struct {
	// LocalPath is the file to read.
	LocalPath string
	// RemoteName defaults to the base name of LocalPath.
	RemoteName string
	// FolderPath is the destination folder; empty means root.
	FolderPath string
}

// Upload creates a new remote object under the resolved folder from local
// file content. No existence check is made first: Drive permits duplicate
// names, and whether a duplicate is wanted is the caller's call.
func (s *Service) Upload(ctx context.Context, opts UploadOptions) (*drive.Object, error) {
	name := opts.RemoteName
	if name == "" {
		name = filepath.Base(opts.LocalPath)
	}

	folder, folderPath, err := s.resolveFolder(ctx, opts.FolderPath)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(opts.LocalPath)
	if err != nil {
		return nil, &IOError{Path: opts.LocalPath, Err: err}
	}
	defer f.Close()

	created, err := s.store.Create(ctx, folder.ID, name, f)
	if err != nil {
		return nil, &TransportError{Op: "uploading " + name, Err: err}
	}

	s.logger.Info("upload complete",
		slog.String("name", name),
		slog.String("folder_path", folderPath),
		slog.String("object_id", created.ID),
	)

	return created, nil
}

// DownloadOptions configures Download.
type DownloadOptions struct {
	// FileName is the remote name to locate.
	FileName string
	// LocalName defaults to FileName. Native document types get the export
	// suffix appended on top of whatever name is in effect.
	LocalName string
	// FolderPath is the source folder; empty means root.
	FolderPath string
}

// Download locates the file, streams its content to the local filesystem,
// and returns the path written. Native Google document types are exported
// to their Office format; everything else arrives byte-identical. A partial
// file is removed when the transfer fails.
func (s *Service) Download(ctx context.Context, opts DownloadOptions) (string, error) {
	folder, folderPath, err := s.resolveFolder(ctx, opts.FolderPath)
	if err != nil {
		return "", err
	}

	obj, err := s.locator.Find(ctx, folder, folderPath, opts.FileName)
	if err != nil {
		return "", err
	}

	localName := opts.LocalName
	if localName == "" {
		localName = opts.FileName
	}

	localName = EffectiveLocalName(obj.MimeType, localName)

	f, err := os.Create(localName)
	if err != nil {
		return "", &IOError{Path: localName, Err: err}
	}

	format, native := ExportTarget(obj.MimeType)

	var streamErr error
	if native {
		_, streamErr = s.store.Export(ctx, obj.ID, format.MimeType, f)
	} else {
		_, streamErr = s.store.Content(ctx, obj.ID, f)
	}

	closeErr := f.Close()

	if streamErr != nil {
		os.Remove(localName)
		return "", &TransportError{Op: "downloading " + opts.FileName, Err: streamErr}
	}

	if closeErr != nil {
		os.Remove(localName)
		return "", &IOError{Path: localName, Err: closeErr}
	}

	s.logger.Info("download complete",
		slog.String("name", opts.FileName),
		slog.String("folder_path", folderPath),
		slog.String("local_path", localName),
		slog.Bool("exported", native),
	)

	return localName, nil
}

// RemoveOptions configures Remove.
type RemoveOptions struct {
	// FileName is the remote name to locate.
	FileName string
	// FolderPath is the containing folder; empty means root.
	FolderPath string
	// Permanent bypasses the trash.
	Permanent bool
}

// Remove locates the file and trashes it (or deletes it permanently).
// Removing is not idempotent: once the file is gone, a repeat call surfaces
// NotFound rather than succeeding silently.
func (s *Service) Remove(ctx context.Context, opts RemoveOptions) error {
	folder, folderPath, err := s.resolveFolder(ctx, opts.FolderPath)
	if err != nil {
		return err
	}

	obj, err := s.locator.Find(ctx, folder, folderPath, opts.FileName)
	if err != nil {
		return err
	}

	if opts.Permanent {
		err = s.store.Delete(ctx, obj.ID)
	} else {
		err = s.store.Trash(ctx, obj.ID)
	}

	if err != nil {
		return &TransportError{Op: "removing " + opts.FileName, Err: err}
	}

	s.logger.Info("remove complete",
		slog.String("name", opts.FileName),
		slog.String("folder_path", folderPath),
		slog.String("object_id", obj.ID),
		slog.Bool("permanent", opts.Permanent),
	)

	return nil
}

// Stat resolves and locates a file, returning its full descriptor.
func (s *Service) Stat(ctx context.Context, fileName, folderPath string) (*drive.Object, error) {
	folder, display, err := s.resolveFolder(ctx, folderPath)
	if err != nil {
		return nil, err
	}

	return s.locator.Find(ctx, folder, display, fileName)
}

// EnsureFolderPath resolves a folder path, creating any missing segments,
// and returns the final folder. Existing unambiguous segments are descended;
// an ambiguous segment fails the same way Resolve does, since there is no
// right parent to create under.
func (s *Service) EnsureFolderPath(ctx context.Context, folderPath string) (*drive.Object, error) {
	segments, err := SplitFolderPath(folderPath)
	if err != nil {
		return nil, err
	}

	current := drive.Root()

	for i, seg := range segments {
		parentPath := joinParentPath(segments[:i])

		matches, err := s.store.Children(ctx, current.ID, drive.ChildQuery{
			Name: seg,
			Kind: drive.KindFolder,
		})
		if err != nil {
			return nil, &TransportError{Op: "resolving folder " + parentPath, Err: err}
		}

		switch len(matches) {
		case 0:
			created, createErr := s.store.CreateFolder(ctx, current.ID, seg)
			if createErr != nil {
				return nil, &TransportError{Op: "creating folder " + seg, Err: createErr}
			}

			s.logger.Info("folder created",
				slog.String("name", seg),
				slog.String("parent_path", parentPath),
				slog.String("folder_id", created.ID),
			)

			current = created
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

	return current, nil
}

// resolveFolder parses and resolves a folder path, returning the folder and
// its display form.
func (s *Service) resolveFolder(ctx context.Context, folderPath string) (*drive.Object, string, error) {
	segments, err := SplitFolderPath(folderPath)
	if err != nil {
		return nil, "", err
	}

	folder, err := s.resolver.Resolve(ctx, segments)
	if err != nil {
		return nil, "", err
	}

	return folder, joinParentPath(segments), nil
}

// displayPath renders a caller-supplied folder path for messages.
func displayPath(folderPath string) string {
	if folderPath == "" {
		return "/"
	}

	return folderPath
}
