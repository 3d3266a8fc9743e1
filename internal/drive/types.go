package drive

import "time"

// RootID is the well-known alias for the drive's top-level folder.
// The Drive API accepts it anywhere a folder ID is expected.
const RootID = "root"

// FolderMimeType marks an object as a folder in Drive metadata.
const FolderMimeType = "application/vnd.google-apps.folder"

// Object is a normalized Drive file or folder descriptor. Values are
// per-call snapshots of remote state — callers never see raw API data and
// nothing here is cached between calls. Identity is ID; Name is not unique
// within a parent.
type Object struct {
	ID         string
	Name       string
	ParentID   string
	MimeType   string
	IsFolder   bool
	WebLink    string
	Size       int64
	CreatedAt  time.Time
	ModifiedAt time.Time
}

// ObjectKind filters a children query by object type.
type ObjectKind int

const (
	KindAny ObjectKind = iota
	KindFolder
	KindFile
)

// ChildQuery narrows a Children listing. The zero value matches every
// non-trashed child of the parent.
type ChildQuery struct {
	// Name, when non-empty, requires an exact name match.
	Name string
	// Kind restricts results to folders or non-folders.
	Kind ObjectKind
}

// Root returns a synthetic descriptor for the drive's top-level folder.
// The API has no listable metadata for it that we need, so it is built
// locally rather than fetched.
func Root() *Object {
	return &Object{ID: RootID, Name: "My Drive", MimeType: FolderMimeType, IsFolder: true}
}
