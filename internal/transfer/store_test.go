package transfer

import (
	"context"
	"fmt"
	"io"
	"slices"

	"drivecp/internal/drive"
)

// fakeStore is an in-memory ObjectStore. Children are kept in listing order
// (tests arrange them most-recent-first, the order the real client returns).
type fakeStore struct {
	children map[string][]drive.Object // parentID -> children
	shared   []drive.Object
	contents map[string][]byte // object ID -> raw bytes
	exports  map[string][]byte // object ID -> exported bytes

	queries    int // Children calls issued
	nextID     int
	failWith   error // when set, every call fails with this error
	exportMime string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		children: map[string][]drive.Object{},
		contents: map[string][]byte{},
		exports:  map[string][]byte{},
	}
}

// add places an object under a parent, prepending so the newest entry comes
// first like a createdTime desc listing.
func (f *fakeStore) add(parentID string, obj drive.Object) drive.Object {
	obj.ParentID = parentID
	f.children[parentID] = append([]drive.Object{obj}, f.children[parentID]...)

	return obj
}

func (f *fakeStore) addFolder(parentID, id, name string) drive.Object {
	return f.add(parentID, drive.Object{
		ID: id, Name: name, MimeType: drive.FolderMimeType, IsFolder: true,
	})
}

func (f *fakeStore) addFile(parentID, id, name, mimeType string, content []byte) drive.Object {
	f.contents[id] = content

	return f.add(parentID, drive.Object{ID: id, Name: name, MimeType: mimeType})
}

func (f *fakeStore) Children(_ context.Context, parentID string, q drive.ChildQuery) ([]drive.Object, error) {
	f.queries++

	if f.failWith != nil {
		return nil, f.failWith
	}

	var out []drive.Object

	for _, obj := range f.children[parentID] {
		if q.Name != "" && obj.Name != q.Name {
			continue
		}

		if q.Kind == drive.KindFolder && !obj.IsFolder {
			continue
		}

		if q.Kind == drive.KindFile && obj.IsFolder {
			continue
		}

		out = append(out, obj)
	}

	return out, nil
}

func (f *fakeStore) SharedWithMe(_ context.Context) ([]drive.Object, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}

	return slices.Clone(f.shared), nil
}

func (f *fakeStore) Create(_ context.Context, parentID, name string, content io.Reader) (*drive.Object, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}

	data, err := io.ReadAll(content)
	if err != nil {
		return nil, err
	}

	f.nextID++

	obj := f.addFile(parentID, fmt.Sprintf("created-%d", f.nextID), name, "application/octet-stream", data)

	return &obj, nil
}

func (f *fakeStore) CreateFolder(_ context.Context, parentID, name string) (*drive.Object, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}

	f.nextID++

	obj := f.addFolder(parentID, fmt.Sprintf("folder-%d", f.nextID), name)

	return &obj, nil
}

func (f *fakeStore) Content(_ context.Context, id string, w io.Writer) (int64, error) {
	if f.failWith != nil {
		return 0, f.failWith
	}

	data, ok := f.contents[id]
	if !ok {
		return 0, drive.ErrNotFound
	}

	n, err := w.Write(data)

	return int64(n), err
}

func (f *fakeStore) Export(_ context.Context, id, mimeType string, w io.Writer) (int64, error) {
	if f.failWith != nil {
		return 0, f.failWith
	}

	f.exportMime = mimeType

	data, ok := f.exports[id]
	if !ok {
		return 0, drive.ErrNotFound
	}

	n, err := w.Write(data)

	return int64(n), err
}

func (f *fakeStore) remove(id string) bool {
	for parentID, objs := range f.children {
		for i := range objs {
			if objs[i].ID == id {
				f.children[parentID] = append(objs[:i:i], objs[i+1:]...)
				return true
			}
		}
	}

	return false
}

func (f *fakeStore) Trash(_ context.Context, id string) error {
	if f.failWith != nil {
		return f.failWith
	}

	if !f.remove(id) {
		return drive.ErrNotFound
	}

	return nil
}

func (f *fakeStore) Delete(_ context.Context, id string) error {
	if f.failWith != nil {
		return f.failWith
	}

	if !f.remove(id) {
		return drive.ErrNotFound
	}

	delete(f.contents, id)

	return nil
}
