package transfer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drivecp/internal/drive"
)

func TestResolve_EmptyPathReturnsRootWithoutQuery(t *testing.T) {
	store := newFakeStore()
	r := NewResolver(store, nil)

	folder, err := r.Resolve(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, drive.RootID, folder.ID)
	assert.True(t, folder.IsFolder)
	assert.Zero(t, store.queries)
}

func TestResolve_WalksNestedPath(t *testing.T) {
	store := newFakeStore()
	store.addFolder("root", "f-projects", "projects")
	store.addFolder("f-projects", "f-2026", "2026")
	store.addFolder("f-2026", "f-q1", "q1")

	r := NewResolver(store, nil)

	folder, err := r.Resolve(context.Background(), []string{"projects", "2026", "q1"})
	require.NoError(t, err)
	assert.Equal(t, "f-q1", folder.ID)
	assert.Equal(t, 3, store.queries)
}

func TestResolve_Deterministic(t *testing.T) {
	store := newFakeStore()
	store.addFolder("root", "f-a", "a")
	store.addFolder("f-a", "f-b", "b")

	r := NewResolver(store, nil)

	first, err := r.Resolve(context.Background(), []string{"a", "b"})
	require.NoError(t, err)

	second, err := r.Resolve(context.Background(), []string{"a", "b"})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
}

func TestResolve_NotFoundNamesSegmentAndParent(t *testing.T) {
	store := newFakeStore()
	store.addFolder("root", "f-projects", "projects")

	r := NewResolver(store, nil)

	_, err := r.Resolve(context.Background(), []string{"projects", "archive"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "archive", nf.Name)
	assert.Equal(t, "/projects", nf.ParentPath)
}

func TestResolve_DuplicateFolderIsAmbiguous(t *testing.T) {
	store := newFakeStore()
	store.addFolder("root", "f-projects", "projects")
	store.addFolder("f-projects", "dup-1", "reports")
	store.addFolder("f-projects", "dup-2", "reports")

	r := NewResolver(store, nil)

	_, err := r.Resolve(context.Background(), []string{"projects", "reports", "q1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAmbiguousPath)

	var amb *AmbiguousPathError
	require.ErrorAs(t, err, &amb)
	assert.Equal(t, "reports", amb.Segment)
	assert.Equal(t, "/projects", amb.ParentPath)
	assert.ElementsMatch(t, []string{"dup-1", "dup-2"}, amb.CandidateIDs)
}

func TestResolve_FileWithSameNameIsNotAFolder(t *testing.T) {
	store := newFakeStore()
	store.addFile("root", "file-1", "projects", "text/plain", nil)

	r := NewResolver(store, nil)

	_, err := r.Resolve(context.Background(), []string{"projects"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolve_StoreFailureIsTransportError(t *testing.T) {
	store := newFakeStore()
	store.failWith = errors.New("connection reset")

	r := NewResolver(store, nil)

	_, err := r.Resolve(context.Background(), []string{"projects"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, err, store.failWith)
}
