package drive

import (
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildChildrenQuery(t *testing.T) {
	tests := []struct {
		name     string
		parentID string
		q        ChildQuery
		want     string
	}{
		{
			name:     "bare listing",
			parentID: "root",
			q:        ChildQuery{},
			want:     "'root' in parents and trashed = false",
		},
		{
			name:     "folder by name",
			parentID: "p1",
			q:        ChildQuery{Name: "projects", Kind: KindFolder},
			want:     "'p1' in parents and trashed = false and name = 'projects' and mimeType = 'application/vnd.google-apps.folder'",
		},
		{
			name:     "file by name",
			parentID: "p1",
			q:        ChildQuery{Name: "data.csv", Kind: KindFile},
			want:     "'p1' in parents and trashed = false and name = 'data.csv' and mimeType != 'application/vnd.google-apps.folder'",
		},
		{
			name:     "name with quote escaped",
			parentID: "p1",
			q:        ChildQuery{Name: "bob's files"},
			want:     `'p1' in parents and trashed = false and name = 'bob\'s files'`,
		},
		{
			name:     "name with backslash escaped",
			parentID: "p1",
			q:        ChildQuery{Name: `a\b`},
			want:     `'p1' in parents and trashed = false and name = 'a\\b'`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildChildrenQuery(tt.parentID, tt.q))
		})
	}
}

func TestChildren_ParsesResources(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "'folder-1' in parents and trashed = false", r.URL.Query().Get("q"))
		assert.Equal(t, "createdTime desc", r.URL.Query().Get("orderBy"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"files": [
			{
				"id": "file-1",
				"name": "report",
				"parents": ["folder-1"],
				"mimeType": "application/vnd.google-apps.document",
				"webViewLink": "https://docs.google.com/document/d/file-1",
				"createdTime": "2026-02-10T08:00:00Z",
				"modifiedTime": "2026-02-11T09:30:00Z"
			},
			{
				"id": "file-2",
				"name": "data.csv",
				"parents": ["folder-1"],
				"mimeType": "text/csv",
				"size": "2048",
				"createdTime": "2026-01-05T12:00:00Z",
				"modifiedTime": "2026-01-05T12:00:00Z"
			}
		]}`)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	objects, err := client.Children(context.Background(), "folder-1", ChildQuery{})
	require.NoError(t, err)
	require.Len(t, objects, 2)

	doc := objects[0]
	assert.Equal(t, "file-1", doc.ID)
	assert.Equal(t, "report", doc.Name)
	assert.Equal(t, "folder-1", doc.ParentID)
	assert.False(t, doc.IsFolder)
	assert.Equal(t, "https://docs.google.com/document/d/file-1", doc.WebLink)
	assert.Equal(t, int64(0), doc.Size)
	assert.Equal(t, 2026, doc.CreatedAt.Year())

	csv := objects[1]
	assert.Equal(t, int64(2048), csv.Size)
	assert.Equal(t, "text/csv", csv.MimeType)
}

func TestChildren_FolderDetection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"files": [{
			"id": "folder-2",
			"name": "projects",
			"parents": ["root"],
			"mimeType": "application/vnd.google-apps.folder",
			"createdTime": "2026-01-01T00:00:00Z",
			"modifiedTime": "2026-01-01T00:00:00Z"
		}]}`)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	objects, err := client.Children(context.Background(), "root", ChildQuery{Kind: KindFolder})
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.True(t, objects[0].IsFolder)
}

func TestChildren_Pagination(t *testing.T) {
	var calls int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++

		w.Header().Set("Content-Type", "application/json")

		if r.URL.Query().Get("pageToken") == "" {
			fmt.Fprint(w, `{"files": [{"id": "a", "name": "a"}], "nextPageToken": "page-2"}`)
			return
		}

		assert.Equal(t, "page-2", r.URL.Query().Get("pageToken"))
		fmt.Fprint(w, `{"files": [{"id": "b", "name": "b"}]}`)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	objects, err := client.Children(context.Background(), "root", ChildQuery{})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	require.Len(t, objects, 2)
	assert.Equal(t, "a", objects[0].ID)
	assert.Equal(t, "b", objects[1].ID)
}

func TestSharedWithMe_Query(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "sharedWithMe and trashed = false", r.URL.Query().Get("q"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"files": [{"id": "shared-1", "name": "shared.pdf"}]}`)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	objects, err := client.SharedWithMe(context.Background())
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, "shared-1", objects[0].ID)
}

func TestCreate_MultipartUpload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/upload/drive/v3/files", r.URL.Path)
		assert.Equal(t, "multipart", r.URL.Query().Get("uploadType"))

		mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		require.NoError(t, err)
		assert.Equal(t, "multipart/related", mediaType)

		mr := multipart.NewReader(r.Body, params["boundary"])

		metaPart, err := mr.NextPart()
		require.NoError(t, err)

		meta, err := io.ReadAll(metaPart)
		require.NoError(t, err)
		assert.JSONEq(t, `{"name": "notes.txt", "parents": ["folder-1"]}`, string(meta))

		mediaPart, err := mr.NextPart()
		require.NoError(t, err)

		content, err := io.ReadAll(mediaPart)
		require.NoError(t, err)
		assert.Equal(t, "hello drive", string(content))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id": "new-1", "name": "notes.txt", "parents": ["folder-1"], "mimeType": "text/plain"}`)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	obj, err := client.Create(context.Background(), "folder-1", "notes.txt", strings.NewReader("hello drive"))
	require.NoError(t, err)
	assert.Equal(t, "new-1", obj.ID)
	assert.Equal(t, "notes.txt", obj.Name)
	assert.Equal(t, "folder-1", obj.ParentID)
}

func TestCreateFolder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/drive/v3/files", r.URL.Path)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"name": "reports",
			"mimeType": "application/vnd.google-apps.folder",
			"parents": ["root"]
		}`, string(body))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id": "folder-new", "name": "reports", "parents": ["root"], "mimeType": "application/vnd.google-apps.folder"}`)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	obj, err := client.CreateFolder(context.Background(), "root", "reports")
	require.NoError(t, err)
	assert.Equal(t, "folder-new", obj.ID)
	assert.True(t, obj.IsFolder)
}

func TestTrash_PatchesTrashedFlag(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/drive/v3/files/file-1", r.URL.Path)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"trashed": true}`, string(body))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id": "file-1", "name": "gone.txt"}`)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	require.NoError(t, client.Trash(context.Background(), "file-1"))
}

func TestDelete_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/drive/v3/files/file-1", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	require.NoError(t, client.Delete(context.Background(), "file-1"))
}

func TestDelete_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error":{"code":404,"message":"File not found"}}`)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	err := client.Delete(context.Background(), "already-gone")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}
