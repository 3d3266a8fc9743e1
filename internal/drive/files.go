package drive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"
)

// listPageSize is the pageSize value for files.list requests.
// 1000 is the maximum the Drive API allows.
const listPageSize = 1000

// objectFields is the fields projection requested for every file resource,
// matching the Object struct exactly so responses carry nothing we discard.
const objectFields = "id,name,parents,mimeType,webViewLink,size,createdTime,modifiedTime"

// fileResource mirrors the Drive API files resource JSON exactly.
// Unexported — callers use Object via toObject() normalization.
type fileResource struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Parents      []string `json:"parents"`
	MimeType     string   `json:"mimeType"`
	WebViewLink  string   `json:"webViewLink"`
	Size         int64    `json:"size,string"`
	CreatedTime  string   `json:"createdTime"`
	ModifiedTime string   `json:"modifiedTime"`
}

type fileListResponse struct {
	Files         []fileResource `json:"files"`
	NextPageToken string         `json:"nextPageToken"`
}

// createFileRequest is the metadata body for files.create.
type createFileRequest struct {
	Name     string   `json:"name"`
	MimeType string   `json:"mimeType,omitempty"`
	Parents  []string `json:"parents,omitempty"`
}

// toObject normalizes a Drive files resource into our Object type.
func (f *fileResource) toObject(logger *slog.Logger) Object {
	obj := Object{
		ID:       f.ID,
		Name:     f.Name,
		MimeType: f.MimeType,
		IsFolder: f.MimeType == FolderMimeType,
		WebLink:  f.WebViewLink,
		Size:     f.Size,
	}

	// Drive models multi-parent files; everything this tool creates or walks
	// has exactly one parent, so only the first is kept.
	if len(f.Parents) > 0 {
		obj.ParentID = f.Parents[0]
	}

	obj.CreatedAt = parseTimestamp(f.CreatedTime, "createdTime", f.ID, logger)
	obj.ModifiedAt = parseTimestamp(f.ModifiedTime, "modifiedTime", f.ID, logger)

	return obj
}

// parseTimestamp parses an RFC3339 timestamp. Empty or invalid values are
// replaced with the zero time; folders and shared items legitimately omit
// some timestamps, so only malformed values are logged.
func parseTimestamp(raw, field, objectID string, logger *slog.Logger) time.Time {
	if raw == "" {
		return time.Time{}
	}

	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		logger.Warn("invalid timestamp in file resource",
			slog.String("field", field),
			slog.String("object_id", objectID),
			slog.String("raw", raw),
		)

		return time.Time{}
	}

	return t
}

// escapeQueryValue escapes a string for interpolation into a Drive q
// expression, where values are single-quoted and backslash-escaped.
func escapeQueryValue(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}

// buildChildrenQuery renders a ChildQuery into a Drive q expression scoped
// to the given parent. Trashed objects are always excluded.
func buildChildrenQuery(parentID string, q ChildQuery) string {
	terms := []string{
		fmt.Sprintf("'%s' in parents", escapeQueryValue(parentID)),
		"trashed = false",
	}

	if q.Name != "" {
		terms = append(terms, fmt.Sprintf("name = '%s'", escapeQueryValue(q.Name)))
	}

	switch q.Kind {
	case KindFolder:
		terms = append(terms, fmt.Sprintf("mimeType = '%s'", FolderMimeType))
	case KindFile:
		terms = append(terms, fmt.Sprintf("mimeType != '%s'", FolderMimeType))
	case KindAny:
	}

	return strings.Join(terms, " and ")
}

// Children lists the non-trashed children of a folder matching the query,
// most recently created first, handling pagination automatically.
func (c *Client) Children(ctx context.Context, parentID string, q ChildQuery) ([]Object, error) {
	c.logger.Debug("listing children",
		slog.String("parent_id", parentID),
		slog.String("name_filter", q.Name),
	)

	return c.listAll(ctx, buildChildrenQuery(parentID, q))
}

// SharedWithMe lists the non-trashed objects in the shared-with-me
// collection, most recently created first.
func (c *Client) SharedWithMe(ctx context.Context) ([]Object, error) {
	c.logger.Debug("listing shared-with-me")

	return c.listAll(ctx, "sharedWithMe and trashed = false")
}

// listAll pages through files.list results for the given q expression.
func (c *Client) listAll(ctx context.Context, query string) ([]Object, error) {
	var objects []Object

	pageToken := ""

	for {
		params := url.Values{}
		params.Set("q", query)
		params.Set("orderBy", "createdTime desc")
		params.Set("pageSize", fmt.Sprint(listPageSize))
		params.Set("fields", fmt.Sprintf("files(%s),nextPageToken", objectFields))

		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}

		page, err := c.listPage(ctx, "/drive/v3/files?"+params.Encode())
		if err != nil {
			return nil, err
		}

		for i := range page.Files {
			objects = append(objects, page.Files[i].toObject(c.logger))
		}

		if page.NextPageToken == "" {
			break
		}

		pageToken = page.NextPageToken
	}

	c.logger.Debug("listing complete", slog.Int("total_objects", len(objects)))

	return objects, nil
}

func (c *Client) listPage(ctx context.Context, path string) (*fileListResponse, error) {
	resp, err := c.Do(ctx, http.MethodGet, path, "", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var page fileListResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("drive: decoding file list response: %w", err)
	}

	return &page, nil
}

// Create uploads content as a new object under the given parent using a
// multipart request (metadata + media in one round trip). No existence check
// is made — Drive permits duplicate names and creating one is valid.
func (c *Client) Create(ctx context.Context, parentID, name string, content io.Reader) (*Object, error) {
	c.logger.Info("creating object",
		slog.String("parent_id", parentID),
		slog.String("name", name),
	)

	meta, err := json.Marshal(createFileRequest{Name: name, Parents: []string{parentID}})
	if err != nil {
		return nil, fmt.Errorf("drive: marshaling create metadata: %w", err)
	}

	var body bytes.Buffer

	mw := multipart.NewWriter(&body)

	metaPart, err := mw.CreatePart(partHeader("application/json; charset=UTF-8"))
	if err != nil {
		return nil, fmt.Errorf("drive: building metadata part: %w", err)
	}

	if _, err := metaPart.Write(meta); err != nil {
		return nil, fmt.Errorf("drive: writing metadata part: %w", err)
	}

	mediaPart, err := mw.CreatePart(partHeader("application/octet-stream"))
	if err != nil {
		return nil, fmt.Errorf("drive: building media part: %w", err)
	}

	if _, err := io.Copy(mediaPart, content); err != nil {
		return nil, fmt.Errorf("drive: reading upload content: %w", err)
	}

	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("drive: finalizing multipart body: %w", err)
	}

	path := "/upload/drive/v3/files?uploadType=multipart&fields=" + url.QueryEscape(objectFields)
	contentType := "multipart/related; boundary=" + mw.Boundary()

	resp, err := c.Do(ctx, http.MethodPost, path, contentType, body.Bytes())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return decodeObject(resp.Body, c.logger)
}

// CreateFolder creates a folder under the given parent. It does not check
// for an existing folder of the same name; callers that need mkdir semantics
// resolve first.
func (c *Client) CreateFolder(ctx context.Context, parentID, name string) (*Object, error) {
	c.logger.Info("creating folder",
		slog.String("parent_id", parentID),
		slog.String("name", name),
	)

	body, err := json.Marshal(createFileRequest{
		Name:     name,
		MimeType: FolderMimeType,
		Parents:  []string{parentID},
	})
	if err != nil {
		return nil, fmt.Errorf("drive: marshaling create folder request: %w", err)
	}

	path := "/drive/v3/files?fields=" + url.QueryEscape(objectFields)

	resp, err := c.Do(ctx, http.MethodPost, path, "application/json; charset=UTF-8", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return decodeObject(resp.Body, c.logger)
}

// Trash moves an object to the Drive trash. Trashed objects disappear from
// Children listings, so a subsequent lookup by name reports not found.
func (c *Client) Trash(ctx context.Context, id string) error {
	c.logger.Info("trashing object", slog.String("object_id", id))

	path := fmt.Sprintf("/drive/v3/files/%s", url.PathEscape(id))

	resp, err := c.Do(ctx, http.MethodPatch, path, "application/json; charset=UTF-8", []byte(`{"trashed":true}`))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if _, copyErr := io.Copy(io.Discard, resp.Body); copyErr != nil {
		return fmt.Errorf("drive: draining trash response body: %w", copyErr)
	}

	return nil
}

// Delete permanently deletes an object, bypassing the trash.
// Returns nil on success (HTTP 204).
func (c *Client) Delete(ctx context.Context, id string) error {
	c.logger.Info("deleting object", slog.String("object_id", id))

	path := fmt.Sprintf("/drive/v3/files/%s", url.PathEscape(id))

	resp, err := c.Do(ctx, http.MethodDelete, path, "", nil)
	if err != nil {
		return err
	}

	// 204 No Content — drain and close to reuse connection.
	defer resp.Body.Close()

	if _, copyErr := io.Copy(io.Discard, resp.Body); copyErr != nil {
		return fmt.Errorf("drive: draining delete response body: %w", copyErr)
	}

	return nil
}

func decodeObject(r io.Reader, logger *slog.Logger) (*Object, error) {
	var res fileResource
	if err := json.NewDecoder(r).Decode(&res); err != nil {
		return nil, fmt.Errorf("drive: decoding file resource: %w", err)
	}

	obj := res.toObject(logger)

	return &obj, nil
}

func partHeader(contentType string) textproto.MIMEHeader {
	return textproto.MIMEHeader{"Content-Type": {contentType}}
}
