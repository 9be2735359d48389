package client

import (
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileRecord describes an uploaded document as the server reports it.
type FileRecord struct {
	FileID     string    `json:"fileId"`
	FileName   string    `json:"fileName"`
	FileSize   int64     `json:"fileSize"`
	UploadDate time.Time `json:"uploadDate"`
	Status     string    `json:"status"`
	Revision   int       `json:"revision"`
	PageCount  int       `json:"pageCount,omitempty"`
}

// PreviewInfo is the server's preview descriptor. PreviewURL is
// relative to the server base URL and stable for a given revision.
type PreviewInfo struct {
	FileID     string `json:"fileId"`
	FileName   string `json:"fileName"`
	PreviewURL string `json:"previewUrl"`
	PageCount  int    `json:"pageCount"`
}

// Metadata holds the optional document info fields.
type Metadata struct {
	Title    string `json:"title,omitempty"`
	Author   string `json:"author,omitempty"`
	Subject  string `json:"subject,omitempty"`
	Keywords string `json:"keywords,omitempty"`
}

// Edit is one entry of an edit batch. Coordinates are PDF points with
// the origin at the bottom-left of the page.
type Edit struct {
	PageNumber      int     `json:"pageNumber"`
	X               float64 `json:"x"`
	Y               float64 `json:"y"`
	Width           float64 `json:"width"`
	Height          float64 `json:"height"`
	Text            string  `json:"text,omitempty"`
	FontSize        float64 `json:"fontSize,omitempty"`
	Color           string  `json:"color,omitempty"`
	Action          string  `json:"action"`
	OriginalText    string  `json:"originalText,omitempty"`
	ReplacementText string  `json:"replacementText,omitempty"`
}

// EditResult is the server's answer to an edit request.
type EditResult struct {
	FileID  string `json:"fileId"`
	EditID  string `json:"editId"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ExportOptions select the output format of an export.
type ExportOptions struct {
	Format  string `json:"format"`
	Quality string `json:"quality,omitempty"`
	Pages   []int  `json:"pages,omitempty"`
}

// StatusResult is the generic {success, message} envelope.
type StatusResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Upload validates the file locally, then sends it as a multipart
// request. Validation failures never reach the network.
func (c *Client) Upload(ctx context.Context, path string) (*FileRecord, error) {
	if err := ValidateFile(path); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, newDispatchError(err)
	}
	defer f.Close()

	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)
	go func() {
		part, err := writer.CreateFormFile("file", filepath.Base(path))
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, f); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(writer.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/files/upload", pr)
	if err != nil {
		return nil, newDispatchError(err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, newServerError(resp)
	}
	var rec FileRecord
	if err := decodeJSON(resp.Body, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetFile fetches the record for one file.
func (c *Client) GetFile(ctx context.Context, fileID string) (*FileRecord, error) {
	var rec FileRecord
	if err := c.doJSON(ctx, http.MethodGet, "/api/files/"+fileID, nil, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// RecentFiles lists the most recently uploaded files.
func (c *Client) RecentFiles(ctx context.Context) ([]FileRecord, error) {
	var list []FileRecord
	if err := c.doJSON(ctx, http.MethodGet, "/api/files/recent", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// Preview fetches the preview descriptor for a file.
func (c *Client) Preview(ctx context.Context, fileID string) (*PreviewInfo, error) {
	var info PreviewInfo
	if err := c.doJSON(ctx, http.MethodGet, "/api/files/"+fileID+"/preview", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Edit applies a batch of edits and optional metadata changes. The
// server produces a new revision; entries it cannot resolve are
// reported in the result message without failing the batch.
func (c *Client) Edit(ctx context.Context, fileID string, edits []Edit, meta *Metadata) (*EditResult, error) {
	body := struct {
		Edits    []Edit    `json:"edits"`
		Metadata *Metadata `json:"metadata,omitempty"`
	}{Edits: edits, Metadata: meta}

	var result EditResult
	if err := c.doJSON(ctx, http.MethodPost, "/api/files/"+fileID+"/edit", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Export downloads the file in the requested format into destDir,
// deriving the local name from the Content-Disposition header. It
// returns the path of the written file.
func (c *Client) Export(ctx context.Context, fileID string, opts ExportOptions, destDir string) (string, error) {
	buf, err := marshalBody(opts)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/files/"+fileID+"/export", strings.NewReader(buf))
	if err != nil {
		return "", newDispatchError(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", newServerError(resp)
	}

	name := attachmentName(resp.Header.Get("Content-Disposition"))
	if name == "" {
		name = fmt.Sprintf("%s.%s", fileID, opts.Format)
	}
	destPath := filepath.Join(destDir, filepath.Base(name))

	out, err := os.Create(destPath)
	if err != nil {
		return "", newDispatchError(err)
	}
	defer out.Close()
	if _, err := io.Copy(out, resp.Body); err != nil {
		os.Remove(destPath)
		return "", newDispatchError(fmt.Errorf("write download: %w", err))
	}
	return destPath, nil
}

// Delete removes the file and all its revisions from the server.
func (c *Client) Delete(ctx context.Context, fileID string) (*StatusResult, error) {
	var result StatusResult
	if err := c.doJSON(ctx, http.MethodDelete, "/api/files/"+fileID, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func attachmentName(disposition string) string {
	if disposition == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil {
		return ""
	}
	return params["filename"]
}
