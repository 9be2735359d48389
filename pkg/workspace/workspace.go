// Package workspace models the single-document editing session shared
// by the upload, preview, edit, and export panels.
package workspace

import (
	"context"
	"errors"

	"github.com/pdf-studio/backend/pkg/client"
)

// Tab identifies one workspace panel.
type Tab string

const (
	TabUpload  Tab = "upload"
	TabPreview Tab = "preview"
	TabEdit    Tab = "edit"
	TabExport  Tab = "export"
)

// UploadState is the upload panel's state machine.
type UploadState string

const (
	UploadIdle     UploadState = "idle"
	UploadInFlight UploadState = "uploading"
	UploadReady    UploadState = "ready"
	UploadFailed   UploadState = "idle-with-error"
)

// ErrNoFile is returned by operations that need an uploaded file.
var ErrNoFile = errors.New("no file in workspace")

// FileHandle is the workspace's reference to the uploaded document.
type FileHandle struct {
	FileID   string
	FileName string
	FileSize int64
}

// Workspace owns the file handle and the active tab. Tabs beyond
// upload stay disabled until a handle with a backend ID exists. It is
// not safe for concurrent use.
type Workspace struct {
	api *client.Client

	handle      *FileHandle
	activeTab   Tab
	uploadState UploadState
	lastError   string

	Viewer *Viewer
	Editor *Editor
}

// New creates an empty workspace on the upload tab.
func New(api *client.Client) *Workspace {
	return &Workspace{
		api:         api,
		activeTab:   TabUpload,
		uploadState: UploadIdle,
		Viewer:      newViewer(api),
		Editor:      newEditor(),
	}
}

// Handle returns the current file handle, or nil.
func (w *Workspace) Handle() *FileHandle { return w.handle }

// ActiveTab returns the currently shown tab.
func (w *Workspace) ActiveTab() Tab { return w.activeTab }

// UploadState returns the upload panel state.
func (w *Workspace) UploadState() UploadState { return w.uploadState }

// LastError returns the most recent failure message, if any.
func (w *Workspace) LastError() string { return w.lastError }

// TabEnabled reports whether a tab can be activated.
func (w *Workspace) TabEnabled(tab Tab) bool {
	if tab == TabUpload {
		return true
	}
	return w.handle != nil
}

// SwitchTab activates a tab if it is enabled.
func (w *Workspace) SwitchTab(tab Tab) bool {
	if !w.TabEnabled(tab) {
		return false
	}
	w.activeTab = tab
	return true
}

// Upload validates and uploads one file, replacing any previous
// handle. On success the workspace switches to the preview tab.
func (w *Workspace) Upload(ctx context.Context, path string) error {
	if w.uploadState == UploadInFlight {
		return errors.New("an upload is already in progress")
	}
	w.uploadState = UploadInFlight
	w.lastError = ""

	rec, err := w.api.Upload(ctx, path)
	if err != nil {
		w.uploadState = UploadFailed
		w.lastError = err.Error()
		return err
	}

	w.handle = &FileHandle{FileID: rec.FileID, FileName: rec.FileName, FileSize: rec.FileSize}
	w.uploadState = UploadReady
	w.Viewer.reset()
	w.Editor.Reset()
	w.activeTab = TabPreview
	return nil
}

// SaveEdits sends the editor's pending changes. A successful save
// clears the pending lists and invalidates the cached preview so the
// next view fetches the new revision.
func (w *Workspace) SaveEdits(ctx context.Context) (*client.EditResult, error) {
	if w.handle == nil {
		return nil, ErrNoFile
	}
	edits, meta := w.Editor.BuildEditRequest()
	if len(edits) == 0 && meta == nil {
		return nil, errors.New("nothing to save")
	}
	result, err := w.api.Edit(ctx, w.handle.FileID, edits, meta)
	if err != nil {
		w.lastError = err.Error()
		return nil, err
	}
	w.Editor.Reset()
	w.Viewer.reset()
	return result, nil
}

// Export downloads the document in the chosen format into destDir and
// returns the written path.
func (w *Workspace) Export(ctx context.Context, opts client.ExportOptions, destDir string) (string, error) {
	if w.handle == nil {
		return "", ErrNoFile
	}
	path, err := w.api.Export(ctx, w.handle.FileID, opts, destDir)
	if err != nil {
		w.lastError = err.Error()
		return "", err
	}
	return path, nil
}

// Delete removes the document from the server, clears the handle, and
// returns the workspace to the upload tab.
func (w *Workspace) Delete(ctx context.Context) error {
	if w.handle == nil {
		return ErrNoFile
	}
	if _, err := w.api.Delete(ctx, w.handle.FileID); err != nil {
		w.lastError = err.Error()
		return err
	}
	w.handle = nil
	w.uploadState = UploadIdle
	w.activeTab = TabUpload
	w.Viewer.reset()
	w.Editor.Reset()
	return nil
}
