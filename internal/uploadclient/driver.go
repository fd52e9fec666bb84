package uploadclient

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"cadportal/internal/domain/admission"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusUploading Status = "uploading"
	StatusComplete  Status = "complete"
	StatusError     Status = "error"
)

const (
	msgCoordinatorFailed = "Failed to get upload URL"
	msgTransferFailed    = "Upload failed"
)

// File is something the driver can upload. Open is called once, after the
// write URL has been issued.
type File struct {
	Name string
	Size int64
	Open func() (io.ReadCloser, error)
}

func FromPath(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return File{}, err
	}
	return File{
		Name: filepath.Base(path),
		Size: info.Size(),
		Open: func() (io.ReadCloser, error) { return os.Open(path) },
	}, nil
}

func FromBytes(name string, data []byte) File {
	return File{
		Name: name,
		Size: int64(len(data)),
		Open: func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(data)), nil },
	}
}

// FileState is a snapshot of one file's progress through the driver.
type FileState struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	Status   Status `json:"status"`
	Progress int    `json:"progress"`
	FileID   string `json:"fileId,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Coordinator issues write credentials. *Client implements it.
type Coordinator interface {
	BeginUpload(ctx context.Context, req BeginUploadRequest) (*Credential, error)
}

type Options struct {
	ProjectID string
	UserID    string
	Tier      admission.Tier

	HTTPClient *http.Client

	OnProgress func(FileState)
	OnStatus   func(FileState)
	OnComplete func(localID, fileID string)
}

// Driver uploads files one at a time and keeps per-file state. Separate
// Submit calls may run concurrently.
type Driver struct {
	coord Coordinator
	opts  Options

	mu    sync.Mutex
	files map[string]*FileState
	order []string
}

func NewDriver(coord Coordinator, opts Options) *Driver {
	return &Driver{
		coord: coord,
		opts:  opts,
		files: make(map[string]*FileState),
	}
}

// Submit queues files as pending and uploads them in order. It returns the
// local ids once every file has reached complete or error.
func (d *Driver) Submit(ctx context.Context, files []File) []string {
	ids := make([]string, len(files))

	d.mu.Lock()
	for i, f := range files {
		id := uuid.NewString()
		ids[i] = id
		d.files[id] = &FileState{ID: id, Name: f.Name, Size: f.Size, Status: StatusPending}
		d.order = append(d.order, id)
	}
	d.mu.Unlock()

	for i, f := range files {
		d.process(ctx, ids[i], f)
	}
	return ids
}

func (d *Driver) process(ctx context.Context, id string, f File) {
	if err := admission.Evaluate(admission.FileDescriptor{Name: f.Name, Size: f.Size}, d.opts.Tier); err != nil {
		msg := err.Error()
		if rej, ok := admission.AsRejection(err); ok {
			msg = rej.Message
		}
		d.fail(id, msg)
		return
	}

	d.setStatus(id, func(s *FileState) { s.Status = StatusUploading })

	cred, err := d.coord.BeginUpload(ctx, BeginUploadRequest{
		Filename:  f.Name,
		Size:      f.Size,
		ProjectID: d.opts.ProjectID,
		UserID:    d.opts.UserID,
		Tier:      string(d.opts.Tier),
	})
	if err != nil {
		msg := msgCoordinatorFailed
		if apiErr, ok := AsAPIError(err); ok && apiErr.Message != "" {
			msg = apiErr.Message
		}
		d.fail(id, msg)
		return
	}

	body, err := f.Open()
	if err != nil {
		d.fail(id, msgTransferFailed)
		return
	}
	defer body.Close()

	t := StartTransfer(ctx, d.opts.HTTPClient, cred.UploadURL, cred.ContentType, f.Size, body)
	for pct := range t.Progress() {
		snap, ok := d.update(id, func(s *FileState) { s.Progress = pct })
		if ok && d.opts.OnProgress != nil {
			d.opts.OnProgress(snap)
		}
	}
	if err := t.Wait(); err != nil {
		d.fail(id, msgTransferFailed)
		return
	}

	d.setStatus(id, func(s *FileState) {
		s.Status = StatusComplete
		s.FileID = cred.FileID
	})
	if d.opts.OnComplete != nil {
		d.opts.OnComplete(id, cred.FileID)
	}
}

func (d *Driver) fail(id, msg string) {
	d.setStatus(id, func(s *FileState) {
		s.Status = StatusError
		s.Error = msg
	})
}

func (d *Driver) setStatus(id string, fn func(*FileState)) {
	snap, ok := d.update(id, fn)
	if ok && d.opts.OnStatus != nil {
		d.opts.OnStatus(snap)
	}
}

// update applies fn to a live entry. Entries dropped by Remove are skipped.
func (d *Driver) update(id string, fn func(*FileState)) (FileState, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	s, ok := d.files[id]
	if !ok {
		return FileState{}, false
	}
	fn(s)
	return *s, true
}

// Files returns a snapshot of every tracked file in submission order.
func (d *Driver) Files() []FileState {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]FileState, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, *d.files[id])
	}
	return out
}

func (d *Driver) File(id string) (FileState, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	s, ok := d.files[id]
	if !ok {
		return FileState{}, false
	}
	return *s, true
}

// Remove forgets a file. An upload already in flight is not interrupted.
func (d *Driver) Remove(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.files[id]; !ok {
		return false
	}
	delete(d.files, id)
	for i, o := range d.order {
		if o == id {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	return true
}
