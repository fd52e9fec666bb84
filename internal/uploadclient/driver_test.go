package uploadclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cadportal/internal/domain/admission"
)

type fakeCoordinator struct {
	mu       sync.Mutex
	calls    []BeginUploadRequest
	putURL   string
	err      error
	sequence int
}

func (f *fakeCoordinator) BeginUpload(_ context.Context, req BeginUploadRequest) (*Credential, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req)
	if f.err != nil {
		return nil, f.err
	}
	f.sequence++
	return &Credential{
		FileID:      "file-" + req.Filename,
		UploadURL:   f.putURL + "/" + req.Filename,
		ContentType: admission.ContentTypeFor(req.Filename),
	}, nil
}

func (f *fakeCoordinator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type blobServer struct {
	*httptest.Server
	mu     sync.Mutex
	bodies map[string][]byte
	status int
}

func newBlobServer(t *testing.T, status int) *blobServer {
	b := &blobServer{bodies: make(map[string][]byte), status: status}
	b.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		b.mu.Lock()
		b.bodies[r.URL.Path] = body
		b.mu.Unlock()
		w.WriteHeader(b.status)
	}))
	t.Cleanup(b.Close)
	return b
}

func TestDriver_SuccessfulUpload(t *testing.T) {
	blobs := newBlobServer(t, http.StatusOK)
	coord := &fakeCoordinator{putURL: blobs.URL}

	var (
		mu        sync.Mutex
		statuses  []Status
		progress  []int
		completed = map[string]string{}
	)
	d := NewDriver(coord, Options{
		ProjectID:  "p1",
		UserID:     "u1",
		Tier:       admission.TierFree,
		HTTPClient: blobs.Client(),
		OnStatus: func(s FileState) {
			mu.Lock()
			statuses = append(statuses, s.Status)
			mu.Unlock()
		},
		OnProgress: func(s FileState) {
			mu.Lock()
			progress = append(progress, s.Progress)
			mu.Unlock()
		},
		OnComplete: func(localID, fileID string) {
			mu.Lock()
			completed[localID] = fileID
			mu.Unlock()
		},
	})

	ids := d.Submit(context.Background(), []File{FromBytes("bracket.sldprt", []byte("solidworks part"))})
	require.Len(t, ids, 1)

	state, ok := d.File(ids[0])
	require.True(t, ok)
	assert.Equal(t, StatusComplete, state.Status)
	assert.Equal(t, 100, state.Progress)
	assert.Equal(t, "file-bracket.sldprt", state.FileID)
	assert.Empty(t, state.Error)

	assert.Equal(t, []Status{StatusUploading, StatusComplete}, statuses)
	assert.Equal(t, 100, progress[len(progress)-1])
	assert.Equal(t, "file-bracket.sldprt", completed[ids[0]])
	assert.Equal(t, []byte("solidworks part"), blobs.bodies["/bracket.sldprt"])

	require.Len(t, coord.calls, 1)
	assert.Equal(t, BeginUploadRequest{
		Filename: "bracket.sldprt", Size: 15, ProjectID: "p1", UserID: "u1", Tier: "free",
	}, coord.calls[0])
}

func TestDriver_LocalRejectionNeverContactsCoordinator(t *testing.T) {
	coord := &fakeCoordinator{}
	var statuses []Status
	d := NewDriver(coord, Options{
		Tier:     admission.TierFree,
		OnStatus: func(s FileState) { statuses = append(statuses, s.Status) },
	})

	ids := d.Submit(context.Background(), []File{
		FromBytes("model.dwg", []byte("x")),
		FromBytes("part.step", nil),
		{Name: "huge.sldasm", Size: 200 * admission.MiB},
	})

	files := d.Files()
	require.Len(t, files, 3)
	assert.Equal(t, "Unsupported file type: .dwg. Allowed: .sldprt, .sldasm, .slddrw, .step, .pdf", files[0].Error)
	assert.Equal(t, "File is empty", files[1].Error)
	assert.Equal(t, "File exceeds 100MB limit for free tier", files[2].Error)
	for i, f := range files {
		assert.Equal(t, ids[i], f.ID)
		assert.Equal(t, StatusError, f.Status)
	}

	assert.Zero(t, coord.callCount())
	assert.NotContains(t, statuses, StatusUploading)
}

func TestDriver_CoordinatorErrors(t *testing.T) {
	t.Run("api message is surfaced", func(t *testing.T) {
		coord := &fakeCoordinator{err: &APIError{StatusCode: 400, Message: "File exceeds 100MB limit for free tier"}}
		d := NewDriver(coord, Options{Tier: admission.TierTeam})

		ids := d.Submit(context.Background(), []File{FromBytes("a.pdf", []byte("pdf"))})
		s, _ := d.File(ids[0])
		assert.Equal(t, StatusError, s.Status)
		assert.Equal(t, "File exceeds 100MB limit for free tier", s.Error)
	})

	t.Run("transport error uses generic message", func(t *testing.T) {
		coord := &fakeCoordinator{err: errors.New("dial tcp: connection refused")}
		d := NewDriver(coord, Options{Tier: admission.TierTeam})

		ids := d.Submit(context.Background(), []File{FromBytes("a.pdf", []byte("pdf"))})
		s, _ := d.File(ids[0])
		assert.Equal(t, StatusError, s.Status)
		assert.Equal(t, "Failed to get upload URL", s.Error)
	})
}

func TestDriver_TransferFailure(t *testing.T) {
	blobs := newBlobServer(t, http.StatusForbidden)
	coord := &fakeCoordinator{putURL: blobs.URL}
	completions := 0
	d := NewDriver(coord, Options{
		Tier:       admission.TierTeam,
		HTTPClient: blobs.Client(),
		OnComplete: func(string, string) { completions++ },
	})

	ids := d.Submit(context.Background(), []File{FromBytes("a.pdf", []byte("pdf"))})
	s, _ := d.File(ids[0])
	assert.Equal(t, StatusError, s.Status)
	assert.Equal(t, "Upload failed", s.Error)
	assert.Less(t, s.Progress, 100)
	assert.Empty(t, s.FileID)
	assert.Zero(t, completions)
	assert.Equal(t, 1, coord.callCount(), "no retry")
}

func TestDriver_BatchContinuesAfterFailure(t *testing.T) {
	blobs := newBlobServer(t, http.StatusOK)
	d := NewDriver(&fakeCoordinator{putURL: blobs.URL}, Options{Tier: admission.TierTeam, HTTPClient: blobs.Client()})

	d.Submit(context.Background(), []File{
		FromBytes("bad.dwg", []byte("x")),
		FromBytes("good.pdf", []byte("y")),
	})

	files := d.Files()
	require.Len(t, files, 2)
	assert.Equal(t, StatusError, files[0].Status)
	assert.Equal(t, StatusComplete, files[1].Status)
}

func TestDriver_OverlappingSubmits(t *testing.T) {
	blobs := newBlobServer(t, http.StatusOK)
	coord := &fakeCoordinator{putURL: blobs.URL}
	d := NewDriver(coord, Options{Tier: admission.TierTeam, HTTPClient: blobs.Client()})

	var wg sync.WaitGroup
	for _, batch := range [][]File{
		{FromBytes("a1.pdf", []byte("a")), FromBytes("a2.pdf", []byte("b"))},
		{FromBytes("b1.step", []byte("c")), FromBytes("b2.step", []byte("d"))},
	} {
		wg.Add(1)
		go func(files []File) {
			defer wg.Done()
			d.Submit(context.Background(), files)
		}(batch)
	}
	wg.Wait()

	files := d.Files()
	require.Len(t, files, 4)
	for _, f := range files {
		assert.Equal(t, StatusComplete, f.Status, f.Name)
		assert.Equal(t, "file-"+f.Name, f.FileID)
	}
}

func TestDriver_Remove(t *testing.T) {
	d := NewDriver(&fakeCoordinator{}, Options{Tier: admission.TierTeam})
	ids := d.Submit(context.Background(), []File{
		FromBytes("x.dwg", []byte("1")),
		FromBytes("y.dwg", []byte("2")),
	})

	assert.True(t, d.Remove(ids[0]))
	assert.False(t, d.Remove(ids[0]))

	files := d.Files()
	require.Len(t, files, 1)
	assert.Equal(t, ids[1], files[0].ID)
}
