package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"cadportal/internal/blobstore"
	"cadportal/internal/database"
	"cadportal/internal/domain/account"
	"cadportal/internal/domain/admission"
	"cadportal/internal/pkg/jwt"
	"cadportal/internal/uploadclient"
)

type harness struct {
	ts     *httptest.Server
	db     *gorm.DB
	store  *blobstore.MemoryStore
	tokens *jwt.Service
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.OpenInMemory(uuid.NewString())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, Models()...))
	t.Cleanup(func() { _ = database.Close(db) })

	store := blobstore.NewMemoryStore("http://placeholder")
	tokens := jwt.New("test-secret", time.Hour)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	srv, err := New(Options{FileCacheSize: 64, FileCacheTTL: time.Minute}, db, store, tokens, logger)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	store.SetBaseURL(ts.URL + BlobsPath)

	return &harness{ts: ts, db: db, store: store, tokens: tokens}
}

func (h *harness) token(t *testing.T, userID, role string) string {
	tok, err := h.tokens.GenerateToken(userID, role)
	require.NoError(t, err)
	return tok
}

func (h *harness) client(t *testing.T, userID, role string) *uploadclient.Client {
	return uploadclient.NewClient(h.ts.URL, h.token(t, userID, role), h.ts.Client())
}

func (h *harness) seed(t *testing.T) string {
	t.Helper()
	require.NoError(t, h.db.Create(&account.Customer{ID: "cust-1", Email: "c@example.com", Tier: admission.TierFree}).Error)
	require.NoError(t, h.db.Create(&account.Worker{ID: "work-1", Email: "w@example.com", MaxProjects: 3}).Error)
	require.NoError(t, h.db.Create(&account.Worker{ID: "work-2", Email: "w2@example.com", MaxProjects: 3}).Error)

	p, err := h.client(t, "cust-1", "customer").CreateProject(context.Background(), "Gearbox housing")
	require.NoError(t, err)
	return p.ID
}

func TestEndToEnd_UploadThenDownload(t *testing.T) {
	h := newHarness(t)
	projectID := h.seed(t)
	ctx := context.Background()

	customer := h.client(t, "cust-1", "customer")
	content := []byte(strings.Repeat("ISO-10303-21;", 4096))

	var fileIDs []string
	driver := uploadclient.NewDriver(customer, uploadclient.Options{
		ProjectID:  projectID,
		UserID:     "cust-1",
		Tier:       admission.TierFree,
		HTTPClient: h.ts.Client(),
		OnComplete: func(_, fileID string) { fileIDs = append(fileIDs, fileID) },
	})

	driver.Submit(ctx, []uploadclient.File{
		uploadclient.FromBytes("housing.step", content),
		uploadclient.FromBytes("notes.dwg", []byte("nope")),
	})

	files := driver.Files()
	require.Len(t, files, 2)
	assert.Equal(t, uploadclient.StatusComplete, files[0].Status, files[0].Error)
	assert.Equal(t, 100, files[0].Progress)
	assert.Equal(t, uploadclient.StatusError, files[1].Status)
	require.Len(t, fileIDs, 1)

	stored, ok := h.store.Object("cust-1/" + projectID + "/" + fileIDs[0] + "-housing.step")
	require.True(t, ok)
	assert.Equal(t, content, stored)

	listed, err := customer.ListFiles(ctx, projectID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "step", listed[0].FileType)
	assert.Equal(t, 1, listed[0].Version)
	require.NotNil(t, listed[0].ExpiresAt)

	link, err := customer.DownloadLink(ctx, fileIDs[0])
	require.NoError(t, err)
	assert.Equal(t, "housing.step", link.Filename)
	assert.Equal(t, 3600, link.ExpiresIn)

	resp, err := h.ts.Client().Get(link.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	got, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, content, got)
}

func TestEndToEnd_WorkerAccessFollowsAssignment(t *testing.T) {
	h := newHarness(t)
	projectID := h.seed(t)
	ctx := context.Background()

	customer := h.client(t, "cust-1", "customer")
	cred, err := customer.BeginUpload(ctx, uploadclient.BeginUploadRequest{
		Filename: "bracket.sldprt", Size: 10, ProjectID: projectID, UserID: "cust-1", Tier: "team",
	})
	require.NoError(t, err)
	assert.Nil(t, cred.ExpiresAt)

	worker := h.client(t, "work-1", "worker")
	_, err = worker.DownloadLink(ctx, cred.FileID)
	apiErr, ok := uploadclient.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)

	// Only admins can assign.
	assign := func(token string) int {
		r, err := http.NewRequest(http.MethodPost, h.ts.URL+"/api/v1/admin/assignments",
			strings.NewReader(`{"projectId":"`+projectID+`","workerId":"work-1"}`))
		require.NoError(t, err)
		r.Header.Set("Content-Type", "application/json")
		r.Header.Set("Authorization", "Bearer "+token)
		resp, err := h.ts.Client().Do(r)
		require.NoError(t, err)
		resp.Body.Close()
		return resp.StatusCode
	}
	assert.Equal(t, http.StatusForbidden, assign(h.token(t, "cust-1", "customer")))
	assert.Equal(t, http.StatusCreated, assign(h.token(t, "admin-1", "admin")))
	assert.Equal(t, http.StatusConflict, assign(h.token(t, "admin-1", "admin")))

	link, err := worker.DownloadLink(ctx, cred.FileID)
	require.NoError(t, err)
	assert.Equal(t, "bracket.sldprt", link.Filename)

	projects, err := worker.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, projectID, projects[0].ID)

	other := h.client(t, "work-2", "worker")
	_, err = other.DownloadLink(ctx, cred.FileID)
	apiErr, ok = uploadclient.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
}

func TestEndToEnd_Unauthenticated(t *testing.T) {
	h := newHarness(t)

	for _, path := range []string{"/api/v1/files/abc/download", "/api/v1/projects", "/api/v1/account"} {
		resp, err := h.ts.Client().Get(h.ts.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}

	resp, err := h.ts.Client().Post(h.ts.URL+"/api/v1/uploads", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestEndToEnd_RejectionWritesNothing(t *testing.T) {
	h := newHarness(t)
	projectID := h.seed(t)

	_, err := h.client(t, "cust-1", "customer").BeginUpload(context.Background(), uploadclient.BeginUploadRequest{
		Filename: "bracket.sldprt", Size: 200 * admission.MiB, ProjectID: projectID, UserID: "cust-1", Tier: "free",
	})
	apiErr, ok := uploadclient.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "100MB")

	var count int64
	require.NoError(t, h.db.Table("files").Count(&count).Error)
	assert.Zero(t, count)
}

func TestHealthAndMetrics(t *testing.T) {
	h := newHarness(t)

	resp, err := h.ts.Client().Get(h.ts.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = h.ts.Client().Get(h.ts.URL + "/metrics")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "cadportal_http_requests_total")
}
