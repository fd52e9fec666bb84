package project

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cadportal/internal/database"
)

type workerSet map[string]bool

func (w workerSet) WorkerExists(_ context.Context, id string) (bool, error) {
	return w[id], nil
}

func newTestService(t *testing.T, workers workerSet) (*Service, Repository) {
	t.Helper()

	db, err := database.OpenInMemory(uuid.NewString())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, &Project{}, &Assignment{}))
	t.Cleanup(func() { _ = database.Close(db) })

	repo := NewRepository(db)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repo, workers, logger), repo
}

func TestCreateProject_Validation(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	_, err := svc.CreateProject(ctx, "c1", "   ")
	assert.ErrorIs(t, err, ErrInvalidName)

	long := make([]rune, maxNameLength+1)
	for i := range long {
		long[i] = 'a'
	}
	_, err = svc.CreateProject(ctx, "c1", string(long))
	assert.ErrorIs(t, err, ErrInvalidName)

	p, err := svc.CreateProject(ctx, "c1", "  Bracket assembly ")
	require.NoError(t, err)
	assert.Equal(t, "Bracket assembly", p.Name)
	assert.Equal(t, StatusActive, p.Status)
	assert.NotEmpty(t, p.ID)
}

func TestCanAccess(t *testing.T) {
	svc, repo := newTestService(t, workerSet{"w1": true, "w2": true})
	ctx := context.Background()

	p, err := svc.CreateProject(ctx, "owner", "Gearbox")
	require.NoError(t, err)

	ok, err := svc.CanAccess(ctx, p.ID, "owner")
	require.NoError(t, err)
	assert.True(t, ok, "owner always has access")

	ok, err = svc.CanAccess(ctx, p.ID, "w1")
	require.NoError(t, err)
	assert.False(t, ok, "unassigned worker has no access")

	_, err = svc.AssignWorker(ctx, AssignRequest{ProjectID: p.ID, WorkerID: "w1"}, "admin")
	require.NoError(t, err)

	ok, err = svc.CanAccess(ctx, p.ID, "w1")
	require.NoError(t, err)
	assert.True(t, ok)

	// A completed assignment no longer grants access.
	require.NoError(t, repo.CreateAssignment(ctx, &Assignment{
		ID: uuid.NewString(), ProjectID: p.ID, WorkerID: "w2", AssignedBy: "admin",
		Status: AssignmentCompleted, CreatedAt: time.Now(),
	}))
	ok, err = svc.CanAccess(ctx, p.ID, "w2")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = svc.CanAccess(ctx, "missing", "owner")
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestAssignWorker_Errors(t *testing.T) {
	svc, _ := newTestService(t, workerSet{"w1": true})
	ctx := context.Background()

	p, err := svc.CreateProject(ctx, "owner", "Housing")
	require.NoError(t, err)

	_, err = svc.AssignWorker(ctx, AssignRequest{ProjectID: p.ID, WorkerID: "ghost"}, "admin")
	assert.ErrorIs(t, err, ErrWorkerNotFound)

	_, err = svc.AssignWorker(ctx, AssignRequest{ProjectID: "missing", WorkerID: "w1"}, "admin")
	assert.ErrorIs(t, err, ErrProjectNotFound)

	_, err = svc.AssignWorker(ctx, AssignRequest{ProjectID: p.ID}, "admin")
	assert.ErrorIs(t, err, ErrInvalidAssignment)

	a, err := svc.AssignWorker(ctx, AssignRequest{ProjectID: p.ID, WorkerID: "w1"}, "admin")
	require.NoError(t, err)
	assert.Equal(t, AssignmentAssigned, a.Status)
	assert.Equal(t, "admin", a.AssignedBy)

	_, err = svc.AssignWorker(ctx, AssignRequest{ProjectID: p.ID, WorkerID: "w1"}, "admin")
	assert.ErrorIs(t, err, ErrAlreadyAssigned)

	assignments, err := svc.ListAssignments(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, assignments, 1)
}

func TestListProjects_ByRole(t *testing.T) {
	svc, _ := newTestService(t, workerSet{"w1": true})
	ctx := context.Background()

	p1, err := svc.CreateProject(ctx, "c1", "One")
	require.NoError(t, err)
	_, err = svc.CreateProject(ctx, "c1", "Two")
	require.NoError(t, err)
	_, err = svc.CreateProject(ctx, "c2", "Other")
	require.NoError(t, err)

	own, err := svc.ListProjects(ctx, "c1", "customer")
	require.NoError(t, err)
	assert.Len(t, own, 2)

	_, err = svc.AssignWorker(ctx, AssignRequest{ProjectID: p1.ID, WorkerID: "w1"}, "admin")
	require.NoError(t, err)

	assigned, err := svc.ListProjects(ctx, "w1", "worker")
	require.NoError(t, err)
	require.Len(t, assigned, 1)
	assert.Equal(t, p1.ID, assigned[0].ID)
}

func TestGetProject_AccessRules(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	p, err := svc.CreateProject(ctx, "c1", "Private")
	require.NoError(t, err)

	_, err = svc.GetProject(ctx, p.ID, "c2", "customer")
	assert.ErrorIs(t, err, ErrAccessDenied)

	got, err := svc.GetProject(ctx, p.ID, "root", "admin")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	_, err = svc.GetProject(ctx, "missing", "c1", "customer")
	assert.ErrorIs(t, err, ErrProjectNotFound)
}
