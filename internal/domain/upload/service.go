package upload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"cadportal/internal/blobstore"
	"cadportal/internal/domain/admission"
	"cadportal/internal/domain/project"
)

// ProjectAccess decides whether a user may read or write a project's files.
type ProjectAccess interface {
	CanAccess(ctx context.Context, projectID, userID string) (bool, error)
}

// Service is the upload coordinator. Calls share no mutable state apart from
// the record cache, so any number may run at once.
type Service struct {
	repo     Repository
	store    blobstore.Store
	projects ProjectAccess
	cache    *RecordCache
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(repo Repository, store blobstore.Store, projects ProjectAccess, cache *RecordCache, logger *slog.Logger) *Service {
	if cache == nil {
		cache = NewRecordCache(0, 10*time.Minute)
	}
	return &Service{
		repo:     repo,
		store:    store,
		projects: projects,
		cache:    cache,
		logger:   logger.With(slog.String("component", "upload_service")),
		now:      time.Now,
	}
}

// BeginUpload admits the file, mints its id, signs a write URL for its
// storage key and records the metadata row. A rejected request leaves no
// trace: no id, no record and no credential.
func (s *Service) BeginUpload(ctx context.Context, req UploadRequest) (*UploadCredential, error) {
	desc := admission.FileDescriptor{Name: req.Filename, Size: req.Size}
	if err := admission.Evaluate(desc, req.Tier); err != nil {
		if rej, ok := admission.AsRejection(err); ok {
			rejectionsTotal.WithLabelValues(string(rej.Reason)).Inc()
		}
		return nil, err
	}

	fileID := uuid.NewString()
	key := StoragePath(req.UserID, req.ProjectID, fileID, req.Filename)

	contentType := req.ContentType
	if contentType == "" {
		contentType = admission.ContentTypeFor(req.Filename)
	}

	now := s.now().UTC()
	uploadURL, err := s.store.PresignPut(ctx, key, contentType, req.Size, UploadURLTTL)
	if err != nil {
		uploadFailures.WithLabelValues("credential").Inc()
		return nil, fmt.Errorf("%w: %w", ErrCredentialIssuance, err)
	}

	rec := &FileRecord{
		ID:          fileID,
		ProjectID:   req.ProjectID,
		Filename:    req.Filename,
		FileType:    admission.FileType(req.Filename),
		SizeBytes:   req.Size,
		StoragePath: key,
		ContentType: contentType,
		Version:     initialVersion,
		CreatedAt:   now,
		CreatedBy:   req.UserID,
		ExpiresAt:   req.Tier.ExpiresAt(now),
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		uploadFailures.WithLabelValues("metadata").Inc()
		if errors.Is(err, ErrFileIDCollision) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrMetadataPersistence, err)
	}

	credentialsIssued.WithLabelValues(string(req.Tier)).Inc()
	bytesAuthorized.Add(float64(req.Size))
	s.logger.Info("upload authorized",
		slog.String("file_id", fileID),
		slog.String("project_id", req.ProjectID),
		slog.String("user_id", req.UserID),
		slog.String("tier", string(req.Tier)),
		slog.Int64("size", req.Size),
	)

	return &UploadCredential{
		FileID:          fileID,
		UploadURL:       uploadURL,
		ContentType:     contentType,
		UploadExpiresAt: now.Add(UploadURLTTL),
		ExpiresAt:       rec.ExpiresAt,
	}, nil
}

// AuthorizeProject returns nil when userID may upload to or list projectID.
func (s *Service) AuthorizeProject(ctx context.Context, projectID, userID string) error {
	ok, err := s.projects.CanAccess(ctx, projectID, userID)
	if errors.Is(err, project.ErrProjectNotFound) {
		return ErrProjectNotFound
	}
	if err != nil {
		return err
	}
	if !ok {
		return ErrAccessDenied
	}
	return nil
}

// GetDownload signs a read URL for a file the caller can see.
func (s *Service) GetDownload(ctx context.Context, fileID, callerID string) (*DownloadLink, error) {
	rec, err := s.record(ctx, fileID)
	if err != nil {
		if errors.Is(err, ErrFileNotFound) {
			downloadsTotal.WithLabelValues("not_found").Inc()
		}
		return nil, err
	}

	if err := s.AuthorizeProject(ctx, rec.ProjectID, callerID); err != nil {
		// A record whose project vanished is not readable by anyone.
		if errors.Is(err, ErrProjectNotFound) {
			err = ErrAccessDenied
		}
		if errors.Is(err, ErrAccessDenied) {
			downloadsTotal.WithLabelValues("denied").Inc()
		}
		return nil, err
	}

	url, err := s.store.PresignGet(ctx, rec.StoragePath, DownloadURLTTL)
	if err != nil {
		downloadsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: %w", ErrCredentialIssuance, err)
	}

	downloadsTotal.WithLabelValues("ok").Inc()
	return &DownloadLink{
		URL:       url,
		Filename:  rec.Filename,
		ExpiresIn: int(DownloadURLTTL / time.Second),
	}, nil
}

// ListProjectFiles returns a project's file records, newest first.
func (s *Service) ListProjectFiles(ctx context.Context, projectID, callerID string) ([]*FileRecord, error) {
	if err := s.AuthorizeProject(ctx, projectID, callerID); err != nil {
		return nil, err
	}
	return s.repo.ListByProject(ctx, projectID)
}

func (s *Service) record(ctx context.Context, fileID string) (*FileRecord, error) {
	if rec, ok := s.cache.Get(fileID); ok {
		return rec, nil
	}
	rec, err := s.repo.GetByID(ctx, fileID)
	if err != nil {
		return nil, err
	}
	s.cache.Add(rec)
	return rec, nil
}
