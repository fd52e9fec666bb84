package upload

import "errors"

var (
	ErrMetadataPersistence = errors.New("failed to persist file metadata")
	ErrCredentialIssuance  = errors.New("failed to issue storage credential")
	ErrFileIDCollision     = errors.New("file id already exists")
	ErrFileNotFound        = errors.New("file not found")
	ErrAccessDenied        = errors.New("access denied")
	ErrProjectNotFound     = errors.New("project not found")
)
