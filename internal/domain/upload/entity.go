package upload

import (
	"time"

	"cadportal/internal/domain/admission"
)

const (
	// UploadURLTTL bounds how long a write credential stays valid.
	UploadURLTTL = time.Hour
	// DownloadURLTTL bounds how long a read credential stays valid.
	DownloadURLTTL = time.Hour

	initialVersion = 1
)

// FileRecord is the metadata row written when an upload is authorized. It is
// never updated afterwards and does not prove the object exists.
type FileRecord struct {
	ID          string     `gorm:"column:id;primaryKey" json:"id"`
	ProjectID   string     `gorm:"column:project_id;index" json:"projectId"`
	Filename    string     `gorm:"column:filename" json:"filename"`
	FileType    string     `gorm:"column:file_type" json:"fileType"`
	SizeBytes   int64      `gorm:"column:size_bytes" json:"sizeBytes"`
	StoragePath string     `gorm:"column:storage_path" json:"-"`
	ContentType string     `gorm:"column:content_type" json:"contentType"`
	Version     int        `gorm:"column:version" json:"version"`
	CreatedAt   time.Time  `gorm:"column:created_at" json:"createdAt"`
	CreatedBy   string     `gorm:"column:created_by" json:"createdBy"`
	ExpiresAt   *time.Time `gorm:"column:expires_at" json:"expiresAt"`
}

func (FileRecord) TableName() string { return "files" }

// UploadRequest is one client's ask to upload one file.
type UploadRequest struct {
	ProjectID   string
	UserID      string
	Tier        admission.Tier
	Filename    string
	Size        int64
	ContentType string
}

// UploadCredential lets the client PUT the file bytes straight to the blob
// store. It is never persisted.
type UploadCredential struct {
	FileID          string     `json:"fileId"`
	UploadURL       string     `json:"uploadUrl"`
	ContentType     string     `json:"contentType"`
	UploadExpiresAt time.Time  `json:"uploadExpiresAt"`
	ExpiresAt       *time.Time `json:"expiresAt"`
}

type DownloadLink struct {
	URL       string `json:"downloadUrl"`
	Filename  string `json:"filename"`
	ExpiresIn int    `json:"expiresIn"`
}

// StoragePath is the object key for a file. Scoping by user and project keeps
// keys unique without coordination since fileID is random.
func StoragePath(userID, projectID, fileID, filename string) string {
	return userID + "/" + projectID + "/" + fileID + "-" + filename
}
