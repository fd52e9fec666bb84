// Package uploadclient talks to the portal API and drives browser-style
// uploads: ask the API for a write URL, then PUT the bytes straight to the
// blob store.
package uploadclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// APIError is a non-2xx answer from the portal API.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api: %d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("api: %d: %s", e.StatusCode, e.Message)
}

type BeginUploadRequest struct {
	Filename    string `json:"filename"`
	Size        int64  `json:"size"`
	ProjectID   string `json:"projectId"`
	UserID      string `json:"userId"`
	Tier        string `json:"tier,omitempty"`
	ContentType string `json:"contentType,omitempty"`
}

type Credential struct {
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

type Account struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	Tier           string `json:"tier"`
	MaxUploadBytes int64  `json:"maxUploadBytes"`
	RetentionDays  *int   `json:"retentionDays"`
}

type Project struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	CustomerID string    `json:"customer_id"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

type FileInfo struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"projectId"`
	Filename    string     `json:"filename"`
	FileType    string     `json:"fileType"`
	SizeBytes   int64      `json:"sizeBytes"`
	ContentType string     `json:"contentType"`
	Version     int        `json:"version"`
	CreatedAt   time.Time  `json:"createdAt"`
	CreatedBy   string     `json:"createdBy"`
	ExpiresAt   *time.Time `json:"expiresAt"`
}

// Client is a thin JSON client for the portal API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    httpClient,
	}
}

func (c *Client) BeginUpload(ctx context.Context, req BeginUploadRequest) (*Credential, error) {
	var cred Credential
	if err := c.do(ctx, http.MethodPost, "/api/v1/uploads", req, &cred); err != nil {
		return nil, err
	}
	return &cred, nil
}

func (c *Client) DownloadLink(ctx context.Context, fileID string) (*DownloadLink, error) {
	var link DownloadLink
	if err := c.do(ctx, http.MethodGet, "/api/v1/files/"+fileID+"/download", nil, &link); err != nil {
		return nil, err
	}
	return &link, nil
}

func (c *Client) Account(ctx context.Context) (*Account, error) {
	var acc Account
	if err := c.doEnvelope(ctx, http.MethodGet, "/api/v1/account", nil, &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}

func (c *Client) ListProjects(ctx context.Context) ([]Project, error) {
	var projects []Project
	if err := c.doEnvelope(ctx, http.MethodGet, "/api/v1/projects", nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (c *Client) CreateProject(ctx context.Context, name string) (*Project, error) {
	var p Project
	if err := c.doEnvelope(ctx, http.MethodPost, "/api/v1/projects", map[string]string{"name": name}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) ListFiles(ctx context.Context, projectID string) ([]FileInfo, error) {
	var files []FileInfo
	if err := c.doEnvelope(ctx, http.MethodGet, "/api/v1/projects/"+projectID+"/files", nil, &files); err != nil {
		return nil, err
	}
	return files, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) doEnvelope(ctx context.Context, method, path string, in, out any) error {
	var env envelope
	if err := c.do(ctx, method, path, in, &env); err != nil {
		return err
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	return json.Unmarshal(env.Data, out)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp.StatusCode, raw)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeAPIError understands both the flat {"error": "..."} body of the
// upload endpoints and the {"error": {"code", "message"}} envelope.
func decodeAPIError(status int, raw []byte) error {
	apiErr := &APIError{StatusCode: status, Message: http.StatusText(status)}

	var probe struct {
		Error json.RawMessage `json:"error"`
	}
	if json.Unmarshal(raw, &probe) != nil || len(probe.Error) == 0 {
		return apiErr
	}

	var flat string
	if json.Unmarshal(probe.Error, &flat) == nil {
		apiErr.Message = flat
		return apiErr
	}
	var nested struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if json.Unmarshal(probe.Error, &nested) == nil && nested.Message != "" {
		apiErr.Code = nested.Code
		apiErr.Message = nested.Message
	}
	return apiErr
}

// AsAPIError unwraps err to an *APIError.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
