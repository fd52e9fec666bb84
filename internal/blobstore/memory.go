package blobstore

import (
	"context"
	"io"
	"net/http"
	"path"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-process object store for local development and tests.
// It hands out URLs under BaseURL and serves them itself, enforcing the same
// rules a real bucket applies to presigned requests: expiry, method, declared
// content type and exact length.
type MemoryStore struct {
	mu      sync.Mutex
	baseURL string
	now     func() time.Time
	grants  map[string]grant
	objects map[string]object
}

type grant struct {
	key           string
	method        string
	contentType   string
	contentLength int64
	expiresAt     time.Time
}

type object struct {
	data        []byte
	contentType string
}

func NewMemoryStore(baseURL string) *MemoryStore {
	return &MemoryStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		now:     time.Now,
		grants:  make(map[string]grant),
		objects: make(map[string]object),
	}
}

// SetBaseURL changes the prefix of URLs issued from now on.
func (m *MemoryStore) SetBaseURL(baseURL string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.baseURL = strings.TrimRight(baseURL, "/")
}

func (m *MemoryStore) PresignPut(_ context.Context, key, contentType string, contentLength int64, ttl time.Duration) (string, error) {
	if err := validate(key, ttl); err != nil {
		return "", err
	}
	return m.issue(grant{
		key:           key,
		method:        http.MethodPut,
		contentType:   contentType,
		contentLength: contentLength,
		expiresAt:     m.now().Add(ttl),
	}), nil
}

func (m *MemoryStore) PresignGet(_ context.Context, key string, ttl time.Duration) (string, error) {
	if err := validate(key, ttl); err != nil {
		return "", err
	}
	return m.issue(grant{
		key:       key,
		method:    http.MethodGet,
		expiresAt: m.now().Add(ttl),
	}), nil
}

func (m *MemoryStore) issue(g grant) string {
	token := uuid.NewString()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.grants[token] = g
	return m.baseURL + "/" + token
}

// Object returns the stored bytes for key.
func (m *MemoryStore) Object(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj, ok := m.objects[key]
	return obj.data, ok
}

// ServeHTTP handles requests to issued URLs. The last path segment is the grant token.
func (m *MemoryStore) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := path.Base(r.URL.Path)

	m.mu.Lock()
	g, ok := m.grants[token]
	m.mu.Unlock()

	if !ok || m.now().After(g.expiresAt) {
		http.Error(w, "request has expired or is not signed", http.StatusForbidden)
		return
	}
	if r.Method != g.method {
		http.Error(w, "signature does not match method", http.StatusForbidden)
		return
	}

	switch g.method {
	case http.MethodPut:
		m.servePut(w, r, g)
	case http.MethodGet:
		m.serveGet(w, g)
	}
}

func (m *MemoryStore) servePut(w http.ResponseWriter, r *http.Request, g grant) {
	if r.Header.Get("Content-Type") != g.contentType {
		http.Error(w, "content type does not match signature", http.StatusForbidden)
		return
	}
	if r.ContentLength != g.contentLength {
		http.Error(w, "content length does not match signature", http.StatusForbidden)
		return
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, g.contentLength+1))
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}
	if int64(len(data)) != g.contentLength {
		http.Error(w, "incomplete body", http.StatusBadRequest)
		return
	}

	m.mu.Lock()
	m.objects[g.key] = object{data: data, contentType: g.contentType}
	m.mu.Unlock()

	w.WriteHeader(http.StatusOK)
}

func (m *MemoryStore) serveGet(w http.ResponseWriter, g grant) {
	m.mu.Lock()
	obj, ok := m.objects[g.key]
	m.mu.Unlock()

	if !ok {
		http.Error(w, "no such key", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", obj.contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(obj.data)))
	_, _ = w.Write(obj.data)
}
