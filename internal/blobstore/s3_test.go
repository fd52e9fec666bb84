package blobstore

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestS3Store(t *testing.T) *S3Store {
	t.Helper()
	store, err := NewS3Store(context.Background(), S3Config{
		AccessKey:    "AKIDEXAMPLE",
		SecretKey:    "wJalrXUtnFEMI/K7MDENG+bPxRfiCYEXAMPLEKEY",
		Region:       "us-east-1",
		Bucket:       "cad-files",
		Endpoint:     "http://localhost:9000",
		UsePathStyle: true,
	})
	require.NoError(t, err)
	return store
}

func TestS3Store_PresignPut(t *testing.T) {
	store := newTestS3Store(t)

	raw, err := store.PresignPut(context.Background(), "u1/p1/f1-bracket.sldprt", "application/octet-stream", 1024, time.Hour)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000", u.Host)
	assert.Equal(t, "/cad-files/u1/p1/f1-bracket.sldprt", u.Path)

	q := u.Query()
	assert.Equal(t, "3600", q.Get("X-Amz-Expires"))
	assert.NotEmpty(t, q.Get("X-Amz-Signature"))
	assert.Contains(t, q.Get("X-Amz-Credential"), "AKIDEXAMPLE")
}

func TestS3Store_PresignGet(t *testing.T) {
	store := newTestS3Store(t)

	raw, err := store.PresignGet(context.Background(), "u1/p1/f1-drawing.pdf", time.Hour)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "/cad-files/u1/p1/f1-drawing.pdf", u.Path)
	assert.Equal(t, "3600", u.Query().Get("X-Amz-Expires"))
}

func TestS3Store_Validation(t *testing.T) {
	_, err := NewS3Store(context.Background(), S3Config{})
	assert.Error(t, err)

	store := newTestS3Store(t)
	_, err = store.PresignPut(context.Background(), "", "application/pdf", 1, time.Hour)
	assert.ErrorIs(t, err, ErrInvalidKey)
	_, err = store.PresignGet(context.Background(), "k", 0)
	assert.ErrorIs(t, err, ErrInvalidTTL)
}
