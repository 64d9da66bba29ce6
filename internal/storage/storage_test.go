package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"school-management-api/internal/config"
	"school-management-api/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchiveKey(t *testing.T) {
	a := ArchiveKey(4, model.ImportAttendance)
	b := ArchiveKey(4, model.ImportAttendance)

	assert.True(t, strings.HasPrefix(a, "imports/4/attendance/"))
	assert.True(t, strings.HasSuffix(a, ".xlsx"))
	assert.NotEqual(t, a, b)
}

// fakeS3 records path-style PUTs in memory.
type fakeS3 struct {
	mu           sync.Mutex
	objects      map[string][]byte
	contentTypes map[string]string
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if r.Method != http.MethodPut {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	body, _ := io.ReadAll(r.Body)
	f.objects[r.URL.Path] = body
	f.contentTypes[r.URL.Path] = r.Header.Get("Content-Type")
	w.WriteHeader(http.StatusOK)
}

func newTestStorage(t *testing.T, handler http.Handler) *S3Storage {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.Config{}
	cfg.Storage.S3 = config.S3Config{
		Endpoint:  server.URL,
		AccessKey: "key",
		SecretKey: "secret",
		Bucket:    "uploads",
		Region:    "us-east-1",
	}

	s, err := NewS3Storage(cfg)
	require.NoError(t, err)
	return s
}

func TestS3StorageUpload(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{}, contentTypes: map[string]string{}}
	s := newTestStorage(t, fake)

	require.NoError(t, s.Upload(context.Background(), "imports/1/exams/a.xlsx", strings.NewReader("sheet")))

	assert.Equal(t, "sheet", string(fake.objects["/uploads/imports/1/exams/a.xlsx"]))
	assert.Equal(t, xlsxContentType, fake.contentTypes["/uploads/imports/1/exams/a.xlsx"])
}

func TestS3StorageUploadError(t *testing.T) {
	s := newTestStorage(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))

	err := s.Upload(context.Background(), "imports/1/exams/a.xlsx", strings.NewReader("sheet"))
	assert.Error(t, err)
}
