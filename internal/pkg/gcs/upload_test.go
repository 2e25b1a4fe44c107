package gcs

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"loan-approval-metrics/internal/pkg/config"

	"cloud.google.com/go/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

const testBucketName = "test-bucket"

func newFakeGCS(t *testing.T, handler http.Handler) *storage.Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := storage.NewClient(
		context.Background(),
		option.WithoutAuthentication(),
		option.WithEndpoint(server.URL),
		option.WithHTTPClient(server.Client()),
	)
	require.NoError(t, err)
	return client
}

func writeReport(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "approval_time_report_2024-05-01.csv")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestNewGCSClient(t *testing.T) {
	client, err := NewGCSClient(context.Background(),
		config.GCSConfig{BucketName: testBucketName, FolderName: "reports"},
		option.WithoutAuthentication(),
	)
	require.NoError(t, err)
	assert.Equal(t, testBucketName, client.BucketName)
	assert.Equal(t, "reports", client.FolderName)
	assert.NoError(t, client.Close())
}

func TestGCSClientCloseNilSafe(t *testing.T) {
	gcsClient := &GCSClient{Client: nil, BucketName: testBucketName}

	assert.NotPanics(t, func() {
		assert.NoError(t, gcsClient.Close())
	})
}

func TestUploadSuccess(t *testing.T) {
	var (
		mu       sync.Mutex
		body     strings.Builder
		rawQuery string
	)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		rawQuery = r.URL.RawQuery
		data, _ := io.ReadAll(r.Body)
		body.Write(data)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"name":"reports/approval_time_report_2024-05-01.csv","bucket":"test-bucket"}`))
	})

	gcsClient := &GCSClient{
		Client:     newFakeGCS(t, handler),
		BucketName: testBucketName,
		FolderName: "reports",
	}

	reportPath := writeReport(t, "LoanId,Status\n1,approved\n")
	err := gcsClient.Upload(context.Background(), reportPath, "approval_time_report_2024-05-01.csv")

	require.NoError(t, err)
	mu.Lock()
	defer mu.Unlock()
	assert.Contains(t, body.String(), "1,approved")
	assert.Contains(t, body.String(), "reports/approval_time_report_2024-05-01.csv")
	assert.Contains(t, rawQuery, "ifGenerationMatch=0")
}

func TestUploadPreconditionFailed(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPreconditionFailed)
	})

	gcsClient := &GCSClient{
		Client:     newFakeGCS(t, handler),
		BucketName: testBucketName,
	}

	err := gcsClient.Upload(context.Background(), writeReport(t, "x"), "dup.csv")
	assert.Error(t, err)
}

func TestUploadServerError(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	gcsClient := &GCSClient{
		Client:     newFakeGCS(t, handler),
		BucketName: testBucketName,
	}

	err := gcsClient.Upload(context.Background(), writeReport(t, "x"), "bad.csv")
	assert.Error(t, err)
}

func TestUploadMissingLocalFile(t *testing.T) {
	gcsClient := &GCSClient{BucketName: testBucketName}

	err := gcsClient.Upload(context.Background(), filepath.Join(t.TempDir(), "missing.csv"), "missing.csv")
	assert.ErrorContains(t, err, "failed to open report file")
}
