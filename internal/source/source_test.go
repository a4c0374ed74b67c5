package source

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loaneda/internal/config"
	apperrors "loaneda/internal/errors"
)

const csvBody = "SK_ID_CURR,TARGET\n1,0\n2,1\n"

func TestLocalOpener(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "application_train.csv")
	require.NoError(t, os.WriteFile(path, []byte(csvBody), 0644))

	op := NewLocalOpener(nil)

	rc, meta, err := op.Open(context.Background(), path)
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, csvBody, string(data))
	assert.Equal(t, "file", meta.Source)
	assert.Equal(t, int64(len(csvBody)), meta.Size)
	assert.Equal(t, "application_train.csv", meta.Name())

	_, _, err = op.Open(context.Background(), filepath.Join(dir, "missing.csv"))
	assert.True(t, errors.Is(err, &apperrors.AppError{Type: apperrors.ErrTypeNotFound}))

	_, _, err = op.Open(context.Background(), dir)
	assert.True(t, errors.Is(err, &apperrors.AppError{Type: apperrors.ErrTypeValidation}))
}

func TestHTTPOpener(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/data/train.csv":
			w.Header().Set("Content-Type", "text/csv")
			io.WriteString(w, csvBody)
		case "/broken.csv":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	op := NewHTTPOpener(srv.Client(), nil)

	tests := []struct {
		name     string
		path     string
		wantType apperrors.ErrorType
	}{
		{name: "ok", path: "/data/train.csv"},
		{name: "not found", path: "/nope.csv", wantType: apperrors.ErrTypeNotFound},
		{name: "server error", path: "/broken.csv", wantType: apperrors.ErrTypeNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc, meta, err := op.Open(context.Background(), srv.URL+tt.path)
			if tt.wantType != "" {
				require.Error(t, err)
				errType, _ := apperrors.TypeOf(err)
				assert.Equal(t, tt.wantType, errType)
				return
			}
			require.NoError(t, err)
			defer rc.Close()

			data, err := io.ReadAll(rc)
			require.NoError(t, err)
			assert.Equal(t, csvBody, string(data))
			assert.Equal(t, "text/csv", meta.ContentType)
			assert.Equal(t, "train.csv", meta.Name())
		})
	}
}

func TestParseS3URL(t *testing.T) {
	tests := []struct {
		raw        string
		wantBucket string
		wantKey    string
		wantErr    bool
	}{
		{raw: "s3://datasets/home-credit/application_train.csv", wantBucket: "datasets", wantKey: "home-credit/application_train.csv"},
		{raw: "s3://datasets/a/../b.csv", wantBucket: "datasets", wantKey: "b.csv"},
		{raw: "s3://datasets/", wantErr: true},
		{raw: "s3:///key.csv", wantErr: true},
		{raw: "https://datasets/key.csv", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			bucket, key, err := ParseS3URL(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantBucket, bucket)
			assert.Equal(t, tt.wantKey, key)
		})
	}
}

type fakeS3 struct {
	statErr error
	stats   []string
}

func (f *fakeS3) StatObject(_ context.Context, bucket, key string, _ minio.StatObjectOptions) (minio.ObjectInfo, error) {
	f.stats = append(f.stats, bucket+"/"+key)
	return minio.ObjectInfo{}, f.statErr
}

func (f *fakeS3) GetObject(context.Context, string, string, minio.GetObjectOptions) (*minio.Object, error) {
	return nil, errors.New("unexpected get")
}

func TestS3Opener_StatErrors(t *testing.T) {
	fake := &fakeS3{statErr: minio.ErrorResponse{Code: "NoSuchKey", Message: "missing"}}
	op := NewS3Opener(fake, nil)

	_, _, err := op.Open(context.Background(), "s3://datasets/train.csv")
	assert.True(t, errors.Is(err, &apperrors.AppError{Type: apperrors.ErrTypeNotFound}))
	assert.Equal(t, []string{"datasets/train.csv"}, fake.stats)

	fake.statErr = errors.New("access denied")
	_, _, err = op.Open(context.Background(), "s3://datasets/train.csv")
	assert.True(t, errors.Is(err, &apperrors.AppError{Type: apperrors.ErrTypeStorage}))
}

func TestCompound_Dispatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "local.csv")
	require.NoError(t, os.WriteFile(path, []byte(csvBody), 0644))

	fake := &fakeS3{statErr: errors.New("offline")}
	c := NewCompound(NewLocalOpener(nil), nil, NewS3Opener(fake, nil))

	rc, meta, err := c.Open(context.Background(), "file://"+path)
	require.NoError(t, err)
	rc.Close()
	assert.Equal(t, "file", meta.Source)

	_, _, err = c.Open(context.Background(), "s3://bucket/key.csv")
	assert.Error(t, err)
	assert.Equal(t, []string{"bucket/key.csv"}, fake.stats)

	_, _, err = c.Open(context.Background(), "https://example.com/x.csv")
	errType, _ := apperrors.TypeOf(err)
	assert.Equal(t, apperrors.ErrTypeConfig, errType)
}

func TestFromConfig(t *testing.T) {
	cfg := config.Default()

	c, err := FromConfig(cfg, nil)
	require.NoError(t, err)
	assert.NotNil(t, c.Local)
	assert.NotNil(t, c.HTTP)
	assert.Nil(t, c.S3)

	cfg.Storage.Endpoint = "localhost:9000"
	c, err = FromConfig(cfg, nil)
	require.NoError(t, err)
	assert.NotNil(t, c.S3)
}

func TestLocalPath(t *testing.T) {
	tests := []struct {
		location string
		want     string
		local    bool
	}{
		{"data/application_train.csv", "data/application_train.csv", true},
		{"file:///tmp/train.csv", "/tmp/train.csv", true},
		{" https://example.com/train.csv", "", false},
		{"s3://datasets/train.csv", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			got, ok := LocalPath(tt.location)
			assert.Equal(t, tt.local, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
