package objstore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/sfassess/internal/config"
)

type fakeClient struct {
	exists    bool
	existsErr error
	putErr    error

	made    []string
	objects map[string][]byte
	types   map[string]string
}

func (f *fakeClient) BucketExists(ctx context.Context, bucket string) (bool, error) {
	return f.exists, f.existsErr
}

func (f *fakeClient) MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error {
	f.made = append(f.made, bucket)
	f.exists = true
	return nil
}

func (f *fakeClient) PutObject(ctx context.Context, bucket, object string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	if f.putErr != nil {
		return minio.UploadInfo{}, f.putErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	if f.objects == nil {
		f.objects = map[string][]byte{}
		f.types = map[string]string{}
	}
	f.objects[bucket+"/"+object] = data
	f.types[bucket+"/"+object] = opts.ContentType
	return minio.UploadInfo{Bucket: bucket, Key: object, Size: int64(len(data))}, nil
}

func TestUpload_CreatesBucketOnce(t *testing.T) {
	fc := &fakeClient{}
	u := newUploader(fc, "reports", "assessments/", nil)
	ctx := context.Background()

	url, err := u.Upload(ctx, "a.xlsx", bytes.NewReader([]byte("xlsx")), 4, "application/x")
	require.NoError(t, err)
	assert.Equal(t, "s3://reports/assessments/a.xlsx", url)

	_, err = u.Upload(ctx, "b.xlsx", bytes.NewReader([]byte("b")), 1, "application/x")
	require.NoError(t, err)

	assert.Equal(t, []string{"reports"}, fc.made)
	assert.Equal(t, []byte("xlsx"), fc.objects["reports/assessments/a.xlsx"])
	assert.Equal(t, "application/x", fc.types["reports/assessments/a.xlsx"])
}

func TestUpload_Errors(t *testing.T) {
	boom := errors.New("boom")

	_, err := newUploader(&fakeClient{existsErr: boom}, "b", "", nil).Upload(context.Background(), "x", bytes.NewReader(nil), 0, "")
	assert.ErrorIs(t, err, boom)

	_, err = newUploader(&fakeClient{exists: true, putErr: boom}, "b", "", nil).Upload(context.Background(), "x", bytes.NewReader(nil), 0, "")
	assert.ErrorIs(t, err, boom)
}

func TestNew(t *testing.T) {
	_, err := New(config.StorageConfig{}, nil)
	assert.ErrorIs(t, err, ErrDisabled)

	u, err := New(config.StorageConfig{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "s", Bucket: "b"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "b", u.bucket)

	var _ Uploader = u
}
