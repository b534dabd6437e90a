package filestore

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/branchsync/internal/common"
	"github.com/dmitrijs2005/branchsync/internal/credentials"
	"github.com/dmitrijs2005/branchsync/internal/logging"
	"github.com/dmitrijs2005/branchsync/internal/models"
)

// fakeObjectStore is an in-memory bucket behind the objectAPI seam.
type fakeObjectStore struct {
	objects map[string][]byte

	putErr error
	getErr error

	putCalls  int
	listCalls int
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: make(map[string][]byte)}
}

func (f *fakeObjectStore) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.putCalls++
	if f.putErr != nil {
		return nil, f.putErr
	}
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[*in.Key] = b
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjectStore) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	b, ok := f.objects[*in.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(b))}, nil
}

func (f *fakeObjectStore) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.listCalls++
	out := &s3.ListObjectsV2Output{}
	for k := range f.objects {
		if in.Prefix == nil || strings.HasPrefix(k, *in.Prefix) {
			key := k
			out.Contents = append(out.Contents, types.Object{Key: &key})
		}
	}
	return out, nil
}

func (f *fakeObjectStore) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, *in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func installFake(t *testing.T, fake *fakeObjectStore) {
	t.Helper()
	origLoad := loadDefaultAWSConfig
	origNew := newObjectClient
	loadDefaultAWSConfig = func(context.Context, ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, nil
	}
	newObjectClient = func(aws.Config, ...func(*s3.Options)) objectAPI {
		return fake
	}
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newObjectClient = origNew
	})
}

type mapState struct {
	values map[string]string
}

func (m *mapState) State(_ context.Context, key string) (string, bool, error) {
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *mapState) SetState(_ context.Context, key, value string) error {
	m.values[key] = value
	return nil
}

func (m *mapState) DeleteState(_ context.Context, key string) error {
	delete(m.values, key)
	return nil
}

func configuredCreds(t *testing.T) *credentials.Store {
	t.Helper()
	ctx := context.Background()
	s := credentials.New(&mapState{values: make(map[string]string)})
	require.NoError(t, s.Set(ctx, credentials.BackendFile, credentials.FieldAccessKey, "AK"))
	require.NoError(t, s.Set(ctx, credentials.BackendFile, credentials.FieldSecretKey, "SK"))
	require.NoError(t, s.Set(ctx, credentials.BackendFile, credentials.FieldBucket, "pos-data"))
	require.NoError(t, s.Set(ctx, credentials.BackendFile, credentials.FieldEndpoint, "https://files.example.com"))
	return s
}

type stubSource struct {
	operational *models.OperationalData
	stock       []models.StockLevel
	master      *models.MasterData
	full        *models.FullSnapshot

	replaced *models.MasterData
}

func (s *stubSource) AllOperational(context.Context) (*models.OperationalData, error) {
	return s.operational, nil
}

func (s *stubSource) StockLevels(context.Context) ([]models.StockLevel, error) {
	return s.stock, nil
}

func (s *stubSource) MasterData(context.Context) (*models.MasterData, error) {
	return s.master, nil
}

func (s *stubSource) ReplaceMasterData(_ context.Context, m *models.MasterData) error {
	s.replaced = m
	return nil
}

func (s *stubSource) ExportFullSnapshot(context.Context) (*models.FullSnapshot, error) {
	return s.full, nil
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))
}

func newTestClient(t *testing.T, fake *fakeObjectStore, source *stubSource) *Client {
	t.Helper()
	installFake(t, fake)
	return NewClient(configuredCreds(t), source, "b1", testLogger())
}

func TestUploadBranchSnapshotNotConfigured(t *testing.T) {
	fake := newFakeObjectStore()
	installFake(t, fake)

	creds := credentials.New(&mapState{values: make(map[string]string)})
	c := NewClient(creds, &stubSource{}, "b1", testLogger())

	assert.False(t, c.Configured(context.Background()))
	err := c.UploadBranchSnapshot(context.Background())
	assert.ErrorIs(t, err, common.ErrNotConfigured)
	assert.Zero(t, fake.putCalls, "no remote call without complete credentials")
}

func TestUploadBranchSnapshotOverwrites(t *testing.T) {
	fake := newFakeObjectStore()
	source := &stubSource{
		operational: &models.OperationalData{Transactions: []models.Transaction{{ID: "t1"}}},
		stock:       []models.StockLevel{{ItemID: "p1", Name: "Coffee", Quantity: 6}},
	}
	c := newTestClient(t, fake, source)
	ctx := context.Background()

	require.NoError(t, c.UploadBranchSnapshot(ctx))
	require.NoError(t, c.UploadBranchSnapshot(ctx))

	// one object per branch id, fully overwritten each push
	assert.Len(t, fake.objects, 1)

	raw := fake.objects["branch_data/branch_data_b1.json"]
	require.NotNil(t, raw)

	var snap models.BranchSnapshot
	require.NoError(t, json.Unmarshal(raw, &snap))
	assert.Equal(t, "b1", snap.BranchID)
	require.NotNil(t, snap.Operational)
	assert.Len(t, snap.Operational.Transactions, 1)
	assert.Len(t, snap.Stock, 1)
}

func TestMasterSnapshotRoundTrip(t *testing.T) {
	fake := newFakeObjectStore()
	source := &stubSource{
		master: &models.MasterData{Products: []models.Product{{ID: "p1", Name: "Coffee"}}},
	}
	c := newTestClient(t, fake, source)
	ctx := context.Background()

	require.NoError(t, c.UploadMasterSnapshot(ctx))
	require.Contains(t, fake.objects, "master_data.json")

	require.NoError(t, c.DownloadAndMergeMasterSnapshot(ctx))
	require.NotNil(t, source.replaced)
	assert.Len(t, source.replaced.Products, 1)
}

func TestDownloadMasterSnapshotMissing(t *testing.T) {
	c := newTestClient(t, newFakeObjectStore(), &stubSource{})

	err := c.DownloadAndMergeMasterSnapshot(context.Background())
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestFullBackupRoundTrip(t *testing.T) {
	fake := newFakeObjectStore()
	source := &stubSource{
		full: &models.FullSnapshot{
			Master:      &models.MasterData{Products: []models.Product{{ID: "p1"}}},
			Operational: &models.OperationalData{},
			Settings:    map[string]string{"shop_name": "Corner Cafe"},
		},
	}
	c := newTestClient(t, fake, source)
	ctx := context.Background()

	require.NoError(t, c.UploadFullBackup(ctx))
	require.Contains(t, fake.objects, "full_backup_b1.json")

	snap, err := c.DownloadFullBackup(ctx)
	require.NoError(t, err)
	assert.Equal(t, "b1", snap.BranchID)
	assert.Equal(t, "Corner Cafe", snap.Settings["shop_name"])
}

func TestListBranchSnapshotsSkipsUnreadable(t *testing.T) {
	fake := newFakeObjectStore()
	source := &stubSource{
		operational: &models.OperationalData{},
	}
	c := newTestClient(t, fake, source)
	ctx := context.Background()

	require.NoError(t, c.UploadBranchSnapshot(ctx))
	fake.objects["branch_data/branch_data_b2.json"] = []byte("{not json")

	snaps, err := c.ListBranchSnapshots(ctx)
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, "b1", snaps[0].BranchID)
}

func TestPurgeArchiveFolder(t *testing.T) {
	fake := newFakeObjectStore()
	c := newTestClient(t, fake, &stubSource{})
	ctx := context.Background()

	// an absent folder is success, not an error
	n, err := c.PurgeArchiveFolder(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	fake.objects["report_archive/2024-01.json"] = []byte("{}")
	fake.objects["report_archive/2024-02.json"] = []byte("{}")
	fake.objects["branch_data/branch_data_b1.json"] = []byte("{}")

	n, err = c.PurgeArchiveFolder(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Contains(t, fake.objects, "branch_data/branch_data_b1.json")
}

func TestUploadErrorMapping(t *testing.T) {
	tests := []struct {
		code string
		want error
	}{
		{"AccessDenied", common.ErrAuthExpired},
		{"InvalidAccessKeyId", common.ErrAuthExpired},
		{"ExpiredToken", common.ErrAuthExpired},
		{"QuotaExceeded", common.ErrQuotaExceeded},
		{"InsufficientStorage", common.ErrQuotaExceeded},
		{"SlowDown", common.ErrUpload},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			fake := newFakeObjectStore()
			fake.putErr = &smithy.GenericAPIError{Code: tt.code, Message: tt.code}
			c := newTestClient(t, fake, &stubSource{operational: &models.OperationalData{}})

			err := c.UploadBranchSnapshot(context.Background())
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestMapRemoteErrorNoSuchKey(t *testing.T) {
	err := mapRemoteError("download", &types.NoSuchKey{})
	assert.ErrorIs(t, err, common.ErrNotFound)

	assert.NoError(t, mapRemoteError("noop", nil))
}
