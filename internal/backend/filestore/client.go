// Package filestore is the file-oriented remote backend: whole-document
// snapshots in an S3-compatible object store, one object per logical
// document, every write a full overwrite. Idempotency comes from the
// overwrite semantics; last write wins.
package filestore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscreds "github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dmitrijs2005/branchsync/internal/common"
	"github.com/dmitrijs2005/branchsync/internal/credentials"
	"github.com/dmitrijs2005/branchsync/internal/logging"
	"github.com/dmitrijs2005/branchsync/internal/models"
)

const defaultRegion = "us-east-1"

// objectAPI is the subset of the S3 client the backend uses. Tests install
// a stub through the newObjectClient seam.
type objectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newObjectClient = func(cfg aws.Config, optFns ...func(*s3.Options)) objectAPI {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// Source is the slice of the local store the backend reads from and merges
// into.
type Source interface {
	AllOperational(ctx context.Context) (*models.OperationalData, error)
	StockLevels(ctx context.Context) ([]models.StockLevel, error)
	MasterData(ctx context.Context) (*models.MasterData, error)
	ReplaceMasterData(ctx context.Context, m *models.MasterData) error
	ExportFullSnapshot(ctx context.Context) (*models.FullSnapshot, error)
}

type Client struct {
	creds    *credentials.Store
	source   Source
	branchID string
	log      logging.Logger
}

func NewClient(creds *credentials.Store, source Source, branchID string, log logging.Logger) *Client {
	return &Client{creds: creds, source: source, branchID: branchID, log: log}
}

// Configured reports whether every required credential field is present.
func (c *Client) Configured(ctx context.Context) bool {
	ok, err := c.creds.IsConfigured(ctx, credentials.BackendFile)
	return err == nil && ok
}

// api builds a fresh object-store client from the credential store. The
// credentials are re-read on every call since the user may edit them
// between sync attempts. Incomplete credentials mean "not configured".
func (c *Client) api(ctx context.Context) (objectAPI, string, error) {
	ok, err := c.creds.IsConfigured(ctx, credentials.BackendFile)
	if err != nil {
		return nil, "", err
	}
	if !ok {
		return nil, "", common.ErrNotConfigured
	}

	accessKey, _, err := c.creds.Get(ctx, credentials.BackendFile, credentials.FieldAccessKey)
	if err != nil {
		return nil, "", err
	}
	secretKey, _, err := c.creds.Get(ctx, credentials.BackendFile, credentials.FieldSecretKey)
	if err != nil {
		return nil, "", err
	}
	bucket, _, err := c.creds.Get(ctx, credentials.BackendFile, credentials.FieldBucket)
	if err != nil {
		return nil, "", err
	}
	endpoint, _, err := c.creds.Get(ctx, credentials.BackendFile, credentials.FieldEndpoint)
	if err != nil {
		return nil, "", err
	}
	region, found, err := c.creds.Get(ctx, credentials.BackendFile, credentials.FieldRegion)
	if err != nil {
		return nil, "", err
	}
	if !found || region == "" {
		region = defaultRegion
	}

	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(awscreds.NewStaticCredentialsProvider(
			accessKey, secretKey, "",
		)))
	if err != nil {
		return nil, "", err
	}

	api := newObjectClient(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	return api, bucket, nil
}

func (c *Client) putJSON(ctx context.Context, api objectAPI, bucket, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	_, err = api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(b),
		ContentType: aws.String("application/json"),
	})
	return err
}

func (c *Client) getJSON(ctx context.Context, api objectAPI, bucket, key string, v any) error {
	out, err := api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return err
	}
	defer out.Body.Close()

	b, err := io.ReadAll(out.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

// UploadFullBackup serializes the entire local aggregate and overwrites
// this branch's backup object.
func (c *Client) UploadFullBackup(ctx context.Context) error {
	api, bucket, err := c.api(ctx)
	if err != nil {
		return err
	}

	snap, err := c.source.ExportFullSnapshot(ctx)
	if err != nil {
		return err
	}
	snap.BranchID = c.branchID

	if err := c.putJSON(ctx, api, bucket, fullBackupKey(c.branchID), snap); err != nil {
		return mapRemoteError("upload full backup", err)
	}
	return nil
}

// DownloadFullBackup fetches this branch's backup object for a restore.
func (c *Client) DownloadFullBackup(ctx context.Context) (*models.FullSnapshot, error) {
	api, bucket, err := c.api(ctx)
	if err != nil {
		return nil, err
	}

	var snap models.FullSnapshot
	if err := c.getJSON(ctx, api, bucket, fullBackupKey(c.branchID), &snap); err != nil {
		return nil, mapRemoteError("download full backup", err)
	}
	return &snap, nil
}

// UploadBranchSnapshot builds this branch's snapshot (operational records
// plus current stock) and overwrites the branch object. No history is
// retained; the previous snapshot is gone after a successful put.
//
// Propagation is the caller's concern: background triggers swallow the
// returned error after logging, explicit syncs surface it in the report.
func (c *Client) UploadBranchSnapshot(ctx context.Context) error {
	api, bucket, err := c.api(ctx)
	if err != nil {
		return err
	}

	operational, err := c.source.AllOperational(ctx)
	if err != nil {
		return err
	}
	stock, err := c.source.StockLevels(ctx)
	if err != nil {
		return err
	}

	snap := &models.BranchSnapshot{
		BranchID:    c.branchID,
		CreatedAt:   time.Now().UTC(),
		Operational: operational,
		Stock:       stock,
	}

	if err := c.putJSON(ctx, api, bucket, branchSnapshotKey(c.branchID), snap); err != nil {
		return mapRemoteError("upload branch snapshot", err)
	}
	return nil
}

// UploadMasterSnapshot overwrites the single shared master-data document.
func (c *Client) UploadMasterSnapshot(ctx context.Context) error {
	api, bucket, err := c.api(ctx)
	if err != nil {
		return err
	}

	master, err := c.source.MasterData(ctx)
	if err != nil {
		return err
	}

	snap := &models.MasterSnapshot{UpdatedAt: time.Now().UTC(), Master: master}

	if err := c.putJSON(ctx, api, bucket, masterSnapshotKey, snap); err != nil {
		return mapRemoteError("upload master snapshot", err)
	}
	return nil
}

// DownloadAndMergeMasterSnapshot fetches the shared master document and
// replaces the local master collections with it. common.ErrNotFound means
// the snapshot has never been pushed, which is the expected state for a
// freshly provisioned deployment, not a fault.
func (c *Client) DownloadAndMergeMasterSnapshot(ctx context.Context) error {
	api, bucket, err := c.api(ctx)
	if err != nil {
		return err
	}

	var snap models.MasterSnapshot
	if err := c.getJSON(ctx, api, bucket, masterSnapshotKey, &snap); err != nil {
		return mapRemoteError("download master snapshot", err)
	}
	if snap.Master == nil {
		return fmt.Errorf("master snapshot has no payload: %w", common.ErrValidation)
	}

	return c.source.ReplaceMasterData(ctx, snap.Master)
}

// ListBranchSnapshots enumerates and downloads every branch snapshot for
// administrative aggregation. A snapshot that fails to download is logged
// and excluded from the result instead of aborting the listing.
func (c *Client) ListBranchSnapshots(ctx context.Context) ([]models.BranchSnapshot, error) {
	api, bucket, err := c.api(ctx)
	if err != nil {
		return nil, err
	}

	out, err := api.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(branchFolder + "/"),
	})
	if err != nil {
		return nil, mapRemoteError("list branch snapshots", err)
	}

	var result []models.BranchSnapshot
	for _, obj := range out.Contents {
		if obj.Key == nil {
			continue
		}
		var snap models.BranchSnapshot
		if err := c.getJSON(ctx, api, bucket, *obj.Key, &snap); err != nil {
			c.log.Warn(ctx, "skipping unreadable branch snapshot", "key", *obj.Key, "error", err)
			continue
		}
		result = append(result, snap)
	}

	return result, nil
}

// PurgeArchiveFolder deletes the stale report-archive folder. An already
// absent folder is success, not an error.
func (c *Client) PurgeArchiveFolder(ctx context.Context) (int, error) {
	api, bucket, err := c.api(ctx)
	if err != nil {
		return 0, err
	}

	out, err := api.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(archiveFolder + "/"),
	})
	if err != nil {
		return 0, mapRemoteError("list archive folder", err)
	}

	deleted := 0
	for _, obj := range out.Contents {
		if obj.Key == nil {
			continue
		}
		_, err := api.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(bucket),
			Key:    obj.Key,
		})
		if err != nil {
			return deleted, mapRemoteError("purge archive folder", err)
		}
		deleted++
	}

	return deleted, nil
}
