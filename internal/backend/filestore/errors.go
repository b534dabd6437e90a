package filestore

import (
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/dmitrijs2005/branchsync/internal/common"
)

// mapRemoteError folds the object store's error surface into the shared
// taxonomy. Credential rejections mean the user must reconnect, not retry;
// quota rejections mean the archival workflow should be suggested; a
// missing key is a valid state for resources that may not exist yet.
func mapRemoteError(op string, err error) error {
	if err == nil {
		return nil
	}

	var noKey *types.NoSuchKey
	if errors.As(err, &noKey) {
		return fmt.Errorf("%s: %w", op, common.ErrNotFound)
	}
	var noBucket *types.NoSuchBucket
	if errors.As(err, &noBucket) {
		return fmt.Errorf("%s: bucket missing: %w", op, common.ErrNotFound)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch",
			"ExpiredToken", "TokenRefreshRequired":
			return fmt.Errorf("%s: %v: %w", op, apiErr.ErrorCode(), common.ErrAuthExpired)
		case "QuotaExceeded", "InsufficientStorage", "StorageQuotaExceeded":
			return fmt.Errorf("%s: %w", op, common.ErrQuotaExceeded)
		case "NoSuchKey", "NotFound":
			return fmt.Errorf("%s: %w", op, common.ErrNotFound)
		}
	}

	return fmt.Errorf("%s: %v: %w", op, err, common.ErrUpload)
}
