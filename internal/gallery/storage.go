// internal/gallery/storage.go
package gallery

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/devtavares97/baiane-lp/internal/common/config"
	stderrors "github.com/devtavares97/baiane-lp/internal/common/errors"
)

// ObjectStorage stores gallery images and serves them at a public URL.
type ObjectStorage interface {
	Upload(ctx context.Context, key, contentType string, body []byte) (string, error)
	Delete(ctx context.Context, key string) error
	// KeyFromURL recovers the storage key of a previously uploaded
	// object, or "" when the URL is not one of ours.
	KeyFromURL(imageURL string) string
}

type s3API interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, input *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Storage keeps gallery images in a single bucket resolved at startup.
type S3Storage struct {
	client    s3API
	bucket    string
	publicURL string
}

func NewS3Storage(client s3API, cfg config.StorageConfig) *S3Storage {
	return &S3Storage{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
	}
}

func (s *S3Storage) Upload(ctx context.Context, key, contentType string, body []byte) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(body),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("max-age=3600"),
	})
	if err != nil {
		return "", stderrors.NewStorageUploadFailedError(key, err)
	}
	return s.publicURL + "/" + key, nil
}

func (s *S3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return stderrors.NewStorageDeleteFailedError(key, err)
	}
	return nil
}

func (s *S3Storage) KeyFromURL(imageURL string) string {
	prefix := s.publicURL + "/"
	if !strings.HasPrefix(imageURL, prefix) {
		return ""
	}
	return strings.TrimPrefix(imageURL, prefix)
}

// objectKey builds a collision-safe key under the category folder,
// keeping the original file extension.
func objectKey(category Category, fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	return fmt.Sprintf("%s/%d-%s%s", category, time.Now().UnixMilli(), uuid.NewString(), ext)
}
