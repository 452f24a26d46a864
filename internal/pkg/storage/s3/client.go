package s3aws

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"readafrik-checkout/internal/pkg/logger"
	"readafrik-checkout/internal/pkg/redis"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

const presignTTL = 24 * time.Hour

type S3Config struct {
	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	// Endpoint is set for S3-compatible stores such as MinIO.
	Endpoint string
}

type Is3 interface {
	GetBucketName() string
	UploadFile(ctx context.Context, key string, body []byte, contentType string) error
	GetPresignedURL(ctx context.Context, key string) (string, error)
}

type S3Client struct {
	Client     *s3.S3
	BucketName string
	redis      redis.IRedis
}

func newSession(cfg S3Config) (*session.Session, error) {
	awsCfg := &aws.Config{
		Region: aws.String(cfg.AWSRegion),
		Credentials: credentials.NewStaticCredentials(
			cfg.AWSAccessKeyID,
			cfg.AWSSecretAccessKey,
			"",
		),
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}
	return session.NewSession(awsCfg)
}

// NewS3Client connects to bucketName, creating it if missing. rds may be nil,
// in which case presigned URLs are not cached.
func NewS3Client(ctx context.Context, cfg S3Config, bucketName string, rds redis.IRedis) (*S3Client, error) {
	sess, err := newSession(cfg)
	if err != nil {
		return nil, err
	}

	c := &S3Client{
		Client:     s3.New(sess),
		BucketName: bucketName,
		redis:      rds,
	}

	exists, err := c.bucketExists(ctx)
	if err != nil {
		return nil, err
	}
	if !exists {
		logger.Info.Printf("Creating bucket: %s", bucketName)
		if _, err := c.Client.CreateBucketWithContext(ctx, &s3.CreateBucketInput{Bucket: aws.String(bucketName)}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", bucketName, err)
		}
	}

	return c, nil
}

func (s *S3Client) bucketExists(ctx context.Context) (bool, error) {
	_, err := s.Client.HeadBucketWithContext(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.BucketName)})
	if err == nil {
		return true, nil
	}

	var aerr awserr.Error
	if errors.As(err, &aerr) {
		switch aerr.Code() {
		case s3.ErrCodeNoSuchBucket, "NotFound":
			return false, nil
		}
	}
	return false, err
}

func (s *S3Client) GetBucketName() string {
	return s.BucketName
}

func (s *S3Client) UploadFile(ctx context.Context, key string, body []byte, contentType string) error {
	if contentType == "" {
		contentType = ContentTypeFromKey(key)
	}

	_, err := s.Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s to S3: %w", key, err)
	}

	return nil
}

func (s *S3Client) GetPresignedURL(ctx context.Context, key string) (string, error) {
	cacheKey := fmt.Sprintf("s3:%s:%s", s.BucketName, key)
	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, cacheKey); err == nil && strings.HasPrefix(cached, "http") {
			return cached, nil
		}
	}

	req, _ := s.Client.GetObjectRequest(&s3.GetObjectInput{
		Bucket:                     aws.String(s.BucketName),
		Key:                        aws.String(key),
		ResponseContentType:        aws.String(ContentTypeFromKey(key)),
		ResponseContentDisposition: aws.String("inline"),
	})

	urlStr, err := req.Presign(presignTTL)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	if s.redis != nil {
		// cached for less than the signature lifetime
		if err := s.redis.Set(ctx, cacheKey, urlStr, presignTTL-time.Hour); err != nil {
			logger.Warning.Printf("failed to cache presigned URL for %s: %v", key, err)
		}
	}

	return urlStr, nil
}

// ReceiptKey is the object key of the archived confirmation for reference.
func ReceiptKey(reference string) string {
	return "receipts/" + reference + ".html"
}

func ContentTypeFromKey(key string) string {
	ext := strings.ToLower(filepath.Ext(key))
	switch ext {
	case ".html", ".htm":
		return "text/html; charset=utf-8"
	case ".json":
		return "application/json"
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
