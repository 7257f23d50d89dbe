package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	apperrors "retailreports/internal/errors"
	"retailreports/internal/validation"
	"retailreports/pkg/contracts/domain"
)

// S3API is the subset of the S3 client used by S3Store
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// S3Store keeps artifacts under a key prefix in one bucket
type S3Store struct {
	client S3API
	bucket string
	prefix string
	logger *slog.Logger
}

// NewS3Store wraps an existing client
func NewS3Store(client S3API, bucket, prefix string, logger *slog.Logger) *S3Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &S3Store{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		logger: logger.With(slog.String("component", "s3_store"), slog.String("bucket", bucket)),
	}
}

// NewS3StoreFromConfig loads the default AWS credential chain for region
func NewS3StoreFromConfig(ctx context.Context, region, bucket, prefix string, logger *slog.Logger) (*S3Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, apperrors.NewConfigError("unable to load AWS SDK config", err)
	}
	return NewS3Store(s3.NewFromConfig(cfg), bucket, prefix, logger), nil
}

func (s *S3Store) key(name string) string {
	if s.prefix == "" {
		return name
	}
	return path.Join(s.prefix, name)
}

func (s *S3Store) location(key string) string {
	return fmt.Sprintf("s3://%s/%s", s.bucket, key)
}

// Save uploads data in a single PutObject call, which S3 applies atomically
func (s *S3Store) Save(ctx context.Context, name string, data []byte) (Object, error) {
	if !validation.IsSafeFileName(name) {
		return Object{}, apperrors.NewPersistenceError(fmt.Sprintf("invalid file name %q", name), nil)
	}

	key := s.key(name)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentTypeFor(name)),
	})
	if err != nil {
		return Object{}, apperrors.NewPersistenceError(fmt.Sprintf("unable to upload %s to S3", name), err)
	}

	s.logger.InfoContext(ctx, "Report uploaded",
		slog.String("key", key),
		slog.Int("size_bytes", len(data)))

	return Object{
		Name:     name,
		Location: s.location(key),
		Size:     int64(len(data)),
	}, nil
}

// Open streams an object body. The caller closes the reader.
func (s *S3Store) Open(ctx context.Context, name string) (io.ReadCloser, Object, error) {
	if !validation.IsSafeFileName(name) {
		return nil, Object{}, apperrors.NewNotFoundError(fmt.Sprintf("report %s", name))
	}

	key := s.key(name)
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, Object{}, apperrors.NewNotFoundError(fmt.Sprintf("report %s", name))
		}
		return nil, Object{}, apperrors.NewPersistenceError(fmt.Sprintf("unable to download %s from S3", name), err)
	}

	return out.Body, Object{
		Name:     name,
		Location: s.location(key),
		Size:     aws.ToInt64(out.ContentLength),
		ModTime:  aws.ToTime(out.LastModified),
	}, nil
}

// List pages through every object under the prefix
func (s *S3Store) List(ctx context.Context) ([]Object, error) {
	input := &s3.ListObjectsV2Input{Bucket: aws.String(s.bucket)}
	if s.prefix != "" {
		input.Prefix = aws.String(s.prefix + "/")
	}

	var objects []Object
	paginator := s3.NewListObjectsV2Paginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, apperrors.NewPersistenceError("unable to list reports in S3", err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			objects = append(objects, Object{
				Name:     path.Base(key),
				Location: s.location(key),
				Size:     aws.ToInt64(obj.Size),
				ModTime:  aws.ToTime(obj.LastModified),
			})
		}
	}

	sort.SliceStable(objects, func(i, j int) bool {
		return objects[i].ModTime.After(objects[j].ModTime)
	})
	return objects, nil
}

func contentTypeFor(name string) string {
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(name)), ".")
	if format, ok := domain.ParseReportFormat(ext); ok {
		return format.ContentType()
	}
	return "application/octet-stream"
}
