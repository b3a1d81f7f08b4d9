package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/dmitrijs2005/dropvault/internal/common"
	"github.com/dmitrijs2005/dropvault/internal/server/models"
)

// seams for tests
var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// s3API is the subset of the S3 client used by S3Store. *s3.Client
// satisfies it; tests substitute a fake.
type s3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// S3Store keeps uploaded files in one bucket of an S3-compatible backend
// (MinIO in the compose setup), object key = storage name. S3 PUTs are
// atomic, so an aborted upload never surfaces as a partial object.
type S3Store struct {
	client s3API
	bucket string
}

// NewS3Store builds an S3Store against the configured endpoint using
// static credentials.
func NewS3Store(ctx context.Context, user, password, region, baseEndpoint, bucket string) (*S3Store, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			user,     // MINIO_ROOT_USER
			password, // MINIO_ROOT_PASSWORD
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(baseEndpoint)
		o.UsePathStyle = true
	})

	return &S3Store{client: client, bucket: bucket}, nil
}

// Save uploads the contents of r under the storage name. The body is
// buffered first so the object is only ever written whole.
func (s *S3Store) Save(ctx context.Context, owner, name string, r io.Reader) (*models.StoredFile, error) {

	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("upload aborted: %w", err)
	}

	key := MakeStorageName(owner, name)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return nil, fmt.Errorf("put object %s: %w", key, err)
	}

	return &models.StoredFile{Owner: owner, Name: name, Size: int64(len(body))}, nil
}

// List enumerates objects under the owner's prefix, following
// continuation tokens, and returns them sorted by name.
func (s *S3Store) List(ctx context.Context, owner string) ([]*models.StoredFile, error) {

	prefix := owner + Separator
	files := make([]*models.StoredFile, 0)

	var token *string
	for {
		out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(s.bucket),
			Prefix:            aws.String(prefix),
			ContinuationToken: token,
		})
		if err != nil {
			return nil, fmt.Errorf("list objects: %w", err)
		}

		for _, obj := range out.Contents {
			name, ok := SplitStorageName(owner, aws.ToString(obj.Key))
			if !ok {
				continue
			}
			files = append(files, &models.StoredFile{Owner: owner, Name: name, Size: aws.ToInt64(obj.Size)})
		}

		if !aws.ToBool(out.IsTruncated) {
			break
		}
		token = out.NextContinuationToken
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// Stat issues a HeadObject for the storage name.
func (s *S3Store) Stat(ctx context.Context, owner, name string) (*models.StoredFile, error) {
	key := MakeStorageName(owner, name)
	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nf *types.NotFound
		if errors.As(err, &nf) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("head object %s: %w", key, err)
	}
	return &models.StoredFile{Owner: owner, Name: name, Size: aws.ToInt64(out.ContentLength)}, nil
}
