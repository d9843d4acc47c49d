package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/smithy-go"
)

// S3Config configures access to s3:// locations.
type S3Config struct {
	Region  string
	Profile string
	// RoleARN, when set, is assumed through STS before accessing S3.
	RoleARN string
	// Endpoint overrides the S3 endpoint (MinIO, LocalStack); path-style addressing is used.
	Endpoint string
}

// NewAWSConfig creates an aws.Config with the given region, optional profile,
// and optional role to assume.
func NewAWSConfig(ctx context.Context, cfg S3Config) (aws.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.Profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("aws auth: load config: %w", err)
	}

	if cfg.RoleARN != "" {
		stsClient := sts.NewFromConfig(awsCfg)
		awsCfg.Credentials = aws.NewCredentialsCache(stscreds.NewAssumeRoleProvider(stsClient, cfg.RoleARN))
	}

	return awsCfg, nil
}

// S3Store is a Store backed by S3 objects.
type S3Store struct {
	client   *s3.Client
	uploader *manager.Uploader
}

// NewS3Store loads AWS configuration and returns an S3Store.
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	awsCfg, err := NewAWSConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewS3StoreFromConfig(awsCfg, cfg.Endpoint), nil
}

// NewS3StoreFromConfig builds an S3Store from an existing aws.Config.
func NewS3StoreFromConfig(awsCfg aws.Config, endpoint string) *S3Store {
	var s3Opts []func(*s3.Options)
	if endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		})
	}
	client := s3.NewFromConfig(awsCfg, s3Opts...)
	return &S3Store{client: client, uploader: manager.NewUploader(client)}
}

// Read downloads the object at loc. Missing keys and buckets are ErrNotFound.
func (s *S3Store) Read(ctx context.Context, loc Location) ([]byte, error) {
	if loc.Key == "" {
		return nil, fmt.Errorf("storage: %s: missing object key", loc)
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(loc.Bucket),
		Key:    aws.String(loc.Key),
	})
	if isS3NotFound(err) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, loc)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: s3 download %s: %w", loc, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("storage: s3 download read %s: %w", loc, err)
	}
	return data, nil
}

// Write uploads data to loc, replacing any existing object.
func (s *S3Store) Write(ctx context.Context, loc Location, data []byte) error {
	if loc.Key == "" {
		return fmt.Errorf("storage: %s: missing object key", loc)
	}
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(loc.Bucket),
		Key:         aws.String(loc.Key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("text/markdown; charset=utf-8"),
	})
	if err != nil {
		return fmt.Errorf("storage: s3 upload %s: %w", loc, err)
	}
	return nil
}

func isS3NotFound(err error) bool {
	if err == nil {
		return false
	}
	var noKey *s3types.NoSuchKey
	if errors.As(err, &noKey) {
		return true
	}
	var noBucket *s3types.NoSuchBucket
	if errors.As(err, &noBucket) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NoSuchBucket", "NotFound":
			return true
		}
	}
	return false
}
