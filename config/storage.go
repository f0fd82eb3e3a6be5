package config

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config holds S3 client and bucket info
type S3Config struct {
	Client     *s3.Client
	BucketName string
}

// NewS3Config initializes the S3 client from the storage settings and the
// default AWS credential chain.
func NewS3Config(ctx context.Context, cfg StorageConfig) (*S3Config, error) {
	if cfg.S3Bucket == "" {
		return nil, fmt.Errorf("s3 bucket name is required")
	}

	opts := []func(*awsconfig.LoadOptions) error{}
	if cfg.S3Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.S3Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return &S3Config{
		Client:     s3.NewFromConfig(awsCfg),
		BucketName: cfg.S3Bucket,
	}, nil
}

// PublicURL returns the public address of an object in the bucket.
func (s *S3Config) PublicURL(key string) string {
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.BucketName, key)
}

// SetupBucketPolicy applies a bucket policy to allow public read access
func (s *S3Config) SetupBucketPolicy(ctx context.Context) error {
	policy := `{
		"Version": "2012-10-17",
		"Statement": [
			{
				"Sid": "PublicReadRecipeImages",
				"Effect": "Allow",
				"Principal": "*",
				"Action": "s3:GetObject",
				"Resource": "arn:aws:s3:::` + s.BucketName + `/recipe-images/*"
			}
		]
	}`
	_, err := s.Client.PutBucketPolicy(ctx, &s3.PutBucketPolicyInput{
		Bucket: aws.String(s.BucketName),
		Policy: aws.String(policy),
	})
	return err
}
