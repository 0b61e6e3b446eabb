package upload

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// PutObjectAPI is the part of *s3.Client the uploader needs.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Options configures an S3-compatible bucket (AWS S3, Cloudflare R2, MinIO).
type S3Options struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	Prefix    string
}

type S3Uploader struct {
	client PutObjectAPI
	bucket string
	prefix string
}

func NewS3Uploader(ctx context.Context, opts S3Options) (*S3Uploader, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("s3 upload: bucket is required")
	}
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(opts.Region),
	}
	if opts.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("s3 upload: configure client: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewS3UploaderWithClient(client, opts.Bucket, opts.Prefix), nil
}

func NewS3UploaderWithClient(client PutObjectAPI, bucket, prefix string) *S3Uploader {
	return &S3Uploader{client: client, bucket: bucket, prefix: prefix}
}

// ObjectKey places each sheet under prefix/customer/branch/kind with a unique name.
func (u *S3Uploader) ObjectKey(req Request) string {
	return path.Join(u.prefix,
		fmt.Sprintf("customer-%d", req.CustomerID),
		fmt.Sprintf("branch-%d", req.BranchID),
		req.Kind,
		uuid.NewString()+"-"+path.Base(req.Sheet.FileName))
}

func (u *S3Uploader) Upload(ctx context.Context, req Request) (Result, error) {
	start := time.Now()
	key := u.ObjectKey(req)

	contentType := req.Sheet.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(req.Sheet.Content),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return Result{}, err
	}
	return Result{
		ObjectKey: key,
		Size:      int64(len(req.Sheet.Content)),
		Duration:  time.Since(start),
	}, nil
}
