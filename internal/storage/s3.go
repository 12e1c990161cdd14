// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// s3.go is the Disk backed by an S3-compatible store. It wraps the AWS
// SDK v2 and is configured for path-style access (required by
// CEPH/Hetzner).
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Disk stores export artifacts in a private bucket.
type S3Disk struct {
	s3     *s3.Client
	bucket string
}

// NewS3Disk creates an S3-backed disk configured for CEPH/Hetzner with
// path-style addressing. Returns (nil, nil) if endpoint or credentials
// are empty so the app can fall back to local storage.
func NewS3Disk(endpoint, region, accessKey, secretKey, bucket string) (*S3Disk, error) {
	if endpoint == "" || accessKey == "" || secretKey == "" {
		return nil, nil
	}

	endpoint = strings.TrimRight(endpoint, "/")

	client := s3.New(s3.Options{
		Region:       region,
		BaseEndpoint: aws.String(endpoint),
		Credentials:  credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		UsePathStyle: true,
	})

	return &S3Disk{s3: client, bucket: bucket}, nil
}

// Put uploads an object. Export archives live in a private bucket; no
// ACL is set.
func (d *S3Disk) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error {
	_, err := d.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(d.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("s3 upload %s/%s: %w", d.bucket, key, err)
	}
	return nil
}

// Open streams an object. The caller must close the returned reader.
func (d *S3Disk) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	output, err := d.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 download %s/%s: %w", d.bucket, key, err)
	}
	return output.Body, nil
}

// Exists checks object presence with a HEAD request.
func (d *S3Disk) Exists(ctx context.Context, key string) (bool, error) {
	_, err := d.s3.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *s3types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, fmt.Errorf("s3 head %s/%s: %w", d.bucket, key, err)
	}
	return true, nil
}

// Size returns the object's ContentLength from a HEAD request.
func (d *S3Disk) Size(ctx context.Context, key string) (int64, error) {
	output, err := d.s3.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return 0, fmt.Errorf("s3 head %s/%s: %w", d.bucket, key, err)
	}
	return aws.ToInt64(output.ContentLength), nil
}

// Delete removes an object. S3 deletes are idempotent, so deleting a
// missing key succeeds.
func (d *S3Disk) Delete(ctx context.Context, key string) error {
	_, err := d.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s/%s: %w", d.bucket, key, err)
	}
	return nil
}
