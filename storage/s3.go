// Package storage holds the payload blob backend. Media payloads live
// inline in the database by default; with storage.type = "s3" they are
// offloaded to an S3-compatible bucket and rows only keep the key.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Payloads above this size go through the multipart upload manager
const minMultipartSize = 12 << 20

const keyCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

type S3Store struct {
	C      *s3.Client
	Bucket *string
}

// NewS3 builds the bucket client from the s3.* config keys and verifies
// the bucket exists before the server starts taking uploads.
func NewS3() (*S3Store, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			viper.GetString("s3.access_key_id"),
			viper.GetString("s3.secret_access_key"),
			"",
		)),
	)
	if err != nil {
		return nil, err
	}

	bucket := aws.String(viper.GetString("s3.bucket"))

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if ep := viper.GetString("s3.endpoint"); ep != "" {
			o.BaseEndpoint = aws.String(ep)
		}
		if r := viper.GetString("s3.region"); r != "" {
			o.Region = r
		} else {
			o.Region = "auto"
		}
	})

	_, err = client.HeadBucket(context.TODO(), &s3.HeadBucketInput{
		Bucket: bucket,
	})
	if err != nil {
		var apiErr smithy.APIError

		if errors.As(err, &apiErr) {
			if apiErr.ErrorCode() == "NotFound" {
				return nil, fmt.Errorf("bucket '%s' does not exist", *bucket)
			}
		}

		return nil, fmt.Errorf("failed to check if bucket exists, %w", err)
	}

	return &S3Store{
		C:      client,
		Bucket: bucket,
	}, nil
}

// Put stores a payload under a fresh key and returns that key
func (s *S3Store) Put(ctx context.Context, data []byte, contentType string) (string, error) {
	key, err := gonanoid.Generate(keyCharset, 16)
	if err != nil {
		return "", fmt.Errorf("failed to generate blob key, %w", err)
	}

	input := &s3.PutObjectInput{
		Bucket:        s.Bucket,
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
		CacheControl:  aws.String("public, max-age=31536000, immutable"),
	}

	if len(data) > minMultipartSize {
		u := manager.NewUploader(s.C, func(u *manager.Uploader) {
			u.Concurrency = 5
			u.PartSize = 6 << 20
		})

		_, err = u.Upload(ctx, input)
	} else {
		_, err = s.C.PutObject(ctx, input)
	}
	if err != nil {
		return "", fmt.Errorf("failed to upload payload, %w", err)
	}

	return key, nil
}

func (s *S3Store) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := s.C.GetObject(ctx, &s3.GetObjectInput{
		Bucket: s.Bucket,
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payload, %w", err)
	}
	defer out.Body.Close()

	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(out.Body); err != nil {
		return nil, fmt.Errorf("failed to read payload body, %w", err)
	}

	return buf.Bytes(), nil
}

// Delete removes blobs in bulk. Row deletion is what frees quota, so a
// failure here only leaks bucket space and is logged rather than returned.
func (s *S3Store) Delete(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}

	objects := make([]types.ObjectIdentifier, 0, len(keys))
	for _, k := range keys {
		if k == "" {
			continue
		}
		objects = append(objects, types.ObjectIdentifier{Key: aws.String(k)})
	}

	if len(objects) == 0 {
		return
	}

	resp, err := s.C.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: s.Bucket,
		Delete: &types.Delete{Objects: objects},
	})
	if err != nil {
		zap.L().Error("Failed to delete payload blobs", zap.Error(err))
		return
	}

	for _, v := range resp.Deleted {
		zap.L().Debug("Deleted blob", zap.String("key", *v.Key))
	}
}
