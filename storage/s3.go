package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"recipebuilder"
)

// s3API is the subset of *s3.Client used here.
type s3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3KV implements KV with one object per key under prefix.
type S3KV struct {
	bucket string
	prefix string
	s3     s3API
}

func NewS3KV(s3Client s3API, bucket, prefix string) *S3KV {
	return &S3KV{
		bucket: bucket,
		prefix: prefix,
		s3:     s3Client,
	}
}

func (s *S3KV) objectKey(key string) string {
	return s.prefix + key + ".json"
}

func (s *S3KV) Get(ctx context.Context, key string) ([]byte, error) {
	resp, err := s.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, recipebuilder.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get %q from S3: %w", key, err)
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

func (s *S3KV) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.objectKey(key)),
		Body:        bytes.NewReader(value),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to put %q to S3: %w", key, err)
	}
	return nil
}

func (s *S3KV) Remove(ctx context.Context, key string) error {
	_, err := s.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %q from S3: %w", key, err)
	}
	return nil
}

// S3Catalog implements CatalogSource backed by S3

type S3Catalog struct {
	bucket string
	key    string
	s3     s3API
}

func NewS3Catalog(s3Client s3API, bucket, key string) *S3Catalog {
	return &S3Catalog{
		bucket: bucket,
		key:    key,
		s3:     s3Client,
	}
}

func (c *S3Catalog) Load(ctx context.Context) ([]byte, error) {
	resp, err := c.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(c.key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog object from S3: %w", err)
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}
