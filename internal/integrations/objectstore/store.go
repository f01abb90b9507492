// Package objectstore uploads generated documents to S3 and hands out
// short-lived presigned download links.
package objectstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const DefaultTTL = time.Hour

type putAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type presignAPI interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// Store writes to a single bucket or access point alias.
type Store struct {
	put     putAPI
	presign presignAPI
	bucket  string
	ttl     time.Duration
}

// New creates a Store. A non-positive ttl falls back to DefaultTTL.
func New(put putAPI, presign presignAPI, bucket string, ttl time.Duration) (*Store, error) {
	if put == nil || presign == nil {
		return nil, errors.New("objectstore: s3 clients must not be nil")
	}
	if strings.TrimSpace(bucket) == "" {
		return nil, errors.New("objectstore: bucket must not be empty")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{put: put, presign: presign, bucket: bucket, ttl: ttl}, nil
}

// NewFromClient wires both the upload and presign paths to one S3 client.
func NewFromClient(client *s3.Client, bucket string, ttl time.Duration) (*Store, error) {
	if client == nil {
		return nil, errors.New("objectstore: s3 clients must not be nil")
	}
	return New(client, s3.NewPresignClient(client), bucket, ttl)
}

// Put uploads body under key.
func (s *Store) Put(ctx context.Context, key, contentType string, body []byte) error {
	if s == nil || s.put == nil {
		return errors.New("objectstore: store not initialized")
	}
	if strings.TrimSpace(key) == "" {
		return errors.New("objectstore: key is required")
	}
	_, err := s.put.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return fmt.Errorf("objectstore: put %s: %w", key, err)
	}
	return nil
}

// SignedURL returns a GET link for key that expires after the store's TTL.
func (s *Store) SignedURL(ctx context.Context, key string) (string, error) {
	if s == nil || s.presign == nil {
		return "", errors.New("objectstore: store not initialized")
	}
	if strings.TrimSpace(key) == "" {
		return "", errors.New("objectstore: key is required")
	}
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.ttl))
	if err != nil {
		return "", fmt.Errorf("objectstore: presign %s: %w", key, err)
	}
	return req.URL, nil
}
