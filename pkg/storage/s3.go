package storage

import (
	"bytes"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// S3Config holds the settings for the S3-compatible backend. Endpoint
// may point at AWS itself or at any S3-compatible service such as MinIO.
type S3Config struct {
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

// S3 stores blobs as objects in a single bucket, keyed by handle.
type S3 struct {
	client *s3.S3
	bucket string
}

// NewS3 creates an S3-backed blob store and ensures the bucket exists.
func NewS3(cfg S3Config) (*S3, error) {
	sess, err := session.NewSession(&aws.Config{
		Endpoint:         aws.String(cfg.Endpoint),
		Region:           aws.String(cfg.Region),
		Credentials:      credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, ""),
		S3ForcePathStyle: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 session: %w", err)
	}

	store := &S3{client: s3.New(sess), bucket: cfg.Bucket}

	_, err = store.client.CreateBucket(&s3.CreateBucketInput{
		Bucket: aws.String(cfg.Bucket),
	})
	if err != nil {
		if aerr, ok := err.(awserr.Error); !ok ||
			(aerr.Code() != s3.ErrCodeBucketAlreadyOwnedByYou && aerr.Code() != s3.ErrCodeBucketAlreadyExists) {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.Bucket, err)
		}
	}

	return store, nil
}

func (s *S3) Put(reader io.Reader, originalName string) (string, int64, error) {
	// PutObject needs a seekable body, so the upload is buffered first.
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", 0, err
	}

	handle := newHandle(originalName)
	_, err = s.client.PutObject(&s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(handle),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return "", 0, fmt.Errorf("failed to put object: %w", err)
	}

	return handle, int64(len(data)), nil
}

func (s *S3) Get(handle string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(&s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(handle),
	})
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok && aerr.Code() == s3.ErrCodeNoSuchKey {
			return nil, ErrBlobNotFound
		}
		return nil, err
	}
	return out.Body, nil
}

func (s *S3) Delete(handle string) error {
	// DeleteObject is idempotent on S3; absent keys are not an error.
	_, err := s.client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(handle),
	})
	return err
}

func (s *S3) Exists(handle string) bool {
	_, err := s.client.HeadObject(&s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(handle),
	})
	return err == nil
}
