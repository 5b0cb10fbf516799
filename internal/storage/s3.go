package storage

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// S3Storage stores files in an S3 bucket
type S3Storage struct {
	s3     *s3.S3
	bucket string
}

// NewS3Storage creates an S3-backed storage client
func NewS3Storage(region, bucket string) (*S3Storage, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, err
	}

	return &S3Storage{
		s3:     s3.New(sess),
		bucket: bucket,
	}, nil
}

// Upload stores the file under a generated key and returns its public URL
func (s *S3Storage) Upload(ctx context.Context, file *multipart.FileHeader, prefix string) (string, error) {
	key := objectKey(prefix, file.Filename)

	f, err := file.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	_, err = s.s3.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentLength: aws.Int64(file.Size),
		ContentType:   aws.String(file.Header.Get("Content-Type")),
	})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key), nil
}

// Delete removes the object the given URL points at
func (s *S3Storage) Delete(ctx context.Context, url string) error {
	base := fmt.Sprintf("https://%s.s3.amazonaws.com/", s.bucket)
	key, ok := strings.CutPrefix(url, base)
	if !ok {
		return nil
	}

	_, err := s.s3.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}
