package fsxs3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/kabalen/permitdocs/pkg/fsx"
)

// S3FileSystem implements fsx.FileSystem on an S3 bucket
type S3FileSystem struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3FileSystem creates a file system rooted at bucket/prefix
func NewS3FileSystem(client *s3.Client, bucket, prefix string) *S3FileSystem {
	return &S3FileSystem{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}
}

func (f *S3FileSystem) key(filePath string) string {
	if f.prefix == "" {
		return filePath
	}
	return fsx.JoinPath(f.prefix, filePath)
}

func (f *S3FileSystem) ReadFile(ctx context.Context, filePath string) ([]byte, error) {
	out, err := f.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(f.key(filePath)),
	})
	if err != nil {
		return nil, fmt.Errorf("get object %s: %w", filePath, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read object %s: %w", filePath, err)
	}
	return data, nil
}

func (f *S3FileSystem) WriteFile(ctx context.Context, filePath string, data []byte) error {
	return f.WriteFileStream(ctx, filePath, bytes.NewReader(data))
}

func (f *S3FileSystem) WriteFileStream(ctx context.Context, filePath string, r io.Reader) error {
	_, err := f.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(f.key(filePath)),
		Body:   r,
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", filePath, err)
	}
	return nil
}

func (f *S3FileSystem) ReadFileStream(ctx context.Context, filePath string) (io.ReadCloser, error) {
	out, err := f.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(f.key(filePath)),
	})
	if err != nil {
		return nil, fmt.Errorf("get object %s: %w", filePath, err)
	}
	return out.Body, nil
}

func (f *S3FileSystem) DeleteFile(ctx context.Context, filePath string) error {
	_, err := f.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(f.key(filePath)),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", filePath, err)
	}
	return nil
}

func (f *S3FileSystem) Exists(ctx context.Context, filePath string) (bool, error) {
	_, err := f.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(f.key(filePath)),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, fmt.Errorf("head object %s: %w", filePath, err)
	}
	return true, nil
}

func (f *S3FileSystem) Join(elem ...string) string {
	return fsx.JoinPath(elem...)
}
