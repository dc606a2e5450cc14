package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Client is a Client for accessing an Amazon S3 bucket.
type S3Client struct {
	*s3.Client

	// Bucket holds the objects.
	Bucket string
	// Prefix is prepended to every object path.
	Prefix string
}

// NewS3Client returns a client for the objects under prefix in bucket,
// configured from the default AWS configuration sources (environment, shared
// configuration files and instance metadata).
func NewS3Client(ctx context.Context, bucket, prefix string, optFns ...func(*s3.Options)) (*S3Client, error) {
	if bucket == "" {
		return nil, fmt.Errorf("no bucket specified")
	}

	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading AWS configuration: %v", err)
	}
	return &S3Client{s3.NewFromConfig(cfg, optFns...), bucket, prefix}, nil
}

// NewObjectHandle returns a handle to the object at path in the bucket.
func (c *S3Client) NewObjectHandle(path string) ObjectHandle {
	return s3ObjectHandle{c.Client, c.Bucket, objectName(c.Prefix, path)}
}

type s3ObjectHandle struct {
	client      *s3.Client
	bucket, key string
}

func (h s3ObjectHandle) URL() string {
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", h.bucket, h.key)
}

func (h s3ObjectHandle) NewRangeReader(ctx context.Context, offset, length int64) (io.ReadCloser, error) {
	if length == 0 {
		return emptyReader(), nil
	}

	input := &s3.GetObjectInput{
		Bucket: aws.String(h.bucket),
		Key:    aws.String(h.key),
	}
	if r := rangeHeader(offset, length); r != "" {
		input.Range = aws.String(r)
	}

	output, err := h.client.GetObject(ctx, input)
	if err != nil {
		return nil, newS3Error(err)
	}
	return output.Body, nil
}

func newS3Error(err error) error {
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return &statusError{http.StatusNotFound, errObjectNotExist}
	}
	var response *awshttp.ResponseError
	if errors.As(err, &response) {
		if response.HTTPStatusCode() == http.StatusNotFound {
			return &statusError{http.StatusNotFound, errObjectNotExist}
		}
		return &statusError{response.HTTPStatusCode(), err}
	}
	return err
}
