package api

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const gcsPublicURL = "https://storage.googleapis.com/"

// GCSClient is Client for accessing a Google Cloud Storage bucket.
type GCSClient struct {
	*storage.Client

	// Bucket holds the objects.
	Bucket string
	// Prefix is prepended to every object path.
	Prefix string
}

// NewGCSClient returns a client for the objects under prefix in bucket.  It
// uses the application default credentials if they are available and
// otherwise falls back to anonymous access, which can only be used to read
// publicly-readable objects.  Any opts replace this behaviour.
func NewGCSClient(ctx context.Context, bucket, prefix string, opts ...option.ClientOption) (*GCSClient, error) {
	if bucket == "" {
		return nil, fmt.Errorf("no bucket specified")
	}

	gcs, err := storage.NewClient(ctx, opts...)
	if err != nil && len(opts) == 0 {
		log.Printf("Using anonymous storage client: %v", err)
		gcs, err = storage.NewClient(ctx, option.WithHTTPClient(http.DefaultClient))
	}
	if err != nil {
		return nil, fmt.Errorf("creating storage client: %v", err)
	}
	return &GCSClient{gcs, bucket, prefix}, nil
}

// NewObjectHandle returns a handle to the object at path in the bucket.
func (c *GCSClient) NewObjectHandle(path string) ObjectHandle {
	name := objectName(c.Prefix, path)
	return gcsObjectHandle{c.Client.Bucket(c.Bucket).Object(name), c.Bucket, name}
}

type gcsObjectHandle struct {
	*storage.ObjectHandle

	bucket, name string
}

func (h gcsObjectHandle) URL() string {
	return gcsPublicURL + h.bucket + "/" + h.name
}

func (h gcsObjectHandle) NewRangeReader(ctx context.Context, offset, length int64) (io.ReadCloser, error) {
	r, err := h.ObjectHandle.NewRangeReader(ctx, offset, length)
	if err != nil {
		return nil, newGCSError(err)
	}
	return r, nil
}

func newGCSError(err error) error {
	if err == storage.ErrObjectNotExist {
		return &statusError{http.StatusNotFound, errObjectNotExist}
	}
	if err, ok := err.(*googleapi.Error); ok {
		return &statusError{err.Code, err}
	}
	return err
}
