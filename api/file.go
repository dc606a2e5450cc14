package api

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FileClient is a Client for objects stored as files below a local
// directory.  Its objects have no URL, so the server returns their data
// itself rather than redirecting clients.
type FileClient struct {
	Directory string
}

// NewObjectHandle returns a handle to the file at path below Directory.
func (c FileClient) NewObjectHandle(path string) ObjectHandle {
	return fileObjectHandle{filepath.Join(c.Directory, filepath.FromSlash(filepath.Clean("/"+path)))}
}

type fileObjectHandle struct {
	filename string
}

func (h fileObjectHandle) URL() string {
	return ""
}

func (h fileObjectHandle) NewRangeReader(_ context.Context, offset, length int64) (io.ReadCloser, error) {
	f, err := os.Open(h.filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errObjectNotExist
		}
		return nil, fmt.Errorf("opening file: %v", err)
	}
	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		f.Close()
		return nil, fmt.Errorf("seeking to offset %d: %v", offset, err)
	}
	if length < 0 {
		return f, nil
	}
	return &limitedReadCloser{io.LimitReader(f, length), f}, nil
}
