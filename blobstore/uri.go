package blobstore

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// Location schemes understood by ParseURI.
const (
	SchemeFile  = "file"
	SchemeS3    = "s3"
	SchemeMinio = "minio"
)

// Location addresses a blob: the store it lives in and its name inside that store.
//
// For file locations Root is the directory; for object stores it is the bucket.
type Location struct {
	Scheme string
	Root   string
	Name   string
}

// String renders the location back into URI form.
func (l Location) String() string {
	if l.Scheme == SchemeFile {
		return filepath.Join(l.Root, l.Name)
	}
	return l.Scheme + "://" + l.Root + "/" + l.Name
}

// ParseURI parses a blob location.
//
// Accepted forms are bare paths, file:///path, s3://bucket/key and
// minio://bucket/key.
func ParseURI(uri string) (Location, error) {
	if uri == "" {
		return Location{}, fmt.Errorf("blobstore: empty location")
	}

	scheme, rest, ok := strings.Cut(uri, "://")
	if !ok {
		return fileLocation(uri), nil
	}

	switch scheme {
	case SchemeFile:
		u, err := url.Parse(uri)
		if err != nil {
			return Location{}, fmt.Errorf("blobstore: parse %q: %w", uri, err)
		}
		if u.Path == "" {
			return Location{}, fmt.Errorf("blobstore: %q has no path", uri)
		}
		return fileLocation(filepath.FromSlash(u.Path)), nil
	case SchemeS3, SchemeMinio:
		bucket, key, _ := strings.Cut(rest, "/")
		if bucket == "" || key == "" {
			return Location{}, fmt.Errorf("blobstore: %q must name a bucket and a key", uri)
		}
		return Location{Scheme: scheme, Root: bucket, Name: key}, nil
	default:
		return Location{}, fmt.Errorf("blobstore: unsupported scheme %q", scheme)
	}
}

func fileLocation(path string) Location {
	dir, name := filepath.Split(filepath.Clean(path))
	if dir == "" {
		dir = "."
	}
	return Location{Scheme: SchemeFile, Root: dir, Name: name}
}
