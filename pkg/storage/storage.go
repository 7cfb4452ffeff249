// Package storage is where exported renders, MIDI files and generated
// programs go: a local directory or an S3-compatible bucket.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ErrNotFound is returned by Get for a missing object.
var ErrNotFound = errors.New("storage: not found")

// Store saves named objects. Names are slash separated and relative to the
// store root. Implementations are safe for concurrent use.
type Store interface {
	// Put stores everything read from r under name, replacing any object
	// already there.
	Put(ctx context.Context, name string, r io.Reader) error

	// Get opens the object called name. The caller closes it.
	Get(ctx context.Context, name string) (io.ReadCloser, error)

	// Exists reports whether name exists.
	Exists(ctx context.Context, name string) (bool, error)

	// Delete removes name. Deleting a missing object is not an error.
	Delete(ctx context.Context, name string) error
}

// ContentType returns the MIME type stored with an object of this name.
func ContentType(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".wav":
		return "audio/wav"
	case ".mid", ".midi":
		return "audio/midi"
	case ".yaml", ".yml":
		return "application/yaml"
	case ".json":
		return "application/json"
	}
	return "text/plain; charset=utf-8"
}

// Target kinds.
const (
	KindLocal = "local"
	KindS3    = "s3"
)

// Target describes where exports go.
type Target struct {
	Kind      string `json:"kind,omitempty" yaml:"kind,omitempty"`
	Dir       string `json:"dir,omitempty" yaml:"dir,omitempty"`
	Bucket    string `json:"bucket,omitempty" yaml:"bucket,omitempty"`
	Prefix    string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Region    string `json:"region,omitempty" yaml:"region,omitempty"`
	Endpoint  string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	AccessKey string `json:"access_key,omitempty" yaml:"access_key,omitempty"`
	SecretKey string `json:"secret_key,omitempty" yaml:"secret_key,omitempty"`
}

// Open builds the store a target describes. An empty kind means local.
func Open(t Target) (Store, error) {
	switch t.Kind {
	case KindLocal, "":
		if t.Dir == "" {
			return nil, errors.New("storage: local target needs a dir")
		}
		return NewLocal(t.Dir)
	case KindS3:
		if t.Bucket == "" {
			return nil, errors.New("storage: s3 target needs a bucket")
		}
		return NewS3(newS3Client(t), t.Bucket, t.Prefix), nil
	}
	return nil, fmt.Errorf("storage: unknown target kind %q", t.Kind)
}

// newS3Client configures a client from the target alone. Path-style
// addressing keeps custom endpoints such as MinIO working.
func newS3Client(t Target) *s3.Client {
	region := t.Region
	if region == "" {
		region = "us-east-1"
	}
	opts := s3.Options{
		Region:       region,
		UsePathStyle: t.Endpoint != "",
		Credentials:  aws.AnonymousCredentials{},
	}
	if t.Endpoint != "" {
		opts.BaseEndpoint = aws.String(t.Endpoint)
	}
	if t.AccessKey != "" {
		creds := aws.Credentials{AccessKeyID: t.AccessKey, SecretAccessKey: t.SecretKey, Source: "tonescribe"}
		opts.Credentials = aws.NewCredentialsCache(aws.CredentialsProviderFunc(
			func(context.Context) (aws.Credentials, error) { return creds, nil },
		))
	}
	return s3.New(opts)
}
