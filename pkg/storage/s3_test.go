package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// apiError implements smithy.APIError for test assertions.
type apiError struct {
	code string
	msg  string
}

func (e *apiError) Error() string                 { return e.msg }
func (e *apiError) ErrorCode() string             { return e.code }
func (e *apiError) ErrorMessage() string          { return e.msg }
func (e *apiError) ErrorFault() smithy.ErrorFault { return smithy.FaultClient }

var errNoSuchKey = &apiError{code: "NoSuchKey", msg: "no such key"}
var errNotFound = &apiError{code: "NotFound", msg: "not found"}

// mockS3 is a thread-safe in-memory S3 backend for testing.
type mockS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string

	// Optional hooks to inject errors.
	getErr    error
	putErr    error
	deleteErr error
	headErr   error
}

func newMockS3() *mockS3 {
	return &mockS3{objects: make(map[string][]byte), types: make(map[string]string)}
}

func (m *mockS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[*in.Key]
	if !ok {
		return nil, errNoSuchKey
	}
	return &s3.GetObjectOutput{
		Body: io.NopCloser(bytes.NewReader(data)),
	}, nil
}

func (m *mockS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if m.putErr != nil {
		return nil, m.putErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[*in.Key] = data
	if in.ContentType != nil {
		m.types[*in.Key] = *in.ContentType
	}
	return &s3.PutObjectOutput{}, nil
}

func (m *mockS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if m.deleteErr != nil {
		return nil, m.deleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, *in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func (m *mockS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if m.headErr != nil {
		return nil, m.headErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[*in.Key]; !ok {
		return nil, errNotFound
	}
	return &s3.HeadObjectOutput{}, nil
}

func TestS3PutGet(t *testing.T) {
	mock := newMockS3()
	s := NewS3(mock, "bucket", "")
	ctx := context.Background()

	if err := s.Put(ctx, "song.wav", strings.NewReader("RIFF")); err != nil {
		t.Fatal(err)
	}
	if got := readAll(t, s, "song.wav"); got != "RIFF" {
		t.Errorf("got %q", got)
	}
	if got := mock.types["song.wav"]; got != "audio/wav" {
		t.Errorf("content type = %q", got)
	}
}

func TestS3Prefix(t *testing.T) {
	mock := newMockS3()
	s := NewS3(mock, "bucket", "exports/v1")
	if err := s.Put(context.Background(), "a.mid", strings.NewReader("MThd")); err != nil {
		t.Fatal(err)
	}
	if _, ok := mock.objects["exports/v1/a.mid"]; !ok {
		t.Errorf("objects = %v, want key under the prefix", mock.objects)
	}
}

func TestS3GetMissing(t *testing.T) {
	s := NewS3(newMockS3(), "bucket", "")
	if _, err := s.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get = %v, want ErrNotFound", err)
	}
}

func TestS3Errors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("network timeout")

	mock := newMockS3()
	mock.getErr, mock.putErr, mock.headErr, mock.deleteErr = boom, boom, boom, boom
	s := NewS3(mock, "bucket", "")

	if _, err := s.Get(ctx, "x"); !errors.Is(err, boom) || errors.Is(err, ErrNotFound) {
		t.Errorf("Get = %v", err)
	}
	if err := s.Put(ctx, "x", strings.NewReader("x")); !errors.Is(err, boom) {
		t.Errorf("Put = %v", err)
	}
	if _, err := s.Exists(ctx, "x"); !errors.Is(err, boom) {
		t.Errorf("Exists = %v", err)
	}
	if err := s.Delete(ctx, "x"); !errors.Is(err, boom) {
		t.Errorf("Delete = %v", err)
	}
}

func TestS3ExistsDelete(t *testing.T) {
	mock := newMockS3()
	s := NewS3(mock, "bucket", "")
	ctx := context.Background()

	if ok, err := s.Exists(ctx, "tmp"); err != nil || ok {
		t.Fatalf("Exists = %v, %v", ok, err)
	}
	mock.objects["tmp"] = []byte("x")
	if ok, _ := s.Exists(ctx, "tmp"); !ok {
		t.Fatal("Exists = false for a seeded object")
	}
	if err := s.Delete(ctx, "tmp"); err != nil {
		t.Fatal(err)
	}
	if ok, _ := s.Exists(ctx, "tmp"); ok {
		t.Fatal("object still there after Delete")
	}
}

func TestIsS3NotFound(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"NoSuchKey", errNoSuchKey, true},
		{"NotFound", errNotFound, true},
		{"other api error", &apiError{code: "AccessDenied", msg: "denied"}, false},
		{"plain error", errors.New("timeout"), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isS3NotFound(tt.err); got != tt.want {
				t.Fatalf("isS3NotFound(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
