package storage

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name     string
		errMsg   string
		wantKind error
	}{
		{"context deadline exceeded", "context deadline exceeded", ErrTimeout},
		{"operation timed out", "operation timed out", ErrTimeout},
		{"AccessDenied response", "AccessDenied: you do not have access", ErrAccessDenied},
		{"HTTP 403", "received status 403", ErrAccessDenied},
		{"permission denied", "open /data/captures: permission denied", ErrPermissionDenied},
		{"EACCES errno", "open /tmp/file: EACCES", ErrPermissionDenied},
		{"no such file", "open /tmp/x: no such file or directory", ErrNotFound},
		{"NoSuchKey", "NoSuchKey: key does not exist", ErrNotFound},
		{"ENOSPC", "write /data/x: no space left on device", ErrDiskFull},
		{"SlowDown", "SlowDown: please reduce your request rate", ErrThrottled},
		{"expired token", "ExpiredToken: the token has expired", ErrAuth},
		{"connection refused", "dial tcp 127.0.0.1:9000: connection refused", ErrNetwork},
		{"unknown", "something odd happened", ErrUnclassified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyError(errors.New(tt.errMsg))
			if got != tt.wantKind {
				t.Errorf("classifyError(%q) = %v, want %v", tt.errMsg, got, tt.wantKind)
			}
		})
	}
}

func TestClassifyError_TimeoutInterface(t *testing.T) {
	if got := classifyError(context.DeadlineExceeded); got != ErrTimeout {
		t.Errorf("classifyError(DeadlineExceeded) = %v, want %v", got, ErrTimeout)
	}
}

func TestStorageError_IsAndAs(t *testing.T) {
	inner := errors.New("no space left on device")
	err := fmt.Errorf("saving frame: %w", wrap(inner, "save", "captures/x.png"))

	if !errors.Is(err, ErrDiskFull) {
		t.Error("expected errors.Is(err, ErrDiskFull)")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("unexpected match for ErrNotFound")
	}
	if !errors.Is(err, inner) {
		t.Error("underlying error should remain in the chain")
	}

	var se *StorageError
	if !errors.As(err, &se) {
		t.Fatal("expected *StorageError in chain")
	}
	if se.Op != "save" || se.Path != "captures/x.png" {
		t.Errorf("Op/Path = %q/%q, want save/captures/x.png", se.Op, se.Path)
	}
}

func TestWrap_PassThrough(t *testing.T) {
	if wrap(nil, "save", "x") != nil {
		t.Error("wrap(nil) should be nil")
	}

	orig := NewStorageError(ErrThrottled, "save", "a", errors.New("boom"))
	got := wrap(orig, "list", "b")
	if got != error(orig) {
		t.Errorf("wrap should pass through existing *StorageError, got %v", got)
	}
}
