package iox

import (
	"bytes"
	"errors"
	"testing"
)

type spyCloser struct{ closed bool }

func (s *spyCloser) Close() error { s.closed = true; return errors.New("ignored") }

func TestDiscardClose(t *testing.T) {
	s := &spyCloser{}
	DiscardClose(s)
	if !s.closed {
		t.Fatal("Close was not called")
	}
}

func TestCloseFunc(t *testing.T) {
	s := &spyCloser{}
	fn := CloseFunc(s)
	if s.closed {
		t.Fatal("Close called before invoking returned func")
	}
	fn()
	if !s.closed {
		t.Fatal("Close was not called")
	}
}

func TestCountingWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewCountingWriter(&buf)

	for _, chunk := range []string{"x,y,depth\n", "0,0,1.0\n"} {
		if _, err := w.Write([]byte(chunk)); err != nil {
			t.Fatal(err)
		}
	}
	if w.Count() != int64(buf.Len()) || w.Count() != 18 {
		t.Errorf("Count() = %d, buffer has %d bytes", w.Count(), buf.Len())
	}
}

type failWriter struct{}

func (failWriter) Write(p []byte) (int, error) { return 2, errors.New("disk full") }

func TestCountingWriter_PartialWrite(t *testing.T) {
	w := NewCountingWriter(failWriter{})
	if _, err := w.Write([]byte("abcdef")); err == nil {
		t.Fatal("expected error")
	}
	if w.Count() != 2 {
		t.Errorf("Count() = %d, want 2", w.Count())
	}
}
