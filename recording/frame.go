// Package recording implements the on-disk format for recorded capture sessions.
//
// A recording is a stream of length-prefixed msgpack records. Each record is
// a 4-byte big-endian payload length followed by the msgpack payload. The
// first record is a header; every following record carries one frame.
package recording

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/justapithecus/depthcap/types"
)

// Record size constants.
const (
	// MaxRecordSize is the maximum record size (64 MiB), including length prefix.
	MaxRecordSize = 64 * 1024 * 1024
	// MaxPayloadSize is the maximum payload size (MaxRecordSize - 4 bytes).
	MaxPayloadSize = MaxRecordSize - LengthPrefixSize
	// LengthPrefixSize is the size of the length prefix in bytes.
	LengthPrefixSize = 4
)

// Record type discriminants.
const (
	HeaderType = "header"
	FrameType  = "frame"
)

// Header is the first record of a recording.
type Header struct {
	Type      string    `msgpack:"type"`
	Version   string    `msgpack:"version"`
	CreatedAt time.Time `msgpack:"created_at"`
	// Source describes where the frames came from ("synthetic", a device name).
	Source string `msgpack:"source"`
}

// frameRecord wraps a frame with its type discriminant.
type frameRecord struct {
	Type  string       `msgpack:"type"`
	Frame *types.Frame `msgpack:"frame"`
}

// RecordErrorKind classifies record decoding errors.
type RecordErrorKind int

const (
	// RecordErrorPartial indicates a truncated or incomplete record.
	RecordErrorPartial RecordErrorKind = iota
	// RecordErrorTooLarge indicates a record exceeding MaxRecordSize.
	RecordErrorTooLarge
	// RecordErrorDecode indicates a msgpack decoding error.
	RecordErrorDecode
	// RecordErrorUnexpected indicates a record of the wrong type for its position.
	RecordErrorUnexpected
)

// RecordError represents a record decoding error.
type RecordError struct {
	Kind RecordErrorKind
	Msg  string
	Err  error
}

func (e *RecordError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// IsCorrupt returns true if the stream cannot be read further.
func (e *RecordError) IsCorrupt() bool {
	return e.Kind == RecordErrorPartial || e.Kind == RecordErrorTooLarge
}

// IsCorruptRecordError returns true if err is a corrupt-stream record error.
func IsCorruptRecordError(err error) bool {
	var recErr *RecordError
	if errors.As(err, &recErr) {
		return recErr.IsCorrupt()
	}
	return false
}

// Writer encodes a recording to a stream.
// Not safe for concurrent use.
type Writer struct {
	w             io.Writer
	headerWritten bool
}

// NewWriter creates a recording writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteHeader writes the header record. It must be called exactly once,
// before any frame.
func (w *Writer) WriteHeader(source string, createdAt time.Time) error {
	if w.headerWritten {
		return errors.New("recording header already written")
	}
	h := Header{
		Type:      HeaderType,
		Version:   types.RecordingVersion,
		CreatedAt: createdAt,
		Source:    source,
	}
	if err := w.writeRecord(&h); err != nil {
		return err
	}
	w.headerWritten = true
	return nil
}

// WriteFrame appends one frame record.
func (w *Writer) WriteFrame(f *types.Frame) error {
	if !w.headerWritten {
		return errors.New("recording header must be written before frames")
	}
	if f == nil {
		return errors.New("nil frame")
	}
	return w.writeRecord(&frameRecord{Type: FrameType, Frame: f})
}

func (w *Writer) writeRecord(v any) error {
	payload, err := msgpack.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	if len(payload) > MaxPayloadSize {
		return &RecordError{
			Kind: RecordErrorTooLarge,
			Msg:  fmt.Sprintf("payload size %d exceeds maximum %d", len(payload), MaxPayloadSize),
		}
	}

	var lengthBuf [LengthPrefixSize]byte
	binary.BigEndian.PutUint32(lengthBuf[:], uint32(len(payload)))
	if _, err := w.w.Write(lengthBuf[:]); err != nil {
		return fmt.Errorf("failed to write length prefix: %w", err)
	}
	if _, err := w.w.Write(payload); err != nil {
		return fmt.Errorf("failed to write payload: %w", err)
	}
	return nil
}

// Reader decodes a recording from a stream.
// Not safe for concurrent use.
type Reader struct {
	r      io.Reader
	header *Header
}

// NewReader creates a recording reader and reads the header.
func NewReader(r io.Reader) (*Reader, error) {
	rd := &Reader{r: r}
	payload, err := rd.readRecord()
	if err != nil {
		if err == io.EOF {
			return nil, &RecordError{Kind: RecordErrorPartial, Msg: "empty recording"}
		}
		return nil, err
	}

	var h Header
	if err := msgpack.Unmarshal(payload, &h); err != nil {
		return nil, &RecordError{Kind: RecordErrorDecode, Msg: "failed to decode header", Err: err}
	}
	if h.Type != HeaderType {
		return nil, &RecordError{
			Kind: RecordErrorUnexpected,
			Msg:  fmt.Sprintf("first record has type %q, want %q", h.Type, HeaderType),
		}
	}
	rd.header = &h
	return rd, nil
}

// Header returns the recording header.
func (r *Reader) Header() Header {
	return *r.header
}

// Next reads the next frame.
//
// Errors:
//   - io.EOF: stream ended cleanly (no more frames)
//   - *RecordError with Kind=RecordErrorPartial: truncated record
//   - *RecordError with Kind=RecordErrorTooLarge: record exceeds limit
//   - *RecordError with Kind=RecordErrorDecode or RecordErrorUnexpected
func (r *Reader) Next() (*types.Frame, error) {
	payload, err := r.readRecord()
	if err != nil {
		return nil, err
	}

	var rec frameRecord
	if err := msgpack.Unmarshal(payload, &rec); err != nil {
		return nil, &RecordError{Kind: RecordErrorDecode, Msg: "failed to decode frame record", Err: err}
	}
	if rec.Type != FrameType || rec.Frame == nil {
		return nil, &RecordError{
			Kind: RecordErrorUnexpected,
			Msg:  fmt.Sprintf("unexpected record type %q", rec.Type),
		}
	}
	return rec.Frame, nil
}

// ReadAll reads every remaining frame.
func (r *Reader) ReadAll() ([]*types.Frame, error) {
	var frames []*types.Frame
	for {
		f, err := r.Next()
		if err == io.EOF {
			return frames, nil
		}
		if err != nil {
			return frames, err
		}
		frames = append(frames, f)
	}
}

func (r *Reader) readRecord() ([]byte, error) {
	var lengthBuf [LengthPrefixSize]byte
	_, err := io.ReadFull(r.r, lengthBuf[:])
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, &RecordError{
			Kind: RecordErrorPartial,
			Msg:  "failed to read length prefix",
			Err:  err,
		}
	}

	payloadSize := binary.BigEndian.Uint32(lengthBuf[:])
	if payloadSize > MaxPayloadSize {
		return nil, &RecordError{
			Kind: RecordErrorTooLarge,
			Msg:  fmt.Sprintf("payload size %d exceeds maximum %d", payloadSize, MaxPayloadSize),
		}
	}

	payload := make([]byte, payloadSize)
	if _, err := io.ReadFull(r.r, payload); err != nil {
		return nil, &RecordError{
			Kind: RecordErrorPartial,
			Msg:  "failed to read payload",
			Err:  err,
		}
	}
	return payload, nil
}
