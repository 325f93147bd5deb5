package types

// CaptureMode is the capture controller state.
type CaptureMode string

// Capture modes.
const (
	CaptureModeIdle       CaptureMode = "idle"
	CaptureModeSingleShot CaptureMode = "single_shot"
	CaptureModeContinuous CaptureMode = "continuous"
)

// CaptureSession is a point-in-time view of controller state.
type CaptureSession struct {
	SessionID  string      `json:"session_id" yaml:"session_id"`
	Mode       CaptureMode `json:"mode" yaml:"mode"`
	FrameCount int64       `json:"frame_count" yaml:"frame_count"`
	Skipped    int64       `json:"skipped" yaml:"skipped"`
	LastStatus string      `json:"last_status" yaml:"last_status"`
}
