package capture

import "fmt"

// Status strings reported through CaptureSession.LastStatus.
const (
	StatusIdle              = "Ready"
	StatusContinuousStarted = "Continuous capture started"
	StatusNoFrame           = "No frame available"
	StatusSkipped           = "Frame skipped (previous save in progress)"
)

// outcome is the result of one pipeline run.
type outcome int

const (
	outcomeNoFrame outcome = iota
	outcomeFull
	outcomeColorOnly
	outcomeFailed
)

func (o outcome) String() string {
	switch o {
	case outcomeNoFrame:
		return "no_frame"
	case outcomeFull:
		return "rgb_depth"
	case outcomeColorOnly:
		return "rgb_only"
	case outcomeFailed:
		return "error"
	default:
		return "unknown"
	}
}

// statusFor renders the status for a completed frame. n is the frame count
// after completion.
func statusFor(o outcome, n int64) string {
	switch o {
	case outcomeFull:
		return fmt.Sprintf("Frame %d saved (RGB + Depth)", n)
	case outcomeColorOnly:
		return fmt.Sprintf("Frame %d saved (RGB only, no depth)", n)
	case outcomeNoFrame:
		return StatusNoFrame
	default:
		return fmt.Sprintf("Frame %d - Error saving", n)
	}
}

// stoppedStatus renders the terminal summary for a continuous session.
func stoppedStatus(frames, skipped int64) string {
	if skipped > 0 {
		return fmt.Sprintf("Stopped. Saved %d frames, skipped %d", frames, skipped)
	}
	return fmt.Sprintf("Stopped. Saved %d frames", frames)
}
