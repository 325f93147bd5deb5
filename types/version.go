package types

// Version is the canonical project version.
// The CLI and the recording format share this version.
const Version = "0.3.0"

// RecordingVersion is stamped into every recorded frame header.
const RecordingVersion = Version
