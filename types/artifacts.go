//nolint:revive // types is a common Go package naming convention
package types

// ArtifactKind classifies an encoded capture output.
type ArtifactKind string

// Artifact kinds produced per capture.
const (
	ArtifactKindImage      ArtifactKind = "image"
	ArtifactKindDepthTable ArtifactKind = "depth_table"
)

// Prefix returns the file name prefix for the kind.
func (k ArtifactKind) Prefix() string {
	switch k {
	case ArtifactKindImage:
		return "rgb_image"
	case ArtifactKindDepthTable:
		return "depth_data"
	default:
		return string(k)
	}
}

// Ext returns the file extension (without dot) for the kind.
func (k ArtifactKind) Ext() string {
	switch k {
	case ArtifactKindImage:
		return "png"
	case ArtifactKindDepthTable:
		return "csv"
	default:
		return "bin"
	}
}

// ContentType returns the MIME type for the kind.
func (k ArtifactKind) ContentType() string {
	switch k {
	case ArtifactKindImage:
		return "image/png"
	case ArtifactKindDepthTable:
		return "text/csv; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}

// KindFromExt maps a file extension back to an artifact kind.
// Returns false for unknown extensions.
func KindFromExt(ext string) (ArtifactKind, bool) {
	switch ext {
	case "png":
		return ArtifactKindImage, true
	case "csv":
		return ArtifactKindDepthTable, true
	default:
		return "", false
	}
}

// EncodedArtifact is a transient encoded output, handed to storage and then discarded.
type EncodedArtifact struct {
	Kind        ArtifactKind
	Name        string
	ContentType string
	Data        []byte
}
