package encode

import (
	"fmt"
	"time"

	"github.com/justapithecus/depthcap/types"
)

// ArtifactName returns {prefix}_{frame}_{unix_ms}.{ext}.
// The timestamp only orders and disambiguates names; it is never parsed back.
func ArtifactName(kind types.ArtifactKind, frameNumber int64, at time.Time) string {
	return fmt.Sprintf("%s_%d_%d.%s", kind.Prefix(), frameNumber, at.UnixMilli(), kind.Ext())
}
