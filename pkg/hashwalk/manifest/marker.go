package manifest

import (
	"fmt"
	"time"

	"github.com/jamesainslie/hashwalk/pkg/hashwalk/hasher"
	"github.com/jamesainslie/hashwalk/pkg/hashwalk/types"
)

// Marker produces the hash column text for a file that could not be hashed.
// The result always starts with types.ErrorMarkerPrefix.
type Marker func(err error) string

// TimestampMarker returns markers of the form ERROR_<CODE>_<epoch-millis>.
// A nil clock uses time.Now.
func TimestampMarker(now func() time.Time) Marker {
	if now == nil {
		now = time.Now
	}
	return func(err error) string {
		return fmt.Sprintf("%s%s_%d", types.ErrorMarkerPrefix, hasher.ErrorCode(err), now().UnixMilli())
	}
}

// DeterministicMarker returns ERROR_<CODE>, a function of the error alone.
func DeterministicMarker(err error) string {
	return types.ErrorMarkerPrefix + hasher.ErrorCode(err)
}
