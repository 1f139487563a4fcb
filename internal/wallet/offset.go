package wallet

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	syncerr "github.com/mrz1836/walletsync/pkg/errors"
)

// snapshotHeader is the only part of a serialized session the bootstrap
// engine looks at.
type snapshotHeader struct {
	Offset json.RawMessage `json:"offset"`
}

// ExtractOffset reads the numeric "offset" field from a serialized session.
// The field may be a JSON number or a decimal string; anything else is
// ErrSnapshotInvalid.
func ExtractOffset(snapshot []byte) (SyncOffset, error) {
	var hdr snapshotHeader
	if err := json.Unmarshal(snapshot, &hdr); err != nil {
		return 0, syncerr.Mark(syncerr.ErrSnapshotInvalid, fmt.Errorf("decoding snapshot: %w", err))
	}

	raw := bytes.TrimSpace(hdr.Offset)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, syncerr.WithDetails(syncerr.ErrSnapshotInvalid, map[string]string{"offset": "missing"})
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, syncerr.Mark(syncerr.ErrSnapshotInvalid, err)
		}
		raw = []byte(s)
	}

	n, err := strconv.ParseUint(string(raw), 10, 64)
	if err != nil {
		return 0, syncerr.Mark(syncerr.ErrSnapshotInvalid, fmt.Errorf("offset %q: %w", raw, err))
	}
	return SyncOffset(n), nil
}
