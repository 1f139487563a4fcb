package session

import "strings"

// Stage is a step of the acquire state machine.
type Stage int

// Acquire stages in the order they can occur.
const (
	StageStart Stage = iota
	StageNoSnapshot
	StageRestoreAttempt
	StageResetDetected
	StageResetNotDetected
	StageResyncCheck
	StageSynced
	StageRebuildFromSeed
	StageFunded
	StageDone
)

var stageNames = map[Stage]string{
	StageStart:            "start",
	StageNoSnapshot:       "no_snapshot",
	StageRestoreAttempt:   "restore_attempt",
	StageResetDetected:    "reset_detected",
	StageResetNotDetected: "reset_not_detected",
	StageResyncCheck:      "resync_check",
	StageSynced:           "synced",
	StageRebuildFromSeed:  "rebuild_from_seed",
	StageFunded:           "funded",
	StageDone:             "done",
}

// String returns the stage name.
func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return "unknown"
}

// Trail is the ordered list of stages an acquire passed through.
type Trail []Stage

// String joins the stage names with arrows.
func (t Trail) String() string {
	names := make([]string, len(t))
	for i, s := range t {
		names[i] = s.String()
	}
	return strings.Join(names, " -> ")
}

// Contains reports whether the trail passed through s.
func (t Trail) Contains(s Stage) bool {
	for _, v := range t {
		if v == s {
			return true
		}
	}
	return false
}

// Path records how the returned wallet was obtained.
type Path string

// Acquire paths. PathNone labels acquires that ended before a wallet
// handle existed.
const (
	PathNone     Path = "none"
	PathRestored Path = "restored"
	PathRebuilt  Path = "rebuilt"
)

// Fallback reasons recorded when a restore is abandoned.
const (
	reasonLoadFailed      = "load_failed"
	reasonSnapshotInvalid = "snapshot_invalid"
	reasonRestoreFailed   = "restore_failed"
	reasonStartFailed     = "start_failed"
	reasonResetCheck      = "reset_check_failed"
	reasonChainReset      = "chain_reset"
	reasonResyncFailed    = "resync_failed"
)
