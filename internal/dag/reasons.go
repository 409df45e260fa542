package dag

// Stable failure reason codes recorded in results and traces.
//
// These strings are part of the canonical trace bytes; do not rename.
const (
	ReasonOverflow        = "Overflow"
	ReasonMissingUpstream = "MissingUpstreamValue"
)
