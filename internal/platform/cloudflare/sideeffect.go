package cloudflare

// SideEffectState describes the outcome of a best-effort secondary step
// performed alongside a primary operation.
type SideEffectState int

const (
	// SecondaryOK means the dependent step completed.
	SecondaryOK SideEffectState = iota

	// SecondarySkipped means the dependent step was not attempted, e.g.
	// the hostname for a route could not be resolved.
	SecondarySkipped

	// SecondaryFailed means the dependent step failed. The primary
	// operation still succeeded; the failure is carried here instead of
	// being propagated.
	SecondaryFailed
)

// SideEffect reports what happened to the dependent resource step of a
// primary operation. Failure never invalidates the primary result.
type SideEffect struct {
	State SideEffectState
	Err   error
}

// Failed reports whether the dependent step failed.
func (s SideEffect) Failed() bool {
	return s.State == SecondaryFailed
}

func (s SideEffectState) String() string {
	switch s {
	case SecondaryOK:
		return "ok"
	case SecondarySkipped:
		return "skipped"
	case SecondaryFailed:
		return "failed"
	default:
		return "unknown"
	}
}
