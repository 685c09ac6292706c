package curve

import "errors"

var (
	// ErrBootstrap is returned when an instrument cannot be repriced within
	// tolerance during curve construction. The whole build aborts; no
	// partial curve is ever returned.
	ErrBootstrap = errors.New("curve: bootstrap failed")

	// ErrCurveInversion is returned when the solved discount factors are
	// non-monotonic or non-positive, which signals malformed input quotes
	// rather than a solver bug.
	ErrCurveInversion = errors.New("curve: non-monotonic or non-positive discount factors")

	// ErrDomain is returned for queries that are mathematically undefined,
	// e.g. a zero rate at or before the settlement date.
	ErrDomain = errors.New("curve: query outside valid domain")
)
