package services

import "errors"

// Sentinel errors the HTTP layer maps to response codes.
var (
	// ErrRouteNotFound: the referenced route plan does not exist.
	ErrRouteNotFound = errors.New("route not found")

	// ErrStopNotFound: the route exists but has no stop for the bin.
	ErrStopNotFound = errors.New("stop not found")

	// ErrNotYourRoute: a collector touched a route assigned to someone else.
	ErrNotYourRoute = errors.New("route is not assigned to this collector")

	// ErrNoEligibleBins: no bin is above the warning threshold; callers
	// must short-circuit instead of calling the optimizer.
	ErrNoEligibleBins = errors.New("no eligible bins")

	// ErrOptimizerUnavailable: the optimizer service timed out or failed.
	// Route generation fails cleanly; no plan is persisted.
	ErrOptimizerUnavailable = errors.New("optimizer service unavailable")
)
