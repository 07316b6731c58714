package crawler

import "errors"

var (
	// ErrInvalidStartURL is returned when the start URL cannot be
	// normalized to a fetchable http(s) URL.
	ErrInvalidStartURL = errors.New("crawler: start URL is not a fetchable http(s) URL")

	// ErrNoTargets is returned when a batch run is requested with an
	// empty target list.
	ErrNoTargets = errors.New("crawler: no discovery targets given")
)
