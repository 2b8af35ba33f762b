package coffer

import "errors"

var (
	ErrEnrichmentExhausted = errors.New("official price not obtained")
	ErrNoData              = errors.New("no snapshot stored yet")
	ErrStoreUnavailable    = errors.New("snapshot store unavailable")
)
