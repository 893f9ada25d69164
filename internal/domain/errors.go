package domain

import (
	"errors"
	"fmt"
	"time"
)

// NoDataError indicates the market data provider has no session for a symbol
// on a given date (weekend, holiday, delisting, provider gap). Transient for
// the backfill: the record stays pending and is retried on the next run.
type NoDataError struct {
	Symbol string
	Date   time.Time
}

func (e *NoDataError) Error() string {
	return fmt.Sprintf("no price data for %s on %s", e.Symbol, e.Date.Format(DateFormat))
}

// IsNoData reports whether err is (or wraps) a NoDataError.
func IsNoData(err error) bool {
	var nd *NoDataError
	return errors.As(err, &nd)
}

// ErrInvalidReferencePrice marks records whose previous_close cannot anchor
// an evaluation. Permanent per record until corrected upstream; surfaced as
// a skip, never a crash.
var ErrInvalidReferencePrice = errors.New("invalid reference price")

// PersistenceError wraps a failed write of one record's evaluation patch.
// It never aborts the batch; the record is counted as failed and the run
// continues.
type PersistenceError struct {
	ID  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist evaluation for record %s: %v", e.ID, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
