package precio

import (
	"errors"
	"fmt"
	"time"
)

var (
	// the page carries no EAN, the whole extraction aborts,
	// no partial record is emitted
	ErrMissingEan = errors.New("no EAN found")
	// a structurally complete extractor output failed a
	// post-extraction invariant
	ErrInvalidRecord = errors.New("invalid price observation")
)

// Point is one price/stock reading for one product at one fetch.
// PrecioCentavos and InStock are pointers so "absent" stays
// distinguishable from a zero price or a known out-of-stock.
type Point struct {
	EAN       string
	FetchedAt time.Time
	// integer price in centavos, nil when the page declares no price
	PrecioCentavos *int64
	// nil when the page gives no availability signal
	InStock       *bool
	URL           string
	Name          string
	ImageURL      string
	ParserVersion uint16
}

// Normalize is the uniform gate between any extractor and the store:
// it enforces the canonical invariants and stamps the fetch time
// supplied by the external fetcher. extraction itself never reads the
// clock so fixtures stay reproducible.
func Normalize(p Point, fetchedAt time.Time) (Point, error) {
	if p.EAN == "" {
		return Point{}, fmt.Errorf("%w: empty ean", ErrInvalidRecord)
	}
	if p.PrecioCentavos != nil && *p.PrecioCentavos < 0 {
		return Point{}, fmt.Errorf("%w: negative price %d for ean %s", ErrInvalidRecord, *p.PrecioCentavos, p.EAN)
	}
	if fetchedAt.IsZero() {
		return Point{}, fmt.Errorf("%w: missing fetch time for ean %s", ErrInvalidRecord, p.EAN)
	}
	p.FetchedAt = fetchedAt
	return p, nil
}

func Centavos(v int64) *int64 {
	return &v
}

func Stock(v bool) *bool {
	return &v
}
