// Package crawlerr holds the error kinds surfaced by a crawl.
package crawlerr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnknown Kind = iota
	// KindInsufficientOptions means the crawl was configured without a card name.
	KindInsufficientOptions
	// KindCardNameAmbiguousOrNotFound means the search did not identify exactly one card.
	KindCardNameAmbiguousOrNotFound
	// KindUnexpectedPageShape means the fetched markup is not a card details page.
	KindUnexpectedPageShape
	// KindTransportFailure means the search or the page fetch failed on the wire.
	KindTransportFailure
)

func (k Kind) String() string {
	switch k {
	case KindInsufficientOptions:
		return "insufficient options"
	case KindCardNameAmbiguousOrNotFound:
		return "card name ambiguous or not found"
	case KindUnexpectedPageShape:
		return "unexpected page shape"
	case KindTransportFailure:
		return "transport failure"
	default:
		return "unknown"
	}
}

// Error is an error tagged with a Kind. Two errors match with errors.Is when
// their kinds are equal, so the sentinels below can be used for comparisons.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Msg != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Msg)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %s", msg, e.Err.Error())
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrInsufficientOptions         = &Error{Kind: KindInsufficientOptions}
	ErrCardNameAmbiguousOrNotFound = &Error{Kind: KindCardNameAmbiguousOrNotFound}
	ErrUnexpectedPageShape         = &Error{Kind: KindUnexpectedPageShape}
	ErrTransportFailure            = &Error{Kind: KindTransportFailure}
)

func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

func Wrap(kind Kind, msg string, err error) error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf returns the kind of the first Error in err's chain.
func KindOf(err error) Kind {
	var target *Error
	if errors.As(err, &target) {
		return target.Kind
	}
	return KindUnknown
}
