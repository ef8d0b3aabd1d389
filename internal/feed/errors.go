package feed

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrExhausted reports a LoadMore call on a feed whose upstream
	// signalled that no further pages exist.
	ErrExhausted = errors.New("feed: no more pages")

	// ErrRemoved reports a method call on a feed after Remove. Removed
	// feeds are inert; this is a caller bug, not a retryable condition.
	ErrRemoved = errors.New("feed: feed has been removed")
)

// InvalidSortModeError reports a sort mode outside the enumerated set.
type InvalidSortModeError struct {
	Input string
}

func (e *InvalidSortModeError) Error() string {
	return fmt.Sprintf("feed: invalid sort mode %q (want hot, new, top or rising)", e.Input)
}

// MalformedPostError reports an upstream post record that cannot be
// normalized. Fetches skip such records and continue with the rest of the
// page.
type MalformedPostError struct {
	ID      string
	Missing []string
}

func (e *MalformedPostError) Error() string {
	id := e.ID
	if id == "" {
		id = "<no id>"
	}
	return fmt.Sprintf("feed: malformed post %s: missing %s", id, strings.Join(e.Missing, ", "))
}

// MalformedMetadataError reports an unusable /about record. Unlike post
// records there is nothing to skip; the whole metadata fetch fails.
type MalformedMetadataError struct {
	Feed string
	Err  error
}

func (e *MalformedMetadataError) Error() string {
	return fmt.Sprintf("feed: malformed metadata for r/%s: %v", e.Feed, e.Err)
}

func (e *MalformedMetadataError) Unwrap() error {
	return e.Err
}
