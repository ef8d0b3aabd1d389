// Package validation checks user-supplied input before it reaches the
// domain layer.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// namePattern matches the subreddit naming rules the upstream enforces.
var namePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// FeedNameValidator validates subreddit names typed or saved by the user.
type FeedNameValidator struct {
	// MinLength and MaxLength bound the accepted name length.
	MinLength int
	MaxLength int
}

// NewFeedNameValidator creates a validator with the upstream's limits.
func NewFeedNameValidator() *FeedNameValidator {
	return &FeedNameValidator{
		MinLength: 2,
		MaxLength: 21,
	}
}

// NewPermissiveFeedNameValidator relaxes the length limits for tests and
// development fixtures.
func NewPermissiveFeedNameValidator() *FeedNameValidator {
	return &FeedNameValidator{
		MinLength: 1,
		MaxLength: 128,
	}
}

// ValidateAndNormalize validates a feed name and returns the canonical
// form used for display. Accepts an optional "r/" or "/r/" prefix and
// strips it. The returned name keeps its casing; identity comparisons are
// done case-insensitively by the store.
func (v *FeedNameValidator) ValidateAndNormalize(input string) (string, error) {
	name := strings.TrimSpace(input)
	name = strings.TrimPrefix(name, "/")
	name = strings.TrimPrefix(name, "r/")

	if name == "" {
		return "", fmt.Errorf("feed name cannot be empty")
	}
	if len(name) < v.MinLength {
		return "", fmt.Errorf("feed name too short (min %d characters)", v.MinLength)
	}
	if len(name) > v.MaxLength {
		return "", fmt.Errorf("feed name too long (max %d characters)", v.MaxLength)
	}
	if !namePattern.MatchString(name) {
		return "", fmt.Errorf("feed name may only contain letters, digits and underscores")
	}

	return name, nil
}
