package feed

import "strings"

// Sort is one of the four upstream ranking strategies for a feed's entries.
type Sort string

const (
	SortHot    Sort = "hot"
	SortNew    Sort = "new"
	SortTop    Sort = "top"
	SortRising Sort = "rising"
)

// Sorts lists every valid sort mode.
func Sorts() []Sort {
	return []Sort{SortHot, SortNew, SortTop, SortRising}
}

// Valid reports whether s is one of the enumerated sort modes.
func (s Sort) Valid() bool {
	switch s {
	case SortHot, SortNew, SortTop, SortRising:
		return true
	}
	return false
}

func (s Sort) String() string {
	return string(s)
}

// ParseSort parses a user- or store-provided sort mode.
func ParseSort(s string) (Sort, error) {
	sort := Sort(strings.ToLower(strings.TrimSpace(s)))
	if !sort.Valid() {
		return "", &InvalidSortModeError{Input: s}
	}
	return sort, nil
}
