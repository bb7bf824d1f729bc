package menu

import "errors"

// ErrVenueNotFound is returned when no venue matches the given slug.
var ErrVenueNotFound = errors.New("venue not found")
