// Package repository holds the persistence interfaces the controllers depend
// on, plus their MongoDB implementations. The query shapes match the routes
// one to one so the store can be swapped without touching handler logic.
package repository

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a lookup or a targeted update matches no
// document. Handlers map it to a 404.
var ErrNotFound = errors.New("repository: document not found")

const queryTimeout = 10 * time.Second
