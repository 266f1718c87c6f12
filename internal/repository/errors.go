package repository

import "github.com/alexanderramin/tally/internal/domain"

// ErrNotFound is returned when no row carries the requested sync_id.
var ErrNotFound = domain.ErrNotFound
