package repository

import "errors"

// Sentinel errors shared by the in-memory stores. Services translate these
// into the API error taxonomy.
var (
	ErrNotFound      = errors.New("repository: record not found")
	ErrAlreadyExists = errors.New("repository: record already exists")
)
