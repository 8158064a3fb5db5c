package database

import "errors"

var (
	// ErrEmptyQuestion is returned by Persist when the thread has no opening
	// message. Nothing is written in that case.
	ErrEmptyQuestion = errors.New("thread has no question")

	// ErrDatabaseNotFound is returned by Open when CreateIfNotExists is false
	// and the database file does not exist.
	ErrDatabaseNotFound = errors.New("database not found")
)
