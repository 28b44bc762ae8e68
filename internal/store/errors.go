package store

import "errors"

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails. Callers should use
// [errors.Is] to match against these values.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT against the
	// database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to execute statement")

	// ErrScanningRows is returned when scanning column values during
	// result-set iteration fails.
	ErrScanningRows = errors.New("failed to scan vault record rows")
)
