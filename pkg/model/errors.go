package model

import "errors"

// Construction errors. All are fatal: no partial instance is returned.
var (
	// ErrMissingSchema is returned when a Model is constructed without a
	// schema.
	ErrMissingSchema = errors.New("model requires a schema")

	// ErrMissingModelName is returned when a Model is constructed without
	// a model name.
	ErrMissingModelName = errors.New("model requires a model name")

	// ErrUnknownModel is returned when the model name has no registered
	// definition in the schema.
	ErrUnknownModel = errors.New("model is not registered in the schema")

	// ErrUnknownAssociation is returned when an attribute hash key holds a
	// Model or Records value but is not declared as an association.
	ErrUnknownAssociation = errors.New("key is not a declared association")

	// ErrInvalidAssociation is returned when an association is assigned a
	// value of the wrong shape (e.g. a scalar where a Model is expected).
	ErrInvalidAssociation = errors.New("invalid association value")

	// ErrBrokenReference is returned when a supplied non-nil foreign key
	// does not resolve to an existing row in the referenced collection.
	ErrBrokenReference = errors.New("foreign key references a missing record")

	// ErrNoBelongsTo signals a schema setup bug: a foreign-key attribute
	// name could not be matched to any declared belongs-to association.
	ErrNoBelongsTo = errors.New("no belongs-to association for foreign key")
)

// ErrNotPersisted is returned by Reload and Destroy on a model that has
// never been assigned an id.
var ErrNotPersisted = errors.New("model has never been saved")
