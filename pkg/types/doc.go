// Package types defines the Store and Collection interfaces, the Record
// attribute hash, configuration, and standard errors for the Pantry
// storage system. Backends under internal/ implement these interfaces;
// the record layer in pkg/model consumes them.
package types
