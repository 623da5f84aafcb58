// Shared helpers for pantry CLI commands.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/pantry/pkg/memory"
	"github.com/mesh-intelligence/pantry/pkg/sqlite"
	"github.com/mesh-intelligence/pantry/pkg/types"
)

// exitError carries the process exit code for a failed command. Commands
// return it from RunE instead of calling os.Exit so deferred cleanup
// (Detach, and with it the memory backend's JSONL flush) still runs;
// main maps it to the exit code.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// userErrorf wraps a bad-input failure with exit code 1.
func userErrorf(format string, args ...any) error {
	return &exitError{code: exitUserError, err: fmt.Errorf(format, args...)}
}

// sysErrorf wraps an environment or backend failure with exit code 2.
func sysErrorf(format string, args ...any) error {
	return &exitError{code: exitSysError, err: fmt.Errorf(format, args...)}
}

// exitCode maps the error returned by Execute to the process exit code.
// Errors without an explicit code count as user errors.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitUserError
}

// attachBackend resolves the data directory, creates the configured
// backend, and attaches it. The caller must defer store.Detach().
func attachBackend() (types.Store, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	backend := configBackend
	if backend == "" {
		backend = defaultBackend
	}
	collections := configCollections
	if len(collections) == 0 {
		collections = []string{"records"}
	}

	cfg := types.Config{
		Backend:     backend,
		DataDir:     dataDir,
		Collections: collections,
	}

	var store types.Store
	switch backend {
	case types.BackendMemory:
		store = memory.NewBackend(nil)
	case types.BackendSQLite:
		store = sqlite.NewBackend()
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrBackendUnknown, backend)
	}

	if err := store.Attach(cfg); err != nil {
		return nil, fmt.Errorf("attach backend: %w", err)
	}
	return store, nil
}

// collectionNamesStr is a comma-separated list of configured collection
// names for error output.
func collectionNamesStr() string {
	return strings.Join(configCollections, ", ")
}

// printRecord writes one record to stdout, as indented JSON when --json
// is set and as key=value lines otherwise.
func printRecord(rec types.Record) error {
	if flagJSON {
		output, err := json.MarshalIndent(rec, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal record: %w", err)
		}
		fmt.Println(string(output))
		return nil
	}
	fmt.Println(rec.ID())
	for k, v := range rec {
		if k == "id" {
			continue
		}
		fmt.Printf("  %s=%v\n", k, v)
	}
	return nil
}

// isCollectionNotFound returns true if the error wraps ErrCollectionNotFound.
func isCollectionNotFound(err error) bool {
	return errors.Is(err, types.ErrCollectionNotFound)
}

// isRecordNotFound returns true if the error wraps ErrNotFound.
func isRecordNotFound(err error) bool {
	return errors.Is(err, types.ErrNotFound)
}
