// JSONL fixture loading and persistence for the memory backend. Each
// collection maps to one <name>.jsonl file in the data directory: one JSON
// object per line, read on Attach and written back atomically on Detach.
package memory

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/pantry/pkg/types"
)

// seedAll loads every collection's JSONL file from dataDir. A missing
// file means the collection starts empty; malformed lines are skipped.
func (b *Backend) seedAll(dataDir string) error {
	for name, col := range b.collections {
		records, err := readJSONL(filepath.Join(dataDir, name+".jsonl"))
		if err != nil {
			return err
		}
		loaded := 0
		for _, raw := range records {
			var row types.Record
			if err := json.Unmarshal(raw, &row); err != nil {
				// Skip malformed records.
				continue
			}
			if _, err := col.Insert(row); err != nil {
				continue
			}
			loaded++
		}
		if loaded > 0 {
			b.logger.Info("seeded collection",
				"collection", name,
				"rows", loaded,
			)
		}
	}
	return nil
}

// flushAll writes every collection back to its JSONL file.
func (b *Backend) flushAll(dataDir string) error {
	for name, col := range b.collections {
		rows, err := col.All()
		if err != nil {
			return err
		}
		records := make([]json.RawMessage, 0, len(rows))
		for _, row := range rows {
			raw, err := json.Marshal(row)
			if err != nil {
				return fmt.Errorf("marshal %s row: %w", name, err)
			}
			records = append(records, raw)
		}
		if err := writeJSONL(filepath.Join(dataDir, name+".jsonl"), records); err != nil {
			return err
		}
		b.logger.Info("flushed collection",
			"collection", name,
			"rows", len(records),
		)
	}
	return nil
}

// readJSONL reads a JSONL file and returns each non-empty, parseable line
// as a json.RawMessage. A missing file yields no records. Malformed lines
// are skipped.
func readJSONL(path string) ([]json.RawMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var records []json.RawMessage
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if !json.Valid(line) {
			continue
		}
		cp := make([]byte, len(line))
		copy(cp, line)
		records = append(records, json.RawMessage(cp))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}
	return records, nil
}

// writeJSONL atomically writes records to a JSONL file using the
// temp-file, fsync, rename pattern.
func writeJSONL(path string, records []json.RawMessage) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".jsonl-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	w := bufio.NewWriter(tmp)
	for _, rec := range records {
		if _, err := w.Write(rec); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return fmt.Errorf("writing record: %w", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return fmt.Errorf("writing newline: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("flushing buffer: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
