package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/pantry/pkg/types"
)

// Collection provides keyed row access for one configured collection
// name, backed by the shared rows table.
type Collection struct {
	backend *Backend
	name    string
}

// newUUID generates a UUID v7 string.
func newUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails.
		return uuid.New().String()
	}
	return id.String()
}

// Find returns the row with the given id.
func (c *Collection) Find(id string) (types.Record, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	c.backend.mu.RLock()
	defer c.backend.mu.RUnlock()
	if !c.backend.attached {
		return nil, types.ErrStoreDetached
	}

	row := c.backend.db.QueryRow(
		"SELECT attrs FROM rows WHERE collection = ? AND id = ?", c.name, id)
	return scanRecord(row)
}

// Insert stores a new row, assigning a UUID v7 id when the record carries
// none. Returns the stored row including the id.
func (c *Collection) Insert(attrs types.Record) (types.Record, error) {
	c.backend.mu.Lock()
	defer c.backend.mu.Unlock()
	if !c.backend.attached {
		return nil, types.ErrStoreDetached
	}

	row := attrs.Clone()
	id := row.ID()
	if id == "" {
		id = newUUID()
		row["id"] = id
	}

	raw, err := json.Marshal(row)
	if err != nil {
		return nil, fmt.Errorf("marshal %s row: %w", c.name, err)
	}
	_, err = c.backend.db.Exec(
		"INSERT OR REPLACE INTO rows (collection, id, attrs) VALUES (?, ?, ?)",
		c.name, id, string(raw))
	if err != nil {
		return nil, fmt.Errorf("insert into %s: %w", c.name, err)
	}
	return row.Clone(), nil
}

// Update merges attrs into the row with the given id.
func (c *Collection) Update(id string, attrs types.Record) error {
	if id == "" {
		return types.ErrInvalidID
	}
	c.backend.mu.Lock()
	defer c.backend.mu.Unlock()
	if !c.backend.attached {
		return types.ErrStoreDetached
	}

	row := c.backend.db.QueryRow(
		"SELECT attrs FROM rows WHERE collection = ? AND id = ?", c.name, id)
	current, err := scanRecord(row)
	if err != nil {
		return err
	}
	for k, v := range attrs {
		if k == "id" {
			continue
		}
		current[k] = v
	}

	raw, err := json.Marshal(current)
	if err != nil {
		return fmt.Errorf("marshal %s row: %w", c.name, err)
	}
	_, err = c.backend.db.Exec(
		"UPDATE rows SET attrs = ? WHERE collection = ? AND id = ?",
		string(raw), c.name, id)
	if err != nil {
		return fmt.Errorf("update %s: %w", c.name, err)
	}
	return nil
}

// Remove deletes the row with the given id.
func (c *Collection) Remove(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	c.backend.mu.Lock()
	defer c.backend.mu.Unlock()
	if !c.backend.attached {
		return types.ErrStoreDetached
	}

	res, err := c.backend.db.Exec(
		"DELETE FROM rows WHERE collection = ? AND id = ?", c.name, id)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", c.name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return types.ErrNotFound
	}
	return nil
}

// FindBy returns every row whose field equals value, in insertion order.
// Comparison happens after JSON round-tripping, so numeric values compare
// as float64, and uses reflect.DeepEqual so array- and object-valued
// fields filter instead of panicking.
func (c *Collection) FindBy(field string, value any) ([]types.Record, error) {
	rows, err := c.All()
	if err != nil {
		return nil, err
	}
	var out []types.Record
	for _, row := range rows {
		if reflect.DeepEqual(row[field], value) {
			out = append(out, row)
		}
	}
	return out, nil
}

// All returns every row in insertion order.
func (c *Collection) All() ([]types.Record, error) {
	c.backend.mu.RLock()
	defer c.backend.mu.RUnlock()
	if !c.backend.attached {
		return nil, types.ErrStoreDetached
	}

	rows, err := c.backend.db.Query(
		"SELECT attrs FROM rows WHERE collection = ? ORDER BY rowid", c.name)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", c.name, err)
	}
	defer rows.Close()

	var out []types.Record
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", c.name, err)
		}
		var rec types.Record
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, fmt.Errorf("parse %s row: %w", c.name, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// scanRecord decodes one attrs column into a Record, mapping sql.ErrNoRows
// to ErrNotFound.
func scanRecord(row *sql.Row) (types.Record, error) {
	var raw string
	err := row.Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning row: %w", err)
	}
	var rec types.Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, fmt.Errorf("parsing row attrs: %w", err)
	}
	return rec, nil
}
