// Insert command stores a new record from inline JSON.
package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/pantry/pkg/types"
)

var insertCmd = &cobra.Command{
	Use:   "insert <collection> <json>",
	Short: "Insert a record from a JSON object",
	Long: `Insert stores a new record in the specified collection. The record is
given as one JSON object; an id is generated when the object carries none.

Example:
  pantry insert posts '{"title": "hello"}'`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		collectionName := args[0]

		var attrs types.Record
		if err := json.Unmarshal([]byte(args[1]), &attrs); err != nil {
			return userErrorf("invalid record JSON: %s", err)
		}

		store, err := attachBackend()
		if err != nil {
			return sysErrorf("insert: %w", err)
		}
		defer store.Detach()

		col, err := store.Collection(collectionName)
		if err != nil {
			if isCollectionNotFound(err) {
				return userErrorf("unknown collection %q (valid: %s)", collectionName, collectionNamesStr())
			}
			return sysErrorf("get collection: %w", err)
		}

		row, err := col.Insert(attrs)
		if err != nil {
			return sysErrorf("insert record: %w", err)
		}

		fmt.Printf("Inserted %s/%s\n", collectionName, row.ID())
		return nil
	},
}
