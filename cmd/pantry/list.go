// List command queries records from a collection with optional filtering.
package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/pantry/pkg/types"
)

var listCmd = &cobra.Command{
	Use:   "list <collection> [field=value]",
	Short: "List records with an optional field filter",
	Long: `List prints records from the specified collection in insertion order.

An optional field=value argument restricts the output to rows whose field
equals the value. The value is parsed as JSON when possible, so numbers
and booleans compare as their typed selves.

Example:
  pantry list posts
  pantry list posts author_id=0190cafe-...`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		collectionName := args[0]

		store, err := attachBackend()
		if err != nil {
			return sysErrorf("list: %w", err)
		}
		defer store.Detach()

		col, err := store.Collection(collectionName)
		if err != nil {
			if isCollectionNotFound(err) {
				return userErrorf("unknown collection %q (valid: %s)", collectionName, collectionNamesStr())
			}
			return sysErrorf("get collection: %w", err)
		}

		var records []types.Record
		if len(args) == 2 {
			parts := strings.SplitN(args[1], "=", 2)
			if len(parts) != 2 {
				return userErrorf("invalid filter %q (expected field=value)", args[1])
			}
			// Try to parse as JSON for typed values, otherwise use the raw string.
			var value any
			if err := json.Unmarshal([]byte(parts[1]), &value); err != nil {
				value = parts[1]
			}
			records, err = col.FindBy(parts[0], value)
		} else {
			records, err = col.All()
		}
		if err != nil {
			return sysErrorf("list records: %w", err)
		}

		if flagJSON {
			output, err := json.MarshalIndent(records, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal records: %w", err)
			}
			fmt.Println(string(output))
			return nil
		}
		for _, rec := range records {
			if err := printRecord(rec); err != nil {
				return err
			}
		}
		return nil
	},
}
