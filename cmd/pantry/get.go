// Get command retrieves a record by ID from a collection.
package main

import (
	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <collection> <id>",
	Short: "Get a record by ID",
	Long: `Get retrieves a record from the specified collection by its ID.

Example:
  pantry get posts 0190cafe-...`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		collectionName := args[0]
		id := args[1]

		store, err := attachBackend()
		if err != nil {
			return sysErrorf("get: %w", err)
		}
		defer store.Detach()

		col, err := store.Collection(collectionName)
		if err != nil {
			if isCollectionNotFound(err) {
				return userErrorf("unknown collection %q (valid: %s)", collectionName, collectionNamesStr())
			}
			return sysErrorf("get collection: %w", err)
		}

		rec, err := col.Find(id)
		if err != nil {
			if isRecordNotFound(err) {
				return userErrorf("record %q not found in collection %q", id, collectionName)
			}
			return sysErrorf("find record: %w", err)
		}

		return printRecord(rec)
	},
}
