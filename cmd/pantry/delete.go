// Delete command for the pantry CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <collection> <id>",
	Short: "Remove a record by ID from a collection",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		collectionName := args[0]
		id := args[1]

		store, err := attachBackend()
		if err != nil {
			return sysErrorf("delete: %w", err)
		}
		defer store.Detach()

		col, err := store.Collection(collectionName)
		if err != nil {
			if isCollectionNotFound(err) {
				return userErrorf("unknown collection %q (valid: %s)", collectionName, collectionNamesStr())
			}
			return sysErrorf("get collection: %w", err)
		}

		if err := col.Remove(id); err != nil {
			if isRecordNotFound(err) {
				return userErrorf("record %q not found in collection %q", id, collectionName)
			}
			return sysErrorf("remove record: %w", err)
		}

		fmt.Printf("Deleted %s/%s\n", collectionName, id)
		return nil
	},
}
