package main

import (
	"context"

	"github.com/ignitedb/ignite/pkg/ignite"
	"github.com/spf13/cobra"
)

func newSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a key to a value in the local store",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			db, err := ignite.NewInstance(ctx, "ignite-cli", engineOptions()...)
			if err != nil {
				return err
			}
			defer db.Close(ctx)

			return db.Set(ctx, args[0], []byte(args[1]))
		},
	}
}
