package main

import (
	"context"
	"fmt"

	"github.com/ignitedb/ignite/pkg/errors"
	"github.com/ignitedb/ignite/pkg/ignite"
	"github.com/spf13/cobra"
)

func newRmCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <key>",
		Short: "Remove a key from the local store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			db, err := ignite.NewInstance(ctx, "ignite-cli", engineOptions()...)
			if err != nil {
				return err
			}
			defer db.Close(ctx)

			err = db.Delete(ctx, args[0])
			if errors.IsKeyNotFound(err) {
				fmt.Println("Key not found")
				return err
			}
			return err
		},
	}
}
