package main

import (
	"context"
	"fmt"

	"github.com/ignitedb/ignite/pkg/errors"
	"github.com/ignitedb/ignite/pkg/ignite"
	"github.com/spf13/cobra"
)

func newGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get the value for a key from the local store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			db, err := ignite.NewInstance(ctx, "ignite-cli", engineOptions()...)
			if err != nil {
				return err
			}
			defer db.Close(ctx)

			value, err := db.Get(ctx, args[0])
			if errors.IsKeyNotFound(err) {
				fmt.Println("Key not found")
				return nil
			}
			if err != nil {
				return err
			}

			fmt.Println(string(value))
			return nil
		},
	}
}
