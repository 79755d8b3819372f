package main

import (
	"path/filepath"

	"github.com/ignitedb/ignite/internal/engine"
	"github.com/ignitedb/ignite/internal/kvengine"
	"github.com/ignitedb/ignite/internal/server"
	"github.com/ignitedb/ignite/internal/sledengine"
	"github.com/ignitedb/ignite/internal/threadpool"
	"github.com/ignitedb/ignite/pkg/options"
	"github.com/spf13/cobra"
)

func newServeCommand() *cobra.Command {
	var addr string
	var engineKind string
	var workers int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the Ignite TCP server over a chosen engine backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger("ignite-server")

			var eng kvengine.KvsEngine
			switch kvengine.Kind(engineKind) {
			case kvengine.KindSled:
				sled, err := sledengine.Open(flagDataDir, log)
				if err != nil {
					return err
				}
				eng = sled

			default:
				defaultOpts := options.NewDefaultOptions()
				for _, opt := range engineOptions() {
					opt(&defaultOpts)
				}
				native, err := engine.New(&engine.Config{Logger: log, Options: &defaultOpts})
				if err != nil {
					return err
				}
				eng = native
			}
			defer eng.Close()

			pool := threadpool.New(workers, log)
			defer pool.Close()

			srv := server.New(eng, pool, log)
			log.Infow("starting server", "addr", addr, "engine", engineKind, "dataDir", filepath.Clean(flagDataDir))
			return srv.ListenAndServe(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:4000", "address to listen on")
	cmd.Flags().StringVar(&engineKind, "engine", string(kvengine.KindIgnite), "storage backend: ignite or sled")
	cmd.Flags().IntVar(&workers, "workers", 4, "number of worker goroutines in the shared-queue thread pool")

	return cmd
}
