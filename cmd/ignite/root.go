package main

import (
	"time"

	"github.com/ignitedb/ignite/pkg/logger"
	"github.com/ignitedb/ignite/pkg/options"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagDataDir         string
	flagSegmentDir      string
	flagSegmentPrefix   string
	flagWasteThreshold  uint64
	flagCompactInterval time.Duration
	flagDev             bool
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "ignite",
		Short: "Ignite is an embedded, crash-safe, log-structured key/value store",
	}

	root.PersistentFlags().StringVar(&flagDataDir, "data-dir", options.DefaultDataDir, "directory holding the store's segment files and sentinel")
	root.PersistentFlags().StringVar(&flagSegmentDir, "segment-dir", options.DefaultSegmentDirectory, "subdirectory (relative to data-dir) for segment files")
	root.PersistentFlags().StringVar(&flagSegmentPrefix, "segment-prefix", options.DefaultSegmentPrefix, "filename prefix for segment files")
	root.PersistentFlags().Uint64Var(&flagWasteThreshold, "waste-threshold", options.DefaultWasteThreshold, "waste bytes accumulated before a compaction runs")
	root.PersistentFlags().DurationVar(&flagCompactInterval, "compact-interval", options.DefaultCompactInterval, "interval between background waste re-checks")
	root.PersistentFlags().BoolVar(&flagDev, "dev", false, "use a human-readable, colorized logger instead of JSON")

	root.AddCommand(
		newServeCommand(),
		newSetCommand(),
		newGetCommand(),
		newRmCommand(),
	)
	return root
}

// newLogger builds the logger serve hands to its engine and server,
// switching to the development encoder when --dev is set so local runs read
// easily without piping through a JSON formatter.
func newLogger(service string) *zap.SugaredLogger {
	if flagDev {
		return logger.NewDevelopment(service)
	}
	return logger.New(service)
}

func engineOptions() []options.OptionFunc {
	return []options.OptionFunc{
		options.WithDataDir(flagDataDir),
		options.WithSegmentDir(flagSegmentDir),
		options.WithSegmentPrefix(flagSegmentPrefix),
		options.WithWasteThreshold(flagWasteThreshold),
		options.WithCompactInterval(flagCompactInterval),
	}
}
