// Command ignite is the CLI entry point for the Ignite key/value store. It
// exposes a local-embedded mode for one-shot set/get/rm calls and a serve
// mode that runs internal/server over a chosen KvsEngine backend.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
