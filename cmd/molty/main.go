// molty serves a local dashboard that reports what the agent is doing.
package main

import (
	"os"

	"github.com/wethinkt/go-molty/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
