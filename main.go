package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/stateful/runpad/internal/cmd"
	"github.com/stateful/runpad/internal/log"
	"github.com/stateful/runpad/internal/version"
)

func root() int {
	defer log.Flush()

	root := cmd.Root()
	root.Version = version.String()
	if err := root.Execute(); err != nil {
		log.Get().Error("command failed", zap.Error(err))
		_, _ = fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}
	return 0
}

func main() {
	os.Exit(root())
}
