package main

import (
	"fmt"
	"os"

	"github.com/dotfold/dotfold/internal/cli"
	"github.com/dotfold/dotfold/pkg/style"
)

func main() {
	rootCmd := cli.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		errorStyle := style.Get("Error")
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}
}
