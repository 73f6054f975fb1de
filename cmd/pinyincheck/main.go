// Package main is the entry point for the pinyincheck CLI.
package main

import (
	"os"

	"github.com/f3rmion/pinyincheck/cmd/pinyincheck/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
