package main

import (
	"os"

	"github.com/askiada/go-dogpic/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
