package main

import (
	"os"

	"github.com/STomoya/stutil/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
