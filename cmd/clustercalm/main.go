package main

import (
	"fmt"
	"os"

	// zone data for --timezone and schedule conversion on hosts without /usr/share/zoneinfo
	_ "time/tzdata"

	"github.com/martijn/clustercalm/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
