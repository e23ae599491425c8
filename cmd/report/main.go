// Command report renders the dashboard views and aggregates of an hourly
// bike-sharing dataset as text tables.
//
// Usage:
//
//	go run ./cmd/report view visualizations --data data/hour.csv
//	go run ./cmd/report aggregate daily --data data/hour.csv
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
