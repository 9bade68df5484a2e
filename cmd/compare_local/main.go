// compare_local runs the comparator against two capture JSON files and
// prints the report, for poking at threshold settings without a server.
//
// Usage: compare_local <live.json> <stage.json> [page-url]
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/agenthands/parity/internal/config"
	"github.com/agenthands/parity/internal/core"
	"github.com/agenthands/parity/internal/core/model"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "usage: compare_local <live.json> <stage.json> [page-url]")
		os.Exit(2)
	}

	pageURL := ""
	if len(os.Args) > 3 {
		pageURL = os.Args[3]
	}

	// Load both captures concurrently, the way the capture collaborator
	// produces them; the WaitGroup is the materialization barrier the
	// comparator requires.
	var wg sync.WaitGroup
	var live, stage model.Capture
	var liveErr, stageErr error

	wg.Add(2)
	go func() {
		defer wg.Done()
		live, liveErr = loadCapture(os.Args[1])
	}()
	go func() {
		defer wg.Done()
		stage, stageErr = loadCapture(os.Args[2])
	}()
	wg.Wait()

	for _, err := range []error{liveErr, stageErr} {
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	comparator := core.NewComparator(config.ComparatorConfig{
		MaxElements: 500,
		Thresholds:  config.DefaultThresholds(),
	})
	result := comparator.Compare(pageURL, live, stage)

	// The overlay is raw pixels; keep stdout readable.
	result.VisualDiff.DiffImage = nil

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(string(out))

	if result.Summary.Status == model.StatusFail {
		os.Exit(1)
	}
}

func loadCapture(path string) (model.Capture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Capture{}, fmt.Errorf("failed to read capture '%s': %w", path, err)
	}
	var capture model.Capture
	if err := json.Unmarshal(data, &capture); err != nil {
		return model.Capture{}, fmt.Errorf("failed to parse capture '%s': %w", path, err)
	}
	return capture, nil
}
