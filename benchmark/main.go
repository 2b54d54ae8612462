// Package main provides a performance benchmarking tool for the sprocket CLI.
// It measures command latency against a storefront API with and without the
// response cache, treating the first cached run as cold and averaging the rest
// as warm, generating CSV output for performance analysis and documentation.
//
// Prerequisites:
// - sprocket binary installed and available in PATH
// - A reachable storefront API (point SPROCKET_API_BASE_URL at a staging host)
//
// Usage: go run benchmark/main.go [api-base-url]
//
//	api-base-url: Base URL of the storefront API to benchmark against
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	Command     string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	APIBaseURL  string
	Timeout     time.Duration
	NoCacheRuns int
	CacheRuns   int
	Commands    [][]string
}

func main() {
	// Parse command line arguments
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [api-base-url]\n", os.Args[0])
		os.Exit(1)
	}
	apiBaseURL := os.Args[1]

	config := BenchmarkConfig{
		APIBaseURL:  apiBaseURL,
		Timeout:     2 * time.Minute,
		NoCacheRuns: 3,
		CacheRuns:   4,
		Commands: [][]string{
			{"services"},
			{"vehicles"},
			{"services", "--output", "json"},
		},
	}

	if err := checkPrerequisites(); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	// Clear the cache using sprocket cache clear
	fmt.Printf("Clearing cache...\n")
	clearCmd := exec.Command("sprocket", "cache", "clear")
	if output, err := clearCmd.CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear cache: %v\nOutput: %s\n", err, string(output))
	} else {
		fmt.Printf("Cache cleared successfully\n")
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the sprocket binary exists
func checkPrerequisites() error {
	if _, err := exec.LookPath("sprocket"); err != nil {
		return fmt.Errorf("sprocket binary not found in PATH")
	}
	return nil
}

// runBenchmarks executes all benchmark tests across configured commands
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d commands, %v timeout, no-cache: %d runs, cache: %d runs\n",
		len(config.Commands), config.Timeout, config.NoCacheRuns, config.CacheRuns)

	for _, command := range config.Commands {
		results = append(results, runBenchmarkSuite(config, command))
	}

	return results
}

// runBenchmarkSuite runs both no-cache and cache benchmarks for a command
func runBenchmarkSuite(config BenchmarkConfig, command []string) BenchmarkResult {
	label := commandLabel(command)
	fmt.Printf("Running %s\n", label)

	// Helper to run a benchmark phase
	runPhase := func(cacheBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, command, cacheBackend, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avg := sum / float64(len(times))
			avgTime = fmt.Sprintf("%.3fs", avg)
		}
		return cold, avgTime
	}

	// Phase 1: No-cache runs
	_, noCacheAvg := runPhase("none", config.NoCacheRuns, "No-cache")

	// Phase 2: Cache runs
	coldTime, warmAvg := runPhase("sqlite", config.CacheRuns, "Cache")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Command:     label,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes a sprocket command multiple times with the specified
// cache backend and returns the cold time and warm times
func runBenchmark(config BenchmarkConfig, command []string, cacheBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := append([]string{}, command...)
	args = append(args, "--cache-backend", cacheBackend, "--api-base-url", config.APIBaseURL)

	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()

		cmd := exec.Command("sprocket", args...)

		done := make(chan bool)
		var cmdErr error

		go func() {
			_, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			// Timeout - don't add to times
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// commandLabel flattens a command argument list into a single label
func commandLabel(command []string) string {
	label := ""
	for i, arg := range command {
		if i > 0 {
			label += " "
		}
		label += arg
	}
	return label
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/sprocket_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	if err := writer.Write([]string{"cmd", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, result := range results {
		if err := writer.Write([]string{result.Command, result.NoCacheTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, result := range results {
		fmt.Printf("  %-24s: No-cache: %s, Cold: %s, Warm: %s\n",
			result.Command, result.NoCacheTime, result.ColdTime, result.WarmTime)
	}
	fmt.Printf("Benchmark script completed successfully\n")
}
