/*
Copyright © 2024 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/harrowgate/mobility/common"
	"github.com/harrowgate/mobility/engine"
	"github.com/harrowgate/mobility/events"
	"github.com/harrowgate/mobility/params"
	"github.com/harrowgate/mobility/types"
)

var (
	optDay              string
	optMinStopDistance  float64
	optMinStopDuration  time.Duration
	optMinPlaceDistance float64
	optMinMoveDuration  time.Duration
)

// extractCmd is the harness's one real subcommand: decode a day's worth
// of NDJSON samples from stdin, run one processing cycle, print the
// resulting Features record. It is the concrete shape of a
// message-passing embedding boundary: one request in, one reply out.
var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract one day's mobility Features from NDJSON samples on stdin",
	Long: `extract reads newline-delimited JSON sample records from stdin
(schema: {"latitude","longitude","datetime"}, datetime in milliseconds
since the Unix epoch), runs the full core pipeline for the given day,
and writes the resulting Features record to stdout as JSON.

Samples must already be ordered non-decreasingly by timestamp; extract
does not sort on the caller's behalf, mirroring the core's own
ErrUnorderedSamples contract.

Example:

  zcat 2024-05-01.ndjson.gz | mobility extract --day 2024-05-01
`,
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVar(&optDay, "day", "", "calendar day to extract features for, YYYY-MM-DD (required)")
	extractCmd.Flags().Float64Var(&optMinStopDistance, "min-stop-distance", 0, "override MinStopDistance in meters (0 keeps the default)")
	extractCmd.Flags().DurationVar(&optMinStopDuration, "min-stop-duration", 0, "override MinStopDuration (0 keeps the default)")
	extractCmd.Flags().Float64Var(&optMinPlaceDistance, "min-place-distance", 0, "override MinPlaceDistance in meters (0 keeps the default)")
	extractCmd.Flags().DurationVar(&optMinMoveDuration, "min-move-duration", 0, "override MinMoveDuration (0 keeps the default)")
	_ = extractCmd.MarkFlagRequired("day")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	day, err := time.Parse("2006-01-02", optDay)
	if err != nil {
		return fmt.Errorf("parsing --day: %w", err)
	}

	p := params.DefaultParams()
	if optMinStopDistance > 0 {
		p.MinStopDistance = optMinStopDistance
	}
	if optMinStopDuration > 0 {
		p.MinStopDuration = optMinStopDuration
	}
	if optMinPlaceDistance > 0 {
		p.MinPlaceDistance = optMinPlaceDistance
	}
	if optMinMoveDuration > 0 {
		p.MinMoveDuration = optMinMoveDuration
	}

	samples, skipped, err := decodeSamples(os.Stdin)
	if err != nil {
		return err
	}
	if skipped > 0 {
		slog.Warn("extract: skipped malformed lines", "count", skipped)
	}
	slog.Info("extract: decoded samples", "count", humanize.Comma(int64(len(samples))), "day", day.Format("2006-01-02"))

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	go func() {
		select {
		case <-common.Interrupted():
			cancel()
		case <-ctx.Done():
		}
	}()

	eng := engine.New(events.NewFeed())
	started := time.Now()
	features, err := eng.Run(ctx, engine.Input{
		Day:     day,
		Samples: samples,
		Params:  p,
	})
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}
	slog.Info("extract: finished", "elapsed", time.Since(started).String())

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(features)
}

// decodeSamples reads NDJSON from r, decoding each line as a
// types.Sample. It uses gjson for a cheap well-formedness scan before
// handing well-formed lines to encoding/json, a two-tier decode that
// avoids full unmarshaling of garbage lines. Malformed lines are
// skipped and counted rather than aborting the whole batch.
func decodeSamples(r io.Reader) (samples []types.Sample, skipped int, err error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if !gjson.ValidBytes(line) {
			skipped++
			continue
		}
		var s types.Sample
		if jsonErr := json.Unmarshal(line, &s); jsonErr != nil {
			skipped++
			continue
		}
		samples = append(samples, s)
	}
	if scanErr := scanner.Err(); scanErr != nil {
		return nil, skipped, fmt.Errorf("reading stdin: %w", scanErr)
	}
	return samples, skipped, nil
}
