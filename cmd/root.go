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
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd is the harness's entry point: a thin CLI wrapping the core's
// message-passing boundary, not a daemon or service. It owns no
// network listener and no persistent state.
var rootCmd = &cobra.Command{
	Use:   "mobility",
	Short: "Run the mobility feature-extraction core over a batch of samples",
	Long: `mobility is a host harness around the mobility feature-extraction
core: it reads a day's geolocation samples, runs one processing cycle
through the core's stop detector, place clusterer, move reconstructor,
day aggregator, and feature extractor, and prints the resulting
Features record.

It is explicitly a harness, not a product surface: it performs no
acquisition, no persistence, and no network upload — those remain the
embedding host's responsibility.`,
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
