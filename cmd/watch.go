/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

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

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/notargets/meshseq/sequence"
)

func (app *App) newWatchCmd() *cobra.Command {
	watchCmd := &cobra.Command{
		Use:   "watch directory",
		Short: "Print the sequences of a directory whenever its files change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			debounce, _ := cmd.Flags().GetDuration("debounce")
			list, _ := cmd.Flags().GetBool("list")
			out := cmd.OutOrStdout()
			app.logger.Info("Watching directory", zap.String("dir", args[0]), zap.Duration("debounce", debounce))
			return sequence.Watch(cmd.Context(), args[0], debounce,
				func(groups []sequence.Group, rest []string) {
					app.logger.Debug("Directory changed", zap.Int("groups", len(groups)))
					printGroups(out, groups, rest, list, false)
					fmt.Fprintln(out, "--")
				})
		},
	}
	watchCmd.Flags().Duration("debounce", sequence.DefaultDebounce, "quiet period before a change is reported")
	watchCmd.Flags().BoolP("list", "l", false, "list the members of each sequence")
	return watchCmd
}
