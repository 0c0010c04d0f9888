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
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/notargets/meshseq/sequence"
)

func (app *App) newSequenceCmd() *cobra.Command {
	sequenceCmd := &cobra.Command{
		Use:   "sequence [directory | file names]",
		Short: "Group numbered file names into sequences",
		Long: `
Groups file names that differ only in a frame number into sequences. A single
directory argument groups the files inside it, otherwise the arguments are
treated as file names.

meshseq sequence ./frames
meshseq sequence --missing frame.0001.vtk frame.0003.vtk`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				groups []sequence.Group
				rest   []string
				err    error
			)
			switch {
			case len(args) == 0:
				groups, rest, err = sequence.ScanDir(".")
			case len(args) == 1 && isDir(args[0]):
				groups, rest, err = sequence.ScanDir(args[0])
			default:
				names := make([]string, len(args))
				for i, arg := range args {
					names[i] = filepath.Base(arg)
				}
				groups, rest = sequence.GroupNames(names)
			}
			if err != nil {
				return err
			}
			app.logger.Debug("Grouped names",
				zap.Int("groups", len(groups)),
				zap.Int("unmatched", len(rest)))
			list, _ := cmd.Flags().GetBool("list")
			missing, _ := cmd.Flags().GetBool("missing")
			printGroups(cmd.OutOrStdout(), groups, rest, list, missing)
			return nil
		},
	}
	sequenceCmd.Flags().BoolP("list", "l", false, "list the members of each sequence")
	sequenceCmd.Flags().BoolP("missing", "m", false, "list the indices missing from each sequence")
	return sequenceCmd
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}

func printGroups(w io.Writer, groups []sequence.Group, rest []string, list, missing bool) {
	for _, g := range groups {
		fmt.Fprintln(w, g.String())
		if list {
			for _, f := range g.Files {
				fmt.Fprintf(w, "\t%s\n", f.Name)
			}
		}
		if missing {
			if gaps := g.Missing(); len(gaps) > 0 {
				fmt.Fprintf(w, "\tmissing %s\n", formatGaps(gaps))
			}
		}
	}
	for _, name := range rest {
		fmt.Fprintln(w, name)
	}
}

// formatGaps prints each run as "n" or "first-last"
func formatGaps(gaps [][2]int) string {
	runs := make([]string, len(gaps))
	for i, gap := range gaps {
		if gap[0] == gap[1] {
			runs[i] = strconv.Itoa(gap[0])
		} else {
			runs[i] = fmt.Sprintf("%d-%d", gap[0], gap[1])
		}
	}
	return strings.Join(runs, ", ")
}
