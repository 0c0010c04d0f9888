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
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/notargets/meshseq/InputParameters"
	"github.com/notargets/meshseq/mesh"
	"github.com/notargets/meshseq/mesh/readers"
	"github.com/notargets/meshseq/mesh/writers"
	"github.com/notargets/meshseq/utils"
)

func (app *App) newDecodeCmd() *cobra.Command {
	decodeCmd := &cobra.Command{
		Use:   "decode [mesh files]",
		Short: "Decode tet mesh connectivity into a triangle surface",
		Long: `
Reads one or more tet mesh files (.yaml, .yml, .json or binary .tet), decodes
the interior and exterior records and writes the triangle surface of each.

meshseq decode -q -o out mesh1.yaml mesh2.tet`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ip, err := app.decodeParameters(cmd)
			if err != nil {
				return err
			}
			if dir, _ := cmd.Flags().GetString("profile"); dir != "" {
				defer profile.Start(profile.CPUProfile, profile.ProfilePath(dir), profile.Quiet).Stop()
			}
			return app.runDecode(cmd, ip, args)
		},
	}
	flags := decodeCmd.Flags()
	flags.StringP("inputParametersFile", "I", "", "YAML file for decode parameters like:"+InputParameters.ExampleFile)
	flags.BoolP("quadratic", "q", false, "emit quadratic triangles with shared edge midpoints")
	flags.IntP("parallel", "j", 0, "number of meshes decoded at once, 0 uses every CPU")
	flags.StringP("output", "o", "", "output directory, default is next to each input")
	flags.StringP("format", "f", "vtk", "output format: vtk or yaml")
	flags.BoolP("stats", "s", false, "print mesh statistics")
	flags.String("profile", "", "write a CPU profile to this directory")
	for _, name := range []string{"quadratic", "parallel", "output", "format", "stats"} {
		_ = app.v.BindPFlag(name, flags.Lookup(name))
	}
	return decodeCmd
}

// decodeParameters layers the settings: changed flags win over a parameters
// file, which wins over config file and environment values
func (app *App) decodeParameters(cmd *cobra.Command) (ip *InputParameters.DecodeParameters, err error) {
	flags := cmd.Flags()
	ip = InputParameters.NewDecodeParameters()
	ip.Quadratic = app.v.GetBool("quadratic")
	ip.ParallelDegree = app.v.GetInt("parallel")
	ip.OutputDirectory = app.v.GetString("output")
	ip.OutputFormat = app.v.GetString("format")
	ip.Statistics = app.v.GetBool("stats")
	if file, _ := flags.GetString("inputParametersFile"); file != "" {
		if err = ip.ReadFile(file); err != nil {
			return nil, err
		}
	}
	if flags.Changed("quadratic") {
		ip.Quadratic, _ = flags.GetBool("quadratic")
	}
	if flags.Changed("parallel") {
		ip.ParallelDegree, _ = flags.GetInt("parallel")
	}
	if flags.Changed("output") {
		ip.OutputDirectory, _ = flags.GetString("output")
	}
	if flags.Changed("format") {
		ip.OutputFormat, _ = flags.GetString("format")
	}
	if flags.Changed("stats") {
		ip.Statistics, _ = flags.GetBool("stats")
	}
	if err = ip.Validate(); err != nil {
		return nil, err
	}
	return
}

func (app *App) runDecode(cmd *cobra.Command, ip *InputParameters.DecodeParameters, files []string) error {
	var (
		out     = cmd.OutOrStdout()
		sources = make([]*mesh.Source, len(files))
		err     error
	)
	if app.v.GetBool("verbose") {
		ip.Print(out)
	}
	for i, file := range files {
		if sources[i], err = readers.ReadMeshFile(file); err != nil {
			return err
		}
		app.logger.Debug("Read mesh file",
			zap.String("file", file),
			zap.Int("points", sources[i].NumPoints()))
	}
	meshes, err := mesh.DecodeAll(cmd.Context(), sources, ip.Quadratic, ip.ParallelDegree)
	if err != nil {
		app.logger.Error("Decode failed", zap.Error(err))
		return err
	}
	if ip.OutputDirectory != "" {
		if err = os.MkdirAll(ip.OutputDirectory, 0o755); err != nil {
			return err
		}
	}
	for i, m := range meshes {
		outFile := outputName(files[i], ip.OutputDirectory, ip.OutputFormat)
		title := ip.Title
		if title == "" {
			title = sources[i].Name
		}
		if err = writeMesh(outFile, ip.OutputFormat, m, title); err != nil {
			return err
		}
		app.logger.Info("Decoded mesh",
			zap.String("file", files[i]),
			zap.String("output", outFile),
			zap.Int("triangles", len(m.Triangles)),
			zap.Int("midpoints", m.NumMidpoints()),
			zap.Stringer("memory", utils.GetMemUsage()))
		fmt.Fprintf(out, "%s -> %s (%d triangles)\n", files[i], outFile, len(m.Triangles))
		if ip.Statistics {
			mesh.Statistics(m).PrintStatistics(out)
		}
	}
	return nil
}

func outputName(input, dir, format string) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)) + "." + format
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, base)
}

func writeMesh(filename, format string, m *mesh.Mesh, title string) (err error) {
	if format == "vtk" {
		return writers.WriteVTKFile(filename, m, title)
	}
	var file *os.File
	if file, err = os.Create(filename); err != nil {
		return
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()
	return writers.WriteYAML(file, m, title)
}
