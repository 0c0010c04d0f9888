package InputParameters

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/ghodss/yaml"
)

var ErrInvalidParameters = errors.New("invalid decode parameters")

// Parameters obtained from the YAML input file
type DecodeParameters struct {
	Title           string         `json:"Title"`
	Quadratic       bool           `json:"Quadratic"`
	ParallelDegree  int            `json:"ParallelDegree"`
	OutputDirectory string         `json:"OutputDirectory"`
	OutputFormat    string         `json:"OutputFormat"` // "vtk" or "yaml"
	Statistics      bool           `json:"Statistics"`
	SideSetNames    map[int]string `json:"SideSetNames"` // Side set tag to name, informational
}

// ExampleFile is printed when no parameters file is supplied
const ExampleFile = `
########################################
Title: "Two Tets"
Quadratic: true
ParallelDegree: 4
OutputDirectory: out
OutputFormat: vtk # Can be "yaml"
Statistics: true
SideSetNames:
  7: wall
########################################
`

func NewDecodeParameters() *DecodeParameters {
	return &DecodeParameters{
		OutputFormat: "vtk",
	}
}

func (ip *DecodeParameters) Parse(data []byte) error {
	if err := yaml.Unmarshal(data, ip); err != nil {
		return err
	}
	return ip.Validate()
}

func ReadDecodeParameters(filename string) (ip *DecodeParameters, err error) {
	ip = NewDecodeParameters()
	if err = ip.ReadFile(filename); err != nil {
		return nil, err
	}
	return
}

// ReadFile overlays the parameters in filename on ip, fields the file omits
// keep their current values
func (ip *DecodeParameters) ReadFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	if err = ip.Parse(data); err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}
	return nil
}

func (ip *DecodeParameters) Validate() error {
	ip.OutputFormat = strings.ToLower(strings.TrimSpace(ip.OutputFormat))
	switch ip.OutputFormat {
	case "":
		ip.OutputFormat = "vtk"
	case "vtk", "yaml":
	default:
		return fmt.Errorf("%w: unknown OutputFormat %q", ErrInvalidParameters, ip.OutputFormat)
	}
	if ip.ParallelDegree < 0 {
		return fmt.Errorf("%w: ParallelDegree %d is negative", ErrInvalidParameters, ip.ParallelDegree)
	}
	return nil
}

func (ip *DecodeParameters) Print(w io.Writer) {
	fmt.Fprintf(w, "\"%s\"\t\t= Title\n", ip.Title)
	fmt.Fprintf(w, "[%v]\t\t\t= Quadratic\n", ip.Quadratic)
	fmt.Fprintf(w, "[%d]\t\t\t\t= Parallel Degree\n", ip.ParallelDegree)
	fmt.Fprintf(w, "[%s]\t\t\t= Output Directory\n", ip.OutputDirectory)
	fmt.Fprintf(w, "[%s]\t\t\t= Output Format\n", ip.OutputFormat)
	keys := make([]int, 0, len(ip.SideSetNames))
	for k := range ip.SideSetNames {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	for _, key := range keys {
		fmt.Fprintf(w, "SideSet[%d] = %s\n", key, ip.SideSetNames[key])
	}
}
