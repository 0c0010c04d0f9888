package sequence

import (
	"fmt"
	"os"
	"sort"
)

// Group is the set of files sharing one template, ordered by index
type Group struct {
	Template string
	Files    []Result
}

func (g Group) Names() []string {
	names := make([]string, len(g.Files))
	for i, f := range g.Files {
		names[i] = f.Name
	}
	return names
}

// Range returns the first and last index of the group
func (g Group) Range() (first, last int) {
	if len(g.Files) == 0 {
		return
	}
	return g.Files[0].Index, g.Files[len(g.Files)-1].Index
}

// Missing lists the runs of indices absent between the first and last member,
// each as an inclusive [first, last] pair
func (g Group) Missing() (gaps [][2]int) {
	for i := 1; i < len(g.Files); i++ {
		if lo, hi := g.Files[i-1].Index+1, g.Files[i].Index-1; lo <= hi {
			gaps = append(gaps, [2]int{lo, hi})
		}
	}
	return
}

func (g Group) String() string {
	first, last := g.Range()
	return fmt.Sprintf("%s [%d-%d] %d files", g.Template, first, last, len(g.Files))
}

// GroupNames sorts names into sequences by template. Names that match no rule
// are returned in rest, in their original order.
func GroupNames(names []string) (groups []Group, rest []string) {
	byTemplate := make(map[string]int)
	for _, name := range names {
		res, ok := Match(name)
		if !ok {
			rest = append(rest, name)
			continue
		}
		gi, exists := byTemplate[res.Template]
		if !exists {
			gi = len(groups)
			byTemplate[res.Template] = gi
			groups = append(groups, Group{Template: res.Template})
		}
		groups[gi].Files = append(groups[gi].Files, res)
	}
	for _, g := range groups {
		sort.SliceStable(g.Files, func(i, j int) bool {
			if g.Files[i].Index != g.Files[j].Index {
				return g.Files[i].Index < g.Files[j].Index
			}
			return g.Files[i].Name < g.Files[j].Name
		})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Template < groups[j].Template })
	return
}

// ScanDir groups the regular files of dir
func ScanDir(dir string) (groups []Group, rest []string, err error) {
	var entries []os.DirEntry
	if entries, err = os.ReadDir(dir); err != nil {
		return
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	groups, rest = GroupNames(names)
	return
}
