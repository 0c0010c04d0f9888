/*
Package sequence detects numbered file sequences such as frame.0001.vtk,
frame.0002.vtk from single file names.

A name is tried against an ordered list of rules and the first rule that
matches decides where the index is. The index digits are replaced by the
two character placeholder ".." to form the template that every member of the
sequence shares. When a name carries more than one numeric field only the
field picked by the highest priority rule is used, callers that want another
field must split the name themselves.
*/
package sequence

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// Placeholder marks the position of the index in a template
const Placeholder = ".."

type Rule uint8

const (
	RuleNone           Rule = iota
	RuleDottedSuffix        // name.NNN
	RuleSeparatorIndex      // prefix<sep>NNN.ext
	RuleLetterIndex         // prefixXNNN.ext
	RuleLeadingSep          // NNN<sep>body.ext
	RuleLeadingLetter       // NNNXbody.ext
	RuleLastDigits          // last digit run of the stem, any position
)

func (r Rule) String() string {
	switch r {
	case RuleDottedSuffix:
		return "dotted-suffix"
	case RuleSeparatorIndex:
		return "separator-index"
	case RuleLetterIndex:
		return "letter-index"
	case RuleLeadingSep:
		return "leading-separator"
	case RuleLeadingLetter:
		return "leading-letter"
	case RuleLastDigits:
		return "last-digits"
	default:
		return "none"
	}
}

// Result describes the sequence a file name belongs to
type Result struct {
	Name        string // Original file name
	Template    string // Prefix + Placeholder + Suffix
	Prefix      string
	Suffix      string
	Index       int
	IndexString string // Index digits as written, leading zeros kept
	Rule        Rule
}

// Expand builds the name of sequence member index, zero padded to the width
// of the digits this result was parsed from
func (r Result) Expand(index int) string {
	return fmt.Sprintf("%s%0*d%s", r.Prefix, len(r.IndexString), index, r.Suffix)
}

// matcher splits a name into prefix, index digits and suffix
type matcher interface {
	Rule() Rule
	Split(name string) (prefix, digits, suffix string, ok bool)
}

// regexMatcher expects three capture groups: prefix, digits, suffix
type regexMatcher struct {
	rule Rule
	re   *regexp.Regexp
}

func (rm regexMatcher) Rule() Rule { return rm.rule }

func (rm regexMatcher) Split(name string) (prefix, digits, suffix string, ok bool) {
	m := rm.re.FindStringSubmatch(name)
	if m == nil {
		return
	}
	return m[1], m[2], m[3], true
}

type lastDigitsMatcher struct{}

func (lastDigitsMatcher) Rule() Rule { return RuleLastDigits }

func (lastDigitsMatcher) Split(name string) (prefix, digits, suffix string, ok bool) {
	stem, ext := name, ""
	if dot := strings.LastIndexByte(name, '.'); dot > 0 {
		stem, ext = name[:dot], name[dot:]
	}
	end := len(stem)
	for end > 0 && !isDigit(stem[end-1]) {
		end--
	}
	if end == 0 {
		return
	}
	start := end
	for start > 0 && isDigit(stem[start-1]) {
		start--
	}
	return stem[:start], stem[start:end], stem[end:] + ext, true
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// matchers is tried in order, the first success wins. It is never modified
// after initialization.
var matchers = []matcher{
	regexMatcher{RuleDottedSuffix, regexp.MustCompile(`^([^.]*\.[0-9.]*?)([0-9]+)()$`)},
	regexMatcher{RuleSeparatorIndex, regexp.MustCompile(`^(.*[._-])([0-9]+)(\..*)$`)},
	regexMatcher{RuleLetterIndex, regexp.MustCompile(`^(.*[A-Za-z])([0-9]+)(\..*)$`)},
	regexMatcher{RuleLeadingSep, regexp.MustCompile(`^()([0-9]+)([._-].*\..*)$`)},
	regexMatcher{RuleLeadingLetter, regexp.MustCompile(`^()([0-9]+)([A-Za-z].*\..*)$`)},
	lastDigitsMatcher{},
}

// Rules lists the rules in the order they are tried
func Rules() []Rule {
	rules := make([]Rule, len(matchers))
	for i, m := range matchers {
		rules[i] = m.Rule()
	}
	return rules
}

// Match reports the sequence name belongs to. A name that is not part of a
// sequence is the common case and returns false, as does a name that still
// carries a directory.
func Match(name string) (Result, bool) {
	if name == "" || strings.ContainsRune(name, '/') || strings.ContainsRune(name, os.PathSeparator) {
		return Result{}, false
	}
	for _, m := range matchers {
		prefix, digits, suffix, ok := m.Split(name)
		if !ok {
			continue
		}
		index, err := strconv.Atoi(digits)
		if err != nil { // out of range for int
			continue
		}
		return Result{
			Name:        name,
			Template:    prefix + Placeholder + suffix,
			Prefix:      prefix,
			Suffix:      suffix,
			Index:       index,
			IndexString: digits,
			Rule:        m.Rule(),
		}, true
	}
	return Result{}, false
}
