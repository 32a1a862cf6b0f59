package perm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/firefighterduck/dqg/pkg/errors"
)

// String renders the permutation in 1-based cycle notation, e.g.
// "(1,2,3)(4,5)". The identity renders as "()".
func (p *Permutation) String() string {
	cycles := p.Cycles()
	if len(cycles) == 0 {
		return "()"
	}

	var b strings.Builder
	for _, cycle := range cycles {
		b.WriteByte('(')
		for i, v := range cycle {
			if i > 0 {
				b.WriteByte(',')
			}
			fmt.Fprintf(&b, "%d", v+1)
		}
		b.WriteByte(')')
	}
	return b.String()
}

// ParseCycles parses a single permutation in 1-based cycle notation over a
// domain of the given size, e.g. "(1, 11, 13)(2,4)". Whitespace between
// elements is ignored. Indices outside [1, size] are a parse error.
func ParseCycles(input string, size int) (*Permutation, error) {
	rest := strings.TrimSpace(input)
	if rest == "" {
		return nil, errors.New(errors.ErrCodeParse, "empty cycle notation")
	}

	var cycles [][]int
	for rest != "" {
		cycle, tail, err := parseCycle(rest)
		if err != nil {
			return nil, err
		}
		if cycle != nil {
			cycles = append(cycles, cycle)
		}
		rest = strings.TrimSpace(tail)
	}

	for _, cycle := range cycles {
		for _, v := range cycle {
			if v < 0 || v >= size {
				return nil, errors.New(errors.ErrCodeParse, "cycle element %d outside domain of size %d", v+1, size)
			}
		}
	}
	return FromCycles(cycles, size), nil
}

// parseCycle consumes one parenthesized cycle from the front of input and
// returns the 0-based elements plus the unconsumed tail. An empty cycle
// "()" yields a nil slice.
func parseCycle(input string) ([]int, string, error) {
	if input[0] != '(' {
		return nil, "", errors.New(errors.ErrCodeParse, "expected '(' at %q", input)
	}
	end := strings.IndexByte(input, ')')
	if end < 0 {
		return nil, "", errors.New(errors.ErrCodeParse, "unterminated cycle at %q", input)
	}

	body := strings.TrimSpace(input[1:end])
	tail := input[end+1:]
	if body == "" {
		return nil, tail, nil
	}

	parts := strings.Split(body, ",")
	cycle := make([]int, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, "", errors.Wrap(errors.ErrCodeParse, err, "invalid cycle element %q", part)
		}
		cycle = append(cycle, v-1)
	}
	return cycle, tail, nil
}

// ParseGeneratorList parses a bracketed, comma-separated list of permutations
// in cycle notation, e.g. "[ (1,2)(3,4), (5,6) ]". This is the per-line
// format produced by the conjugacy-class enumeration subprocess.
func ParseGeneratorList(input string, size int) ([]*Permutation, error) {
	trimmed := strings.TrimSpace(input)
	if !strings.HasPrefix(trimmed, "[") || !strings.HasSuffix(trimmed, "]") {
		return nil, errors.New(errors.ErrCodeParse, "generator list must be bracketed: %q", input)
	}
	body := strings.TrimSpace(trimmed[1 : len(trimmed)-1])
	if body == "" {
		return nil, errors.New(errors.ErrCodeParse, "empty generator list")
	}

	var perms []*Permutation
	for _, chunk := range splitTopLevel(body) {
		p, err := ParseCycles(chunk, size)
		if err != nil {
			return nil, err
		}
		perms = append(perms, p)
	}
	return perms, nil
}

// splitTopLevel splits on commas that separate permutations, i.e. commas not
// enclosed in parentheses.
func splitTopLevel(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}
