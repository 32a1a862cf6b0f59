package autom

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"github.com/firefighterduck/dqg/pkg/errors"
	"github.com/firefighterduck/dqg/pkg/graph"
	"github.com/firefighterduck/dqg/pkg/perm"
)

// Mode selects which native algorithm the subprocess runs.
type Mode int

const (
	// ModeNauty uses the dense solver.
	ModeNauty Mode = iota
	// ModeSparseNauty uses the sparse solver.
	ModeSparseNauty
	// ModeTraces uses Traces, which only handles sparse graphs.
	ModeTraces
)

func (m Mode) String() string {
	switch m {
	case ModeNauty:
		return "nauty"
	case ModeSparseNauty:
		return "sparse-nauty"
	case ModeTraces:
		return "traces"
	default:
		return "unknown"
	}
}

// command is the dreadnaut mode-switch line for m.
func (m Mode) command() string {
	switch m {
	case ModeSparseNauty:
		return "As"
	case ModeTraces:
		return "At"
	default:
		return "An"
	}
}

// Dreadnaut runs the dreadnaut command-line tool and streams the
// automorphisms it prints back through the generator callback.
type Dreadnaut struct {
	// Binary is the executable, "dreadnaut" by default.
	Binary string
	Mode   Mode
}

// NewDreadnaut returns a dense-mode engine with the default binary.
func NewDreadnaut() *Dreadnaut {
	return &Dreadnaut{Binary: "dreadnaut"}
}

// Generators feeds the graph to the subprocess and emits each printed
// automorphism. Traces refuses dense graphs up front since the native side
// would reject them anyway.
func (d *Dreadnaut) Generators(ctx context.Context, g *graph.Graph, emit EmitFunc) error {
	if d.Mode == ModeTraces && !g.IsSparse() {
		return errors.New(errors.ErrCodeInvalidConfig, "traces mode requires a sparse graph")
	}

	var script bytes.Buffer
	script.WriteString(d.Mode.command())
	script.WriteString("\n+a\n-m\n")
	if err := graph.WriteDreadnautBody(&script, g); err != nil {
		return err
	}
	script.WriteString("q\n")

	cmd := exec.CommandContext(ctx, d.Binary)
	cmd.Stdin = &script
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return errors.Wrap(errors.ErrCodeSubprocess, err, "opening %s pipe", d.Binary)
	}
	if err := cmd.Start(); err != nil {
		return errors.Wrap(errors.ErrCodeSubprocess, err, "starting %s", d.Binary)
	}

	parseErr := ParseAutomorphisms(stdout, g.Size(), emit)
	if parseErr != nil {
		// Unblock Wait; the subprocess may still be writing.
		io.Copy(io.Discard, stdout)
	}
	if err := cmd.Wait(); err != nil && parseErr == nil {
		return errors.Wrap(errors.ErrCodeSubprocess, err, "running %s", d.Binary)
	}
	return parseErr
}

// ParseAutomorphisms reads dreadnaut output and emits one permutation per
// printed automorphism. Automorphism lines start with '(' and may wrap onto
// indented continuation lines; everything else (level traces, orbit and group
// summaries) is skipped.
func ParseAutomorphisms(r io.Reader, size int, emit EmitFunc) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var pending strings.Builder
	flush := func() error {
		if pending.Len() == 0 {
			return nil
		}
		p, err := parseAutomorphism(pending.String(), size)
		pending.Reset()
		if err != nil {
			return err
		}
		return emit(p)
	}

	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		switch {
		case pending.Len() > 0 && len(line) > 0 && (line[0] == ' ' || line[0] == '\t'):
			pending.WriteString(" ")
			pending.WriteString(trimmed)
		case strings.HasPrefix(trimmed, "("):
			if err := flush(); err != nil {
				return err
			}
			pending.WriteString(trimmed)
		default:
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(errors.ErrCodeParse, err, "reading automorphisms")
	}
	return flush()
}

// parseAutomorphism reads one automorphism in dreadnaut's cycle form, with
// zero-based space-separated entries such as "(0 5)(1 4)(2 3)".
func parseAutomorphism(s string, size int) (*perm.Permutation, error) {
	var cycles [][]int
	rest := strings.TrimSpace(s)
	for rest != "" {
		if rest[0] != '(' {
			return nil, errors.New(errors.ErrCodeParse, "automorphism %q: expected '(' at %q", s, rest)
		}
		closing := strings.IndexByte(rest, ')')
		if closing < 0 {
			return nil, errors.New(errors.ErrCodeParse, "automorphism %q: unterminated cycle", s)
		}

		var cycle []int
		for _, field := range strings.Fields(rest[1:closing]) {
			v, err := strconv.Atoi(field)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeParse, err, "automorphism %q: entry %q", s, field)
			}
			if v < 0 || v >= size {
				return nil, errors.New(errors.ErrCodeParse, "automorphism %q: vertex %d outside graph", s, v)
			}
			cycle = append(cycle, v)
		}
		if len(cycle) > 1 {
			cycles = append(cycles, cycle)
		}
		rest = strings.TrimSpace(rest[closing+1:])
	}
	return perm.FromCycles(cycles, size), nil
}
