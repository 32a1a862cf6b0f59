// Package gap drives the computer-algebra subprocess that enumerates
// conjugacy-class representatives of the automorphism group. The group is
// written as a script in GAP syntax; the subprocess prints one generator list
// per class, which parses back through the cycle-notation reader.
package gap

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/firefighterduck/dqg/pkg/errors"
	"github.com/firefighterduck/dqg/pkg/perm"
)

// ScriptName is the file the group definition is written to before the
// subprocess is invoked.
const ScriptName = "dqg.g"

// WriteScript emits the group definition plus the fixed conjugacy-class
// enumeration loop. The first class is the trivial subgroup and is skipped by
// starting at index 2.
func WriteScript(w io.Writer, generators []*perm.Permutation) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString("g:=Group(["); err != nil {
		return errors.Wrap(errors.ErrCodeSubprocess, err, "writing group definition")
	}
	for _, gen := range generators {
		bw.WriteString(gen.String())
		bw.WriteString(",\n")
	}
	bw.WriteString("]);;\n")

	bw.WriteString(`
c:=ConjugacyClassesSubgroups(g);;
c_length:=Length(c);;
for i in [2..c_length] do
    Print(GeneratorsOfGroup(Representative(c[i])));
    Print("\n");
od;;
`)
	if err := bw.Flush(); err != nil {
		return errors.Wrap(errors.ErrCodeSubprocess, err, "writing enumeration script")
	}
	return nil
}

// ParseRepresentatives reads one generator list per line, each a bracketed,
// comma-separated sequence of permutations in 1-based cycle notation.
func ParseRepresentatives(r io.Reader, size int) ([][]*perm.Permutation, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var pending strings.Builder
	var representatives [][]*perm.Permutation
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		// GAP wraps long lists over several lines; a list is complete once
		// the closing bracket arrives.
		pending.WriteString(line)
		if !strings.HasSuffix(line, "]") {
			pending.WriteString(" ")
			continue
		}

		generators, err := perm.ParseGeneratorList(pending.String(), size)
		pending.Reset()
		if err != nil {
			return nil, err
		}
		representatives = append(representatives, generators)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "reading representatives")
	}
	if pending.Len() > 0 {
		return nil, errors.New(errors.ErrCodeParse, "unterminated generator list %q", pending.String())
	}
	if len(representatives) == 0 {
		return nil, errors.New(errors.ErrCodeParse, "subprocess produced no representatives")
	}
	return representatives, nil
}

// Runner invokes the external binary.
type Runner struct {
	// Binary is the executable to run, "gap" by default.
	Binary string
	// MemoryLimit is passed through to the subprocess, e.g. "16G".
	MemoryLimit string
}

// NewRunner returns a runner with the default binary and memory limit.
func NewRunner() *Runner {
	return &Runner{Binary: "gap", MemoryLimit: "16G"}
}

// EnumerateClasses writes the script for the generators and runs the
// subprocess to completion, returning the parsed per-class generator lists.
// size is the permutation domain of the original graph.
func (r *Runner) EnumerateClasses(ctx context.Context, generators []*perm.Permutation, size int) ([][]*perm.Permutation, error) {
	dir, err := os.MkdirTemp("", "dqg-gap-*")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSubprocess, err, "creating scratch directory")
	}
	defer os.RemoveAll(dir)

	scriptPath := filepath.Join(dir, ScriptName)
	f, err := os.Create(scriptPath)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSubprocess, err, "creating script file")
	}
	writeErr := WriteScript(f, generators)
	if closeErr := f.Close(); writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		return nil, fmt.Errorf("writing %s: %w", ScriptName, writeErr)
	}

	cmd := exec.CommandContext(ctx, r.Binary, "-b", "-o", r.MemoryLimit, "--nointeract", scriptPath)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSubprocess, err, "running %s", r.Binary)
	}

	return ParseRepresentatives(&stdout, size)
}
