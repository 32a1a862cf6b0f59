package sat

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/firefighterduck/dqg/pkg/encoding"
	"github.com/firefighterduck/dqg/pkg/errors"
)

// picosat-family convention: exit status 20 signals unsatisfiable, which is
// the expected outcome when asking for a core.
const exitUnsat = 20

// MUSTool runs an external minimal-unsatisfiable-subset extractor over the
// DIMACS serialization of a formula and returns the surviving clause
// indices.
type MUSTool struct {
	// Binary is the tool to invoke, picomus by default.
	Binary string
}

// NewMUSTool returns a driver for the default picomus binary.
func NewMUSTool() *MUSTool {
	return &MUSTool{Binary: "picomus"}
}

// MinimalCore writes the formula to a scratch file, runs the tool on it and
// parses the resulting 1-based clause indices. Tool unavailability is a hard
// error; there is no fallback extraction.
func (m *MUSTool) MinimalCore(ctx context.Context, formula encoding.Formula, variables int) ([]int, error) {
	dir, err := os.MkdirTemp("", "dqg-mus-*")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSubprocess, err, "creating scratch directory")
	}
	defer os.RemoveAll(dir)

	inFile := filepath.Join(dir, "problem.cnf")
	f, err := os.Create(inFile)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSubprocess, err, "creating DIMACS file")
	}
	writeErr := encoding.WriteDIMACS(f, formula, variables)
	if closeErr := f.Close(); writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		return nil, errors.Wrap(errors.ErrCodeSubprocess, writeErr, "writing DIMACS file")
	}

	cmd := exec.CommandContext(ctx, m.Binary, inFile)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	if err := cmd.Run(); err != nil {
		exitErr, ok := err.(*exec.ExitError)
		if !ok || exitErr.ExitCode() != exitUnsat {
			return nil, errors.Wrap(errors.ErrCodeSubprocess, err, "running %s", m.Binary)
		}
	}

	return ParseCore(&stdout)
}

// ParseCore reads the tool's output: comment and status lines, then one
// "v <clause index>" line per core clause, terminated by "v 0".
func ParseCore(r io.Reader) ([]int, error) {
	scanner := bufio.NewScanner(r)

	var core []int
	terminated := false
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "" || strings.HasPrefix(line, "c") || strings.HasPrefix(line, "s "):
			continue
		case strings.HasPrefix(line, "v "):
			idx, err := strconv.Atoi(strings.TrimSpace(line[2:]))
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeParse, err, "core clause line %q", line)
			}
			if idx == 0 {
				terminated = true
			} else {
				core = append(core, idx)
			}
		default:
			return nil, errors.New(errors.ErrCodeParse, "unexpected core output line %q", line)
		}
		if terminated {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "reading core output")
	}
	if !terminated {
		return nil, errors.New(errors.ErrCodeParse, "core output not terminated by \"v 0\"")
	}
	return core, nil
}
