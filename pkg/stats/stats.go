// Package stats collects per-quotient and whole-run measurements of the
// search and renders them as a plain-text report.
package stats

import (
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/firefighterduck/dqg/pkg/errors"
	"github.com/firefighterduck/dqg/pkg/quotient"
)

// Level controls how much is retained.
type Level int

const (
	// LevelNone disables collection entirely.
	LevelNone Level = iota
	// LevelBasic keeps run-wide aggregates only.
	LevelBasic
	// LevelFull additionally keeps every per-quotient record.
	LevelFull
)

// LevelFromCount maps a repeated CLI flag count to a level.
func LevelFromCount(n int) Level {
	switch {
	case n <= 0:
		return LevelNone
	case n == 1:
		return LevelBasic
	default:
		return LevelFull
	}
}

func (l Level) String() string {
	switch l {
	case LevelNone:
		return "none"
	case LevelBasic:
		return "basic"
	case LevelFull:
		return "full"
	default:
		return "unknown"
	}
}

// OrbitHistogram counts orbits per size.
type OrbitHistogram map[int]int

// Record adds one orbit of the given size.
func (h OrbitHistogram) Record(size int) {
	h[size]++
}

// RecordGroups adds every orbit of a grouped partition.
func (h OrbitHistogram) RecordGroups(groups []quotient.OrbitSet) {
	for _, orbit := range groups {
		h.Record(len(orbit.Members))
	}
}

// QuotientRecord holds the measurements of one handled quotient.
type QuotientRecord struct {
	QuotientSize int
	MinOrbitSize int
	MaxOrbitSize int
	Descriptive  bool
	Validated    *bool

	HandlingTime time.Duration
	OrbitTime    time.Duration
	QuotientTime time.Duration
	EncodingTime time.Duration
	SolverTime   time.Duration

	OrbitSizes OrbitHistogram
}

// Run aggregates a whole search run.
type Run struct {
	level     Level
	startTime time.Time

	GraphSize       int
	GeneratorCount  int
	GeneratorsDone  time.Duration
	GraphSortTime   time.Duration
	TotalTime       time.Duration
	MaxOrbitSize    int
	MaxQuotientSize int
	Descriptive     int
	MaxHandlingTime time.Duration
	MaxSolverTime   time.Duration

	Quotients []QuotientRecord
}

// NewRun starts collecting for a graph of the given size.
func NewRun(level Level, graphSize int) *Run {
	return &Run{level: level, startTime: time.Now(), GraphSize: graphSize}
}

// Enabled reports whether anything is collected at all.
func (r *Run) Enabled() bool { return r != nil && r.level != LevelNone }

// LogGeneratorsDone records the automorphism-engine phase and its yield.
func (r *Run) LogGeneratorsDone(count int) {
	if !r.Enabled() {
		return
	}
	r.GeneratorCount = count
	r.GeneratorsDone = time.Since(r.startTime)
}

// LogGraphSorted records the time spent bringing the graph into engine order.
func (r *Run) LogGraphSorted(d time.Duration) {
	if r.Enabled() {
		r.GraphSortTime = d
	}
}

// LogQuotient folds one record into the aggregates. Full level keeps the
// record itself as well.
func (r *Run) LogQuotient(record QuotientRecord) {
	if !r.Enabled() {
		return
	}
	r.MaxOrbitSize = max(r.MaxOrbitSize, record.MaxOrbitSize)
	r.MaxQuotientSize = max(r.MaxQuotientSize, record.QuotientSize)
	if record.Descriptive {
		r.Descriptive++
	}
	r.MaxHandlingTime = max(r.MaxHandlingTime, record.HandlingTime)
	r.MaxSolverTime = max(r.MaxSolverTime, record.SolverTime)
	if r.level == LevelFull {
		r.Quotients = append(r.Quotients, record)
	}
}

// LogEnd closes the run clock.
func (r *Run) LogEnd() {
	if r.Enabled() {
		r.TotalTime = time.Since(r.startTime)
	}
}

// Write renders the report.
func (r *Run) Write(w io.Writer) error {
	if !r.Enabled() {
		return nil
	}

	fmt.Fprintf(w, "graph size:            %d\n", r.GraphSize)
	fmt.Fprintf(w, "generators:            %d (after %s)\n", r.GeneratorCount, r.GeneratorsDone)
	if r.GraphSortTime > 0 {
		fmt.Fprintf(w, "graph sort time:       %s\n", r.GraphSortTime)
	}
	fmt.Fprintf(w, "total time:            %s\n", r.TotalTime)
	fmt.Fprintf(w, "max orbit size:        %d\n", r.MaxOrbitSize)
	fmt.Fprintf(w, "max quotient size:     %d\n", r.MaxQuotientSize)
	fmt.Fprintf(w, "descriptive quotients: %d\n", r.Descriptive)
	fmt.Fprintf(w, "max handling time:     %s\n", r.MaxHandlingTime)
	fmt.Fprintf(w, "max solver time:       %s\n", r.MaxSolverTime)

	for i, record := range r.Quotients {
		fmt.Fprintf(w, "\nquotient %d\n", i)
		fmt.Fprintf(w, "  size:          %d\n", record.QuotientSize)
		fmt.Fprintf(w, "  orbit sizes:   min %d, max %d\n", record.MinOrbitSize, record.MaxOrbitSize)
		fmt.Fprintf(w, "  descriptive:   %t\n", record.Descriptive)
		if record.Validated != nil {
			fmt.Fprintf(w, "  validated:     %t\n", *record.Validated)
		}
		fmt.Fprintf(w, "  handling time: %s\n", record.HandlingTime)
		fmt.Fprintf(w, "  orbit time:    %s\n", record.OrbitTime)
		fmt.Fprintf(w, "  quotient time: %s\n", record.QuotientTime)
		fmt.Fprintf(w, "  encoding time: %s\n", record.EncodingTime)
		fmt.Fprintf(w, "  solver time:   %s\n", record.SolverTime)
		if len(record.OrbitSizes) > 0 {
			fmt.Fprintf(w, "  histogram:     %s\n", formatHistogram(record.OrbitSizes))
		}
	}
	return nil
}

// Save writes the report to a file.
func (r *Run) Save(path string) error {
	if !r.Enabled() {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "creating statistics file")
	}
	writeErr := r.Write(f)
	if closeErr := f.Close(); writeErr == nil {
		writeErr = closeErr
	}
	return writeErr
}

func formatHistogram(h OrbitHistogram) string {
	sizes := make([]int, 0, len(h))
	for size := range h {
		sizes = append(sizes, size)
	}
	sort.Ints(sizes)

	out := ""
	for i, size := range sizes {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%dx size %d", h[size], size)
	}
	return out
}
