package telemetry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/pthm-cable/tavern/config"
)

// stream is a CSV file that gains rows while the simulation runs.
type stream int

const (
	streamTelemetry stream = iota
	streamPerf
	streamBookmarks
	numStreams
)

var streamFiles = [numStreams]string{
	streamTelemetry: "telemetry.csv",
	streamPerf:      "perf.csv",
	streamBookmarks: "bookmarks.csv",
}

type csvStream struct {
	f          *os.File
	headerDone bool
}

// OutputManager writes a run's files into one directory. A nil manager
// accepts every call and writes nothing.
type OutputManager struct {
	dir     string
	streams [numStreams]csvStream
}

// NewOutputManager creates dir and opens every stream in it. It returns a
// nil manager when dir is empty.
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}
	for s, name := range streamFiles {
		f, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			om.Close()
			return nil, fmt.Errorf("creating %s: %w", name, err)
		}
		om.streams[s].f = f
	}
	return om, nil
}

// appendRows writes rows to s, preceded by the header on first use.
func appendRows[T any](om *OutputManager, s stream, rows ...T) error {
	if om == nil || len(rows) == 0 {
		return nil
	}
	cs := &om.streams[s]
	marshal := gocsv.MarshalWithoutHeaders
	if !cs.headerDone {
		marshal = gocsv.Marshal
	}
	if err := marshal(rows, cs.f); err != nil {
		return fmt.Errorf("writing %s: %w", streamFiles[s], err)
	}
	cs.headerDone = true
	return nil
}

// WriteConfig snapshots cfg as config.yaml.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteTelemetry appends a window to telemetry.csv.
func (om *OutputManager) WriteTelemetry(stats WindowStats) error {
	return appendRows(om, streamTelemetry, stats)
}

// WritePerf appends the profiler summary for the window ending at windowEnd.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int32) error {
	return appendRows(om, streamPerf, stats.ToCSV(windowEnd))
}

// WriteBookmark appends b to bookmarks.csv.
func (om *OutputManager) WriteBookmark(b Bookmark) error {
	return appendRows(om, streamBookmarks, b)
}

// WritePeople writes people.csv in one go.
func (om *OutputManager) WritePeople(people []PersonStats) error {
	if om == nil || len(people) == 0 {
		return nil
	}
	f, err := os.Create(filepath.Join(om.dir, "people.csv"))
	if err != nil {
		return fmt.Errorf("creating people.csv: %w", err)
	}
	if err := gocsv.Marshal(people, f); err != nil {
		f.Close()
		return fmt.Errorf("writing people.csv: %w", err)
	}
	return f.Close()
}

// Dir returns the output directory, or "" when output is disabled.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close closes every open stream.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	var errs []error
	for s := range om.streams {
		cs := &om.streams[s]
		if cs.f == nil {
			continue
		}
		if err := cs.f.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing %s: %w", streamFiles[s], err))
		}
		cs.f = nil
	}
	return errors.Join(errs...)
}
