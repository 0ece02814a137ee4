// Package report turns `go test -json` output into a run summary, renders it, and keeps a history of runs.
package report

import (
	"bufio"
	"encoding/json"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TestEvent is one line of `go test -json` output.
type TestEvent struct {
	Time       time.Time `json:"Time"`
	Action     string    `json:"Action"`
	Package    string    `json:"Package"`
	ImportPath string    `json:"ImportPath"` // set on build-output and build-fail
	Test       string    `json:"Test"`
	Elapsed    float64   `json:"Elapsed"` // seconds
	Output     string    `json:"Output"`
}

type Status string

const (
	StatusPass Status = "pass"
	StatusFail Status = "fail"
	StatusSkip Status = "skip"
	StatusRun  Status = "run" // started but never finished, i.e. the test binary died
)

// Case is the outcome of a single test (or subtest).
type Case struct {
	Package string        `json:"package"`
	Name    string        `json:"name"`
	Status  Status        `json:"status"`
	Elapsed time.Duration `json:"elapsed"`
	Output  string        `json:"output,omitempty"`
}

// Run is a full invocation of the suite.
type Run struct {
	ID        uuid.UUID  `json:"id"`
	Started   time.Time  `json:"started"`
	Finished  time.Time  `json:"finished"`
	Target    string     `json:"target"`
	Mode      string     `json:"mode"`
	Cases     []*Case    `json:"cases"`
	Packages  []*Case    `json:"packages"`         // package-level results
	Output    string     `json:"output,omitempty"` // anything that wasn't a test event, e.g. build errors
	Preflight *Preflight `json:"preflight,omitempty"`
}

// Preflight is the summary of the browser preflight attached to a run.
type Preflight struct {
	Title       string   `json:"title"`
	Errors      []string `json:"errors,omitempty"`
	Screenshots []string `json:"screenshots,omitempty"`
	Failure     string   `json:"failure,omitempty"`
}

func NewRun(target, mode string) *Run {
	return &Run{ID: uuid.New(), Started: time.Now(), Target: target, Mode: mode}
}

// Summary counts test cases by status.
type Summary struct {
	Total   int `json:"total"`
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

func (r *Run) Summary() Summary {
	s := Summary{Total: len(r.Cases)}
	for _, c := range r.Cases {
		switch c.Status {
		case StatusPass:
			s.Passed++
		case StatusSkip:
			s.Skipped++
		default:
			s.Failed++
		}
	}
	return s
}

// Passed is true when no test or package failed and the preflight (if any) succeeded.
func (r *Run) Passed() bool {
	if r.Preflight != nil && r.Preflight.Failure != "" {
		return false
	}
	for _, p := range r.Packages {
		if p.Status == StatusFail || p.Status == StatusRun {
			return false
		}
	}
	return r.Summary().Failed == 0
}

func (r *Run) Duration() time.Duration {
	if r.Finished.IsZero() {
		return 0
	}
	return r.Finished.Sub(r.Started)
}

// Collector accumulates test events into a Run.
type Collector struct {
	run    *Run
	cases  map[string]*Case
	output strings.Builder
}

func NewCollector(run *Run) *Collector {
	return &Collector{run: run, cases: map[string]*Case{}}
}

// ReadFrom consumes `go test -json` output until EOF. Lines that aren't events are kept as raw output.
func (c *Collector) ReadFrom(r io.Reader) (int64, error) {
	var n int64
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		n += int64(len(line)) + 1

		ev := TestEvent{}
		if len(line) == 0 || line[0] != '{' || json.Unmarshal(line, &ev) != nil {
			c.output.Write(line)
			c.output.WriteByte('\n')
			continue
		}
		c.Add(ev)
	}
	return n, scanner.Err()
}

// Add applies a single event.
func (c *Collector) Add(ev TestEvent) {
	switch ev.Action {
	case "build-output":
		c.output.WriteString(ev.Output)
		return
	case "build-fail":
		ev.Package, ev.Action = ev.ImportPath, "fail"
	}

	key := ev.Package + "\x00" + ev.Test
	cs, ok := c.cases[key]
	if !ok {
		if ev.Action == "output" && ev.Test == "" && ev.Package == "" {
			c.output.WriteString(ev.Output)
			return
		}
		cs = &Case{Package: ev.Package, Name: ev.Test, Status: StatusRun}
		c.cases[key] = cs
		if ev.Test == "" {
			c.run.Packages = append(c.run.Packages, cs)
		} else {
			c.run.Cases = append(c.run.Cases, cs)
		}
	}

	switch ev.Action {
	case "output":
		cs.Output += ev.Output
	case "pass", "fail", "skip":
		cs.Status = Status(ev.Action)
		cs.Elapsed = time.Duration(ev.Elapsed * float64(time.Second))
	}
}

// Finish stamps the run and orders the cases.
func (c *Collector) Finish() *Run {
	c.run.Finished = time.Now()
	c.run.Output += c.output.String()
	sort.SliceStable(c.run.Cases, func(i, j int) bool {
		return c.run.Cases[i].Package < c.run.Cases[j].Package
	})
	return c.run
}
