package report

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

const timeLayout = "15:04:05"

type Entry struct {
	At             time.Time `json:"at"`
	Label          string    `json:"label"`
	Value          string    `json:"value"`
	Interpretation string    `json:"interpretation"`
}

var bufPool = sync.Pool{
	New: func() any {
		return bytes.NewBuffer(make([]byte, 0, 128))
	},
}

// Line renders the entry as "[HH:MM:SS] <label>: <value> - <interpretation>".
func (e Entry) Line() string {
	buf := bufPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer bufPool.Put(buf)

	fmt.Fprintf(buf, "[%s] %s: %s - %s", e.At.Format(timeLayout), e.Label, e.Value, e.Interpretation)
	return buf.String()
}

// Report is an append-only buffer of calculation lines for one
// intervention.
type Report struct {
	mu      sync.RWMutex
	entries []Entry
}

func New() *Report {
	return &Report{}
}

func (r *Report) Append(e Entry) {
	r.mu.Lock()
	r.entries = append(r.entries, e)
	r.mu.Unlock()
}

func (r *Report) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

func (r *Report) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

func (r *Report) WriteText(w io.Writer) error {
	for _, e := range r.Entries() {
		if _, err := io.WriteString(w, e.Line()+"\n"); err != nil {
			return fmt.Errorf("writing report line: %w", err)
		}
	}
	return nil
}

// SaveText writes the report as a UTF-8 text file, replacing any
// existing file at path.
func (r *Report) SaveText(path string) error {
	var buf bytes.Buffer
	if err := r.WriteText(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("saving report: %w", err)
	}
	return nil
}

// AppendLine appends a single rendered entry to a text file, creating it
// when missing.
func AppendLine(path string, e Entry) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening report file: %w", err)
	}
	defer f.Close()

	if _, err := io.WriteString(f, e.Line()+"\n"); err != nil {
		return fmt.Errorf("appending report line: %w", err)
	}
	return nil
}
