package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func at(h, m, s int) time.Time {
	return time.Date(2026, 10, 15, h, m, s, 0, time.Local)
}

func TestEntry_Line(t *testing.T) {
	e := Entry{At: at(9, 5, 3), Label: "Glasgow", Value: "15", Interpretation: "Normal"}
	assert.Equal(t, "[09:05:03] Glasgow: 15 - Normal", e.Line())
}

func TestReport_WriteText(t *testing.T) {
	r := New()
	r.Append(Entry{At: at(10, 0, 0), Label: "BMI", Value: "24.2", Interpretation: "Normal"})
	r.Append(Entry{At: at(10, 1, 30), Label: "APGAR", Value: "10", Interpretation: "Excellent"})

	var buf bytes.Buffer
	require.NoError(t, r.WriteText(&buf))
	assert.Equal(t,
		"[10:00:00] BMI: 24.2 - Normal\n[10:01:30] APGAR: 10 - Excellent\n",
		buf.String(),
	)
}

func TestReport_EntriesReturnsCopy(t *testing.T) {
	r := New()
	r.Append(Entry{Label: "Glasgow"})

	entries := r.Entries()
	entries[0].Label = "changed"

	assert.Equal(t, "Glasgow", r.Entries()[0].Label)
}

func TestReport_ConcurrentAppend(t *testing.T) {
	r := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Append(Entry{Label: "NIHSS", Value: "3"})
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, r.Len())
}

func TestReport_SaveTextAndAppendLine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "intervention.txt")

	r := New()
	r.Append(Entry{At: at(8, 0, 0), Label: "Glycémie", Value: "1.00 g/L", Interpretation: "Normal fasting"})
	require.NoError(t, r.SaveText(path))

	require.NoError(t, AppendLine(path, Entry{At: at(8, 5, 0), Label: "Glasgow", Value: "14", Interpretation: "Mild head trauma"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "[08:00:00] Glycémie: 1.00 g/L - Normal fasting", lines[0])
	assert.Equal(t, "[08:05:00] Glasgow: 14 - Mild head trauma", lines[1])
}

func TestReport_WriteXLSX(t *testing.T) {
	r := New()
	r.Append(Entry{At: at(11, 2, 3), Label: "Creatinine clearance", Value: "80.0 mL/min", Interpretation: "Mild impairment"})

	var buf bytes.Buffer
	require.NoError(t, r.WriteXLSX(&buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, xlsxHeader, rows[0])
	assert.Equal(t, []string{"11:02:03", "Creatinine clearance", "80.0 mL/min", "Mild impairment"}, rows[1])
}
