package stage

import (
	"bytes"
	"testing"

	"github.com/edaniels/golog"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingReporter struct {
	titles []string
	rows   [][][]interface{}
}

func (r *recordingReporter) Table(title string, _ []string, rows [][]interface{}) {
	r.titles = append(r.titles, title)
	r.rows = append(r.rows, rows)
}

func TestContext(t *testing.T) {
	rep := &recordingReporter{}
	ctx := NewContext(golog.NewTestLogger(t), rep)

	ctx.Track("Loaded %d points.", 10)
	ctx.Track("Completed loading pipeline.")
	ctx.Set("loaded_points", 10)
	ctx.StepSummary("Outlier Removal Summary", "Outlier Removal", 10, 8)

	assert.Equal(t, []string{"Loaded 10 points.", "Completed loading pipeline."}, ctx.Metadata.History())
	n, ok := ctx.Metadata.Int("loaded_points")
	require.True(t, ok)
	assert.Equal(t, 10, n)
	assert.Equal(t, []string{"Outlier Removal Summary"}, rep.titles)
	assert.Equal(t, [][]interface{}{{"Outlier Removal", 10, 8}}, rep.rows[0])
}

func TestContext_Nil(t *testing.T) {
	var ctx *Context
	assert.NotPanics(t, func() {
		ctx.Track("ignored")
		ctx.Set("k", 1)
		ctx.Table("t", nil, nil)
		ctx.Infof("ignored")
		ctx.LoggerOrNop().Info("ignored")
	})
}

func TestMetadata_Copies(t *testing.T) {
	m := NewMetadata()
	m.Set("a", 1)
	m.Append("first")

	stats := m.Stats()
	stats["a"] = 2
	hist := m.History()
	hist[0] = "changed"

	v, _ := m.Get("a")
	assert.Equal(t, 1, v)
	assert.Equal(t, []string{"first"}, m.History())

	_, ok := m.Int("missing")
	assert.False(t, ok)
	m.Set("s", "text")
	_, ok = m.Int("s")
	assert.False(t, ok)
}

func TestTableReporter(t *testing.T) {
	var buf bytes.Buffer
	r := NewTableReporter(&buf)
	r.Style = table.StyleDefault
	r.Table("Detected Planes", []string{"Plane", "Points"}, [][]interface{}{{1, 600}})

	out := buf.String()
	assert.Contains(t, out, "Detected Planes")
	assert.Contains(t, out, "PLANE")
	assert.Contains(t, out, "600")
}
