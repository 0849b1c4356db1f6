// Package stage provides the context shared by the pipeline stages of a run.
package stage

import (
	"fmt"

	"github.com/edaniels/golog"
	"go.uber.org/zap"
)

// Context is passed explicitly to every stage. It is not safe for
// concurrent use; stages run strictly one after another.
type Context struct {
	Logger   golog.Logger
	Metadata *Metadata
	Reporter Reporter
}

func NewContext(logger golog.Logger, reporter Reporter) *Context {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if reporter == nil {
		reporter = NopReporter()
	}
	return &Context{
		Logger:   logger,
		Metadata: NewMetadata(),
		Reporter: reporter,
	}
}

// LoggerOrNop returns the logger of c, or a no-op logger if there is none.
func (c *Context) LoggerOrNop() golog.Logger {
	if c == nil || c.Logger == nil {
		return zap.NewNop().Sugar()
	}
	return c.Logger
}

// Track appends a formatted entry to the history.
func (c *Context) Track(format string, args ...interface{}) {
	if c == nil {
		return
	}
	s := fmt.Sprintf(format, args...)
	if c.Metadata != nil {
		c.Metadata.Append(s)
	}
	if c.Logger != nil {
		c.Logger.Debug(s)
	}
}

func (c *Context) Set(key string, value interface{}) {
	if c == nil || c.Metadata == nil {
		return
	}
	c.Metadata.Set(key, value)
}

func (c *Context) Table(title string, header []string, rows [][]interface{}) {
	if c == nil || c.Reporter == nil {
		return
	}
	c.Reporter.Table(title, header, rows)
}

// Infof logs at info level.
func (c *Context) Infof(format string, args ...interface{}) {
	if c == nil || c.Logger == nil {
		return
	}
	c.Logger.Infof(format, args...)
}

func (c *Context) Warnf(format string, args ...interface{}) {
	if c == nil || c.Logger == nil {
		return
	}
	c.Logger.Warnf(format, args...)
}

// StepSummary reports the point count change of a filtering step.
func (c *Context) StepSummary(title, step string, before, after int) {
	c.Table(title,
		[]string{"Step", "Original Points", "Remaining Points"},
		[][]interface{}{{step, before, after}},
	)
}
