package dedup

import (
	"github.com/tliron/commonlog"

	"github.com/geoknoesis/rdf-dedup/rdf"
)

// Reporter receives the recoverable errors and progress notices of a run.
type Reporter interface {
	Warning(err *rdf.ParsingError)
	Notice(msg string)
}

// LogReporter writes to a commonlog logger.
type LogReporter struct {
	log commonlog.Logger
}

// NewLogReporter returns a reporter logging to log.
func NewLogReporter(log commonlog.Logger) *LogReporter {
	return &LogReporter{log: log}
}

// Warning logs err as "<kind> <line>:<column> <message>".
func (r *LogReporter) Warning(err *rdf.ParsingError) {
	r.log.Warningf("%s %d:%d %s", err.Kind, err.Line, err.Column, err.Message)
}

// Notice logs msg at notice level.
func (r *LogReporter) Notice(msg string) {
	r.log.Notice(msg)
}
