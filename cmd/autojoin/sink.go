package main

import (
	"github.com/sirupsen/logrus"

	"github.com/entrhq/autojoin/pkg/join"
	"github.com/entrhq/autojoin/pkg/logging"
)

// logSink writes workflow events to the session log file.
type logSink struct {
	logger *logging.Logger
}

func newLogSink(logger *logging.Logger) join.EventSink {
	return &logSink{logger: logger}
}

func (s *logSink) Emit(e join.Event) {
	level := eventLevel(e.Level)
	if !s.logger.Enabled(level) {
		return
	}
	s.logger.Log(level, e.Component, e.Message, eventFields(e))
}

func eventLevel(l join.Level) logrus.Level {
	switch l {
	case join.LevelDebug:
		return logrus.DebugLevel
	case join.LevelError:
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

func eventFields(e join.Event) map[string]interface{} {
	fields := map[string]interface{}{
		"state": e.State.String(),
	}
	if e.Step != "" {
		fields["step"] = string(e.Step)
	}
	if r := e.Result; r != nil {
		fields["status"] = string(r.Status)
		fields["policy"] = r.Policy.String()
		fields["duration_ms"] = r.Duration.Milliseconds()
		if r.Kind != join.KindNone {
			fields["kind"] = string(r.Kind)
		}
	}
	if t := e.Tick; t != nil {
		fields["tick"] = t.N
		if t.Err == nil {
			fields["screenshot"] = t.Path
		}
	}
	return fields
}
