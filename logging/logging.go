/*
NAME
  logging.go

DESCRIPTION
  logging.go provides the Logger interface accepted by the codec/frad
  Encoder, Decoder and Repairer constructors, and an implementation backed
  by zap.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package logging provides a small structured-logging interface used across
// the frad codec so that best-effort substitutions (silent frames, zero-filled
// ECC blocks, discarded resync bytes) can be reported without changing the
// bitstream they describe.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is implemented by anything that can record leveled, keyed messages.
// Encoder, Decoder and Repairer accept a Logger as an optional final
// constructor argument; a nil Logger is replaced with Discard.
type Logger interface {
	Debug(msg string, kv ...interface{})
	Warning(msg string, kv ...interface{})
	Error(msg string, kv ...interface{})
}

// discard implements Logger by doing nothing; it is the default when no
// Logger is supplied.
type discard struct{}

func (discard) Debug(string, ...interface{})   {}
func (discard) Warning(string, ...interface{}) {}
func (discard) Error(string, ...interface{})   {}

// Discard is a Logger that drops everything written to it.
var Discard Logger = discard{}

// zapLogger adapts a *zap.SugaredLogger to the Logger interface.
type zapLogger struct {
	s *zap.SugaredLogger
}

// New returns a Logger that writes to w (e.g. a *lumberjack.Logger for
// rotating file output) at or above the given zapcore.Level.
func New(w zapcore.WriteSyncer, level zapcore.Level) Logger {
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		w,
		level,
	)
	return &zapLogger{s: zap.New(core).Sugar()}
}

// NewFile returns a Logger writing JSON lines to a lumberjack-rotated file at
// path, rotating at maxSizeMB megabytes and keeping maxBackups old files.
func NewFile(path string, maxSizeMB, maxBackups int) Logger {
	w := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
	}
	return New(zapcore.AddSync(w), zapcore.DebugLevel)
}

func (l *zapLogger) Debug(msg string, kv ...interface{})   { l.s.Debugw(msg, kv...) }
func (l *zapLogger) Warning(msg string, kv ...interface{}) { l.s.Warnw(msg, kv...) }
func (l *zapLogger) Error(msg string, kv ...interface{})   { l.s.Errorw(msg, kv...) }
