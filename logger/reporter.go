package logger

import "go.uber.org/zap"

// Reporter is handed to long running computations so they can report
// progress and warnings without touching the global logger.
type Reporter interface {
	Info(message string, fields ...zap.Field)
	Warn(message string, fields ...zap.Field)
}

// NopReporter drops everything.
type NopReporter struct{}

func (NopReporter) Info(string, ...zap.Field) {}
func (NopReporter) Warn(string, ...zap.Field) {}

// ZapReporter forwards to the package logger.
type ZapReporter struct{}

func (ZapReporter) Info(message string, fields ...zap.Field) {
	Info(message, fields...)
}

func (ZapReporter) Warn(message string, fields ...zap.Field) {
	Warn(message, fields...)
}

// RecordingReporter keeps warnings in memory. Handy in tests.
type RecordingReporter struct {
	Warnings []string
	Infos    []string
}

func (r *RecordingReporter) Info(message string, _ ...zap.Field) {
	r.Infos = append(r.Infos, message)
}

func (r *RecordingReporter) Warn(message string, _ ...zap.Field) {
	r.Warnings = append(r.Warnings, message)
}
