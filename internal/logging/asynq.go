package logging

import (
	"fmt"

	"go.uber.org/zap"
)

// AsynqLogger satisfies asynq.Logger on top of a sugared zap logger.
type AsynqLogger struct {
	s *zap.SugaredLogger
}

func NewAsynqLogger(logger *zap.Logger) *AsynqLogger {
	return &AsynqLogger{s: logger.Named("asynq").Sugar()}
}

func (l *AsynqLogger) Debug(args ...any) { l.s.Debug(fmt.Sprint(args...)) }
func (l *AsynqLogger) Info(args ...any)  { l.s.Info(fmt.Sprint(args...)) }
func (l *AsynqLogger) Warn(args ...any)  { l.s.Warn(fmt.Sprint(args...)) }
func (l *AsynqLogger) Error(args ...any) { l.s.Error(fmt.Sprint(args...)) }
func (l *AsynqLogger) Fatal(args ...any) { l.s.Fatal(fmt.Sprint(args...)) }
