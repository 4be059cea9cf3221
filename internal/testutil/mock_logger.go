// Package testutil provides common test utilities for NanoForge: a recording
// logger and descriptor fixtures for the molecules the end-to-end tests
// compile.
package testutil

import (
	"strings"
	"sync"

	"github.com/turtacn/nanoforge/internal/monitoring/logging"
)

// MockLogger implements logging.Logger for testing purposes.
// It records log messages and can be used to verify logging behavior.
type MockLogger struct {
	mu       sync.Mutex
	Messages []LogMessage
}

// LogMessage represents a single log entry captured by MockLogger.
type LogMessage struct {
	Level   string
	Message string
	Fields  []logging.Field
}

// NewMockLogger creates a new MockLogger instance.
func NewMockLogger() *MockLogger {
	return &MockLogger{
		Messages: make([]LogMessage, 0),
	}
}

func (m *MockLogger) log(level, msg string, fields []logging.Field) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Messages = append(m.Messages, LogMessage{
		Level:   level,
		Message: msg,
		Fields:  fields,
	})
}

func (m *MockLogger) Debug(msg string, fields ...logging.Field) {
	m.log("debug", msg, fields)
}

func (m *MockLogger) Info(msg string, fields ...logging.Field) {
	m.log("info", msg, fields)
}

func (m *MockLogger) Warn(msg string, fields ...logging.Field) {
	m.log("warn", msg, fields)
}

func (m *MockLogger) Error(msg string, fields ...logging.Field) {
	m.log("error", msg, fields)
}

func (m *MockLogger) With(fields ...logging.Field) logging.Logger {
	return m
}

func (m *MockLogger) Named(name string) logging.Logger {
	return m
}

// GetMessages returns a copy of all logged messages.
func (m *MockLogger) GetMessages() []LogMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]LogMessage, len(m.Messages))
	copy(result, m.Messages)
	return result
}

// Clear removes all logged messages.
func (m *MockLogger) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Messages = m.Messages[:0]
}

// HasMessage reports whether any captured entry contains the substring.
func (m *MockLogger) HasMessage(substr string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, msg := range m.Messages {
		if strings.Contains(msg.Message, substr) {
			return true
		}
	}
	return false
}
