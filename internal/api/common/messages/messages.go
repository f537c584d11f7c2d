package messages

import (
	"sync"

	"go.uber.org/zap"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

type Message struct {
	Level Level  `json:"level"`
	Text  string `json:"message"`
}

// Messages collects the notices shown alongside a report. Upstream failures
// end up here instead of failing the whole request.
type Messages struct {
	lock   sync.Mutex
	logger *zap.Logger
	list   []Message
}

func New(logger *zap.Logger) *Messages {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Messages{logger: logger}
}

func (m *Messages) add(level Level, text string) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.list = append(m.list, Message{Level: level, Text: text})
}

func (m *Messages) Info(text string) {
	m.add(LevelInfo, text)
}

func (m *Messages) Warning(text string) {
	m.add(LevelWarning, text)
}

func (m *Messages) Error(text string) {
	m.add(LevelError, text)
}

// Handle logs err and records text as an error message for the user.
func (m *Messages) Handle(err error, text string) {
	m.logger.Warn(text, zap.Error(err))
	m.Error(text)
}

func (m *Messages) List() []Message {
	m.lock.Lock()
	defer m.lock.Unlock()
	out := make([]Message, len(m.list))
	copy(out, m.list)
	return out
}

func (m *Messages) HasErrors() bool {
	m.lock.Lock()
	defer m.lock.Unlock()
	for _, msg := range m.list {
		if msg.Level == LevelError {
			return true
		}
	}
	return false
}
