package namedstmt_test

import (
	"context"
	"log/slog"

	"github.com/rfberaldo/namedstmt"
	"github.com/rfberaldo/namedstmt/binds"
	"github.com/stretchr/testify/mock"
)

var ctx = context.Background()

// engineMock implements [namedstmt.Engine]
type engineMock struct {
	mock.Mock
}

func (m *engineMock) Prepare(ctx context.Context, query string) error {
	return m.Called(query).Error(0)
}

func (m *engineMock) BindExecute(ctx context.Context, b namedstmt.Binding) (int, error) {
	arg := m.Called(b)
	return arg.Int(0), arg.Error(1)
}

// binderEngineMock implements [namedstmt.Engine] and [namedstmt.Binder]
type binderEngineMock struct {
	engineMock
	bind binds.Bind
}

func (m *binderEngineMock) Bind() binds.Bind { return m.bind }

type logRecord struct {
	level slog.Level
	msg   string
	attrs map[string]slog.Value
}

// loggerMock implements [namedstmt.Logger]
type loggerMock struct {
	records []logRecord
}

func (l *loggerMock) LogAttrs(ctx context.Context, level slog.Level, msg string, attrs ...slog.Attr) {
	rec := logRecord{level: level, msg: msg, attrs: make(map[string]slog.Value)}
	for _, a := range attrs {
		rec.attrs[a.Key] = a.Value
	}
	l.records = append(l.records, rec)
}

func (l *loggerMock) last() logRecord {
	if len(l.records) == 0 {
		return logRecord{}
	}
	return l.records[len(l.records)-1]
}

// captureBinding records the binding received by BindExecute.
func captureBinding(m *engineMock, res int, err error) *namedstmt.Binding {
	got := &namedstmt.Binding{}
	m.On("BindExecute", mock.Anything).
		Run(func(args mock.Arguments) { *got = args.Get(0).(namedstmt.Binding) }).
		Return(res, err)
	return got
}
