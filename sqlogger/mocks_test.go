package sqlogger

import (
	"context"
	"encoding/json"
	"log"
	"log/slog"
	"time"

	"github.com/rfberaldo/namedstmt"
	"github.com/rfberaldo/namedstmt/binds"
	"github.com/stretchr/testify/mock"
)

var (
	output   = &writerMock{}
	tSlogger = slog.New(slog.NewJSONHandler(output, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx      = context.Background()
)

type logData struct {
	Time     time.Time     `json:"time"`
	Level    slog.Level    `json:"level"`
	Msg      string        `json:"msg"`
	StmtId   string        `json:"stmt_id"`
	Error    string        `json:"error"`
	Query    string        `json:"query"`
	Names    []string      `json:"names"`
	Args     []any         `json:"args"`
	Duration time.Duration `json:"duration"`
}

// writerMock implements [io.Writer]
type writerMock struct {
	data logData
}

func (t *writerMock) Write(p []byte) (n int, err error) {
	t.data = logData{}
	err = json.Unmarshal(p, &t.data)
	if err != nil {
		log.Fatal(err)
	}

	return len(p), nil
}

// engineMock implements [namedstmt.Engine]
type engineMock struct {
	mock.Mock
}

func (m *engineMock) Prepare(ctx context.Context, query string) error {
	return m.Called(query).Error(0)
}

func (m *engineMock) BindExecute(ctx context.Context, b namedstmt.Binding) (string, error) {
	arg := m.Called(b)
	return arg.String(0), arg.Error(1)
}

// binderEngineMock implements [namedstmt.Engine] and [namedstmt.Binder]
type binderEngineMock struct {
	engineMock
	bind binds.Bind
}

func (m *binderEngineMock) Bind() binds.Bind { return m.bind }
