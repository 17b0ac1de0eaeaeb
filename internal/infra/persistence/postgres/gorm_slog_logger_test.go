package postgres

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"socialgraph/config"
	deliverycontext "socialgraph/internal/delivery/context"
	"socialgraph/internal/errors"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var records []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var record map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &record))
		records = append(records, record)
	}

	return records
}

func sqlFn() (string, int64) {
	return "SELECT 1", 1
}

func TestStatementLogger_PrefersRequestLogger(t *testing.T) {
	var base, scoped bytes.Buffer
	gormLogger := newGormSlogLogger(slog.New(slog.NewJSONHandler(&base, nil)), &config.Config{})

	requestLogger := slog.New(slog.NewJSONHandler(&scoped, nil)).With(slog.String("request_id", "req-1"))
	ctx := deliverycontext.WithLogger(context.Background(), requestLogger)

	gormLogger.Trace(ctx, time.Now(), sqlFn, errors.New("boom"))

	assert.Empty(t, base.String())
	records := decodeLines(t, &scoped)
	require.Len(t, records, 1)
	assert.Equal(t, "Database statement failed", records[0]["msg"])
	assert.Equal(t, "req-1", records[0]["request_id"])
	assert.Equal(t, "boom", records[0]["error"])
}

func TestStatementLogger_Trace(t *testing.T) {
	testCases := []struct {
		name    string
		debug   bool
		begin   time.Time
		err     error
		wantMsg string
	}{
		{name: "record not found is ignored", begin: time.Now(), err: gorm.ErrRecordNotFound},
		{name: "fast query at warn level is silent", begin: time.Now()},
		{name: "slow query", begin: time.Now().Add(-time.Second), wantMsg: "Slow database statement"},
		{name: "debug traces every query", debug: true, begin: time.Now(), wantMsg: "Database statement"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			cfg := &config.Config{}
			cfg.Env.Debug = tc.debug
			gormLogger := newGormSlogLogger(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), cfg)

			gormLogger.Trace(context.Background(), tc.begin, sqlFn, tc.err)

			records := decodeLines(t, &buf)
			if tc.wantMsg == "" {
				assert.Empty(t, records)

				return
			}
			require.Len(t, records, 1)
			assert.Equal(t, tc.wantMsg, records[0]["msg"])
			assert.Equal(t, "SELECT 1", records[0]["sql"])
		})
	}
}

func TestStatementLogger_LogModeSilent(t *testing.T) {
	var buf bytes.Buffer
	gormLogger := newGormSlogLogger(slog.New(slog.NewJSONHandler(&buf, nil)), &config.Config{}).LogMode(logger.Silent)

	gormLogger.Trace(context.Background(), time.Now(), sqlFn, errors.New("boom"))
	gormLogger.Error(context.Background(), "failed %d", 1)

	assert.Empty(t, buf.String())
}

func TestStatementLogger_ParamsFilterDropsBoundValues(t *testing.T) {
	l, ok := newGormSlogLogger(discardLogger(), &config.Config{}).(*statementLogger)
	require.True(t, ok)

	sql, params := l.ParamsFilter(context.Background(),
		`UPDATE "users" SET "password_hash"=$1 WHERE id = $2`, "$argon2id$v=19$secret", int64(1))

	assert.Equal(t, `UPDATE "users" SET "password_hash"=$1 WHERE id = $2`, sql)
	assert.Nil(t, params)
}

var _ gorm.ParamsFilter = (*statementLogger)(nil)
