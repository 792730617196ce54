package logger

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestBuild_JSONLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l, flush := Build(Options{Level: "warn", JSON: true, Output: zapcore.AddSync(&buf)})
	l.Info("dropped")
	l.Warn("kept", zap.String("k", "v"))
	flush()

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)
	var rec map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &rec))
	assert.Equal(t, "kept", rec["msg"])
	assert.Equal(t, "v", rec["k"])
	assert.Contains(t, rec, "ts")
}

func TestBuild_BadLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l, flush := Build(Options{Level: "loud", JSON: true, Output: zapcore.AddSync(&buf)})
	l.Debug("dropped")
	l.Info("kept")
	flush()
	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
}

func TestToWriter(t *testing.T) {
	var buf bytes.Buffer
	l, _ := Build(Options{Level: "debug", JSON: true, Output: zapcore.AddSync(&buf)})
	w := ToWriter(l, zapcore.ErrorLevel)
	n, err := w.Write([]byte("boom\n"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Contains(t, buf.String(), `"msg":"boom"`)
	assert.Contains(t, buf.String(), `"level":"error"`)
}

func TestNewWithRotate_WritesFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "api.log")
	l, flush := NewWithRotate("info", true, FileRotate{Filename: file, MaxSizeMB: 1})
	l.Info("to file")
	flush()
	assert.FileExists(t, file)
}
