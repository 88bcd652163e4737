package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ukaji3/gradeflow-go/internal/config"
)

func TestInitLoggerWritesJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "gradeflow.log")
	cfg := &config.Config{Log: config.LogConfig{Level: "warn", File: path}}

	log := InitLogger(cfg, false)
	log.Info("hidden")
	log.Warn("skipping submission")
	_ = log.Sync()

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], `"msg":"skipping submission"`)
	assert.Contains(t, lines[0], `"level":"WARN"`)
	assert.Same(t, Log, log)
}

func TestInitLoggerVerbose(t *testing.T) {
	cfg := &config.Config{Log: config.LogConfig{Level: "bogus"}}
	log := InitLogger(cfg, true)
	assert.True(t, log.Core().Enabled(zap.DebugLevel))

	log = InitLogger(cfg, false)
	assert.False(t, log.Core().Enabled(zap.DebugLevel))
}
