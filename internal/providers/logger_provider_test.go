package providers

import (
	"os"
	"path/filepath"
	"testing"
	"wolwake/internal/structures"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func logConfig(dir string) *structures.Config {
	return &structures.Config{
		Logging: structures.LoggerConfig{
			Level: "debug",
			Mode:  0644,
			Dir:   dir,
		},
	}
}

func TestTypeEnum_String(t *testing.T) {
	assert.Equal(t, "app", TypeApp.String())
	assert.Equal(t, "check", TypeCheck.String())
	assert.Equal(t, "refresh", TypeRefresh.String())
	assert.Equal(t, "send", TypeSend.String())
}

func TestNewLogProvider_CreatesLogFiles(t *testing.T) {
	dir := t.TempDir()

	logger, err := NewLogProvider(logConfig(dir))
	require.NoError(t, err)

	logger.Infof(TypeApp, "app message")
	logger.Infof(TypeCheck, "check message")
	logger.Warnf(TypeRefresh, "refresh message")
	logger.Errorf(TypeSend, "send message")
	logger.Close()

	app, err := os.ReadFile(filepath.Join(dir, "app.log"))
	require.NoError(t, err)
	assert.Contains(t, string(app), "app message")

	wol, err := os.ReadFile(filepath.Join(dir, "wol.log"))
	require.NoError(t, err)
	assert.Contains(t, string(wol), "check message")
	assert.Contains(t, string(wol), "send message")
	assert.NotContains(t, string(wol), "refresh message")

	update, err := os.ReadFile(filepath.Join(dir, "update.log"))
	require.NoError(t, err)
	assert.Contains(t, string(update), "refresh message")
	assert.Contains(t, string(update), `"level":"warn"`)
}

func TestNewLogProvider_LevelFilters(t *testing.T) {
	dir := t.TempDir()
	conf := logConfig(dir)
	conf.Logging.Level = "warn"

	logger, err := NewLogProvider(conf)
	require.NoError(t, err)
	logger.Debugf(TypeCheck, "hidden debug")
	logger.Infof(TypeCheck, "hidden info")
	logger.Warnf(TypeCheck, "visible warn")
	logger.Close()

	data, err := os.ReadFile(filepath.Join(dir, "wol.log"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "visible warn")
}

func TestNewLogProvider_CreatesMissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "logs")
	logger, err := NewLogProvider(logConfig(dir))
	require.NoError(t, err)
	defer logger.Close()

	_, err = os.Stat(filepath.Join(dir, "update.log"))
	assert.NoError(t, err)
}

func TestNewLogProvider_InvalidDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	_, err := NewLogProvider(logConfig(filepath.Join(file, "logs")))
	assert.Error(t, err)
}

func TestNewLogProvider_InvalidLevel(t *testing.T) {
	conf := logConfig(t.TempDir())
	conf.Logging.Level = "verbose"
	_, err := NewLogProvider(conf)
	assert.Error(t, err)
}

func TestNewConsoleLogger(t *testing.T) {
	logger := NewConsoleLogger("nonsense")
	logger.Infof(TypeSend, "to stderr")
	logger.Close()
}
