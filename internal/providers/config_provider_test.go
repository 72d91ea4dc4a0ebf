package providers

import (
	"os"
	"path/filepath"
	"testing"
	"wolwake/internal/structures"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalJSONConfig = `{
  "desktop_pc": {"ip_address": "192.168.1.20", "mac_address": "aa-bb-cc-dd-ee-ff"},
  "monitoring": {"pc_check_method": "port", "pc_check_timeout": 2},
  "cache": {"max_age_hours": 1.5},
  "wol_timing": {"first_minutes": 30, "second_minutes": 3},
  "epgstation": {"api_url": "http://192.168.1.20:8888/api", "timeout": 10},
  "logging": {"dir": "/var/log/wolwake"}
}`

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewConfigProvider_JSONWithDefaults(t *testing.T) {
	path := writeConfig(t, "config.json", minimalJSONConfig)

	conf, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path, DebugMode: true, Command: "check"})
	require.NoError(t, err)

	assert.Equal(t, AppName, conf.AppName)
	assert.Equal(t, "check", conf.Command)
	assert.Empty(t, conf.Metrics.TextfileDir)
	assert.Equal(t, path, conf.Path)
	assert.True(t, conf.Debug)
	assert.Equal(t, "192.168.1.20", conf.DesktopPC.IPAddress)
	assert.Equal(t, "aa-bb-cc-dd-ee-ff", conf.DesktopPC.MacAddress)
	assert.Equal(t, "port", conf.Monitoring.PcCheckMethod)
	assert.Equal(t, 2, conf.Monitoring.PcCheckTimeout)
	assert.Equal(t, 8888, conf.Monitoring.PcCheckPort)
	assert.Equal(t, 1.5, conf.Cache.MaxAgeHours)
	assert.Equal(t, filepath.Join("cache", "reserves.json"), conf.Cache.Path)
	assert.True(t, conf.Cache.Backup)
	assert.Equal(t, 30, conf.WolTiming.FirstMinutes)
	assert.Equal(t, 3, conf.WolTiming.SecondMinutes)
	assert.Equal(t, "255.255.255.255", conf.Wol.BroadcastAddress)
	assert.Equal(t, 9, conf.Wol.Port)
	assert.Equal(t, "info", conf.Logging.Level)
	assert.Equal(t, uint32(0644), conf.Logging.Mode)
	assert.Equal(t, "/var/log/wolwake", conf.Logging.Dir)
}

func TestNewConfigProvider_YAML(t *testing.T) {
	content := `
desktop_pc:
  ip_address: 10.0.0.5
  mac_address: "001122334455"
epgstation:
  api_url: https://epg.example/api
logging:
  dir: ~/wolwake-logs
`
	path := writeConfig(t, "config.yaml", content)

	conf, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path})
	require.NoError(t, err)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "wolwake-logs"), conf.Logging.Dir)
	assert.Equal(t, "ping", conf.Monitoring.PcCheckMethod)
	assert.Equal(t, 24.0, conf.Cache.MaxAgeHours)
}

func TestNewConfigProvider_EnvOverride(t *testing.T) {
	path := writeConfig(t, "config.json", minimalJSONConfig)
	t.Setenv("WOLWAKE_MAC_ADDRESS", "11:22:33:44:55:66")
	t.Setenv("WOLWAKE_LOG_LEVEL", "debug")

	conf, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path})
	require.NoError(t, err)
	assert.Equal(t, "11:22:33:44:55:66", conf.DesktopPC.MacAddress)
	assert.Equal(t, "debug", conf.Logging.Level)
}

func TestNewConfigProvider_MissingFile(t *testing.T) {
	_, err := NewConfigProvider(&structures.CliFlags{ConfigPath: filepath.Join(t.TempDir(), "absent.json")})
	assert.ErrorIs(t, err, ErrConfig)
}

func TestNewConfigProvider_MalformedJSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{"desktop_pc": `)
	_, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path})
	assert.ErrorIs(t, err, ErrConfig)
}

func TestNewConfigProvider_InvalidValues(t *testing.T) {
	path := writeConfig(t, "config.json", `{
  "desktop_pc": {"ip_address": "192.168.1.20", "mac_address": "zz:bb:cc:dd:ee:ff"},
  "epgstation": {"api_url": "http://192.168.1.20:8888/api"}
}`)
	_, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path})
	assert.Error(t, err)
}
