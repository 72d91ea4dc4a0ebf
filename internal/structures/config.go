package structures

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

type DesktopPC struct {
	IPAddress  string `mapstructure:"ip_address" validate:"required|ip"`
	MacAddress string `mapstructure:"mac_address" validate:"required"`
}

type MonitoringConfig struct {
	PcCheckMethod       string `mapstructure:"pc_check_method" validate:"required|in:ping,port"`
	PcCheckTimeout      int    `mapstructure:"pc_check_timeout" validate:"required|min:1"`
	PcCheckPort         int    `mapstructure:"pc_check_port" validate:"required|min:1|max:65535"`
	PcCheckCacheSeconds int    `mapstructure:"pc_check_cache_seconds" validate:"min:0"`
}

type CacheConfig struct {
	Path        string  `mapstructure:"path" validate:"required"`
	MaxAgeHours float64 `mapstructure:"max_age_hours" validate:"required"`
	LockTimeout int     `mapstructure:"lock_timeout" validate:"required|min:1"`
	Backup      bool    `mapstructure:"backup"`
}

type WolTiming struct {
	FirstMinutes  int `mapstructure:"first_minutes" validate:"required|min:1"`
	SecondMinutes int `mapstructure:"second_minutes" validate:"min:0"`
}

type WolConfig struct {
	BroadcastAddress string `mapstructure:"broadcast_address" validate:"required|ip"`
	Port             int    `mapstructure:"port" validate:"required|min:1|max:65535"`
	SendTimeout      int    `mapstructure:"send_timeout" validate:"required|min:1"`
}

type EpgStationConfig struct {
	ApiUrl  string `mapstructure:"api_url" validate:"required"`
	Timeout int    `mapstructure:"timeout" validate:"required|min:1"`
}

type LoggerConfig struct {
	Dir   string `mapstructure:"dir" validate:"required"`
	Level string `mapstructure:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `mapstructure:"mode" validate:"required|uint"`
}

type MetricsConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	TextfileDir string `mapstructure:"textfile_dir"`
}

type DaemonConfig struct {
	CheckInterval   int    `mapstructure:"check_interval" validate:"required|min:1"`
	RefreshInterval int    `mapstructure:"refresh_interval" validate:"required|min:1"`
	Listen          string `mapstructure:"listen"`
}

type Config struct {
	AppName    string
	Command    string
	Debug      bool
	Path       string
	DesktopPC  DesktopPC        `mapstructure:"desktop_pc"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
	Cache      CacheConfig      `mapstructure:"cache"`
	WolTiming  WolTiming        `mapstructure:"wol_timing"`
	Wol        WolConfig        `mapstructure:"wol"`
	EpgStation EpgStationConfig `mapstructure:"epgstation"`
	Logging    LoggerConfig     `mapstructure:"logging"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Daemon     DaemonConfig     `mapstructure:"daemon"`
}

func (m MonitoringConfig) Timeout() time.Duration {
	return time.Duration(m.PcCheckTimeout) * time.Second
}

func (c CacheConfig) MaxAge() time.Duration {
	return time.Duration(c.MaxAgeHours * float64(time.Hour))
}

func (c CacheConfig) LockWait() time.Duration {
	return time.Duration(c.LockTimeout) * time.Second
}

func (w WolConfig) Timeout() time.Duration {
	return time.Duration(w.SendTimeout) * time.Second
}

func (e EpgStationConfig) RequestTimeout() time.Duration {
	return time.Duration(e.Timeout) * time.Second
}

// ExpandHome resolves a leading "~/" against the current user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
