package providers

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"wolwake/internal/structures"

	"github.com/spf13/viper"
)

const AppName = "wolwake"

// ErrConfig marks every failure to load or validate the configuration file.
var ErrConfig = errors.New("configuration error")

func setDefaults(v *viper.Viper) {
	v.SetDefault("monitoring.pc_check_method", "ping")
	v.SetDefault("monitoring.pc_check_timeout", 3)
	v.SetDefault("monitoring.pc_check_port", 8888)
	v.SetDefault("monitoring.pc_check_cache_seconds", 0)
	v.SetDefault("cache.path", filepath.Join("cache", "reserves.json"))
	v.SetDefault("cache.max_age_hours", 24)
	v.SetDefault("cache.lock_timeout", 10)
	v.SetDefault("cache.backup", true)
	v.SetDefault("wol_timing.first_minutes", 30)
	v.SetDefault("wol_timing.second_minutes", 3)
	v.SetDefault("wol.broadcast_address", "255.255.255.255")
	v.SetDefault("wol.port", 9)
	v.SetDefault("wol.send_timeout", 5)
	v.SetDefault("epgstation.timeout", 10)
	v.SetDefault("logging.dir", "logs")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.mode", 0644)
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.textfile_dir", "")
	v.SetDefault("daemon.check_interval", 60)
	v.SetDefault("daemon.refresh_interval", 1800)
	v.SetDefault("daemon.listen", "")
}

func configType(path string) string {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "yaml", "yml":
		return "yaml"
	case "toml":
		return "toml"
	default:
		return "json"
	}
}

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	v.SetConfigFile(flags.ConfigPath)
	v.SetConfigType(configType(flags.ConfigPath))
	setDefaults(v)

	v.BindEnv("logging.level", "WOLWAKE_LOG_LEVEL")
	v.BindEnv("desktop_pc.mac_address", "WOLWAKE_MAC_ADDRESS")
	v.BindEnv("desktop_pc.ip_address", "WOLWAKE_IP_ADDRESS")
	v.BindEnv("epgstation.api_url", "WOLWAKE_API_URL")
	v.BindEnv("cache.path", "WOLWAKE_CACHE_PATH")

	err := v.ReadInConfig()
	if err != nil {
		return nil, fmt.Errorf("%w: unable to read config %s: %v", ErrConfig, flags.ConfigPath, err)
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("%w: unable to decode into config struct: %v", ErrConfig, err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, fmt.Errorf("%w: invalid config %s: %v", ErrConfig, flags.ConfigPath, err)
	}

	conf.AppName = AppName
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode
	conf.Command = flags.Command
	conf.Logging.Dir = structures.ExpandHome(conf.Logging.Dir)
	conf.Metrics.TextfileDir = structures.ExpandHome(conf.Metrics.TextfileDir)
	conf.Cache.Path = structures.ExpandHome(conf.Cache.Path)

	return &conf, nil
}
