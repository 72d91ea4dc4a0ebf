package providers

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"wolwake/internal/structures"

	"github.com/rs/zerolog"
)

type TypeEnum int

const (
	TypeApp TypeEnum = iota
	TypeCheck
	TypeRefresh
	TypeSend
)

var logFiles = map[TypeEnum]string{
	TypeApp:     "app.log",
	TypeCheck:   "wol.log",
	TypeRefresh: "update.log",
	TypeSend:    "wol.log",
}

func (t TypeEnum) String() string {
	switch t {
	case TypeCheck:
		return "check"
	case TypeRefresh:
		return "refresh"
	case TypeSend:
		return "send"
	default:
		return "app"
	}
}

type Logger interface {
	Errorf(t TypeEnum, format string, args ...interface{})
	Warnf(t TypeEnum, format string, args ...interface{})
	Debugf(t TypeEnum, format string, args ...interface{})
	Infof(t TypeEnum, format string, args ...interface{})
	Fatalf(t TypeEnum, format string, args ...interface{})
	Close()
}

type LogProvider struct {
	loggers map[TypeEnum]zerolog.Logger
	files   []*os.File
}

func (l *LogProvider) get(t TypeEnum) *zerolog.Logger {
	logger, ok := l.loggers[t]
	if !ok {
		logger = l.loggers[TypeApp]
	}
	return &logger
}

func (l *LogProvider) Errorf(t TypeEnum, format string, args ...interface{}) {
	l.get(t).Error().Msgf(format, args...)
}

func (l *LogProvider) Warnf(t TypeEnum, format string, args ...interface{}) {
	l.get(t).Warn().Msgf(format, args...)
}

func (l *LogProvider) Debugf(t TypeEnum, format string, args ...interface{}) {
	l.get(t).Debug().Msgf(format, args...)
}

func (l *LogProvider) Infof(t TypeEnum, format string, args ...interface{}) {
	l.get(t).Info().Msgf(format, args...)
}

// Fatalf logs at fatal level without exiting; exit codes are decided by the caller.
func (l *LogProvider) Fatalf(t TypeEnum, format string, args ...interface{}) {
	l.get(t).WithLevel(zerolog.FatalLevel).Msgf(format, args...)
}

func (l *LogProvider) Close() {
	for _, f := range l.files {
		_ = f.Sync()
		_ = f.Close()
	}
	l.files = nil
}

func NewLogProvider(conf *structures.Config) (Logger, error) {
	level, err := zerolog.ParseLevel(conf.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", conf.Logging.Level, err)
	}

	dir := structures.ExpandHome(conf.Logging.Dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("unable to create log dir %s: %w", dir, err)
	}

	provider := &LogProvider{loggers: make(map[TypeEnum]zerolog.Logger, len(logFiles))}
	opened := make(map[string]*os.File)
	for t, name := range logFiles {
		file, ok := opened[name]
		if !ok {
			file, err = os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, os.FileMode(conf.Logging.Mode))
			if err != nil {
				provider.Close()
				return nil, fmt.Errorf("unable to open log file %s: %w", name, err)
			}
			opened[name] = file
			provider.files = append(provider.files, file)
		}

		var out io.Writer = file
		if conf.Debug {
			out = zerolog.MultiLevelWriter(file, zerolog.ConsoleWriter{Out: os.Stderr})
		}
		provider.loggers[t] = zerolog.New(out).Level(level).With().Timestamp().Str("type", t.String()).Logger()
	}

	return provider, nil
}

// NewConsoleLogger writes every log type to stderr. Used by commands that run without a config file.
func NewConsoleLogger(level string) Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	provider := &LogProvider{loggers: make(map[TypeEnum]zerolog.Logger, len(logFiles))}
	for t := range logFiles {
		provider.loggers[t] = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(lvl).With().Timestamp().Str("type", t.String()).Logger()
	}
	return provider
}
