// Package log wraps a dedicated logrus instance whose output, format and
// severity come from the application configuration.
package log

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	logrus "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/vidra-cli/vidra/filesystem"
	"github.com/vidra-cli/vidra/key"
	"github.com/vidra-cli/vidra/where"
)

// logger discards everything until Setup wires it to a file. Playback
// surfaces own the terminal, so nothing is ever written to stderr.
var logger = &logrus.Logger{
	Out:       io.Discard,
	Formatter: &logrus.TextFormatter{},
	Hooks:     make(logrus.LevelHooks),
	Level:     logrus.InfoLevel,
}

// Setup points the logger at a date-stamped file under the logs directory.
// With logs.write disabled the logger stays on io.Discard.
func Setup() error {
	if !viper.GetBool(key.LogsWrite) {
		return nil
	}

	dir := where.Logs()
	if dir == "" {
		return errors.New("log directory path is empty")
	}
	path := filepath.Join(dir, time.Now().Format("2006-01-02")+".log")

	f, err := filesystem.API().OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	logger.SetOutput(f)

	if viper.GetBool(key.LogsJson) {
		logger.SetFormatter(&logrus.JSONFormatter{PrettyPrint: true})
	}

	if lvl, err := logrus.ParseLevel(viper.GetString(key.LogsLevel)); err == nil {
		logger.SetLevel(lvl)
	}

	return nil
}

func Error(args ...any)                 { logger.Error(args...) }
func Errorf(format string, args ...any) { logger.Errorf(format, args...) }
func Warn(args ...any)                  { logger.Warn(args...) }
func Warnf(format string, args ...any)  { logger.Warnf(format, args...) }
func Info(args ...any)                  { logger.Info(args...) }
func Infof(format string, args ...any)  { logger.Infof(format, args...) }
func Debug(args ...any)                 { logger.Debug(args...) }
func Debugf(format string, args ...any) { logger.Debugf(format, args...) }
