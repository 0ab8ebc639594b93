// Package logging sets up the process-wide zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	// FileName is the name of the log file created in the log directory.
	FileName = "ost-player.log"

	maxFileSizeMB = 1
	maxBackups    = 2
)

// Config controls where logs are written.
type Config struct {
	// Console receives human-readable logs, nil disables console output.
	Console io.Writer
	Debug   bool

	// Dir is the directory of the rotated log file, empty disables file output.
	Dir string
}

// Init configures the global logger and returns it, along with the closer of the log file.
func Init(cfg Config) (zerolog.Logger, io.Closer, error) {
	writers := []io.Writer{}
	closer := io.Closer(nopCloser{})

	if cfg.Dir != "" {
		err := os.MkdirAll(cfg.Dir, 0755)
		if err != nil {
			return zerolog.Nop(), closer, fmt.Errorf("could not create log directory: %w", err)
		}

		file := &lumberjack.Logger{
			Filename:   filepath.Join(cfg.Dir, FileName),
			MaxSize:    maxFileSizeMB,
			MaxBackups: maxBackups,
		}
		writers = append(writers, file)
		closer = file
	}

	if cfg.Console != nil {
		writers = append(writers, zerolog.ConsoleWriter{Out: cfg.Console, TimeFormat: time.TimeOnly})
	}

	level := zerolog.InfoLevel
	if cfg.Debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if len(writers) == 0 {
		log.Logger = zerolog.Nop()
		return log.Logger, closer, nil
	}

	log.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger()

	return log.Logger, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error {
	return nil
}
