package logger

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	defaultRotateMaxSizeInMB = 50
	defaultRotateMaxBackups  = 10
	defaultRotateMaxAgeDays  = 28
)

type LoggerConfig struct {
	LogLevel            hclog.Level
	JSONLogFormat       bool
	AppendFile          bool
	LogFilePath         string
	Name                string
	RotatingLogsEnabled bool
	RotateMaxSizeInMB   int
	RotateMaxBackups    int
	RotateMaxAgeDays    int
}

func NewLogger(config LoggerConfig) (hclog.Logger, error) {
	var logWriter io.Writer

	if config.RotatingLogsEnabled {
		writer, err := getRotatingLogWriter(config)
		if err != nil {
			return nil, err
		}

		logWriter = writer
	} else {
		writer, err := getLogFileWriter(config)
		if err != nil {
			return nil, err
		}

		if writer != nil {
			logWriter = writer
		}
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:       config.Name,
		Level:      config.LogLevel,
		Output:     logWriter,
		JSONFormat: config.JSONLogFormat,
	}), nil
}

func getRotatingLogWriter(config LoggerConfig) (io.Writer, error) {
	if strings.TrimSpace(config.LogFilePath) == "" {
		return nil, errors.New("log file path is required for rotating logs")
	}

	if dir := filepath.Dir(config.LogFilePath); dir != "." {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return nil, fmt.Errorf("could not create log directory, %w", err)
		}
	}

	maxSize := config.RotateMaxSizeInMB
	if maxSize <= 0 {
		maxSize = defaultRotateMaxSizeInMB
	}

	maxBackups := config.RotateMaxBackups
	if maxBackups <= 0 {
		maxBackups = defaultRotateMaxBackups
	}

	maxAge := config.RotateMaxAgeDays
	if maxAge <= 0 {
		maxAge = defaultRotateMaxAgeDays
	}

	return &lumberjack.Logger{
		Filename:   config.LogFilePath,
		MaxSize:    maxSize,
		MaxBackups: maxBackups,
		MaxAge:     maxAge,
		Compress:   true,
	}, nil
}

func getLogFileWriter(config LoggerConfig) (*os.File, error) {
	filePath := strings.TrimSpace(config.LogFilePath)
	if filePath == "" {
		return nil, nil
	}

	if dir := filepath.Dir(filePath); dir != "." {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return nil, fmt.Errorf("could not create log directory, %w", err)
		}
	}

	if !config.AppendFile {
		timestamp := strings.Replace(strings.Replace(
			time.Now().UTC().Format(time.RFC3339), ":", "_", -1), "-", "_", -1)
		extension := filepath.Ext(filePath)
		filePath = strings.TrimSuffix(filePath, extension) + "_" + timestamp + extension
	}

	logFileWriter, err := os.OpenFile(filePath, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0600)
	if err != nil {
		return nil, fmt.Errorf("could not create or open log file, %w", err)
	}

	return logFileWriter, nil
}
