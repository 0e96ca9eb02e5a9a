package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/lumberjack"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Enabled    bool   // Включено ли логирование
	Level      string // DEBUG, INFO, WARN, ERROR
	LogsDir    string // Директория для логов
	SavingDays uint   // Сколько дней хранить логи
}

type Logger struct {
	config *Config
	logger *logrus.Logger
	file   *lumberjack.Logger
	prefix string
}

func NewLogger(cfg *Config, prefix string) *Logger {
	l := &Logger{
		config: cfg,
		prefix: prefix,
		logger: logrus.New(),
	}

	var output io.Writer = os.Stdout
	if cfg.Enabled && cfg.LogsDir != "" {
		if err := os.MkdirAll(cfg.LogsDir, 0755); err == nil {
			l.file = &lumberjack.Logger{
				Filename:  filepath.Join(cfg.LogsDir, "yak-service.log"),
				MaxSize:   50, // МБ
				MaxAge:    int(cfg.SavingDays),
				LocalTime: true,
			}
			output = io.MultiWriter(os.Stdout, l.file)
		}
	}
	if !cfg.Enabled {
		output = io.Discard
	}

	l.logger.SetOutput(output)
	l.logger.SetLevel(parseLevel(cfg.Level))
	l.logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return l
}

func parseLevel(level string) logrus.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return logrus.DebugLevel
	case "WARN":
		return logrus.WarnLevel
	case "ERROR":
		return logrus.ErrorLevel
	}
	return logrus.InfoLevel
}

func (l *Logger) WithPrefix(prefix string) *Logger {
	newPrefix := l.prefix
	if newPrefix != "" {
		newPrefix += " "
	}
	newPrefix += "[" + prefix + "]"

	return &Logger{
		config: l.config,
		logger: l.logger,
		file:   l.file,
		prefix: newPrefix,
	}
}

// Entry возвращает logrus-запись с префиксом для пакетов, принимающих logrus.FieldLogger.
func (l *Logger) Entry() *logrus.Entry {
	return l.logger.WithField("prefix", l.prefix)
}

func (l *Logger) log(level logrus.Level, msg string, fields ...interface{}) {
	if !l.ShouldLog(strings.ToUpper(level.String())) {
		return
	}

	data := make(logrus.Fields, len(fields)/2+1)
	for i := 0; i < len(fields); i += 2 {
		key := fmt.Sprint(fields[i])
		var val interface{} = "?"
		if i+1 < len(fields) {
			val = fields[i+1]
		}
		data[key] = val
	}

	l.logger.WithFields(data).Log(level, l.prefix+" "+msg)
}

func (l *Logger) ShouldLog(level string) bool {
	if !l.config.Enabled {
		return false
	}
	if strings.ToUpper(level) == "WARNING" {
		level = "WARN"
	}

	levels := map[string]int{
		"DEBUG": 4,
		"INFO":  3,
		"WARN":  2,
		"ERROR": 1,
	}

	currentLevel := levels[strings.ToUpper(l.config.Level)]
	if currentLevel == 0 {
		currentLevel = 3 // INFO по умолчанию
	}

	return levels[strings.ToUpper(level)] <= currentLevel
}

func (l *Logger) Debug(msg string, fields ...interface{}) { l.log(logrus.DebugLevel, msg, fields...) }
func (l *Logger) Info(msg string, fields ...interface{})  { l.log(logrus.InfoLevel, msg, fields...) }
func (l *Logger) Warn(msg string, fields ...interface{})  { l.log(logrus.WarnLevel, msg, fields...) }
func (l *Logger) Error(msg string, fields ...interface{}) { l.log(logrus.ErrorLevel, msg, fields...) }

// SetOutput перенаправляет вывод, файл журнала при этом не используется.
func (l *Logger) SetOutput(w io.Writer) {
	l.logger.SetOutput(w)
}

func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}
