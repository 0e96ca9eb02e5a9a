package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// Registry хранит текущий снимок таблицы команд и отслеживает изменения его
// источника по пути и времени модификации. Читатели получают снимок без
// блокировок, перезагрузка выполняется одним писателем и подменяет снимок целиком.
type Registry struct {
	mu      sync.Mutex
	path    string
	modTime time.Time
	loaded  bool

	table atomic.Pointer[Table]
	loads atomic.Int64

	logger logrus.FieldLogger
}

// NewRegistry создает пустой реестр. Путь запоминается, но файл не читается до
// первого вызова Load или Refresh.
func NewRegistry(path string, logger logrus.FieldLogger) *Registry {
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	r := &Registry{path: path, logger: logger}
	r.table.Store(NewTable(nil))
	return r
}

// Load загружает таблицу из path. Если путь совпадает с текущим и время
// модификации не изменилось, файл повторно не разбирается.
// При ошибке предыдущая таблица остается в силе.
func (r *Registry) Load(path string) error {
	if path == "" {
		return errors.New("command table path is empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat command table: %w", err)
	}
	if r.loaded && path == r.path && info.ModTime().Equal(r.modTime) {
		return nil
	}
	return r.loadLocked(path, info.ModTime())
}

// Refresh проверяет зарегистрированный путь и перезагружает таблицу при изменении.
func (r *Registry) Refresh() error {
	return r.Load(r.Path())
}

// Reload перечитывает таблицу, если файл изменен позже ifChangedSince.
// Возвращает true, если таблица была заменена.
func (r *Registry) Reload(ifChangedSince time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.path == "" {
		return false, errors.New("command table path is empty")
	}
	info, err := os.Stat(r.path)
	if err != nil {
		return false, fmt.Errorf("stat command table: %w", err)
	}
	if !info.ModTime().After(ifChangedSince) {
		return false, nil
	}
	if err := r.loadLocked(r.path, info.ModTime()); err != nil {
		return false, err
	}
	return true, nil
}

func (r *Registry) loadLocked(path string, modTime time.Time) error {
	r.loads.Add(1)
	entries, err := LoadFile(path)
	if err != nil {
		r.logger.WithError(err).WithField("path", path).Warn("command table load failed, keeping previous table")
		return err
	}

	r.table.Store(NewTable(entries))
	r.path = path
	r.modTime = modTime
	r.loaded = true

	r.logger.WithFields(logrus.Fields{
		"path":     path,
		"entries":  len(entries),
		"mod_time": modTime.Format(time.RFC3339),
	}).Info("command table loaded")
	return nil
}

// Replace устанавливает таблицу, сформированную в памяти. Отметка времени
// источника сбрасывается, поэтому следующий Load перечитает файл.
func (r *Registry) Replace(t *Table) {
	if t == nil {
		t = NewTable(nil)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.table.Store(t)
	r.loaded = false
	r.modTime = time.Time{}
}

// Table возвращает текущий снимок.
func (r *Registry) Table() *Table {
	return r.table.Load()
}

// Resolve ищет запись в текущем снимке.
func (r *Registry) Resolve(commandType string, action ActionType, model string) (Entry, bool) {
	return r.Table().Resolve(commandType, action, model)
}

func (r *Registry) Path() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.path
}

// ModTime возвращает время модификации источника последней успешной загрузки.
func (r *Registry) ModTime() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.modTime
}

// Loaded сообщает, была ли таблица загружена из файла.
func (r *Registry) Loaded() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loaded
}

// LoadCount возвращает число разборов файла, включая неуспешные.
func (r *Registry) LoadCount() int64 {
	return r.loads.Load()
}
