package commands

import (
	"sort"
	"strings"
)

// Table - неизменяемый упорядоченный снимок таблицы команд.
type Table struct {
	entries []Entry
}

// NewTable создает таблицу из копии переданных записей.
func NewTable(entries []Entry) *Table {
	copied := make([]Entry, len(entries))
	copy(copied, entries)
	return &Table{entries: copied}
}

// Len возвращает число записей.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Entries возвращает копию записей в исходном порядке.
func (t *Table) Entries() []Entry {
	if t == nil {
		return nil
	}
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Resolve ищет запись для (commandType, action, model).
// Сначала просматриваются записи с точным совпадением модели, и только затем
// записи с моделью "*". Сравнение ведется без учета регистра.
func (t *Table) Resolve(commandType string, action ActionType, model string) (Entry, bool) {
	if t == nil {
		return Entry{}, false
	}
	commandType = strings.TrimSpace(commandType)
	model = strings.TrimSpace(model)

	for _, e := range t.entries {
		if !e.IsWildcard() && strings.EqualFold(e.Model, model) && e.matches(commandType, action) {
			return e, true
		}
	}
	for _, e := range t.entries {
		if e.IsWildcard() && e.matches(commandType, action) {
			return e, true
		}
	}
	return Entry{}, false
}

// Models возвращает отсортированный список моделей, упомянутых в таблице.
func (t *Table) Models() []string {
	if t == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var models []string
	for _, e := range t.entries {
		if _, ok := seen[e.Model]; ok {
			continue
		}
		seen[e.Model] = struct{}{}
		models = append(models, e.Model)
	}
	sort.Strings(models)
	return models
}
