package commands

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	colModel = iota
	colCommandType
	colAction
	colTemplate
	colVariable
	colResponseFields
)

const requiredColumns = colTemplate + 1

var headerAliases = map[string]int{
	"model":           colModel,
	"commandtype":     colCommandType,
	"actiontype":      colAction,
	"action":          colAction,
	"commandtemplate": colTemplate,
	"command":         colTemplate,
	"template":        colTemplate,
	"variable":        colVariable,
	"responsefields":  colResponseFields,
	"response":        colResponseFields,
}

// LoadFile читает таблицу команд из CSV файла.
func LoadFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open command table: %w", err)
	}
	defer f.Close()

	entries, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return entries, nil
}

// Parse разбирает CSV с заголовком. Колонки сопоставляются по именам заголовка,
// а при нераспознанном заголовке используется фиксированный порядок
// Model, CommandType, ActionType, CommandTemplate, Variable, ResponseFields.
// Любая некорректная строка отклоняет всю таблицу.
func Parse(r io.Reader) ([]Entry, error) {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("command table is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	columns := mapColumns(header)

	var entries []Entry
	seen := make(map[string]int)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		line, _ := reader.FieldPos(0)
		if isBlank(record) {
			continue
		}

		entry, err := parseRecord(record, columns)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		entry.Line = line

		key := entry.key()
		if prev, ok := seen[key]; ok {
			return nil, fmt.Errorf("line %d: duplicate definition of %s %s for model %s (first at line %d)",
				line, entry.CommandType, entry.Action, entry.Model, prev)
		}
		seen[key] = line
		entries = append(entries, entry)
	}
	return entries, nil
}

// mapColumns возвращает индексы колонок записи в порядке col*.
func mapColumns(header []string) []int {
	columns := []int{-1, -1, -1, -1, -1, -1}
	for i, name := range header {
		normalized := strings.ToLower(strings.Join(strings.Fields(name), ""))
		normalized = strings.TrimPrefix(normalized, "\ufeff")
		if col, ok := headerAliases[normalized]; ok && columns[col] < 0 {
			columns[col] = i
		}
	}
	for col := 0; col < requiredColumns; col++ {
		if columns[col] < 0 {
			return []int{0, 1, 2, 3, 4, 5}
		}
	}
	return columns
}

func parseRecord(record []string, columns []int) (Entry, error) {
	field := func(col int) (string, bool) {
		idx := columns[col]
		if idx < 0 || idx >= len(record) {
			return "", false
		}
		return strings.TrimSpace(record[idx]), true
	}

	for col := 0; col < requiredColumns; col++ {
		if _, ok := field(col); !ok {
			return Entry{}, fmt.Errorf("expected at least %d columns, got %d", columns[col]+1, len(record))
		}
	}

	model, _ := field(colModel)
	commandType, _ := field(colCommandType)
	actionName, _ := field(colAction)
	template, _ := field(colTemplate)
	variable, _ := field(colVariable)
	responseFields, _ := field(colResponseFields)

	if model == "" {
		return Entry{}, errors.New("model is empty")
	}
	if commandType == "" {
		return Entry{}, errors.New("command type is empty")
	}
	if template == "" {
		return Entry{}, fmt.Errorf("command template is empty for %s", commandType)
	}
	action, err := ParseActionType(actionName)
	if err != nil {
		return Entry{}, err
	}

	return Entry{
		Model:          model,
		CommandType:    commandType,
		Action:         action,
		Template:       template,
		Variable:       variable,
		ResponseFields: splitNames(responseFields),
	}, nil
}

func splitNames(s string) []string {
	var names []string
	for _, part := range strings.Split(s, ";") {
		if name := strings.ToLower(strings.TrimSpace(part)); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
