// Package commands содержит таблицу команд YAK: записи, загрузку из CSV
// и реестр с отслеживанием изменений исходного файла.
package commands

import (
	"fmt"
	"strings"
)

// Wildcard обозначает запись, применимую к любой модели прибора.
const Wildcard = "*"

// ActionType определяет протокол, которым реализуется команда.
type ActionType int

const (
	ActionUnknown ActionType = iota
	ActionGet
	ActionSet
	ActionDo
	ActionNab
	ActionBeg
	ActionRig
)

var actionNames = map[ActionType]string{
	ActionGet: "GET",
	ActionSet: "SET",
	ActionDo:  "DO",
	ActionNab: "NAB",
	ActionBeg: "BEG",
	ActionRig: "RIG",
}

// Actions возвращает все известные действия в каноническом порядке.
func Actions() []ActionType {
	return []ActionType{ActionGet, ActionSet, ActionDo, ActionNab, ActionBeg, ActionRig}
}

func (a ActionType) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "UNKNOWN"
}

// ParseActionType разбирает имя действия без учета регистра.
func ParseActionType(s string) (ActionType, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for action, n := range actionNames {
		if n == name {
			return action, nil
		}
	}
	return ActionUnknown, fmt.Errorf("unknown action type %q", s)
}

// IsQuery сообщает, читает ли действие ответ прибора.
func (a ActionType) IsQuery() bool {
	return a == ActionGet || a == ActionNab || a == ActionBeg
}

// Entry - одна строка таблицы команд.
type Entry struct {
	Model          string
	CommandType    string
	Action         ActionType
	Template       string
	Variable       string
	ResponseFields []string
	Line           int
}

// IsWildcard сообщает, относится ли запись ко всем моделям.
func (e Entry) IsWildcard() bool {
	return strings.TrimSpace(e.Model) == Wildcard
}

func (e Entry) key() string {
	return strings.ToUpper(e.Model) + "\x00" + strings.ToUpper(e.CommandType) + "\x00" + e.Action.String()
}

func (e Entry) matches(commandType string, action ActionType) bool {
	return e.Action == action && strings.EqualFold(e.CommandType, commandType)
}
