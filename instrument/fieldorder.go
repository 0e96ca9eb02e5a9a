package instrument

import (
	"strings"

	"github.com/iwtcode/yakAdapter/commands"
)

const (
	CommandCenterSpan = "FREQUENCY/CENTER-SPAN"
	CommandStartStop  = "FREQUENCY/START-STOP"
)

// Порядок полей ответа BEG различается между командами: запрос центра и
// полосы возвращает span;center;start;stop, а запрос начала и конца
// возвращает start;stop;span;center. Для NAB порядок совпадает с порядком
// запросов в шаблоне рабочей таблицы.
var defaultFieldOrders = map[string][]string{
	CommandCenterSpan:        {"span", "center", "start", "stop"},
	CommandStartStop:         {"start", "stop", "span", "center"},
	CommandBandwidthSettings: {"rbw", "vbw", "vbw_auto", "continuous", "sweep_time"},
	CommandAmplitudeSettings: {"ref_level", "attenuation", "preamp"},
	CommandTraceModes:        {"trace1", "trace2", "trace3"},
	CommandAllTraces:         {"start", "stop", "trace1", "trace2", "trace3"},
	CommandAveragingSettings: {"state", "count"},
}

// DefaultFieldOrder возвращает встроенный порядок полей для типа команды.
func DefaultFieldOrder(commandType string) []string {
	order, ok := defaultFieldOrders[strings.ToUpper(strings.TrimSpace(commandType))]
	if !ok {
		return nil
	}
	return append([]string(nil), order...)
}

// FieldOrder возвращает порядок полей записи: из таблицы, иначе встроенный.
func FieldOrder(e commands.Entry) []string {
	if len(e.ResponseFields) > 0 {
		return append([]string(nil), e.ResponseFields...)
	}
	return DefaultFieldOrder(e.CommandType)
}
