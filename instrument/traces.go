package instrument

import (
	"context"
	"fmt"
	"strings"

	"github.com/iwtcode/yakAdapter/commands"
	"github.com/iwtcode/yakAdapter/models"
)

// TraceMode - режим отображения трассы.
type TraceMode string

const (
	TraceWrite   TraceMode = "WRITE"
	TraceMaxHold TraceMode = "MAXHOLD"
	TraceMinHold TraceMode = "MINHOLD"
	TraceView    TraceMode = "VIEW"
	TraceBlank   TraceMode = "BLANK"
)

const (
	CommandTraceModes        = "TRACE/MODES"
	CommandAllTraces         = "TRACE/ALL/ONETWOTHREE"
	CommandAverageOn         = "AVERAGE/"
	CommandAverageCount      = "AVERAGE/COUNT"
	CommandAveragingSettings = "AVERAGE/SETTINGS"
	commandTraceMode         = "TRACE/%d/MODE/%s"
	commandTraceData         = "TRACE/%d/DATA"
)

// ParseTraceMode разбирает режим трассы без учета регистра.
func ParseTraceMode(s string) (TraceMode, error) {
	mode := TraceMode(strings.ToUpper(strings.TrimSpace(s)))
	switch mode {
	case TraceWrite, TraceMaxHold, TraceMinHold, TraceView, TraceBlank:
		return mode, nil
	}
	return "", fmt.Errorf("unknown trace mode %q", s)
}

func (a *Adapter) checkTrace(commandType string, action commands.ActionType, n int) error {
	if limit := a.Profile().TraceCount; n < 1 || n > limit {
		return a.contractError(commandType, action, fmt.Errorf("trace %d out of range 1..%d", n, limit))
	}
	return nil
}

// SetTraceMode задает режим трассы n.
func (a *Adapter) SetTraceMode(ctx context.Context, n int, mode TraceMode) error {
	commandType := fmt.Sprintf(commandTraceMode, n, mode)
	if err := a.checkTrace(commandType, commands.ActionDo, n); err != nil {
		return err
	}
	if _, err := ParseTraceMode(string(mode)); err != nil {
		return a.contractError(commandType, commands.ActionDo, err)
	}
	return a.Do(ctx, commandType)
}

// ReadTraceModes читает режимы трех трасс.
func (a *Adapter) ReadTraceModes(ctx context.Context) (*models.TraceModes, error) {
	fields, err := a.NabFields(ctx, CommandTraceModes)
	if err != nil {
		return nil, err
	}
	r := fieldReader{fields: fields}
	modes := models.TraceModes{Trace1: r.str("trace1"), Trace2: r.str("trace2"), Trace3: r.str("trace3")}
	if r.err != nil {
		return nil, a.parseError(CommandTraceModes, commands.ActionNab, "", r.err)
	}
	return &modes, nil
}

// ReadTrace задает диапазон и читает трассу n. Частоты точек распределяются
// равномерно от startHz до stopHz.
func (a *Adapter) ReadTrace(ctx context.Context, n int, startHz, stopHz float64) (*models.TraceData, error) {
	commandType := fmt.Sprintf(commandTraceData, n)
	if err := a.checkTrace(commandType, commands.ActionBeg, n); err != nil {
		return nil, err
	}
	raw, err := a.Beg(ctx, commandType, startHz, stopHz)
	if err != nil {
		return nil, err
	}
	trace, err := buildTrace(n, startHz, stopHz, raw)
	if err != nil {
		return nil, a.parseError(commandType, commands.ActionBeg, "", err)
	}
	return trace, nil
}

// ReadAllTraces читает диапазон и три трассы одним запросом NAB.
func (a *Adapter) ReadAllTraces(ctx context.Context) ([]models.TraceData, error) {
	fields, err := a.NabFields(ctx, CommandAllTraces)
	if err != nil {
		return nil, err
	}

	r := fieldReader{fields: fields}
	start := r.float("start")
	stop := r.float("stop")
	raws := []string{r.str("trace1"), r.str("trace2"), r.str("trace3")}
	if r.err != nil {
		return nil, a.parseError(CommandAllTraces, commands.ActionNab, "", r.err)
	}

	traces := make([]models.TraceData, 0, len(raws))
	for i, raw := range raws {
		trace, err := buildTrace(i+1, start, stop, raw)
		if err != nil {
			return nil, a.parseError(CommandAllTraces, commands.ActionNab, "", err)
		}
		traces = append(traces, *trace)
	}
	return traces, nil
}

func buildTrace(n int, startHz, stopHz float64, raw string) (*models.TraceData, error) {
	levels, err := parseLevels(raw)
	if err != nil {
		return nil, fmt.Errorf("trace %d: %w", n, err)
	}
	if len(levels) == 0 {
		return nil, fmt.Errorf("trace %d: no points", n)
	}
	freqs := linspace(startHz, stopHz, len(levels))
	points := make([]models.TracePoint, len(levels))
	for i, level := range levels {
		points[i] = models.TracePoint{FrequencyHz: freqs[i], Level: level}
	}
	return &models.TraceData{Number: n, Points: points}, nil
}

// SetAveraging включает или выключает усреднение.
func (a *Adapter) SetAveraging(ctx context.Context, on bool) error {
	return a.Do(ctx, CommandAverageOn+onOff(on))
}

// SetAverageCount задает число усреднений.
func (a *Adapter) SetAverageCount(ctx context.Context, count int) error {
	if count < 1 {
		return a.contractError(CommandAverageCount, commands.ActionSet, fmt.Errorf("average count must be positive, got %d", count))
	}
	return a.Set(ctx, CommandAverageCount, count)
}

// ReadAveraging читает состояние и число усреднений.
func (a *Adapter) ReadAveraging(ctx context.Context) (*models.AveragingSettings, error) {
	fields, err := a.NabFields(ctx, CommandAveragingSettings)
	if err != nil {
		return nil, err
	}
	r := fieldReader{fields: fields}
	s := models.AveragingSettings{
		Enabled: r.bool("state"),
		Count:   r.int("count"),
	}
	if r.err != nil {
		return nil, a.parseError(CommandAveragingSettings, commands.ActionNab, "", r.err)
	}
	return &s, nil
}
