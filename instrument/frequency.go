package instrument

import (
	"context"

	"github.com/iwtcode/yakAdapter/commands"
	"github.com/iwtcode/yakAdapter/models"
)

const (
	CommandCenter = "FREQUENCY/CENTER"
	CommandSpan   = "FREQUENCY/SPAN"
	CommandStart  = "FREQUENCY/START"
	CommandStop   = "FREQUENCY/STOP"
)

// SetCenterSpan задает центр и полосу одним запросом BEG и возвращает
// значения, фактически примененные прибором.
func (a *Adapter) SetCenterSpan(ctx context.Context, centerHz, spanHz float64) (*models.FrequencySettings, error) {
	return a.begFrequency(ctx, CommandCenterSpan, centerHz, spanHz)
}

// SetStartStop задает начало и конец диапазона одним запросом BEG.
func (a *Adapter) SetStartStop(ctx context.Context, startHz, stopHz float64) (*models.FrequencySettings, error) {
	return a.begFrequency(ctx, CommandStartStop, startHz, stopHz)
}

func (a *Adapter) begFrequency(ctx context.Context, commandType string, first, second float64) (*models.FrequencySettings, error) {
	fields, err := a.BegFields(ctx, commandType, first, second)
	if err != nil {
		return nil, err
	}

	var settings models.FrequencySettings
	targets := map[string]*float64{
		"center": &settings.Center,
		"span":   &settings.Span,
		"start":  &settings.Start,
		"stop":   &settings.Stop,
	}
	for name, dst := range targets {
		raw, ok := fields[name]
		if !ok {
			continue
		}
		v, err := parseFloat(name, raw)
		if err != nil {
			return nil, a.parseError(commandType, commands.ActionBeg, "", err)
		}
		*dst = v
	}

	a.notify("Frequency applied: center=%.0f Hz span=%.0f Hz start=%.0f Hz stop=%.0f Hz",
		settings.Center, settings.Span, settings.Start, settings.Stop)
	return &settings, nil
}

func (a *Adapter) SetCenter(ctx context.Context, hz float64) error {
	return a.Set(ctx, CommandCenter, hz)
}

func (a *Adapter) SetSpan(ctx context.Context, hz float64) error {
	return a.Set(ctx, CommandSpan, hz)
}

func (a *Adapter) SetStart(ctx context.Context, hz float64) error {
	return a.Set(ctx, CommandStart, hz)
}

func (a *Adapter) SetStop(ctx context.Context, hz float64) error {
	return a.Set(ctx, CommandStop, hz)
}

// ReadFrequency опрашивает центр, полосу, начало и конец по отдельности.
func (a *Adapter) ReadFrequency(ctx context.Context) (*models.FrequencySettings, error) {
	var settings models.FrequencySettings
	reads := []struct {
		commandType string
		dst         *float64
	}{
		{CommandCenter, &settings.Center},
		{CommandSpan, &settings.Span},
		{CommandStart, &settings.Start},
		{CommandStop, &settings.Stop},
	}
	for _, r := range reads {
		if err := a.getFloat(ctx, r.commandType, r.dst); err != nil {
			return nil, err
		}
	}
	return &settings, nil
}

// getFloat выполняет GET и разбирает число.
func (a *Adapter) getFloat(ctx context.Context, commandType string, dst *float64) error {
	raw, err := a.Get(ctx, commandType)
	if err != nil {
		return err
	}
	v, err := parseFloat(commandType, raw)
	if err != nil {
		return a.parseError(commandType, commands.ActionGet, "", err)
	}
	*dst = v
	return nil
}
