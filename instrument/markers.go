package instrument

import (
	"context"
	"fmt"

	"github.com/iwtcode/yakAdapter/commands"
	"github.com/iwtcode/yakAdapter/dispatch"
	"github.com/iwtcode/yakAdapter/models"
)

const (
	CommandPlaceMarkers  = "MARKER/PLACE/ALL"
	CommandPeakSearch    = "MARKER/PEAK/SEARCH"
	CommandAllMarkersOn  = "MARKER/All/CALCULATE/STATE/ON"
	commandMarkerState   = "MARKER/%d/CALCULATE/STATE"
	commandMarkerX       = "MARKER/%d/CALCULATE/X"
	commandMarkerY       = "MARKER/%d/CALCULATE/Y"
	commandMarkerStateTo = "MARKER/%d/CALCULATE/STATE/%s"
)

// PlaceMarkers расставляет маркеры 1..len(freqsMHz). Частоты задаются в МГц
// и передаются прибору в целых герцах. Если число частот совпадает с числом
// параметров шаблона MARKER/PLACE/ALL, отправляется одна команда RIG, иначе
// каждый маркер включается и получает частоту отдельно.
func (a *Adapter) PlaceMarkers(ctx context.Context, freqsMHz ...float64) error {
	limit := a.Profile().MarkerCount
	if len(freqsMHz) == 0 || len(freqsMHz) > limit {
		return a.contractError(CommandPlaceMarkers, commands.ActionRig,
			fmt.Errorf("expected 1..%d marker frequencies, got %d", limit, len(freqsMHz)))
	}

	values := make([]interface{}, len(freqsMHz))
	for i, mhz := range freqsMHz {
		values[i] = MHzToHz(mhz)
	}

	if entry, err := a.resolve(CommandPlaceMarkers, commands.ActionRig); err == nil &&
		dispatch.PlaceholderCount(entry.Template) == len(values) {
		if err := a.Rig(ctx, CommandPlaceMarkers, values...); err != nil {
			return err
		}
	} else {
		for i, hz := range values {
			if err := a.SetMarkerState(ctx, i+1, true); err != nil {
				return err
			}
			if err := a.Set(ctx, fmt.Sprintf(commandMarkerX, i+1), hz); err != nil {
				return err
			}
		}
	}

	a.notify("Placed %d markers", len(freqsMHz))
	return nil
}

// ReadMarkers опрашивает маркеры 1..N текущей модели. Для включенных маркеров
// читаются частота (в МГц) и уровень. Ошибка одного маркера не прерывает
// опрос остальных, возвращается первая из ошибок.
func (a *Adapter) ReadMarkers(ctx context.Context) ([]models.MarkerReading, error) {
	count := a.Profile().MarkerCount
	readings := make([]models.MarkerReading, 0, count)

	var firstErr error
	for n := 1; n <= count; n++ {
		reading, err := a.readMarker(ctx, n)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		readings = append(readings, reading)
	}
	return readings, firstErr
}

func (a *Adapter) readMarker(ctx context.Context, n int) (models.MarkerReading, error) {
	reading := models.MarkerReading{Number: n}

	stateType := fmt.Sprintf(commandMarkerState, n)
	state, err := a.Get(ctx, stateType)
	if err != nil {
		return reading, err
	}
	if reading.Enabled, err = parseBool(stateType, state); err != nil {
		return reading, a.parseError(stateType, commands.ActionGet, "", err)
	}
	if !reading.Enabled {
		return reading, nil
	}

	var hz float64
	if err := a.getFloat(ctx, fmt.Sprintf(commandMarkerX, n), &hz); err != nil {
		return reading, err
	}
	reading.FrequencyMHz = HzToMHz(hz)
	if err := a.getFloat(ctx, fmt.Sprintf(commandMarkerY, n), &reading.Level); err != nil {
		return reading, err
	}
	return reading, nil
}

// PeakSearch ставит активный маркер на пик.
func (a *Adapter) PeakSearch(ctx context.Context) error {
	return a.Do(ctx, CommandPeakSearch)
}

// SetMarkerState включает или выключает маркер n.
func (a *Adapter) SetMarkerState(ctx context.Context, n int, on bool) error {
	if n < 1 || n > a.Profile().MarkerCount {
		return a.contractError(fmt.Sprintf(commandMarkerState, n), commands.ActionDo,
			fmt.Errorf("marker %d out of range 1..%d", n, a.Profile().MarkerCount))
	}
	return a.Do(ctx, fmt.Sprintf(commandMarkerStateTo, n, onOff(on)))
}

// EnableAllMarkers включает все маркеры.
func (a *Adapter) EnableAllMarkers(ctx context.Context) error {
	return a.Do(ctx, CommandAllMarkersOn)
}
