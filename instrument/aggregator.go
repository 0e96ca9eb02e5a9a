package instrument

import (
	"context"
	"fmt"
	"time"

	"github.com/iwtcode/yakAdapter/models"
)

// RefreshAll последовательно собирает состояние анализатора.
// Ошибка чтения частотных настроек возвращается сразу, остальные ошибки
// попадают в Warnings.
func (a *Adapter) RefreshAll(ctx context.Context) (*models.InstrumentSnapshot, error) {
	// 1. Частотные настройки
	freq, err := a.ReadFrequency(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read frequency settings: %w", err)
	}

	snapshot := &models.InstrumentSnapshot{
		Model:     a.Model(),
		Timestamp: time.Now().UTC(),
		Frequency: *freq,
	}
	if id := a.Identity(); id != nil {
		snapshot.InstrumentID = id.Serial
	}

	warn := func(what string, err error) {
		a.logger.WithError(err).Warnf("failed to read %s", what)
		snapshot.Warnings = append(snapshot.Warnings, fmt.Sprintf("%s: %v", what, err))
	}

	// 2. Полосы пропускания
	if bw, err := a.ReadBandwidth(ctx); err != nil {
		warn("bandwidth", err)
	} else {
		snapshot.Bandwidth = bw
	}

	// 3. Амплитуда
	if amp, err := a.ReadAmplitude(ctx); err != nil {
		warn("amplitude", err)
	} else {
		snapshot.Amplitude = amp
	}

	// 4. Маркеры, частичный результат сохраняется
	markers, err := a.ReadMarkers(ctx)
	if err != nil {
		warn("markers", err)
	}
	snapshot.Markers = markers

	// 5. Режимы трасс
	if modes, err := a.ReadTraceModes(ctx); err != nil {
		warn("trace modes", err)
	} else {
		snapshot.TraceModes = modes
	}

	// 6. Усреднение
	if avg, err := a.ReadAveraging(ctx); err != nil {
		warn("averaging", err)
	} else {
		snapshot.Averaging = avg
	}

	return snapshot, nil
}
