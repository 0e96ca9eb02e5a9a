package instrument

import (
	"context"
	"fmt"

	"github.com/iwtcode/yakAdapter/commands"
	"github.com/iwtcode/yakAdapter/models"
)

const (
	CommandAmplitudeSettings = "AMPLITUDE/SETTINGS"
	CommandReferenceLevel    = "AMPLITUDE/REFERENCE LEVEL"
	CommandPreamp            = "AMPLITUDE/POWER/GAIN/"
	CommandHighSensitivity   = "AMPLITUDE/POWER/HIGH SENSITIVE/"
	CommandAttenuation       = "AMPLITUDE/POWER/ATTENUATION/%dDB"
)

// ReadAmplitude читает опорный уровень, ослабление и состояние предусилителя.
func (a *Adapter) ReadAmplitude(ctx context.Context) (*models.AmplitudeSettings, error) {
	fields, err := a.NabFields(ctx, CommandAmplitudeSettings)
	if err != nil {
		return nil, err
	}

	r := fieldReader{fields: fields}
	s := models.AmplitudeSettings{
		RefLevel:    r.float("ref_level"),
		Attenuation: r.float("attenuation"),
		Preamp:      r.bool("preamp"),
	}
	if r.err != nil {
		return nil, a.parseError(CommandAmplitudeSettings, commands.ActionNab, "", r.err)
	}
	return &s, nil
}

// SetReferenceLevel задает опорный уровень в дБм.
func (a *Adapter) SetReferenceLevel(ctx context.Context, dbm float64) error {
	return a.Do(ctx, CommandReferenceLevel, dbm)
}

func (a *Adapter) SetPreamp(ctx context.Context, on bool) error {
	return a.Do(ctx, CommandPreamp+onOff(on))
}

func (a *Adapter) SetHighSensitivity(ctx context.Context, on bool) error {
	return a.Do(ctx, CommandHighSensitivity+onOff(on))
}

// SetAttenuation выбирает ступень входного ослабления. Каждая ступень -
// отдельная запись таблицы, поэтому неподдерживаемое значение дает ошибку разрешения.
func (a *Adapter) SetAttenuation(ctx context.Context, db int) error {
	return a.Do(ctx, fmt.Sprintf(CommandAttenuation, db))
}
