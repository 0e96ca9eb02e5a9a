package instrument

import (
	"context"

	"github.com/iwtcode/yakAdapter/commands"
	"github.com/iwtcode/yakAdapter/models"
)

const (
	CommandBandwidthSettings = "BANDWIDTH/SETTINGS"
	CommandRBW               = "BANDWIDTH/RESOLUTION"
	CommandVBW               = "BANDWIDTH/VIDEO"
	CommandVBWAuto           = "BANDWIDTH/VIDEO/AUTO/"
	CommandContinuous        = "INITIATE/CONTINUOUS/"
	CommandInitiate          = "INITIATE/IMMEDIATE"
)

// ReadBandwidth читает RBW, VBW, авто-VBW, непрерывный режим и время
// развертки одним запросом NAB.
func (a *Adapter) ReadBandwidth(ctx context.Context) (*models.BandwidthSettings, error) {
	fields, err := a.NabFields(ctx, CommandBandwidthSettings)
	if err != nil {
		return nil, err
	}

	r := fieldReader{fields: fields}
	s := models.BandwidthSettings{
		RBW:            r.float("rbw"),
		VBW:            r.float("vbw"),
		VBWAuto:        r.bool("vbw_auto"),
		ContinuousMode: r.bool("continuous"),
		SweepTime:      r.float("sweep_time"),
	}
	if r.err != nil {
		return nil, a.parseError(CommandBandwidthSettings, commands.ActionNab, "", r.err)
	}
	return &s, nil
}

func (a *Adapter) SetRBW(ctx context.Context, hz float64) error {
	return a.Set(ctx, CommandRBW, hz)
}

func (a *Adapter) SetVBW(ctx context.Context, hz float64) error {
	return a.Set(ctx, CommandVBW, hz)
}

func (a *Adapter) SetVBWAuto(ctx context.Context, on bool) error {
	return a.Do(ctx, CommandVBWAuto+onOff(on))
}

// SetContinuous включает или выключает непрерывную развертку.
func (a *Adapter) SetContinuous(ctx context.Context, on bool) error {
	return a.Do(ctx, CommandContinuous+onOff(on))
}

// Initiate запускает однократную развертку.
func (a *Adapter) Initiate(ctx context.Context) error {
	return a.Do(ctx, CommandInitiate)
}
