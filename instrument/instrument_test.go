package instrument

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/iwtcode/yakAdapter/commands"
	yakerrors "github.com/iwtcode/yakAdapter/pkg/errors"
	"github.com/iwtcode/yakAdapter/transport/fake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	tablePath   = "../data/visa_commands.csv"
	tableHeader = "Model,CommandType,ActionType,CommandTemplate,Variable,ResponseFields\n"
)

// setupAdapter загружает рабочую таблицу команд и подключает сценарный транспорт.
func setupAdapter(t *testing.T, opts ...Option) (*Adapter, *fake.Transport) {
	t.Helper()
	registry := commands.NewRegistry(tablePath, nil)
	require.NoError(t, registry.Refresh())

	tr := fake.New()
	return NewAdapter(tr, registry, opts...), tr
}

func inlineRegistry(t *testing.T, csv string) *commands.Registry {
	t.Helper()
	entries, err := commands.Parse(strings.NewReader(tableHeader + csv))
	require.NoError(t, err)
	registry := commands.NewRegistry("", nil)
	registry.Replace(commands.NewTable(entries))
	return registry
}

func writeFile(t *testing.T, path, rows string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(tableHeader+rows), 0o644))
}

func touch(t *testing.T, path string, mod time.Time) {
	t.Helper()
	require.NoError(t, os.Chtimes(path, mod, mod))
}

func TestSetCenterSpanModelSpecificRow(t *testing.T) {
	var messages []string
	adapter, tr := setupAdapter(t, WithModel("N9342CN"), WithMessageSink(func(msg string) {
		messages = append(messages, msg)
	}))
	tr.Respond("CENT 100000000;SPAN 2000000;CENT?;SPAN?;STAR?;STOP?", "2000000;100000000;99000000;101000000")

	settings, err := adapter.SetCenterSpan(context.Background(), 1e8, 2e6)
	require.NoError(t, err)

	assert.Equal(t, 1e8, settings.Center)
	assert.Equal(t, 2e6, settings.Span)
	assert.Equal(t, 9.9e7, settings.Start)
	assert.Equal(t, 1.01e8, settings.Stop)
	assert.Equal(t, []string{"CENT 100000000;SPAN 2000000;CENT?;SPAN?;STAR?;STOP?"}, tr.Queries())
	require.Len(t, messages, 1)
	assert.Contains(t, messages[0], "center=100000000 Hz")
}

func TestSetCenterSpanWildcardUsesTableFieldOrder(t *testing.T) {
	adapter, tr := setupAdapter(t, WithModel("N9340B"))
	tr.Respond(":FREQ:CENT 50000000;:FREQ:SPAN 1000000;:FREQ:CENT?;:FREQ:SPAN?;:FREQ:STAR?;:FREQ:STOP?",
		"50000000;1000000;49500000;50500000")

	settings, err := adapter.SetCenterSpan(context.Background(), 5e7, 1e6)
	require.NoError(t, err)
	assert.Equal(t, 5e7, settings.Center)
	assert.Equal(t, 1e6, settings.Span)
	assert.Equal(t, 4.95e7, settings.Start)
	assert.Equal(t, 5.05e7, settings.Stop)
}

func TestSetStartStopDefaultFieldOrder(t *testing.T) {
	adapter, tr := setupAdapter(t)
	tr.Respond(":FREQ:STAR 1000000;:FREQ:STOP 3000000;:FREQ:STAR?;:FREQ:STOP?;:FREQ:SPAN?;:FREQ:CENT?",
		"1000000;3000000;2000000;2000000")

	settings, err := adapter.SetStartStop(context.Background(), 1e6, 3e6)
	require.NoError(t, err)
	assert.Equal(t, 1e6, settings.Start)
	assert.Equal(t, 3e6, settings.Stop)
	assert.Equal(t, 2e6, settings.Span)
	assert.Equal(t, 2e6, settings.Center)
}

func TestSetCenterSpanShortResponseIsParseError(t *testing.T) {
	adapter, tr := setupAdapter(t, WithModel("N9342CN"))
	tr.Fallback = "2000000;100000000"

	_, err := adapter.SetCenterSpan(context.Background(), 1e8, 2e6)
	require.Error(t, err)
	assert.Equal(t, yakerrors.KindParse, yakerrors.KindOf(err))
	assert.ErrorIs(t, err, yakerrors.ErrParse)
}

func TestResolutionErrorNamesCommandAndModel(t *testing.T) {
	var messages []string
	registry := inlineRegistry(t, "N9342CN,FREQUENCY/CENTER,SET,:FREQ:CENT,,\n")
	tr := fake.New()
	adapter := NewAdapter(tr, registry, WithModel("N9340B"), WithMessageSink(func(msg string) {
		messages = append(messages, msg)
	}))

	err := adapter.SetCenter(context.Background(), 1e8)
	require.Error(t, err)
	assert.ErrorIs(t, err, yakerrors.ErrNotFound)
	assert.Equal(t, "no command defined for FREQUENCY/CENTER (SET) on model N9340B", err.Error())
	assert.Empty(t, tr.Writes())
	assert.Equal(t, []string{err.Error()}, messages)
}

func TestSetFormatsIntegralValues(t *testing.T) {
	adapter, tr := setupAdapter(t)
	ctx := context.Background()

	require.NoError(t, adapter.SetCenter(ctx, 100000))
	assert.Equal(t, ":FREQ:CENT 100000", tr.LastWrite())

	require.NoError(t, adapter.SetSpan(ctx, 100000.5))
	assert.Equal(t, ":FREQ:SPAN 100000.5", tr.LastWrite())

	require.NoError(t, adapter.SetRBW(ctx, 3e3))
	assert.Equal(t, ":SENS:BAND:RES 3000", tr.LastWrite())
}

func TestReadFrequency(t *testing.T) {
	adapter, tr := setupAdapter(t)
	tr.Respond(":FREQ:CENT?", "1.5E+09").
		Respond(":FREQ:SPAN?", "1.0E+06").
		Respond(":FREQ:STAR?", "1.4995E+09").
		Respond(":FREQ:STOP?", "1.5005E+09")

	settings, err := adapter.ReadFrequency(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1.5e9, settings.Center)
	assert.Equal(t, 1e6, settings.Span)
	assert.Equal(t, 1.4995e9, settings.Start)
	assert.Equal(t, 1.5005e9, settings.Stop)
}

func TestReadFrequencyEmptyResponse(t *testing.T) {
	adapter, _ := setupAdapter(t)

	_, err := adapter.ReadFrequency(context.Background())
	require.Error(t, err)
	assert.Equal(t, yakerrors.KindTransport, yakerrors.KindOf(err))
	assert.ErrorIs(t, err, yakerrors.ErrNoResponse)
}

func TestReadBandwidth(t *testing.T) {
	adapter, tr := setupAdapter(t)
	tr.Respond(":SENS:BAND:RES?;:SENS:BAND:VID?;:SENS:BAND:VID:AUTO?;:INIT:CONT?;:SWE:TIME?", "30000;10000;1;0;0.05")

	bw, err := adapter.ReadBandwidth(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 30000.0, bw.RBW)
	assert.Equal(t, 10000.0, bw.VBW)
	assert.True(t, bw.VBWAuto)
	assert.False(t, bw.ContinuousMode)
	assert.Equal(t, 0.05, bw.SweepTime)
}

func TestReadBandwidthWrongFieldCount(t *testing.T) {
	adapter, tr := setupAdapter(t)
	tr.Fallback = "30000;10000"

	_, err := adapter.ReadBandwidth(context.Background())
	require.Error(t, err)
	assert.Equal(t, yakerrors.KindParse, yakerrors.KindOf(err))
}

func TestReadBandwidthModelSpecificFieldOrder(t *testing.T) {
	registry := inlineRegistry(t, ""+
		"*,BANDWIDTH/SETTINGS,NAB,:BAND?;:VID?;:VID:AUTO?;:CONT?;:SWE?,5,rbw;vbw;vbw_auto;continuous;sweep_time\n"+
		"N9342CN,BANDWIDTH/SETTINGS,NAB,:SWE?;:CONT?;:VID:AUTO?;:VID?;:BAND?,5,sweep_time;continuous;vbw_auto;vbw;rbw\n")
	tr := fake.New()
	tr.Respond(":SWE?;:CONT?;:VID:AUTO?;:VID?;:BAND?", "0.05;1;0;10000;30000")
	adapter := NewAdapter(tr, registry, WithModel("N9342CN"))

	bw, err := adapter.ReadBandwidth(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 30000.0, bw.RBW)
	assert.Equal(t, 10000.0, bw.VBW)
	assert.False(t, bw.VBWAuto)
	assert.True(t, bw.ContinuousMode)
	assert.Equal(t, 0.05, bw.SweepTime)
}

func TestNabFieldsDefaultOrderAndMissingField(t *testing.T) {
	registry := inlineRegistry(t, ""+
		"*,BANDWIDTH/SETTINGS,NAB,:BAND?;:VID?;:VID:AUTO?;:CONT?;:SWE?,5,\n"+
		"*,AVERAGE/SETTINGS,NAB,:AVER:COUN?;:AVER:STAT?,2,count;enabled\n"+
		"*,CUSTOM/READOUT,NAB,:A?;:B?,2,\n")
	tr := fake.New()
	tr.Respond(":BAND?;:VID?;:VID:AUTO?;:CONT?;:SWE?", "30000;10000;1;0;0.05").
		Respond(":AVER:COUN?;:AVER:STAT?", "8;1").
		Respond(":A?;:B?", "1;2")
	adapter := NewAdapter(tr, registry)
	ctx := context.Background()

	fields, err := adapter.NabFields(ctx, CommandBandwidthSettings)
	require.NoError(t, err)
	assert.Equal(t, "30000", fields["rbw"])
	assert.Equal(t, "0.05", fields["sweep_time"])

	_, err = adapter.ReadAveraging(ctx)
	require.Error(t, err)
	assert.Equal(t, yakerrors.KindParse, yakerrors.KindOf(err))
	assert.Contains(t, err.Error(), `"state"`)

	_, err = adapter.NabFields(ctx, "CUSTOM/READOUT")
	require.Error(t, err)
	assert.Equal(t, yakerrors.KindParse, yakerrors.KindOf(err))
}

func TestReadAmplitudeAndAttenuation(t *testing.T) {
	adapter, tr := setupAdapter(t)
	ctx := context.Background()
	tr.Respond(":DISP:WIND:TRAC:Y:RLEV?;:POW:ATT?;:POW:GAIN?", "-10;20;OFF")

	amp, err := adapter.ReadAmplitude(ctx)
	require.NoError(t, err)
	assert.Equal(t, -10.0, amp.RefLevel)
	assert.Equal(t, 20.0, amp.Attenuation)
	assert.False(t, amp.Preamp)

	require.NoError(t, adapter.SetAttenuation(ctx, 30))
	assert.Equal(t, ":POW:ATT 30", tr.LastWrite())

	require.NoError(t, adapter.SetReferenceLevel(ctx, -20))
	assert.Equal(t, ":DISP:WIND:TRAC:Y:RLEV -20", tr.LastWrite())

	err = adapter.SetAttenuation(ctx, 35)
	require.Error(t, err)
	assert.Equal(t, yakerrors.KindResolution, yakerrors.KindOf(err))
}

func TestPlaceMarkers(t *testing.T) {
	adapter, tr := setupAdapter(t)

	require.NoError(t, adapter.PlaceMarkers(context.Background(), 100, 200, 300, 400, 500, 600.5))
	assert.Equal(t, ":CALC:MARK1:STAT ON;:CALC:MARK1:X 100000000;:CALC:MARK2:STAT ON;:CALC:MARK2:X 200000000;"+
		":CALC:MARK3:STAT ON;:CALC:MARK3:X 300000000;:CALC:MARK4:STAT ON;:CALC:MARK4:X 400000000;"+
		":CALC:MARK5:STAT ON;:CALC:MARK5:X 500000000;:CALC:MARK6:STAT ON;:CALC:MARK6:X 600500000", tr.LastWrite())
}

func TestPlaceMarkersArityCheckedBeforeIO(t *testing.T) {
	adapter, tr := setupAdapter(t)
	ctx := context.Background()

	err := adapter.PlaceMarkers(ctx)
	require.Error(t, err)
	assert.Equal(t, yakerrors.KindContract, yakerrors.KindOf(err))

	err = adapter.PlaceMarkers(ctx, 1, 2, 3, 4, 5, 6, 7)
	require.Error(t, err)
	assert.Equal(t, yakerrors.KindContract, yakerrors.KindOf(err))
	assert.Empty(t, tr.Writes())
}

func TestPlaceMarkersFewerThanAll(t *testing.T) {
	adapter, tr := setupAdapter(t)

	require.NoError(t, adapter.PlaceMarkers(context.Background(), 100, 200.5))
	assert.Equal(t, []string{
		":CALC:MARK1:STAT ON", ":CALC:MARK1:X 100000000",
		":CALC:MARK2:STAT ON", ":CALC:MARK2:X 200500000",
	}, tr.Writes())
}

func TestPlaceMarkersLimitedByModelProfile(t *testing.T) {
	adapter, tr := setupAdapter(t, WithModel("E4402B"))
	ctx := context.Background()

	err := adapter.PlaceMarkers(ctx, 1, 2, 3, 4, 5)
	require.Error(t, err)
	assert.Equal(t, yakerrors.KindContract, yakerrors.KindOf(err))
	assert.Empty(t, tr.Writes())

	require.NoError(t, adapter.PlaceMarkers(ctx, 1, 2, 3, 4))
	assert.Len(t, tr.Writes(), 8)
	assert.Equal(t, ":CALC:MARK4:X 4000000", tr.LastWrite())
}

func TestReadMarkers(t *testing.T) {
	adapter, tr := setupAdapter(t)
	tr.Respond(":CALC:MARK1:STAT?", "1").
		Respond(":CALC:MARK1:X?", "100000000").
		Respond(":CALC:MARK1:Y?", "-20.5")
	for _, n := range []string{"2", "3", "4", "5", "6"} {
		tr.Respond(":CALC:MARK"+n+":STAT?", "0")
	}

	markers, err := adapter.ReadMarkers(context.Background())
	require.NoError(t, err)
	require.Len(t, markers, 6)
	assert.True(t, markers[0].Enabled)
	assert.Equal(t, 100.0, markers[0].FrequencyMHz)
	assert.Equal(t, -20.5, markers[0].Level)
	assert.False(t, markers[5].Enabled)
}

func TestReadMarkersUsesModelProfile(t *testing.T) {
	adapter, tr := setupAdapter(t, WithModel("E4402B"))
	tr.Fallback = "0"

	markers, err := adapter.ReadMarkers(context.Background())
	require.NoError(t, err)
	assert.Len(t, markers, 4)
}

func TestSetMarkerStateRange(t *testing.T) {
	adapter, tr := setupAdapter(t)
	ctx := context.Background()

	require.NoError(t, adapter.SetMarkerState(ctx, 2, false))
	assert.Equal(t, ":CALC:MARK2:STAT OFF", tr.LastWrite())

	err := adapter.SetMarkerState(ctx, 7, true)
	require.Error(t, err)
	assert.Equal(t, yakerrors.KindContract, yakerrors.KindOf(err))
}

func TestTraces(t *testing.T) {
	adapter, tr := setupAdapter(t)
	ctx := context.Background()

	require.NoError(t, adapter.SetTraceMode(ctx, 2, TraceMaxHold))
	assert.Equal(t, ":TRAC2:MODE MAXH", tr.LastWrite())

	tr.Respond(":TRAC1:MODE?;:TRAC2:MODE?;:TRAC3:MODE?", "WRIT;MAXH;BLAN")
	modes, err := adapter.ReadTraceModes(ctx)
	require.NoError(t, err)
	assert.Equal(t, "MAXH", modes.Trace2)

	tr.Respond(":FREQ:STAR 1000;:FREQ:STOP 3000;:TRAC:DATA? TRACE1", "-50,-40,-30")
	trace, err := adapter.ReadTrace(ctx, 1, 1000, 3000)
	require.NoError(t, err)
	require.Len(t, trace.Points, 3)
	assert.Equal(t, 2000.0, trace.Points[1].FrequencyHz)
	assert.Equal(t, -30.0, trace.Points[2].Level)

	_, err = adapter.ReadTrace(ctx, 4, 1000, 3000)
	assert.Equal(t, yakerrors.KindContract, yakerrors.KindOf(err))

	_, err = ParseTraceMode("sideways")
	assert.Error(t, err)
}

func TestReadAllTraces(t *testing.T) {
	adapter, tr := setupAdapter(t)
	tr.Fallback = "0;100;-1,-2;-3,-4;-5,-6"

	traces, err := adapter.ReadAllTraces(context.Background())
	require.NoError(t, err)
	require.Len(t, traces, 3)
	assert.Equal(t, 3, traces[2].Number)
	assert.Equal(t, 100.0, traces[2].Points[1].FrequencyHz)
	assert.Equal(t, -6.0, traces[2].Points[1].Level)
}

func TestAveraging(t *testing.T) {
	adapter, tr := setupAdapter(t)
	ctx := context.Background()

	require.NoError(t, adapter.SetAveraging(ctx, true))
	assert.Equal(t, ":AVER:STAT ON", tr.LastWrite())
	require.NoError(t, adapter.SetAverageCount(ctx, 16))
	assert.Equal(t, ":AVER:COUN 16", tr.LastWrite())
	assert.Error(t, adapter.SetAverageCount(ctx, 0))

	tr.Respond(":AVER:STAT?;:AVER:COUN?", "1;16")
	avg, err := adapter.ReadAveraging(ctx)
	require.NoError(t, err)
	assert.True(t, avg.Enabled)
	assert.Equal(t, 16, avg.Count)
}

func TestIdentify(t *testing.T) {
	adapter, tr := setupAdapter(t)
	tr.Respond("*IDN?", "Keysight Technologies,N9342CN,CN12345678,A.02.10\n")

	identity, err := adapter.Identify(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Keysight Technologies", identity.Manufacturer)
	assert.Equal(t, "CN12345678", identity.Serial)
	assert.Equal(t, "N9342CN", adapter.Model())
	assert.Equal(t, SeriesHandheld, adapter.Profile().Series)
}

func TestIdentifyWithoutTableRow(t *testing.T) {
	registry := inlineRegistry(t, "*,FREQUENCY/CENTER,GET,:FREQ:CENT,?,\n")
	tr := fake.New().Respond("*IDN?", "Agilent Technologies,E4402B,US1,A.01")
	adapter := NewAdapter(tr, registry)
	assert.Equal(t, UnknownModel, adapter.Model())

	_, err := adapter.Identify(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "E4402B", adapter.Model())
	assert.Equal(t, 4, adapter.Profile().MarkerCount)
}

func TestIdentifyNoResponse(t *testing.T) {
	registry := inlineRegistry(t, "*,FREQUENCY/CENTER,GET,:FREQ:CENT,?,\n")
	adapter := NewAdapter(fake.New(), registry)

	_, err := adapter.Identify(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, yakerrors.ErrNoResponse)
	assert.Equal(t, UnknownModel, adapter.Model())
}

func TestExecute(t *testing.T) {
	adapter, tr := setupAdapter(t)
	ctx := context.Background()
	tr.Respond(":AVER:STAT?;:AVER:COUN?", "0;4")

	res, err := adapter.Execute(ctx, commands.ActionNab, CommandAveragingSettings)
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "4"}, res.Fields)

	res, err = adapter.Execute(ctx, commands.ActionSet, CommandCenter, "2.4e9")
	require.NoError(t, err)
	assert.Equal(t, ":FREQ:CENT 2400000000", res.Command)

	_, err = adapter.Execute(ctx, commands.ActionSet, CommandCenter)
	assert.Equal(t, yakerrors.KindContract, yakerrors.KindOf(err))

	_, err = adapter.Execute(ctx, commands.ActionGet, CommandCenter, "extra")
	assert.Equal(t, yakerrors.KindContract, yakerrors.KindOf(err))
}

func TestSetNormalizesNumericText(t *testing.T) {
	adapter, tr := setupAdapter(t)
	ctx := context.Background()

	_, err := adapter.Execute(ctx, commands.ActionSet, CommandCenter, "100000.0")
	require.NoError(t, err)
	assert.Equal(t, ":FREQ:CENT 100000", tr.LastWrite())

	require.NoError(t, adapter.Set(ctx, CommandCenter, "100000.0"))
	assert.Equal(t, ":FREQ:CENT 100000", tr.LastWrite())

	require.NoError(t, adapter.Set(ctx, CommandCenter, "100000.5"))
	assert.Equal(t, ":FREQ:CENT 100000.5", tr.LastWrite())
}

func TestGetFallsBackToNab(t *testing.T) {
	registry := inlineRegistry(t, ""+
		"*,STATUS/SUMMARY,NAB,:STAT:OPER?;:STAT:QUES?,2,oper;ques\n"+
		"*,FREQUENCY/CENTER,GET,:FREQ:CENT,?,\n")
	tr := fake.New()
	tr.Respond(":STAT:OPER?;:STAT:QUES?", "0;16").
		Respond(":FREQ:CENT?", "1E+09")
	adapter := NewAdapter(tr, registry)
	ctx := context.Background()

	raw, err := adapter.Get(ctx, "STATUS/SUMMARY")
	require.NoError(t, err)
	assert.Equal(t, "0;16", raw)

	raw, err = adapter.Get(ctx, CommandCenter)
	require.NoError(t, err)
	assert.Equal(t, "1E+09", raw)

	_, err = adapter.Get(ctx, "STATUS/MISSING")
	require.Error(t, err)
	assert.Equal(t, yakerrors.KindResolution, yakerrors.KindOf(err))
	assert.Equal(t, []string{":STAT:OPER?;:STAT:QUES?", ":FREQ:CENT?"}, tr.Queries())
}

func TestStartPollingRejectsNonPositiveInterval(t *testing.T) {
	adapter, tr := setupAdapter(t)

	for _, interval := range []time.Duration{0, -time.Second} {
		results := adapter.StartPolling(context.Background(), interval)
		select {
		case _, ok := <-results:
			assert.False(t, ok)
		case <-time.After(time.Second):
			t.Fatalf("channel for interval %v was not closed", interval)
		}
	}
	assert.Empty(t, tr.Queries())
}

func TestTransportFailureIsWrapped(t *testing.T) {
	adapter, tr := setupAdapter(t)
	tr.Err = errors.New("connection reset")

	err := adapter.Reset(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, yakerrors.ErrTransport)

	var cmdErr *yakerrors.CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, CommandReset, cmdErr.CommandType)
	assert.Equal(t, "*RST", cmdErr.Command)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestFailedCommandDoesNotResetInstrument(t *testing.T) {
	adapter, tr := setupAdapter(t)
	ctx := context.Background()
	tr.FailOn(":FREQ:CENT 1000000", errors.New("broken pipe")).
		FailOn(":FREQ:SPAN?", errors.New("timeout"))

	require.Error(t, adapter.SetCenter(ctx, 1e6))
	_, err := adapter.Get(ctx, CommandSpan)
	require.Error(t, err)

	assert.Equal(t, []string{":FREQ:CENT 1000000"}, tr.Writes())
	assert.Equal(t, []string{":FREQ:SPAN?"}, tr.Queries())
}

func TestAutoRefreshPicksUpEditedTable(t *testing.T) {
	path := t.TempDir() + "/commands.csv"
	writeFile(t, path, "*,FREQUENCY/CENTER,SET,:FREQ:CENT,,\n")

	registry := commands.NewRegistry(path, nil)
	require.NoError(t, registry.Refresh())
	tr := fake.New()
	adapter := NewAdapter(tr, registry)
	ctx := context.Background()

	require.NoError(t, adapter.SetCenter(ctx, 1e6))
	assert.Equal(t, ":FREQ:CENT 1000000", tr.LastWrite())

	writeFile(t, path, "*,FREQUENCY/CENTER,SET,:SENS:FREQ:CENT,,\n")
	touch(t, path, time.Now().Add(time.Minute))

	require.NoError(t, adapter.SetCenter(ctx, 1e6))
	assert.Equal(t, ":SENS:FREQ:CENT 1000000", tr.LastWrite())
	assert.Equal(t, int64(2), registry.LoadCount())
}

func TestAutoRefreshDisabled(t *testing.T) {
	path := t.TempDir() + "/commands.csv"
	writeFile(t, path, "*,FREQUENCY/CENTER,SET,:FREQ:CENT,,\n")

	registry := commands.NewRegistry(path, nil)
	require.NoError(t, registry.Refresh())
	tr := fake.New()
	adapter := NewAdapter(tr, registry, WithAutoRefresh(false))

	writeFile(t, path, "*,FREQUENCY/CENTER,SET,:SENS:FREQ:CENT,,\n")
	touch(t, path, time.Now().Add(time.Minute))

	require.NoError(t, adapter.SetCenter(context.Background(), 1e6))
	assert.Equal(t, ":FREQ:CENT 1000000", tr.LastWrite())
	assert.Equal(t, int64(1), registry.LoadCount())
}

func TestFieldOrder(t *testing.T) {
	assert.Equal(t, []string{"span", "center", "start", "stop"}, DefaultFieldOrder("frequency/center-span"))
	assert.Nil(t, DefaultFieldOrder("FREQUENCY/CENTER"))
	assert.Equal(t, []string{"a", "b"}, FieldOrder(commands.Entry{CommandType: CommandCenterSpan, ResponseFields: []string{"a", "b"}}))
}

func TestUnitConversion(t *testing.T) {
	assert.Equal(t, int64(100000000), MHzToHz(100))
	assert.Equal(t, int64(2500000), MHzToHz(2.5))
	assert.Equal(t, 2.4, HzToMHz(2.4e6))
}
