package instrument

import (
	"context"
	"testing"
	"time"

	yakerrors "github.com/iwtcode/yakAdapter/pkg/errors"
	"github.com/iwtcode/yakAdapter/transport/fake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func respondFrequency(tr *fake.Transport) {
	tr.Respond(":FREQ:CENT?", "100000000").
		Respond(":FREQ:SPAN?", "2000000").
		Respond(":FREQ:STAR?", "99000000").
		Respond(":FREQ:STOP?", "101000000")
}

func respondAll(tr *fake.Transport) {
	respondFrequency(tr)
	tr.Respond(":SENS:BAND:RES?;:SENS:BAND:VID?;:SENS:BAND:VID:AUTO?;:INIT:CONT?;:SWE:TIME?", "30000;10000;ON;ON;0.1").
		Respond(":DISP:WIND:TRAC:Y:RLEV?;:POW:ATT?;:POW:GAIN?", "0;10;1").
		Respond(":TRAC1:MODE?;:TRAC2:MODE?;:TRAC3:MODE?", "WRIT;WRIT;BLAN").
		Respond(":AVER:STAT?;:AVER:COUN?", "0;1")
	for _, n := range []string{"1", "2", "3", "4", "5", "6"} {
		tr.Respond(":CALC:MARK"+n+":STAT?", "0")
	}
}

func TestRefreshAll(t *testing.T) {
	adapter, tr := setupAdapter(t)
	tr.Respond("*IDN?", "Keysight Technologies,N9342CN,CN001,A.01")
	respondAll(tr)
	ctx := context.Background()

	_, err := adapter.Identify(ctx)
	require.NoError(t, err)

	snapshot, err := adapter.RefreshAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "CN001", snapshot.InstrumentID)
	assert.Equal(t, "N9342CN", snapshot.Model)
	assert.Equal(t, 1e8, snapshot.Frequency.Center)
	require.NotNil(t, snapshot.Bandwidth)
	assert.True(t, snapshot.Bandwidth.ContinuousMode)
	require.NotNil(t, snapshot.Amplitude)
	assert.True(t, snapshot.Amplitude.Preamp)
	assert.Len(t, snapshot.Markers, 6)
	require.NotNil(t, snapshot.TraceModes)
	assert.Equal(t, "BLAN", snapshot.TraceModes.Trace3)
	require.NotNil(t, snapshot.Averaging)
	assert.Empty(t, snapshot.Warnings)
	assert.Equal(t, time.UTC, snapshot.Timestamp.Location())
}

func TestRefreshAllCollectsWarnings(t *testing.T) {
	adapter, tr := setupAdapter(t)
	respondFrequency(tr)
	tr.Respond(":AVER:STAT?;:AVER:COUN?", "1;8")

	snapshot, err := adapter.RefreshAll(context.Background())
	require.NoError(t, err)
	assert.Nil(t, snapshot.Bandwidth)
	assert.Nil(t, snapshot.Amplitude)
	assert.Nil(t, snapshot.TraceModes)
	require.NotNil(t, snapshot.Averaging)
	assert.Equal(t, 8, snapshot.Averaging.Count)
	assert.Len(t, snapshot.Warnings, 4)
	assert.Contains(t, snapshot.Warnings[0], "bandwidth")
}

func TestRefreshAllFailsWithoutFrequency(t *testing.T) {
	adapter, _ := setupAdapter(t)

	snapshot, err := adapter.RefreshAll(context.Background())
	require.Error(t, err)
	assert.Nil(t, snapshot)
	assert.ErrorIs(t, err, yakerrors.ErrNoResponse)
}

func TestStartPolling(t *testing.T) {
	adapter, tr := setupAdapter(t)
	respondAll(tr)

	ctx, cancel := context.WithCancel(context.Background())
	results := adapter.StartPolling(ctx, 10*time.Millisecond)

	select {
	case res := <-results:
		require.NoError(t, res.Err)
		assert.Equal(t, 1e8, res.Data.Frequency.Center)
	case <-time.After(2 * time.Second):
		t.Fatal("no polling result")
	}

	cancel()
	for range results {
	}
}
