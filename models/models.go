package models

import "time"

// FrequencySettings содержит частотные настройки анализатора в герцах
type FrequencySettings struct {
	Center float64 `json:"center_hz"`
	Span   float64 `json:"span_hz"`
	Start  float64 `json:"start_hz"`
	Stop   float64 `json:"stop_hz"`
}

// BandwidthSettings содержит настройки полос пропускания и развертки
type BandwidthSettings struct {
	RBW            float64 `json:"rbw_hz"`
	VBW            float64 `json:"vbw_hz"`
	VBWAuto        bool    `json:"vbw_auto"`
	ContinuousMode bool    `json:"continuous_mode"`
	SweepTime      float64 `json:"sweep_time_s"`
}

// AmplitudeSettings содержит настройки амплитуды
type AmplitudeSettings struct {
	RefLevel    float64 `json:"ref_level_dbm"`
	Attenuation float64 `json:"attenuation_db"`
	Preamp      bool    `json:"preamp"`
}

// MarkerReading содержит показания одного маркера
type MarkerReading struct {
	Number       int     `json:"number"`
	Enabled      bool    `json:"enabled"`
	FrequencyMHz float64 `json:"frequency_mhz"`
	Level        float64 `json:"level_dbm"`
}

// TracePoint - одна точка трассы
type TracePoint struct {
	FrequencyHz float64 `json:"frequency_hz"`
	Level       float64 `json:"level_dbm"`
}

// TraceData содержит данные одной трассы
type TraceData struct {
	Number int          `json:"number"`
	Points []TracePoint `json:"points"`
}

// TraceModes содержит режимы трасс 1..3
type TraceModes struct {
	Trace1 string `json:"trace1"`
	Trace2 string `json:"trace2"`
	Trace3 string `json:"trace3"`
}

// AveragingSettings содержит настройки усреднения
type AveragingSettings struct {
	Enabled bool `json:"enabled"`
	Count   int  `json:"count"`
}

// InstrumentIdentity содержит разобранный ответ *IDN?
type InstrumentIdentity struct {
	Manufacturer string `json:"manufacturer"`
	Model        string `json:"model"`
	Serial       string `json:"serial"`
	Firmware     string `json:"firmware"`
	Raw          string `json:"raw"`
}

// InstrumentSnapshot - полная сводка состояния анализатора
type InstrumentSnapshot struct {
	InstrumentID string             `json:"instrument_id"`
	Model        string             `json:"model"`
	Timestamp    time.Time          `json:"timestamp"`
	Frequency    FrequencySettings  `json:"frequency"`
	Bandwidth    *BandwidthSettings `json:"bandwidth,omitempty"`
	Amplitude    *AmplitudeSettings `json:"amplitude,omitempty"`
	Markers      []MarkerReading    `json:"markers"`
	TraceModes   *TraceModes        `json:"trace_modes,omitempty"`
	Averaging    *AveragingSettings `json:"averaging,omitempty"`
	Warnings     []string           `json:"warnings,omitempty"`
}
