package instrument_service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/iwtcode/yakAdapter/internal/config"
	"github.com/iwtcode/yakAdapter/internal/domain/entities"
	"github.com/iwtcode/yakAdapter/internal/domain/models"
	"github.com/iwtcode/yakAdapter/internal/middleware/logging"
	yakerrors "github.com/iwtcode/yakAdapter/pkg/errors"
	"github.com/iwtcode/yakAdapter/transport"
	"github.com/iwtcode/yakAdapter/transport/fake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testCommandsFile = "../../../data/visa_commands.csv"

type memRepo struct {
	mu    sync.Mutex
	items map[string]entities.Instrument
}

func newMemRepo() *memRepo {
	return &memRepo{items: make(map[string]entities.Instrument)}
}

func (r *memRepo) Create(inst *entities.Instrument) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if existing.EndpointURL == inst.EndpointURL {
			return errors.New("duplicate endpoint")
		}
	}
	inst.CreatedAt = time.Now()
	r.items[inst.SessionID] = *inst
	return nil
}

func (r *memRepo) GetByEndpoint(endpointURL string) (*entities.Instrument, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, inst := range r.items {
		if inst.EndpointURL == endpointURL {
			found := inst
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memRepo) UpdatePollingState(sessionID, status string, interval int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	inst, ok := r.items[sessionID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	inst.Status = status
	inst.Interval = interval
	r.items[sessionID] = inst
	return nil
}

func (r *memRepo) Delete(sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[sessionID]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.items, sessionID)
	return nil
}

func (r *memRepo) GetBySessionID(sessionID string) (*entities.Instrument, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inst, ok := r.items[sessionID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &inst, nil
}

func (r *memRepo) GetAll() ([]entities.Instrument, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]entities.Instrument, 0, len(r.items))
	for _, inst := range r.items {
		all = append(all, inst)
	}
	return all, nil
}

type memProducer struct {
	mu       sync.Mutex
	messages [][]byte
	keys     []string
}

func (p *memProducer) Produce(_ context.Context, key, value []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, string(key))
	p.messages = append(p.messages, value)
	return nil
}

func (p *memProducer) Close() error { return nil }

func (p *memProducer) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.messages)
}

// analyzer возвращает сценарный прибор N9342CN.
func analyzer() *fake.Transport {
	tr := fake.New().
		Respond("*IDN?", "Keysight Technologies,N9342CN,CN0001,A.02.10").
		Respond(":FREQ:CENT?", "100000000").
		Respond(":FREQ:SPAN?", "2000000").
		Respond(":FREQ:STAR?", "99000000").
		Respond(":FREQ:STOP?", "101000000")
	for _, n := range []string{"1", "2", "3", "4", "5", "6"} {
		tr.Respond(":CALC:MARK"+n+":STAT?", "0")
	}
	return tr
}

type testEnv struct {
	svc      *instrumentService
	repo     *memRepo
	producer *memProducer
	mu       sync.Mutex
	devices  map[string]*fake.Transport
}

func setupService(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		repo:     newMemRepo(),
		producer: &memProducer{},
		devices:  make(map[string]*fake.Transport),
	}
	opener := func(_ context.Context, endpoint string) (transport.Transport, error) {
		env.mu.Lock()
		defer env.mu.Unlock()
		tr, ok := env.devices[endpoint]
		if !ok {
			return nil, errors.New("connection refused")
		}
		return tr, nil
	}
	logger := logging.NewLogger(&logging.Config{Enabled: false}, "TEST")
	settings := config.InstrumentConf{CommandsFile: testCommandsFile, TimeoutMs: 1000, AutoRefresh: true}
	env.svc = newInstrumentService(settings, env.repo, env.producer, opener, logger)
	return env
}

func (e *testEnv) plug(endpoint string, tr *fake.Transport) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.devices[endpoint] = tr
}

func (e *testEnv) unplug(endpoint string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.devices, endpoint)
}

func TestCreateConnectionDetectsModel(t *testing.T) {
	env := setupService(t)
	env.plug("tcp://10.0.0.5:5025", analyzer())

	info, err := env.svc.CreateConnection(models.ConnectionRequest{EndpointURL: "tcp://10.0.0.5:5025"})
	require.NoError(t, err)
	assert.Equal(t, "N9342CN", info.Model)
	assert.True(t, info.IsHealthy)
	assert.Equal(t, testCommandsFile, info.CommandsFile)

	stored, err := env.repo.GetBySessionID(info.SessionID)
	require.NoError(t, err)
	assert.Equal(t, entities.StatusConnected, stored.Status)
	assert.Len(t, env.svc.GetAllConnections(), 1)

	_, err = env.svc.CreateConnection(models.ConnectionRequest{EndpointURL: "tcp://10.0.0.5:5025"})
	assert.ErrorIs(t, err, ErrAlreadyConnected)
}

func TestCreateConnectionUnreachable(t *testing.T) {
	env := setupService(t)

	_, err := env.svc.CreateConnection(models.ConnectionRequest{EndpointURL: "tcp://10.0.0.9:5025"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")

	all, _ := env.repo.GetAll()
	assert.Empty(t, all)

	_, err = env.svc.CreateConnection(models.ConnectionRequest{EndpointURL: "  "})
	assert.ErrorIs(t, err, ErrEndpointMalformed)
}

func TestCreateConnectionModelOverride(t *testing.T) {
	env := setupService(t)
	env.plug("ws://bridge/scpi", analyzer())

	info, err := env.svc.CreateConnection(models.ConnectionRequest{EndpointURL: "ws://bridge/scpi", Model: "N9340B"})
	require.NoError(t, err)
	assert.Equal(t, "N9340B", info.Model)
}

func TestExecuteAndOperations(t *testing.T) {
	env := setupService(t)
	tr := analyzer()
	env.plug("tcp://10.0.0.5:5025", tr)
	info, err := env.svc.CreateConnection(models.ConnectionRequest{EndpointURL: "tcp://10.0.0.5:5025"})
	require.NoError(t, err)
	ctx := context.Background()

	res, err := env.svc.Execute(ctx, models.ExecuteRequest{SessionID: info.SessionID, Action: "do", CommandType: "SYSTEM/RESET"})
	require.NoError(t, err)
	assert.Equal(t, "*RST", res.Command)

	_, err = env.svc.Execute(ctx, models.ExecuteRequest{SessionID: info.SessionID, Action: "JUMP", CommandType: "SYSTEM/RESET"})
	assert.Equal(t, yakerrors.KindContract, yakerrors.KindOf(err))

	_, err = env.svc.Execute(ctx, models.ExecuteRequest{SessionID: "missing", Action: "GET", CommandType: "FREQUENCY/CENTER"})
	assert.ErrorIs(t, err, ErrSessionNotFound)

	tr.Respond("CENT 100000000;SPAN 2000000;CENT?;SPAN?;STAR?;STOP?", "2000000;100000000;99000000;101000000")
	freq, err := env.svc.SetFrequency(ctx, info.SessionID, models.FrequencyRequest{CenterHz: 1e8, SpanHz: 2e6})
	require.NoError(t, err)
	assert.Equal(t, 1.01e8, freq.Stop)

	markers, err := env.svc.Markers(ctx, info.SessionID)
	require.NoError(t, err)
	assert.Len(t, markers, 6)

	snapshot, err := env.svc.Snapshot(ctx, info.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "CN0001", snapshot.InstrumentID)
	assert.NotEmpty(t, snapshot.Warnings)

	reload, err := env.svc.ReloadCommands(info.SessionID)
	require.NoError(t, err)
	assert.False(t, reload.Reloaded)
	assert.Equal(t, int64(1), reload.LoadCount)
	assert.Greater(t, reload.Entries, 0)

	conn, _ := env.svc.GetConnection(info.SessionID)
	assert.Greater(t, conn.UseCount, int64(1))
}

func TestCheckConnection(t *testing.T) {
	env := setupService(t)
	tr := analyzer()
	env.plug("tcp://10.0.0.5:5025", tr)
	info, err := env.svc.CreateConnection(models.ConnectionRequest{EndpointURL: "tcp://10.0.0.5:5025"})
	require.NoError(t, err)

	checked, err := env.svc.CheckConnection(info.SessionID)
	require.NoError(t, err)
	assert.True(t, checked.IsHealthy)

	tr.Err = errors.New("link down")
	checked, err = env.svc.CheckConnection(info.SessionID)
	require.Error(t, err)
	assert.False(t, checked.IsHealthy)

	_, err = env.svc.CheckConnection("missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRestoreConnection(t *testing.T) {
	env := setupService(t)
	inst := entities.Instrument{
		SessionID:    "restored-1",
		EndpointURL:  "tcp://10.0.0.7:5025",
		CommandsFile: testCommandsFile,
		Status:       entities.StatusConnected,
	}

	info, err := env.svc.RestoreConnection(inst)
	require.NoError(t, err)
	assert.False(t, info.IsHealthy)
	_, ok := env.svc.GetAdapter("restored-1")
	assert.False(t, ok)

	env.plug("tcp://10.0.0.7:5025", analyzer())
	info, err = env.svc.CheckConnection("restored-1")
	require.NoError(t, err)
	assert.True(t, info.IsHealthy)
	assert.Equal(t, "N9342CN", info.Model)
	_, ok = env.svc.GetAdapter("restored-1")
	assert.True(t, ok)

	env.unplug("tcp://10.0.0.7:5025")
}

func TestPollingPublishesSnapshots(t *testing.T) {
	env := setupService(t)
	env.plug("tcp://10.0.0.5:5025", analyzer())
	info, err := env.svc.CreateConnection(models.ConnectionRequest{EndpointURL: "tcp://10.0.0.5:5025"})
	require.NoError(t, err)

	adapter, ok := env.svc.GetAdapter(info.SessionID)
	require.True(t, ok)
	require.NoError(t, env.svc.StartPolling(info, adapter, 10*time.Millisecond))
	assert.True(t, env.svc.IsPollingActive(info.SessionID))
	assert.ErrorIs(t, env.svc.StartPolling(info, adapter, 10*time.Millisecond), ErrPollingActive)

	stored, _ := env.repo.GetBySessionID(info.SessionID)
	assert.Equal(t, entities.StatusPolled, stored.Status)
	assert.Equal(t, 10, stored.Interval)

	require.Eventually(t, func() bool { return env.producer.count() > 0 }, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, env.svc.StopPolling(info.SessionID))
	assert.False(t, env.svc.IsPollingActive(info.SessionID))
	stored, _ = env.repo.GetBySessionID(info.SessionID)
	assert.Equal(t, entities.StatusConnected, stored.Status)

	env.producer.mu.Lock()
	defer env.producer.mu.Unlock()
	var msg models.SnapshotMessage
	require.NoError(t, json.Unmarshal(env.producer.messages[0], &msg))
	assert.Equal(t, info.SessionID, msg.SessionID)
	assert.Equal(t, info.SessionID, env.producer.keys[0])
	require.NotNil(t, msg.Snapshot)
	assert.Equal(t, 1e8, msg.Snapshot.Frequency.Center)
}

func TestDeleteConnection(t *testing.T) {
	env := setupService(t)
	tr := analyzer()
	env.plug("tcp://10.0.0.5:5025", tr)
	info, err := env.svc.CreateConnection(models.ConnectionRequest{EndpointURL: "tcp://10.0.0.5:5025"})
	require.NoError(t, err)
	adapter, _ := env.svc.GetAdapter(info.SessionID)
	require.NoError(t, env.svc.StartPolling(info, adapter, time.Hour))

	require.NoError(t, env.svc.DeleteConnection(info.SessionID))
	assert.False(t, env.svc.IsPollingActive(info.SessionID))
	assert.True(t, tr.Closed())
	assert.Empty(t, env.svc.GetAllConnections())

	err = env.svc.DeleteConnection(info.SessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
