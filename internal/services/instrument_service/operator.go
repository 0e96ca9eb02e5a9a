package instrument_service

import (
	"context"

	"github.com/iwtcode/yakAdapter/commands"
	"github.com/iwtcode/yakAdapter/dispatch"
	"github.com/iwtcode/yakAdapter/internal/domain/models"
	"github.com/iwtcode/yakAdapter/internal/middleware/logging"
	yak "github.com/iwtcode/yakAdapter/models"
	yakerrors "github.com/iwtcode/yakAdapter/pkg/errors"
)

// Operator выполняет команды над приборами открытых сеансов.
type Operator struct {
	connMgr *ConnectionManager
	logger  *logging.Logger
}

func NewOperator(connMgr *ConnectionManager, logger *logging.Logger) *Operator {
	return &Operator{
		connMgr: connMgr,
		logger:  logger.WithPrefix("OPERATOR"),
	}
}

// Execute выполняет произвольную команду таблицы.
func (o *Operator) Execute(ctx context.Context, req models.ExecuteRequest) (dispatch.Result, error) {
	action, err := commands.ParseActionType(req.Action)
	if err != nil {
		return dispatch.Result{}, &yakerrors.CommandError{
			Kind: yakerrors.KindContract, CommandType: req.CommandType, Action: req.Action, Err: err,
		}
	}

	s, err := o.connMgr.use(req.SessionID)
	if err != nil {
		return dispatch.Result{}, err
	}

	res, err := s.adapter.Execute(ctx, action, req.CommandType, req.Args...)
	if err != nil {
		return res, err
	}
	o.logger.Debug("Command executed", "sessionID", req.SessionID, "command", res.Command)
	return res, nil
}

// ReloadCommands перечитывает таблицу команд сеанса, если файл изменился.
func (o *Operator) ReloadCommands(sessionID string) (*models.ReloadResult, error) {
	s, err := o.connMgr.use(sessionID)
	if err != nil {
		return nil, err
	}

	reloaded, err := s.registry.Reload(s.registry.ModTime())
	if err != nil {
		return nil, err
	}
	if reloaded {
		o.logger.Info("Command table reloaded", "sessionID", sessionID, "path", s.registry.Path())
	}

	return &models.ReloadResult{
		Reloaded:  reloaded,
		Entries:   s.registry.Table().Len(),
		ModTime:   s.registry.ModTime(),
		LoadCount: s.registry.LoadCount(),
	}, nil
}

// Snapshot собирает сводное состояние прибора.
func (o *Operator) Snapshot(ctx context.Context, sessionID string) (*yak.InstrumentSnapshot, error) {
	s, err := o.connMgr.use(sessionID)
	if err != nil {
		return nil, err
	}
	return s.adapter.RefreshAll(ctx)
}

// Markers читает показания маркеров.
func (o *Operator) Markers(ctx context.Context, sessionID string) ([]yak.MarkerReading, error) {
	s, err := o.connMgr.use(sessionID)
	if err != nil {
		return nil, err
	}
	return s.adapter.ReadMarkers(ctx)
}

// SetFrequency задает центр и полосу обзора.
func (o *Operator) SetFrequency(ctx context.Context, sessionID string, req models.FrequencyRequest) (*yak.FrequencySettings, error) {
	s, err := o.connMgr.use(sessionID)
	if err != nil {
		return nil, err
	}
	return s.adapter.SetCenterSpan(ctx, req.CenterHz, req.SpanHz)
}
