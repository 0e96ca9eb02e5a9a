package instrument

import (
	"context"
	"strings"

	"github.com/iwtcode/yakAdapter/commands"
	"github.com/iwtcode/yakAdapter/models"
	yakerrors "github.com/iwtcode/yakAdapter/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	CommandIdentify = "SYSTEM/IDENTIFY"
	CommandReset    = "SYSTEM/RESET"
	CommandPower    = "POWER/RESET"

	identifyQuery = "*IDN?"
)

// Identify опрашивает *IDN? и устанавливает модель по второму полю ответа.
// Если в таблице нет записи SYSTEM/IDENTIFY, запрос отправляется напрямую.
func (a *Adapter) Identify(ctx context.Context) (*models.InstrumentIdentity, error) {
	raw, err := a.queryIdentity(ctx)
	if err != nil {
		return nil, err
	}

	identity := ParseIdentity(raw)
	a.mu.Lock()
	a.identity = identity
	a.mu.Unlock()

	if identity.Model != "" {
		a.SetModel(identity.Model)
		a.logger.WithField("model", identity.Model).Info("detected instrument model")
		a.notify("Detected instrument model: %s", identity.Model)
	} else {
		a.logger.WithField("idn", raw).Warn("could not parse instrument IDN, keeping model")
	}
	return identity, nil
}

// Ping проверяет, что прибор отвечает на *IDN?. Модель не меняется.
func (a *Adapter) Ping(ctx context.Context) error {
	_, err := a.queryIdentity(ctx)
	return err
}

func (a *Adapter) queryIdentity(ctx context.Context) (string, error) {
	if a.registry != nil {
		if _, ok := a.registry.Resolve(CommandIdentify, commands.ActionGet, a.Model()); ok {
			return a.Get(ctx, CommandIdentify)
		}
	}

	fields := logrus.Fields{"command_type": CommandIdentify, "action": commands.ActionGet.String(), "command": identifyQuery}
	cause := yakerrors.ErrNotConnected
	if a.transport != nil {
		resp, err := a.transport.Query(ctx, identifyQuery)
		if resp = strings.TrimSpace(resp); err == nil && resp != "" {
			return resp, nil
		}
		cause = yakerrors.ErrNoResponse
		if err != nil {
			cause = err
		}
	}
	return "", a.fail(&yakerrors.CommandError{
		Kind: yakerrors.KindTransport, CommandType: CommandIdentify, Action: commands.ActionGet.String(),
		Model: a.Model(), Command: identifyQuery, Err: cause,
	}, fields)
}

// ParseIdentity разбирает ответ вида "Agilent Technologies,N9340B,MY48060001,A.01.00".
func ParseIdentity(raw string) *models.InstrumentIdentity {
	identity := &models.InstrumentIdentity{Raw: raw}
	parts := strings.Split(raw, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) > 0 {
		identity.Manufacturer = parts[0]
	}
	if len(parts) > 1 {
		identity.Model = parts[1]
	}
	if len(parts) > 2 {
		identity.Serial = parts[2]
	}
	if len(parts) > 3 {
		identity.Firmware = parts[3]
	}
	return identity
}

// Reset возвращает прибор к заводским настройкам.
func (a *Adapter) Reset(ctx context.Context) error {
	return a.Do(ctx, CommandReset)
}

// PowerCycle перезапускает прибор.
func (a *Adapter) PowerCycle(ctx context.Context) error {
	return a.Do(ctx, CommandPower)
}
