package instrument_service

import (
	"context"
	"time"

	"github.com/iwtcode/yakAdapter/internal/config"
	"github.com/iwtcode/yakAdapter/internal/middleware/logging"
	"github.com/iwtcode/yakAdapter/transport"
)

// Opener открывает транспорт к прибору по адресу.
type Opener func(ctx context.Context, endpoint string) (transport.Transport, error)

// NewOpener возвращает Opener с переподключением и журналом обмена.
func NewOpener(settings config.InstrumentConf, logger *logging.Logger) Opener {
	traffic := logger.WithPrefix("SCPI").Entry()
	opts := transport.Options{
		Timeout:  time.Duration(settings.TimeoutMs) * time.Millisecond,
		BaudRate: settings.BaudRate,
	}

	return func(ctx context.Context, endpoint string) (transport.Transport, error) {
		rec := transport.NewReconnecting(transport.Dialer(endpoint, opts),
			transport.WithAttempts(settings.ReconnectAttempts),
			transport.WithLogger(traffic.WithField("endpoint", endpoint)),
		)
		if err := rec.Connect(ctx); err != nil {
			return nil, err
		}
		return transport.NewLogged(rec, traffic.WithField("endpoint", endpoint)), nil
	}
}
