package instrument

import (
	"context"
	"time"

	"github.com/iwtcode/yakAdapter/models"
)

// PollingResult содержит данные или ошибку от одной попытки опроса.
type PollingResult struct {
	Data *models.InstrumentSnapshot
	Err  error
}

// StartPolling запускает фоновый процесс, который периодически вызывает RefreshAll.
// Следующий опрос начинается только после завершения предыдущего.
// Опрос прекращается при отмене предоставленного контекста. При interval <= 0
// опрос не запускается и возвращается уже закрытый канал.
func (a *Adapter) StartPolling(ctx context.Context, interval time.Duration) <-chan PollingResult {
	resultsChan := make(chan PollingResult)
	if interval <= 0 {
		a.logger.WithField("interval", interval).Warn("polling not started: interval must be positive")
		close(resultsChan)
		return resultsChan
	}

	go func() {
		defer close(resultsChan)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				a.logger.Info("polling stopped: context canceled")
				return
			case <-ticker.C:
				data, err := a.RefreshAll(ctx)
				select {
				case resultsChan <- PollingResult{Data: data, Err: err}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return resultsChan
}
