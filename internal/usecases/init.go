package usecases

import "github.com/iwtcode/yakAdapter/internal/interfaces"

// NewUsecases - конструктор для всех use cases
func NewUsecases(
	instrumentSvc interfaces.InstrumentService,
) interfaces.Usecases {
	return NewUsecase(instrumentSvc)
}
