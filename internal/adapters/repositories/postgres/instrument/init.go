package instrument

import (
	"github.com/iwtcode/yakAdapter/internal/interfaces"
	"gorm.io/gorm"
)

type InstrumentRepositoryImpl struct {
	db *gorm.DB
}

func NewInstrumentRepository(db *gorm.DB) interfaces.InstrumentRepository {
	return &InstrumentRepositoryImpl{db: db}
}
