package instrument

import (
	"github.com/iwtcode/yakAdapter/internal/domain/entities"
	"gorm.io/gorm"
)

func (r *InstrumentRepositoryImpl) Create(inst *entities.Instrument) error {
	return r.db.Create(inst).Error
}

func (r *InstrumentRepositoryImpl) GetByEndpoint(endpointURL string) (*entities.Instrument, error) {
	var inst entities.Instrument
	if err := r.db.Where("endpoint_url = ?", endpointURL).First(&inst).Error; err != nil {
		return nil, err
	}
	return &inst, nil
}

// UpdatePollingState обновляет статус и интервал опроса
func (r *InstrumentRepositoryImpl) UpdatePollingState(sessionID, status string, interval int) error {
	result := r.db.Model(&entities.Instrument{}).
		Where("session_id = ?", sessionID).
		Updates(map[string]interface{}{"status": status, "interval": interval})
	return rowsOrNotFound(result)
}

func (r *InstrumentRepositoryImpl) Delete(sessionID string) error {
	return rowsOrNotFound(r.db.Where("session_id = ?", sessionID).Delete(&entities.Instrument{}))
}

func (r *InstrumentRepositoryImpl) GetBySessionID(sessionID string) (*entities.Instrument, error) {
	var inst entities.Instrument
	if err := r.db.Where("session_id = ?", sessionID).First(&inst).Error; err != nil {
		return nil, err
	}
	return &inst, nil
}

// GetAll возвращает все сохраненные сеансы в порядке создания
func (r *InstrumentRepositoryImpl) GetAll() ([]entities.Instrument, error) {
	var instruments []entities.Instrument
	if err := r.db.Order("created_at").Find(&instruments).Error; err != nil {
		return nil, err
	}
	return instruments, nil
}

func rowsOrNotFound(result *gorm.DB) error {
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
