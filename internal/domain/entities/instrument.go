package entities

import "time"

const (
	StatusConnected = "connected"
	StatusPolled    = "polled"
)

// Instrument - сохраненный сеанс с анализатором спектра.
type Instrument struct {
	SessionID    string    `gorm:"primaryKey;not null" json:"session_id"`
	EndpointURL  string    `gorm:"not null;unique" json:"endpoint_url"` // tcp://IP:PORT, serial://..., ws://...
	CommandsFile string    `json:"commands_file"`
	Model        string    `json:"model"` // пусто - определяется по *IDN?
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Status       string    `gorm:"not null" json:"status"` // connected / polled
	Interval     int       `json:"interval"`               // Интервал опроса в мс
}
