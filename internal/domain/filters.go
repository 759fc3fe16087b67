package domain

import "time"

// DeliveryFilters restringe o conjunto de registros; datas inclusivas, canais vazios = todos
type DeliveryFilters struct {
	StartDate *time.Time    `json:"start_date,omitempty"`
	EndDate   *time.Time    `json:"end_date,omitempty"`
	Channels  []ChannelKind `json:"channels,omitempty"`
}

func (f *DeliveryFilters) HasChannel(c ChannelKind) bool {
	if f == nil || len(f.Channels) == 0 {
		return true
	}
	for _, ch := range f.Channels {
		if ch == c {
			return true
		}
	}
	return false
}

// Contains verifica se a data está dentro do intervalo (comparação por dia do calendário)
func (f *DeliveryFilters) Contains(date time.Time) bool {
	if f == nil {
		return true
	}

	day := date.Format(time.DateOnly)
	if f.StartDate != nil && day < f.StartDate.Format(time.DateOnly) {
		return false
	}
	if f.EndDate != nil && day > f.EndDate.Format(time.DateOnly) {
		return false
	}
	return true
}
