package domain

import (
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DailyDeliveryRecord é a linha canônica de entrega: uma por (data, canal, criativo).
// Métricas ausentes ficam nil; nil não é o mesmo que zero medido.
type DailyDeliveryRecord struct {
	Date        time.Time
	Channel     ChannelKind
	Creative    string
	Spend       float64
	Starts      *int64
	Q25         *int64
	Q50         *int64
	Q75         *int64
	Q100        *int64
	Impressions *int64
	Clicks      *int64
	Visits      *int64
}

type dailyDeliveryRecordJSON struct {
	Date        string      `json:"date"`
	Channel     ChannelKind `json:"channel"`
	Creative    string      `json:"creative"`
	Spend       float64     `json:"spend"`
	Starts      *int64      `json:"starts"`
	Q25         *int64      `json:"q25"`
	Q50         *int64      `json:"q50"`
	Q75         *int64      `json:"q75"`
	Q100        *int64      `json:"q100"`
	Impressions *int64      `json:"impressions"`
	Clicks      *int64      `json:"clicks"`
	Visits      *int64      `json:"visits"`
}

func (r DailyDeliveryRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(dailyDeliveryRecordJSON{
		Date:        r.Date.Format(time.DateOnly),
		Channel:     r.Channel,
		Creative:    r.Creative,
		Spend:       r.Spend,
		Starts:      r.Starts,
		Q25:         r.Q25,
		Q50:         r.Q50,
		Q75:         r.Q75,
		Q100:        r.Q100,
		Impressions: r.Impressions,
		Clicks:      r.Clicks,
		Visits:      r.Visits,
	})
}

func (r *DailyDeliveryRecord) UnmarshalJSON(data []byte) error {
	var aux dailyDeliveryRecordJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	date, err := time.Parse(time.DateOnly, aux.Date)
	if err != nil {
		return err
	}

	*r = DailyDeliveryRecord{
		Date:        date,
		Channel:     aux.Channel,
		Creative:    aux.Creative,
		Spend:       aux.Spend,
		Starts:      aux.Starts,
		Q25:         aux.Q25,
		Q50:         aux.Q50,
		Q75:         aux.Q75,
		Q100:        aux.Q100,
		Impressions: aux.Impressions,
		Clicks:      aux.Clicks,
		Visits:      aux.Visits,
	}
	return nil
}

// Int64Value devolve 0 para métricas ausentes; usado apenas em somatórios
func Int64Value(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}

// Int64Ptr é um atalho para montar métricas opcionais
func Int64Ptr(v int64) *int64 {
	return &v
}
