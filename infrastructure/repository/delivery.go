package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/vfg2006/media-delivery-dashboard/infrastructure/database/postgres"
	"github.com/vfg2006/media-delivery-dashboard/internal/domain"
)

const (
	dailyDeliveryTable = "daily_delivery"
	// limite de linhas por INSERT para ficar longe do teto de 65535 parâmetros do Postgres
	upsertChunkSize = 500
)

var deliveryColumns = []string{
	"date", "channel", "creative", "spend",
	"starts", "q25", "q50", "q75", "q100",
	"impressions", "clicks", "visits",
}

//go:generate mockgen -source=delivery.go -destination=mocks/delivery_mock.go -package=mocks

type DeliveryRepository interface {
	SaveBatch(ctx context.Context, batchID string, records []domain.DailyDeliveryRecord) (int, error)
	GetByDateRange(ctx context.Context, startDate, endDate time.Time, channels []domain.ChannelKind) ([]domain.DailyDeliveryRecord, error)
	DeleteOlderThan(ctx context.Context, days int) (int64, error)
}

type deliveryRepository struct {
	conn postgres.Conn
}

func NewDeliveryRepository(conn postgres.Conn) DeliveryRepository {
	return &deliveryRepository{
		conn: conn,
	}
}

// SaveBatch grava os registros em uma transação. Linhas com a mesma chave
// (date, channel, creative) são somadas antes do upsert.
func (r *deliveryRepository) SaveBatch(ctx context.Context, batchID string, records []domain.DailyDeliveryRecord) (int, error) {
	rows := mergeByKey(records)
	if len(rows) == 0 {
		return 0, nil
	}

	err := r.conn.RunInTransaction(ctx, func(q postgres.Queryer) error {
		for start := 0; start < len(rows); start += upsertChunkSize {
			end := start + upsertChunkSize
			if end > len(rows) {
				end = len(rows)
			}

			query, args, err := buildUpsert(batchID, rows[start:end])
			if err != nil {
				return fmt.Errorf("erro ao construir a query: %w", err)
			}

			if _, err := q.ExecContext(ctx, query, args...); err != nil {
				if pqErr, ok := err.(*pq.Error); ok {
					return fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code)
				}
				return fmt.Errorf("erro ao executar a query: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return len(rows), nil
}

func (r *deliveryRepository) GetByDateRange(ctx context.Context, startDate, endDate time.Time, channels []domain.ChannelKind) ([]domain.DailyDeliveryRecord, error) {
	query, args, err := buildSelectByDateRange(startDate, endDate, channels)
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	records := make([]domain.DailyDeliveryRecord, 0)
	for rows.Next() {
		record, err := scanDelivery(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear entrega: %w", err)
		}
		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return records, nil
}

func (r *deliveryRepository) DeleteOlderThan(ctx context.Context, days int) (int64, error) {
	cutoffDate := time.Now().AddDate(0, 0, -days).Format(time.DateOnly)

	query, args, err := squirrel.
		Delete(dailyDeliveryTable).
		Where(squirrel.Lt{"date": cutoffDate}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("erro ao construir a query: %w", err)
	}

	result, err := r.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("erro ao executar a query: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("erro ao obter número de linhas afetadas: %w", err)
	}

	return rowsAffected, nil
}

// deliveryRow é o registro pronto para gravação, com investimento em decimal
type deliveryRow struct {
	record domain.DailyDeliveryRecord
	spend  decimal.Decimal
}

type deliveryKey struct {
	date     string
	channel  domain.ChannelKind
	creative string
}

func mergeByKey(records []domain.DailyDeliveryRecord) []deliveryRow {
	index := make(map[deliveryKey]int, len(records))
	rows := make([]deliveryRow, 0, len(records))

	for _, rec := range records {
		key := deliveryKey{date: rec.Date.Format(time.DateOnly), channel: rec.Channel, creative: rec.Creative}
		i, ok := index[key]
		if !ok {
			index[key] = len(rows)
			rows = append(rows, deliveryRow{record: rec, spend: decimal.NewFromFloat(rec.Spend)})
			continue
		}

		row := &rows[i]
		row.spend = row.spend.Add(decimal.NewFromFloat(rec.Spend))
		row.record.Starts = addCounts(row.record.Starts, rec.Starts)
		row.record.Q25 = addCounts(row.record.Q25, rec.Q25)
		row.record.Q50 = addCounts(row.record.Q50, rec.Q50)
		row.record.Q75 = addCounts(row.record.Q75, rec.Q75)
		row.record.Q100 = addCounts(row.record.Q100, rec.Q100)
		row.record.Impressions = addCounts(row.record.Impressions, rec.Impressions)
		row.record.Clicks = addCounts(row.record.Clicks, rec.Clicks)
		row.record.Visits = addCounts(row.record.Visits, rec.Visits)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].record, rows[j].record
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.Channel != b.Channel {
			return a.Channel < b.Channel
		}
		return a.Creative < b.Creative
	})

	return rows
}

// addCounts mantém nil apenas quando os dois lados são nil
func addCounts(a, b *int64) *int64 {
	if a == nil && b == nil {
		return nil
	}
	return domain.Int64Ptr(domain.Int64Value(a) + domain.Int64Value(b))
}

func buildUpsert(batchID string, rows []deliveryRow) (string, []interface{}, error) {
	insert := squirrel.StatementBuilder.
		Insert(dailyDeliveryTable).
		Columns(append([]string{"batch_id"}, deliveryColumns...)...)

	for _, row := range rows {
		rec := row.record
		insert = insert.Values(
			batchID,
			rec.Date.Format(time.DateOnly),
			string(rec.Channel),
			rec.Creative,
			row.spend,
			rec.Starts,
			rec.Q25,
			rec.Q50,
			rec.Q75,
			rec.Q100,
			rec.Impressions,
			rec.Clicks,
			rec.Visits,
		)
	}

	return insert.
		Suffix(`
			ON CONFLICT (date, channel, creative) DO UPDATE SET
				batch_id = EXCLUDED.batch_id,
				spend = EXCLUDED.spend,
				starts = EXCLUDED.starts,
				q25 = EXCLUDED.q25,
				q50 = EXCLUDED.q50,
				q75 = EXCLUDED.q75,
				q100 = EXCLUDED.q100,
				impressions = EXCLUDED.impressions,
				clicks = EXCLUDED.clicks,
				visits = EXCLUDED.visits,
				updated_at = NOW()
		`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

func buildSelectByDateRange(startDate, endDate time.Time, channels []domain.ChannelKind) (string, []interface{}, error) {
	query := squirrel.
		Select(deliveryColumns...).
		From(dailyDeliveryTable).
		Where(squirrel.GtOrEq{"date": startDate.Format(time.DateOnly)}).
		Where(squirrel.LtOrEq{"date": endDate.Format(time.DateOnly)})

	if len(channels) > 0 {
		names := make([]string, 0, len(channels))
		for _, c := range channels {
			names = append(names, string(c))
		}
		query = query.Where(squirrel.Eq{"channel": names})
	}

	return query.
		OrderBy("date ASC", "channel ASC", "creative ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

func scanDelivery(rows *sql.Rows) (domain.DailyDeliveryRecord, error) {
	var (
		rec                         domain.DailyDeliveryRecord
		channel                     string
		spend                       decimal.Decimal
		starts, q25, q50, q75, q100 sql.NullInt64
		impressions, clicks, visits sql.NullInt64
	)

	err := rows.Scan(
		&rec.Date,
		&channel,
		&rec.Creative,
		&spend,
		&starts, &q25, &q50, &q75, &q100,
		&impressions, &clicks, &visits,
	)
	if err != nil {
		return rec, err
	}

	rec.Date = time.Date(rec.Date.Year(), rec.Date.Month(), rec.Date.Day(), 0, 0, 0, 0, time.UTC)
	rec.Channel = domain.ChannelKind(channel)
	rec.Spend, _ = spend.Float64()
	rec.Starts = nullInt(starts)
	rec.Q25 = nullInt(q25)
	rec.Q50 = nullInt(q50)
	rec.Q75 = nullInt(q75)
	rec.Q100 = nullInt(q100)
	rec.Impressions = nullInt(impressions)
	rec.Clicks = nullInt(clicks)
	rec.Visits = nullInt(visits)

	return rec, nil
}

func nullInt(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	return domain.Int64Ptr(v.Int64)
}
