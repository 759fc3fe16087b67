package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	jsoniter "github.com/json-iterator/go"
	"github.com/lib/pq"
	"github.com/vfg2006/media-delivery-dashboard/infrastructure/database/postgres"
	"github.com/vfg2006/media-delivery-dashboard/internal/domain"
)

const dashboardSnapshotsTable = "dashboard_snapshots"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

//go:generate mockgen -source=snapshot.go -destination=mocks/snapshot_mock.go -package=mocks

type SnapshotRepository interface {
	Save(ctx context.Context, snapshot *domain.DashboardSnapshot) error
	Latest(ctx context.Context) (*domain.DashboardSnapshot, error)
}

type snapshotRepository struct {
	conn postgres.Conn
}

func NewSnapshotRepository(conn postgres.Conn) SnapshotRepository {
	return &snapshotRepository{
		conn: conn,
	}
}

// Save grava o snapshot e preenche ID e CreatedAt
func (r *snapshotRepository) Save(ctx context.Context, snapshot *domain.DashboardSnapshot) error {
	query, args, err := buildSnapshotInsert(snapshot)
	if err != nil {
		return err
	}

	err = r.conn.QueryRowContext(ctx, query, args...).Scan(&snapshot.ID, &snapshot.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("erro ao executar a query: %w", err)
	}

	return nil
}

// Latest devolve o snapshot mais recente ou nil se ainda não houver nenhum
func (r *snapshotRepository) Latest(ctx context.Context) (*domain.DashboardSnapshot, error) {
	query, args, err := squirrel.
		Select("id", "batch_id", "start_date", "end_date", "data", "created_at").
		From(dashboardSnapshotsTable).
		OrderBy("created_at DESC", "id DESC").
		Limit(1).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	snapshot := &domain.DashboardSnapshot{}
	var data []byte

	err = r.conn.QueryRowContext(ctx, query, args...).Scan(
		&snapshot.ID,
		&snapshot.BatchID,
		&snapshot.StartDate,
		&snapshot.EndDate,
		&data,
		&snapshot.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear snapshot: %w", err)
	}

	snapshot.Data = &domain.DashboardData{}
	if err := json.Unmarshal(data, snapshot.Data); err != nil {
		return nil, fmt.Errorf("erro ao deserializar JSON do snapshot: %w", err)
	}

	return snapshot, nil
}

func buildSnapshotInsert(snapshot *domain.DashboardSnapshot) (string, []interface{}, error) {
	if snapshot == nil || snapshot.Data == nil {
		return "", nil, fmt.Errorf("snapshot sem dados")
	}

	data, err := json.Marshal(snapshot.Data)
	if err != nil {
		return "", nil, fmt.Errorf("erro ao serializar snapshot para JSON: %w", err)
	}

	return squirrel.StatementBuilder.
		Insert(dashboardSnapshotsTable).
		Columns("batch_id", "start_date", "end_date", "data").
		Values(
			snapshot.BatchID,
			snapshot.StartDate.Format(time.DateOnly),
			snapshot.EndDate.Format(time.DateOnly),
			data,
		).
		Suffix("RETURNING id, created_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}
