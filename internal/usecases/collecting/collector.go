// Package collecting lê os exports de cada canal e produz a lista de registros de entrega.
package collecting

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"github.com/vfg2006/media-delivery-dashboard/internal/domain"
	"github.com/vfg2006/media-delivery-dashboard/internal/usecases/mapping"
	"github.com/vfg2006/media-delivery-dashboard/pkg/log"
	"github.com/vfg2006/media-delivery-dashboard/pkg/telemetry"
	"github.com/vfg2006/media-delivery-dashboard/pkg/utils"
	"golang.org/x/sync/errgroup"
)

const DefaultMaxConcurrent = 4

// ExportSource é um arquivo de export já associado a um canal
type ExportSource struct {
	Channel domain.ChannelKind
	Name    string
	Open    func() (io.ReadCloser, error)
}

type SourceResult struct {
	Channel  domain.ChannelKind
	Name     string
	Accepted int
	Rejected int
	Err      error
}

func (r SourceResult) Failed() bool {
	return r.Err != nil
}

type CollectResult struct {
	Records []domain.DailyDeliveryRecord
	Sources []SourceResult
	BatchID string
}

// Failed lista as fontes que não puderam ser lidas
func (r *CollectResult) Failed() []SourceResult {
	var failed []SourceResult
	for _, s := range r.Sources {
		if s.Failed() {
			failed = append(failed, s)
		}
	}
	return failed
}

// AllFailed é verdadeiro quando havia fontes e nenhuma foi lida
func (r *CollectResult) AllFailed() bool {
	return len(r.Sources) > 0 && len(r.Failed()) == len(r.Sources)
}

type Collector struct {
	mapper        mapping.RowMapper
	reader        TableReader
	metrics       *telemetry.Metrics
	maxConcurrent int
}

func NewCollector(mapper mapping.RowMapper, reader TableReader, metrics *telemetry.Metrics, maxConcurrent int) *Collector {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrent
	}
	if reader == nil {
		reader = NewTableReader()
	}
	return &Collector{
		mapper:        mapper,
		reader:        reader,
		metrics:       metrics,
		maxConcurrent: maxConcurrent,
	}
}

// CollectSource lê um único export. Falha no arquivo resulta em zero registros e
// SourceResult.Err preenchido; nunca interrompe os demais.
func (c *Collector) CollectSource(ctx context.Context, src ExportSource) ([]domain.DailyDeliveryRecord, SourceResult) {
	result := SourceResult{Channel: src.Channel, Name: src.Name}
	logger := log.ForContext(ctx).WithFields(log.Fields{
		"channel": src.Channel,
		"source":  src.Name,
	})

	table, err := c.readSource(src)
	if err != nil {
		result.Err = &SourceError{Channel: src.Channel, Name: src.Name, Err: err}
		logger.WithError(err).Error("Falha ao ler export, arquivo ignorado")
		c.metrics.SourceFailed(string(src.Channel))
		return nil, result
	}

	records := make([]domain.DailyDeliveryRecord, 0, len(table.Rows))
	for _, row := range table.RawRows() {
		record := c.mapper.MapRow(src.Channel, row)
		if record == nil {
			result.Rejected++
			continue
		}
		records = append(records, *record)
	}
	result.Accepted = len(records)

	c.metrics.ObserveSource(string(src.Channel), result.Accepted, result.Rejected)

	if result.Rejected > 0 {
		logger.Warnf("%d linhas rejeitadas (sem data ou investimento)", result.Rejected)
	}
	logger.Debugf("%d registros lidos", result.Accepted)

	return records, result
}

func (c *Collector) readSource(src ExportSource) (table *Table, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("panic ao ler export: %v", r)
		}
	}()

	if src.Open == nil {
		return nil, errors.New("export sem função de abertura")
	}

	rc, err := src.Open()
	if err != nil {
		return nil, errors.Wrapf(err, "erro ao abrir %s", src.Name)
	}
	defer rc.Close()

	table, err = c.reader.ReadTable(src.Name, rc)
	if err != nil {
		return nil, errors.Wrapf(err, "erro ao interpretar %s", src.Name)
	}
	return table, nil
}

// Collect lê as fontes em paralelo, limitado a maxConcurrent. Cada worker escreve apenas
// no seu índice; a concatenação segue a ordem das fontes. Com o contexto cancelado
// nenhuma fonte nova é iniciada.
func (c *Collector) Collect(ctx context.Context, sources []ExportSource) CollectResult {
	batchID := utils.GenerateBatchID()
	logger := log.ForContext(ctx).WithField("batch_id", batchID)

	type slot struct {
		records []domain.DailyDeliveryRecord
		result  SourceResult
		done    bool
	}
	slots := make([]slot, len(sources))

	var g errgroup.Group
	g.SetLimit(c.maxConcurrent)

	for i, src := range sources {
		if ctx.Err() != nil {
			logger.Warnf("Coleta cancelada antes de %d fontes", len(sources)-i)
			break
		}

		// Go bloqueia enquanto o limite estiver ocupado; o contexto pode ter sido cancelado nesse meio tempo
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			records, result := c.CollectSource(ctx, src)
			slots[i] = slot{records: records, result: result, done: true}
			return nil
		})
	}

	_ = g.Wait()

	out := CollectResult{BatchID: batchID}
	for _, s := range slots {
		if !s.done {
			continue
		}
		out.Records = append(out.Records, s.records...)
		out.Sources = append(out.Sources, s.result)
	}

	logger.Infof("Coleta concluída: %d registros de %d fontes (%d com falha)",
		len(out.Records), len(out.Sources), len(out.Failed()))

	return out
}
