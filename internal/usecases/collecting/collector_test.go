package collecting

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/media-delivery-dashboard/internal/domain"
	"github.com/vfg2006/media-delivery-dashboard/internal/usecases/mapping"
	"github.com/vfg2006/media-delivery-dashboard/pkg/log"
	"github.com/vfg2006/media-delivery-dashboard/pkg/telemetry"
	"go.uber.org/goleak"
)

func init() {
	log.SetupTestLogger()
}

// nenhum worker da coleta pode sobreviver ao retorno de Collect
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func textSource(channel domain.ChannelKind, name, content string) ExportSource {
	return ExportSource{
		Channel: channel,
		Name:    name,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(content)), nil
		},
	}
}

func TestCollectSource_TikTok(t *testing.T) {
	content := "By Day\tAd name\tValor Investido\tImpressões\tCliques\n" +
		"01/09/2025\tCarrossel\tR$ 176,52\t11.613\t11\n" +
		"02/09/2025\tCarrossel\t0,00\t500\t1\n"

	c := NewCollector(mapping.NewMapper(), nil, telemetry.NewMetrics(), 2)
	records, result := c.CollectSource(context.Background(), textSource(domain.ChannelTikTok, "tiktok.tsv", content))

	require.NoError(t, result.Err)
	assert.Equal(t, 1, result.Accepted)
	assert.Equal(t, 1, result.Rejected)
	require.Len(t, records, 1)

	r := records[0]
	assert.Equal(t, domain.ChannelTikTok, r.Channel)
	assert.Equal(t, "Carrossel", r.Creative)
	assert.Equal(t, 176.52, r.Spend)
	assert.Equal(t, int64(11613), domain.Int64Value(r.Impressions))
	assert.Equal(t, int64(11), domain.Int64Value(r.Clicks))
	assert.Nil(t, r.Q100)
}

func TestCollectSource_VideoPositionalSpend(t *testing.T) {
	content := "Data\tCriativo\tInícios\tQ25\tQ50\tQ75\tQ100\tR$\n" +
		"2025-09-01\tVT 30s\t50\t40\t30\t20\t10\t100,00\n"

	c := NewCollector(mapping.NewMapper(), nil, nil, 1)
	records, result := c.CollectSource(context.Background(), textSource(domain.ChannelCTV, "ctv.tsv", content))

	require.NoError(t, result.Err)
	require.Len(t, records, 1)
	assert.Equal(t, 100.0, records[0].Spend)
	assert.Equal(t, int64(10), domain.Int64Value(records[0].Q100))
	assert.Nil(t, records[0].Impressions)
}

func TestCollect_CorruptFileIsIsolated(t *testing.T) {
	good := "Date\tSpend\tImpressions\n2025-09-01\t10,00\t100\n"

	sources := []ExportSource{
		textSource(domain.ChannelTikTok, "tiktok.tsv", good),
		textSource(domain.ChannelNetflix, "netflix.xlsx", "definitivamente não é xlsx"),
		{
			Channel: domain.ChannelDisney,
			Name:    "disney.tsv",
			Open:    func() (io.ReadCloser, error) { return nil, errors.New("permissão negada") },
		},
		textSource(domain.ChannelFootfallDisplay, "footfall.tsv", good),
	}

	c := NewCollector(mapping.NewMapper(), nil, telemetry.NewMetrics(), 4)
	result := c.Collect(context.Background(), sources)

	require.Len(t, result.Sources, 4)
	assert.Len(t, result.Records, 2)
	assert.NotEmpty(t, result.BatchID)
	assert.False(t, result.AllFailed())

	failed := result.Failed()
	require.Len(t, failed, 2)
	assert.Equal(t, "netflix.xlsx", failed[0].Name)

	var srcErr *SourceError
	require.ErrorAs(t, failed[1].Err, &srcErr)
	assert.Equal(t, domain.ChannelDisney, srcErr.Channel)
	assert.Contains(t, srcErr.Error(), "permissão negada")
}

func TestCollect_AllFailed(t *testing.T) {
	sources := []ExportSource{
		textSource(domain.ChannelCTV, "ctv.pdf", "x"),
		{Channel: domain.ChannelYouTube, Name: "youtube.tsv"},
	}

	result := NewCollector(mapping.NewMapper(), nil, nil, 2).Collect(context.Background(), sources)

	assert.True(t, result.AllFailed())
	assert.Empty(t, result.Records)
}

func TestCollect_PreservesSourceOrderAndBoundsConcurrency(t *testing.T) {
	const total = 20
	var running, peak int32

	sources := make([]ExportSource, 0, total)
	for i := 0; i < total; i++ {
		content := fmt.Sprintf("Date\tCreative\tSpend\tImpressions\n2025-09-01\tpeca-%02d\t1,00\t1\n", i)
		sources = append(sources, ExportSource{
			Channel: domain.ChannelTikTok,
			Name:    fmt.Sprintf("tiktok-%02d.tsv", i),
			Open: func() (io.ReadCloser, error) {
				n := atomic.AddInt32(&running, 1)
				for {
					p := atomic.LoadInt32(&peak)
					if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				atomic.AddInt32(&running, -1)
				return io.NopCloser(strings.NewReader(content)), nil
			},
		})
	}

	result := NewCollector(mapping.NewMapper(), nil, nil, 3).Collect(context.Background(), sources)

	require.Len(t, result.Records, total)
	for i, r := range result.Records {
		assert.Equal(t, fmt.Sprintf("peca-%02d", i), r.Creative)
	}
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(3))
}

func TestCollect_CancelledContextSchedulesNothing(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var opened int32
	src := ExportSource{
		Channel: domain.ChannelCTV,
		Name:    "ctv.tsv",
		Open: func() (io.ReadCloser, error) {
			atomic.AddInt32(&opened, 1)
			return io.NopCloser(strings.NewReader("Date\tSpend\n2025-09-01\t1\n")), nil
		},
	}

	result := NewCollector(mapping.NewMapper(), nil, nil, 2).Collect(ctx, []ExportSource{src, src})

	assert.Empty(t, result.Sources)
	assert.Equal(t, int32(0), atomic.LoadInt32(&opened))
}
