package exports

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/media-delivery-dashboard/internal/domain"
	"github.com/vfg2006/media-delivery-dashboard/pkg/log"
)

func init() {
	log.SetupTestLogger()
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestResolveChannel(t *testing.T) {
	s := NewDirectorySource("")

	tests := []struct {
		name   string
		want   domain.ChannelKind
		wantOK bool
	}{
		{"ctv_setembro", domain.ChannelCTV, true},
		{"Relatorio_Disney+_Setembro", domain.ChannelDisney, true},
		{"relatoriodisneyplus", domain.ChannelDisney, true},
		{"Tik Tok - Setembro", domain.ChannelTikTok, true},
		{"footfall_display_semana_1", domain.ChannelFootfallDisplay, true},
		{"YouTube Ads", domain.ChannelYouTube, true},
		{"netflx_report", domain.ChannelNetflix, true},
		{"relatorio_geral", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := s.ResolveChannel(tt.name)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsContractFile(t *testing.T) {
	assert.True(t, IsContractFile("contrato_ctv.xlsx"))
	assert.True(t, IsContractFile("pasta/YouTube - Contract.csv"))
	assert.False(t, IsContractFile("ctv_setembro.tsv"))
}

func TestDirectorySource(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ctv_setembro.tsv", "Date\tSpend\n2025-09-01\t10\n")
	writeFile(t, dir, "tiktok.csv", "Date;Spend;Impressions\n2025-09-01;10;100\n")
	writeFile(t, dir, "netflix/semana1.tsv", "Date\tSpend\n2025-09-01\t10\n")
	writeFile(t, dir, "desconhecido.tsv", "Date\tSpend\n")
	writeFile(t, dir, "notes.md", "# anotações")
	writeFile(t, dir, "~$lock.xlsx", "")
	writeFile(t, dir, ".hidden.tsv", "")
	writeFile(t, dir, "contrato_youtube.csv", "Orçamento;1.000,00\nViews contratadas;10.000\n")
	writeFile(t, dir, "contrato_ctv.csv", "Obs;sem valores\n")

	s := NewDirectorySource(dir)
	ctx := context.Background()

	sources, err := s.ExportSources(ctx)
	require.NoError(t, err)
	require.Len(t, sources, 3)

	assert.Equal(t, "ctv_setembro.tsv", sources[0].Name)
	assert.Equal(t, domain.ChannelCTV, sources[0].Channel)
	assert.Equal(t, "netflix/semana1.tsv", sources[1].Name)
	assert.Equal(t, domain.ChannelNetflix, sources[1].Channel)
	assert.Equal(t, domain.ChannelTikTok, sources[2].Channel)

	rc, err := sources[0].Open()
	require.NoError(t, err)
	content, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Contains(t, string(content), "2025-09-01")

	targets, err := s.ContractTargets(ctx)
	require.NoError(t, err)
	require.Len(t, targets, 1)

	yt := targets[domain.ChannelYouTube]
	assert.Equal(t, 1000.0, yt.BudgetContracted)
	assert.Equal(t, 10000.0, yt.UnitsContracted)
}

func TestDirectorySource_MissingDir(t *testing.T) {
	s := NewDirectorySource(filepath.Join(t.TempDir(), "nao-existe"))

	_, err := s.ExportSources(context.Background())
	assert.Error(t, err)

	_, err = s.ContractTargets(context.Background())
	assert.Error(t, err)
}

func TestDirectorySource_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ctv.tsv", "Date\tSpend\n2025-09-01\t10\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewDirectorySource(dir).ExportSources(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
