package reconciling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/media-delivery-dashboard/internal/domain"
)

func TestParseContract(t *testing.T) {
	rows := [][]string{
		{"Contrato Campanha Setembro"},
		{"Canal", "YouTube"},
		{"Orçamento", "", "R$ 12.500,00"},
		{"Views Contratadas", "250.000"},
		{"CPV", "R$ 0,05"},
		{"Observações", "pagamento em 30 dias"},
	}

	target, err := ParseContract(domain.ChannelYouTube, rows)
	require.NoError(t, err)

	assert.Equal(t, domain.ChannelYouTube, target.Channel)
	assert.Equal(t, 12500.0, target.BudgetContracted)
	assert.Equal(t, 250000.0, target.UnitsContracted)
	require.NotNil(t, target.CPVContracted)
	assert.InDelta(t, 0.05, *target.CPVContracted, 1e-12)
	assert.Nil(t, target.CPMContracted)
}

func TestParseContract_KeysWithoutAccents(t *testing.T) {
	rows := [][]string{
		{"ORCAMENTO", "3000"},
		{"impressoes contratadas", "1.000.000"},
		{"CPM", "3,00"},
	}

	target, err := ParseContract(domain.ChannelTikTok, rows)
	require.NoError(t, err)

	assert.Equal(t, 3000.0, target.BudgetContracted)
	assert.Equal(t, 1000000.0, target.UnitsContracted)
	require.NotNil(t, target.CPMContracted)
	assert.Equal(t, 3.0, *target.CPMContracted)
}

func TestParseContract_Empty(t *testing.T) {
	_, err := ParseContract(domain.ChannelCTV, [][]string{{"Canal", "CTV"}, {"Obs", "-"}})
	assert.ErrorIs(t, err, ErrEmptyContract)

	_, err = ParseContract(domain.ChannelCTV, nil)
	assert.ErrorIs(t, err, ErrEmptyContract)
}

func TestParseContract_NegativeBudget(t *testing.T) {
	_, err := ParseContract(domain.ChannelCTV, [][]string{{"Budget", "-10"}})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmptyContract)
}
