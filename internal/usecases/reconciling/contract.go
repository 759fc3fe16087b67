package reconciling

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vfg2006/media-delivery-dashboard/internal/domain"
	"github.com/vfg2006/media-delivery-dashboard/internal/usecases/normalizing"
	"github.com/vfg2006/media-delivery-dashboard/pkg/utils"
)

var ErrEmptyContract = errors.New("contrato sem orçamento nem unidades contratadas")

type contractField int

const (
	fieldBudget contractField = iota
	fieldUnits
	fieldCPV
	fieldCPM
)

var contractKeys = []struct {
	field contractField
	keys  []string
}{
	{fieldUnits, []string{"impressões contratadas", "views contratadas", "visualizações contratadas", "unidades contratadas", "volume contratado"}},
	{fieldBudget, []string{"orçamento", "budget", "investimento contratado", "valor contratado"}},
	{fieldCPV, []string{"cpv"}},
	{fieldCPM, []string{"cpm"}},
}

// ParseContract lê um export de contrato no formato chave/valor: a primeira célula é a
// chave e a primeira célula não vazia seguinte é o valor.
func ParseContract(channel domain.ChannelKind, rows [][]string) (domain.ContractedChannelTarget, error) {
	target := domain.ContractedChannelTarget{Channel: channel}
	found := false

	for _, row := range rows {
		if len(row) < 2 {
			continue
		}

		field, ok := matchContractKey(row[0])
		if !ok {
			continue
		}

		value := firstValue(row[1:])
		if value == nil {
			continue
		}

		switch field {
		case fieldBudget:
			target.BudgetContracted = *value
			found = true
		case fieldUnits:
			target.UnitsContracted = *value
			found = true
		case fieldCPV:
			target.CPVContracted = value
		case fieldCPM:
			target.CPMContracted = value
		}
	}

	if !found {
		return target, ErrEmptyContract
	}

	if err := target.Validate(); err != nil {
		return target, fmt.Errorf("contrato de %s: %w", channel, err)
	}

	return target, nil
}

func matchContractKey(cell string) (contractField, bool) {
	key := utils.FoldText(cell)
	if key == "" {
		return 0, false
	}

	for _, group := range contractKeys {
		for _, k := range group.keys {
			if strings.Contains(key, utils.FoldText(k)) {
				return group.field, true
			}
		}
	}
	return 0, false
}

func firstValue(cells []string) *float64 {
	for _, cell := range cells {
		if strings.TrimSpace(cell) == "" {
			continue
		}
		return normalizing.Normalize(cell)
	}
	return nil
}
