package domain

import "fmt"

// ContractedChannelTarget é o contratado de um canal para o período da campanha
type ContractedChannelTarget struct {
	Channel          ChannelKind `json:"channel"`
	BudgetContracted float64     `json:"budget_contracted"`
	UnitsContracted  float64     `json:"units_contracted"`
	CPVContracted    *float64    `json:"cpv_contracted,omitempty"`
	CPMContracted    *float64    `json:"cpm_contracted,omitempty"`
}

func (t ContractedChannelTarget) Validate() error {
	if !t.Channel.IsValid() {
		return fmt.Errorf("canal inválido: %q", t.Channel)
	}
	if t.BudgetContracted < 0 {
		return fmt.Errorf("orçamento contratado negativo para %s: %.2f", t.Channel, t.BudgetContracted)
	}
	if t.UnitsContracted < 0 {
		return fmt.Errorf("unidades contratadas negativas para %s: %.0f", t.Channel, t.UnitsContracted)
	}
	if t.CPVContracted != nil && *t.CPVContracted < 0 {
		return fmt.Errorf("CPV contratado negativo para %s", t.Channel)
	}
	if t.CPMContracted != nil && *t.CPMContracted < 0 {
		return fmt.Errorf("CPM contratado negativo para %s", t.Channel)
	}
	return nil
}
