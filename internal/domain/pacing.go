package domain

type PacingStatus string

const (
	PacingUnder      PacingStatus = "under"
	PacingOnTrack    PacingStatus = "on_track"
	PacingOver       PacingStatus = "over"
	PacingNoContract PacingStatus = "no_contract"
)

// UnitKind diz qual métrica entregue é comparada com as unidades contratadas
type UnitKind string

const (
	UnitImpressions UnitKind = "impressions"
	UnitCompletions UnitKind = "completions"
)

func UnitKindFor(c ChannelKind) UnitKind {
	if c.Category() == CategoryDisplay {
		return UnitImpressions
	}
	return UnitCompletions
}

type ChannelPacing struct {
	Channel          ChannelKind  `json:"channel"`
	BudgetContracted float64      `json:"budget_contracted"`
	UnitsContracted  float64      `json:"units_contracted"`
	Spend            float64      `json:"spend"`
	DeliveredUnits   int64        `json:"delivered_units"`
	UnitKind         UnitKind     `json:"unit_kind"`
	BudgetPacingPct  float64      `json:"budget_pacing_pct"`
	UnitsPacingPct   float64      `json:"units_pacing_pct"`
	Status           PacingStatus `json:"status"`
}

type OverallPacing struct {
	BudgetContracted float64      `json:"budget_contracted"`
	Spend            float64      `json:"spend"`
	BudgetPacingPct  float64      `json:"budget_pacing_pct"`
	UnitsPacingPct   float64      `json:"units_pacing_pct"`
	Status           PacingStatus `json:"status"`
}

type PacingReport struct {
	Channels  map[ChannelKind]*ChannelPacing `json:"channels"`
	Overall   OverallPacing                  `json:"overall"`
	Tolerance float64                        `json:"tolerance_pct"`
}
