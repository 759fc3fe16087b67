package mapping

import "github.com/vfg2006/media-delivery-dashboard/internal/domain"

// Layout descreve onde cada campo canônico está no export de um canal
type Layout struct {
	DateAliases     []string
	CreativeAliases []string
	SpendAliases    []string
	// SpendPositional indica que o investimento é a última coluna do export
	SpendPositional bool

	StartsAliases []string
	Q25Aliases    []string
	Q50Aliases    []string
	Q75Aliases    []string
	Q100Aliases   []string

	ImpressionsAliases []string
	ClicksAliases      []string
	VisitsAliases      []string
}

var (
	dateAliases     = []string{"Date", "Day", "Data", "By Day", "Dia", "Data de Veiculação"}
	creativeAliases = []string{"Creative", "Criativo", "Creative Name", "Nome do Criativo", "Peça"}
	spendAliases    = []string{"Spend", "Investimento", "Valor Investido", "VALOR DO INVESTIMENTO", "Custo", "Cost", "Media Cost"}

	startsAliases = []string{"Starts", "Video Starts", "Inícios", "Plays", "Views Iniciadas"}
	q25Aliases    = []string{"Q25", "25%", "First Quartile", "Video First Quartile", "Video Played To 25%", "Views 25%"}
	q50Aliases    = []string{"Q50", "50%", "Midpoint", "Video Midpoint", "Video Played To 50%", "Views 50%"}
	q75Aliases    = []string{"Q75", "75%", "Third Quartile", "Video Third Quartile", "Video Played To 75%", "Views 75%"}
	q100Aliases   = []string{"Q100", "100%", "Complete", "Completes", "Completions", "Video Completions", "Completed Views", "Video Played To 100%", "Views 100%"}

	impressionsAliases = []string{"Impressions", "Impressões", "Imps"}
	clicksAliases      = []string{"Clicks", "Cliques", "Clicks (Destination)", "Clicks (All)"}
)

func with(base []string, extra ...string) []string {
	out := make([]string, 0, len(base)+len(extra))
	out = append(out, extra...)
	out = append(out, base...)
	return out
}

func videoLayout() Layout {
	return Layout{
		DateAliases:     dateAliases,
		CreativeAliases: creativeAliases,
		SpendAliases:    spendAliases,
		SpendPositional: true,
		StartsAliases:   startsAliases,
		Q25Aliases:      q25Aliases,
		Q50Aliases:      q50Aliases,
		Q75Aliases:      q75Aliases,
		Q100Aliases:     q100Aliases,
	}
}

// DefaultLayouts retorna a tabela de layouts conhecidos; cada chamada devolve uma cópia nova
func DefaultLayouts() map[domain.ChannelKind]Layout {
	ctv := videoLayout()
	ctv.StartsAliases = with(startsAliases, "Impressões Iniciadas")

	disney := videoLayout()
	disney.CreativeAliases = with(creativeAliases, "Creative Name", "Line Item")

	netflix := videoLayout()
	netflix.CreativeAliases = with(creativeAliases, "Ad Name", "Creative Name")

	youtube := videoLayout()
	youtube.CreativeAliases = with(creativeAliases, "Ad", "Ad Name", "Anúncio")
	youtube.StartsAliases = with(startsAliases, "Views", "Visualizações")

	return map[domain.ChannelKind]Layout{
		domain.ChannelCTV:     ctv,
		domain.ChannelDisney:  disney,
		domain.ChannelNetflix: netflix,
		domain.ChannelYouTube: youtube,
		domain.ChannelTikTok: {
			DateAliases:        with(dateAliases, "By Day"),
			CreativeAliases:    with(creativeAliases, "Ad name", "Nome do anúncio"),
			SpendAliases:       with(spendAliases, "Valor Investido", "Total Cost"),
			ImpressionsAliases: impressionsAliases,
			ClicksAliases:      clicksAliases,
		},
		domain.ChannelFootfallDisplay: {
			DateAliases:        dateAliases,
			CreativeAliases:    with(creativeAliases, "Formato"),
			SpendAliases:       with(spendAliases, "VALOR DO INVESTIMENTO"),
			ImpressionsAliases: with(impressionsAliases, "IMPRESSÕES"),
			ClicksAliases:      clicksAliases,
			VisitsAliases:      []string{"Visitas", "Visits", "Footfall", "Visitas à Loja", "Store Visits"},
		},
	}
}
