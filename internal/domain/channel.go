package domain

import (
	"strings"

	"github.com/vfg2006/media-delivery-dashboard/pkg/utils"
)

// ChannelKind identifica a plataforma/formato de veiculação de um export
type ChannelKind string

const (
	ChannelCTV             ChannelKind = "ctv"
	ChannelDisney          ChannelKind = "disney"
	ChannelNetflix         ChannelKind = "netflix"
	ChannelYouTube         ChannelKind = "youtube"
	ChannelTikTok          ChannelKind = "tiktok"
	ChannelFootfallDisplay ChannelKind = "footfall_display"
)

// ChannelCategory define qual subconjunto de métricas é significativo para o canal
type ChannelCategory string

const (
	CategoryVideo   ChannelCategory = "video"
	CategoryDisplay ChannelCategory = "display"
)

var allChannels = []ChannelKind{
	ChannelCTV,
	ChannelDisney,
	ChannelNetflix,
	ChannelYouTube,
	ChannelTikTok,
	ChannelFootfallDisplay,
}

// channelLabels são os nomes pelos quais cada canal aparece em planilhas e nomes de arquivo
var channelLabels = map[ChannelKind][]string{
	ChannelCTV:             {"ctv", "connected tv", "smart tv"},
	ChannelDisney:          {"disney", "disney+", "disney plus", "disneyplus"},
	ChannelNetflix:         {"netflix"},
	ChannelYouTube:         {"youtube", "yt"},
	ChannelTikTok:          {"tiktok", "tik tok"},
	ChannelFootfallDisplay: {"footfall_display", "footfall display", "footfall", "display"},
}

// AllChannels retorna os canais suportados em ordem fixa
func AllChannels() []ChannelKind {
	out := make([]ChannelKind, len(allChannels))
	copy(out, allChannels)
	return out
}

// ChannelLabels retorna os rótulos conhecidos de um canal
func ChannelLabels(c ChannelKind) []string {
	return channelLabels[c]
}

func (c ChannelKind) String() string {
	return string(c)
}

func (c ChannelKind) IsValid() bool {
	_, ok := channelLabels[c]
	return ok
}

func (c ChannelKind) Category() ChannelCategory {
	switch c {
	case ChannelTikTok, ChannelFootfallDisplay:
		return CategoryDisplay
	default:
		return CategoryVideo
	}
}

// ParseChannelKind aceita o id canônico ou um rótulo conhecido ("Disney+", "Footfall Display")
func ParseChannelKind(s string) (ChannelKind, bool) {
	key := utils.FoldKey(s)
	if key == "" {
		return "", false
	}

	for _, c := range allChannels {
		if utils.FoldKey(string(c)) == key {
			return c, true
		}
		for _, label := range channelLabels[c] {
			if utils.FoldKey(label) == key {
				return c, true
			}
		}
	}

	return "", false
}

// ParseChannelList interpreta uma lista separada por vírgulas ("ctv,tiktok")
func ParseChannelList(s string) ([]ChannelKind, []string) {
	var (
		channels []ChannelKind
		invalid  []string
	)

	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		c, ok := ParseChannelKind(part)
		if !ok {
			invalid = append(invalid, part)
			continue
		}
		channels = append(channels, c)
	}

	return channels, invalid
}
