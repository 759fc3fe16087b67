// Package exports descobre os arquivos exportados das plataformas em um diretório local.
package exports

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/schollz/closestmatch"
	"github.com/vfg2006/media-delivery-dashboard/internal/domain"
	"github.com/vfg2006/media-delivery-dashboard/internal/usecases/collecting"
	"github.com/vfg2006/media-delivery-dashboard/internal/usecases/reconciling"
	"github.com/vfg2006/media-delivery-dashboard/pkg/log"
	"github.com/vfg2006/media-delivery-dashboard/pkg/utils"
)

var supportedExtensions = map[string]bool{
	".tsv":  true,
	".txt":  true,
	".csv":  true,
	".xlsx": true,
	".xls":  true,
}

var contractMarkers = []string{"CONTRATO", "CONTRACT"}

type label struct {
	folded  string
	channel domain.ChannelKind
}

// DirectorySource lê os exports de EXPORTS_DIR. O canal vem do nome do arquivo ou,
// se não houver, do nome das pastas acima dele.
type DirectorySource struct {
	dir     string
	labels  []label
	byLabel map[string]domain.ChannelKind
	matcher *closestmatch.ClosestMatch
}

func NewDirectorySource(dir string) *DirectorySource {
	s := &DirectorySource{
		dir:     dir,
		byLabel: make(map[string]domain.ChannelKind),
	}

	var keys []string
	for _, c := range domain.AllChannels() {
		for _, l := range append([]string{string(c)}, domain.ChannelLabels(c)...) {
			folded := utils.FoldText(l)
			if folded == "" {
				continue
			}
			if _, dup := s.byLabel[folded]; dup {
				continue
			}
			s.byLabel[folded] = c
			s.labels = append(s.labels, label{folded: folded, channel: c})
			keys = append(keys, folded)
		}
	}

	// rótulos mais longos primeiro: "FOOTFALL DISPLAY" antes de "DISPLAY"
	sort.SliceStable(s.labels, func(i, j int) bool {
		return len(s.labels[i].folded) > len(s.labels[j].folded)
	})

	s.matcher = closestmatch.New(keys, []int{2, 3})
	return s
}

func (s *DirectorySource) Dir() string {
	return s.dir
}

// ExportSources lista os exports de entrega, ignorando arquivos de contrato
func (s *DirectorySource) ExportSources(ctx context.Context) ([]collecting.ExportSource, error) {
	files, err := s.scan(ctx)
	if err != nil {
		return nil, err
	}

	var sources []collecting.ExportSource
	for _, f := range files {
		if IsContractFile(f.name) {
			continue
		}
		sources = append(sources, f.source())
	}
	return sources, nil
}

// ContractTargets lê os exports de contrato. Um contrato ilegível é ignorado com aviso.
func (s *DirectorySource) ContractTargets(ctx context.Context) (map[domain.ChannelKind]domain.ContractedChannelTarget, error) {
	files, err := s.scan(ctx)
	if err != nil {
		return nil, err
	}

	targets := make(map[domain.ChannelKind]domain.ContractedChannelTarget)
	for _, f := range files {
		if !IsContractFile(f.name) {
			continue
		}

		logger := log.ForContext(ctx).WithFields(log.Fields{"channel": f.channel, "source": f.name})

		target, err := readContract(f)
		if err != nil {
			logger.WithError(err).Warn("Contrato ignorado")
			continue
		}
		if _, dup := targets[f.channel]; dup {
			logger.Warn("Mais de um contrato para o canal, mantendo o último")
		}
		targets[f.channel] = target
	}

	return targets, nil
}

type exportFile struct {
	path    string
	name    string
	channel domain.ChannelKind
}

func (f exportFile) source() collecting.ExportSource {
	path := f.path
	return collecting.ExportSource{
		Channel: f.channel,
		Name:    f.name,
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}
}

func (s *DirectorySource) scan(ctx context.Context) ([]exportFile, error) {
	info, err := os.Stat(s.dir)
	if err != nil {
		return nil, fmt.Errorf("diretório de exports indisponível: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s não é um diretório", s.dir)
	}

	var files []exportFile
	err = filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		name := d.Name()
		if d.IsDir() {
			if path != s.dir && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		// arquivos ocultos e travas do Excel ("~$planilha.xlsx")
		if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~$") {
			return nil
		}
		if !supportedExtensions[strings.ToLower(filepath.Ext(name))] {
			return nil
		}

		rel, err := filepath.Rel(s.dir, path)
		if err != nil {
			rel = name
		}

		channel, ok := s.resolvePath(rel)
		if !ok {
			log.ForContext(ctx).WithField("source", rel).Warn("Canal não identificado pelo nome do arquivo, export ignorado")
			return nil
		}

		files = append(files, exportFile{path: path, name: filepath.ToSlash(rel), channel: channel})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("erro ao varrer %s: %w", s.dir, err)
	}

	return files, nil
}

// resolvePath tenta o nome do arquivo e depois as pastas, da mais próxima para a raiz
func (s *DirectorySource) resolvePath(rel string) (domain.ChannelKind, bool) {
	parts := strings.Split(filepath.ToSlash(rel), "/")
	base := parts[len(parts)-1]
	parts[len(parts)-1] = strings.TrimSuffix(base, filepath.Ext(base))

	for i := len(parts) - 1; i >= 0; i-- {
		if c, ok := s.ResolveChannel(parts[i]); ok {
			return c, true
		}
	}
	return "", false
}

// ResolveChannel identifica o canal em um nome como "Relatorio_Disney+_Setembro".
// Primeiro procura um rótulo inteiro entre as palavras; depois aceita uma palavra
// parecida ("netflx") via closestmatch.
func (s *DirectorySource) ResolveChannel(name string) (domain.ChannelKind, bool) {
	folded := utils.FoldText(name)
	if folded == "" {
		return "", false
	}

	padded := " " + folded + " "
	for _, l := range s.labels {
		if strings.Contains(padded, " "+l.folded+" ") {
			return l.channel, true
		}
	}

	// nomes colados ("relatoriodisneyplus"); rótulos curtos como "YT" ficam de fora
	key := strings.ReplaceAll(folded, " ", "")
	for _, l := range s.labels {
		labelKey := strings.ReplaceAll(l.folded, " ", "")
		if len(labelKey) >= 4 && strings.Contains(key, labelKey) {
			return l.channel, true
		}
	}

	for _, word := range strings.Fields(folded) {
		if len(word) < 4 {
			continue
		}
		match := s.matcher.Closest(word)
		if match == "" || !similar(word, match) {
			continue
		}
		return s.byLabel[match], true
	}

	return "", false
}

// similar exige o mesmo prefixo de três letras e tamanho próximo
func similar(word, match string) bool {
	match = strings.ReplaceAll(match, " ", "")
	if len(match) < 4 || word[:3] != match[:3] {
		return false
	}
	diff := len(word) - len(match)
	return diff >= -2 && diff <= 2
}

// IsContractFile identifica exports de contrato pelo nome ("contrato_ctv.xlsx")
func IsContractFile(name string) bool {
	folded := utils.FoldKey(filepath.Base(name))
	for _, marker := range contractMarkers {
		if strings.Contains(folded, marker) {
			return true
		}
	}
	return false
}

func readContract(f exportFile) (domain.ContractedChannelTarget, error) {
	file, err := os.Open(f.path)
	if err != nil {
		return domain.ContractedChannelTarget{}, err
	}
	defer file.Close()

	grid, err := collecting.ReadGrid(f.name, file)
	if err != nil {
		return domain.ContractedChannelTarget{}, err
	}

	return reconciling.ParseContract(f.channel, collecting.GridToStrings(grid))
}
