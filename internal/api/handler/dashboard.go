package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/vfg2006/media-delivery-dashboard/internal/domain"
	"github.com/vfg2006/media-delivery-dashboard/internal/usecases/dashboarding"
	"github.com/vfg2006/media-delivery-dashboard/pkg/apiErrors"
	"github.com/vfg2006/media-delivery-dashboard/pkg/log"
	"github.com/vfg2006/media-delivery-dashboard/pkg/utils"
)

// filterError carrega o código de API de um parâmetro inválido
type filterError struct {
	code    string
	message string
	param   string
}

// GetDashboardData monta o dashboard a partir dos exports atuais
func GetDashboardData(builder dashboarding.Builder, defaultLookbackDays int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		filters, ferr := parseFilters(r, true)
		if ferr != nil {
			logger.WithFields(log.Fields{
				"param": ferr.param,
				"value": r.URL.Query().Get(ferr.param),
			}).Warn(ferr.message)
			apiErrors.WriteError(w, ferr.code, ferr.message, map[string]string{"param": ferr.param})
			return
		}

		if filters.StartDate == nil && filters.EndDate == nil && defaultLookbackDays > 0 {
			end := utils.DayUTC(time.Now())
			start := end.AddDate(0, 0, -(defaultLookbackDays - 1))
			filters.StartDate, filters.EndDate = &start, &end
		}

		data, err := builder.BuildDashboard(r.Context(), filters)
		if err != nil {
			logger.WithError(err).Error("Erro ao montar dashboard")

			switch {
			case errors.Is(err, dashboarding.ErrNoExports):
				apiErrors.WriteError(w, apiErrors.ErrNoExports, "Nenhum arquivo de export encontrado", nil)
			case errors.Is(err, dashboarding.ErrIngestionFailed):
				apiErrors.WriteError(w, apiErrors.ErrIngestionFailed, "Nenhum export pôde ser lido", nil)
			default:
				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao montar dashboard", nil)
			}
			return
		}

		writeJSON(w, http.StatusOK, data)
	}
}

// parseFilters lê start_date, end_date e channel da query string
func parseFilters(r *http.Request, optionalDates bool) (*domain.DeliveryFilters, *filterError) {
	query := r.URL.Query()
	filters := &domain.DeliveryFilters{}

	for _, p := range []struct {
		name string
		dst  **time.Time
	}{
		{"start_date", &filters.StartDate},
		{"end_date", &filters.EndDate},
	} {
		date, err := utils.ParseOptionalDate(query.Get(p.name))
		if err != nil {
			return nil, &filterError{apiErrors.ErrInvalidFormat, "Data inválida, use o formato AAAA-MM-DD", p.name}
		}
		if date == nil && !optionalDates {
			return nil, &filterError{apiErrors.ErrMissingRequiredData, "Parâmetro obrigatório ausente", p.name}
		}
		*p.dst = date
	}

	if filters.StartDate != nil && filters.EndDate != nil && filters.StartDate.After(*filters.EndDate) {
		return nil, &filterError{apiErrors.ErrInvalidDateRange, "Data inicial posterior à data final", "start_date"}
	}

	if raw := query.Get("channel"); strings.TrimSpace(raw) != "" {
		channels, invalid := domain.ParseChannelList(raw)
		if len(invalid) > 0 {
			return nil, &filterError{apiErrors.ErrInvalidChannel, "Canal desconhecido: " + strings.Join(invalid, ", "), "channel"}
		}
		filters.Channels = channels
	}

	return filters, nil
}
