package http

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"solardash/internal/dataset"
	apperrors "solardash/internal/errors"
	"solardash/internal/middleware"
	"solardash/internal/services"
	v1 "solardash/pkg/contracts/api/v1"
)

// decodeQuery reads the dashboard controls from the URL query string
func decodeQuery(values url.Values) (v1.DashboardQuery, error) {
	q := v1.DashboardQuery{
		Strategy:    strings.ToLower(strings.TrimSpace(values.Get("strategy"))),
		ShowCleaned: isChecked(values.Get("show_cleaned")),
		HistColumn:  strings.TrimSpace(values.Get("hist_column")),
		Submitted:   isChecked(values.Get("submitted")),
	}

	var err error
	if q.Bins, err = intParam(values, "bins"); err != nil {
		return q, err
	}
	if q.Rows, err = intParam(values, "rows"); err != nil {
		return q, err
	}

	q.Line = listParam(values, "line")
	q.Corr = listParam(values, "corr")
	return q, nil
}

// toServiceQuery maps the wire query onto the service query. Without the
// form's submitted marker an absent column list selects the defaults.
func toServiceQuery(q v1.DashboardQuery) services.Query {
	sq := services.Query{
		Strategy:    dataset.Strategy(q.Strategy),
		ShowCleaned: q.ShowCleaned,
		LineColumns: q.Line,
		HistColumn:  q.HistColumn,
		Bins:        q.Bins,
		CorrColumns: q.Corr,
		Rows:        q.Rows,
	}
	if q.Submitted {
		if sq.LineColumns == nil {
			sq.LineColumns = []string{}
		}
		if sq.CorrColumns == nil {
			sq.CorrColumns = []string{}
		}
	}
	return sq
}

// parseQuery decodes and validates the dashboard query of r
func parseQuery(r *http.Request, validator *middleware.Validator) (v1.DashboardQuery, services.Query, error) {
	q, err := decodeQuery(r.URL.Query())
	if err != nil {
		return q, services.Query{}, err
	}
	if err := validator.ValidateStruct(q); err != nil {
		return q, services.Query{}, err
	}
	return q, toServiceQuery(q), nil
}

func intParam(values url.Values, key string) (int, error) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.ErrValidation(key, key+" must be a whole number")
	}
	return n, nil
}

// listParam collects a repeated parameter. It returns nil when the parameter
// is absent; empty values are skipped.
func listParam(values url.Values, key string) []string {
	raw, ok := values[key]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func isChecked(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "on", "true", "yes":
		return true
	}
	return false
}
