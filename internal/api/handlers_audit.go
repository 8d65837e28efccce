package api

import (
	"net/http"
	"strconv"
	"time"

	"hospital-ops/internal/audit"
)

func searchAuditLogsHandler(rec *audit.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		f := audit.Filter{
			UsernameContains: q.Get("username"),
			Action:           q.Get("action"),
			EntityName:       q.Get("entityName"),
		}

		var ok bool
		if f.From, ok = timeQuery(w, q.Get("from"), "from"); !ok {
			return
		}
		if f.To, ok = timeQuery(w, q.Get("to"), "to"); !ok {
			return
		}

		page := intQuery(q.Get("page"), 0)
		size := intQuery(q.Get("size"), 0)

		result, err := rec.Search(r.Context(), f, page, size, q.Get("sort"))
		if err != nil {
			writeDomainError(w, err)
			return
		}

		resp := AuditSearchResponse{
			Items:      make([]AuditLogResponse, 0, len(result.Items)),
			TotalCount: result.TotalCount,
			Page:       result.Page,
			Size:       result.Size,
		}
		for _, e := range result.Items {
			resp.Items = append(resp.Items, toAuditLogResponse(e))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func timeQuery(w http.ResponseWriter, raw, name string) (*time.Time, bool) {
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_"+name, name+" must be an RFC 3339 timestamp")
		return nil, false
	}
	return &t, true
}

func intQuery(raw string, def int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
