package http

import (
	"bytes"
	"context"
	"net/http"

	"ledger/internal/datasets"
	"ledger/internal/log"
	"ledger/internal/table"
)

const unavailableText = "The data source is unavailable. Please try again shortly."

// controlView is one filter control bound to its table.
type controlView struct {
	table.Control
	Table string
	ID    string
}

// tableView is the data of the "table" template.
type tableView struct {
	Name        string
	View        table.Rendered
	Primary     []controlView
	Range       []controlView
	EmptyText   string
	PageSizes   []int
	RowsPerPage int
}

type indexView struct {
	Lang     string
	Currency string
	Tables   []tableView
	Error    string
}

func newTableView(name string, t tableState) tableView {
	r := t.Render()
	bind := func(ctls []table.Control) []controlView {
		out := make([]controlView, 0, len(ctls))
		for _, c := range ctls {
			out = append(out, controlView{Control: c, Table: name, ID: name + "-" + c.Key})
		}
		return out
	}
	return tableView{
		Name:        name,
		View:        r,
		Primary:     bind(r.Primary),
		Range:       bind(r.Range),
		EmptyText:   table.NoDataText,
		PageSizes:   PageSizes,
		RowsPerPage: t.State().Pagination.RowsPerPage,
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data := indexView{Lang: s.formatter.Tag().String(), Currency: s.formatter.Currency()}
	status := http.StatusOK

	snap, err := s.loadSnapshot(ctx)
	if err != nil {
		log.NewStructuredLogger(log.FromContext(ctx)).LogError(ctx, "Failed to load datasets", err, log.OpLoad, nil)
		data.Error = unavailableText
		status = http.StatusServiceUnavailable
	} else {
		sess := s.sessions.get(w, r)
		sess.mu.Lock()
		err = sess.sync(snap, s.buildTables)
		if err == nil {
			for _, name := range datasets.Names {
				data.Tables = append(data.Tables, newTableView(name, sess.tables[name]))
			}
		}
		sess.mu.Unlock()
		if err != nil {
			log.NewStructuredLogger(log.FromContext(ctx)).LogError(ctx, "Failed to build tables", err, log.OpRender, nil)
			InternalServerError("Failed to build tables").Write(w)
			return
		}
	}

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "index.html", data); err != nil {
		log.NewStructuredLogger(log.FromContext(ctx)).LogError(ctx, "Failed to render index", err, log.OpRender, nil)
		InternalServerError("Failed to render page").Write(w)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	NewHTMXResponse().Status(status).BodyHTML(buf.Bytes()).Write(w)
}

func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	s.withTable(w, r, log.OpList, nil)
}

func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	s.withTable(w, r, log.OpFilter, func(t tableState, form formValues, fields log.LogFields) error {
		req, err := ParseFilterRequest(form)
		if err != nil {
			return err
		}
		fields.WithFilter(req.Key)
		return t.SetFilter(req.Key, req.Value)
	})
}

func (s *Server) handleSort(w http.ResponseWriter, r *http.Request) {
	s.withTable(w, r, log.OpSort, func(t tableState, form formValues, fields log.LogFields) error {
		key, err := ParseSortRequest(form)
		if err != nil {
			return err
		}
		fields.WithSort(key)
		return t.RequestSort(key)
	})
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	s.withTable(w, r, log.OpPage, func(t tableState, form formValues, fields log.LogFields) error {
		req, err := ParsePageRequest(form)
		if err != nil {
			return err
		}
		switch req.Direction {
		case DirNext:
			t.Next()
		case DirPrev:
			t.Previous()
		default:
			t.SetPage(req.Page)
		}
		fields.WithPage(t.State().Pagination.CurrentPage)
		return nil
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.withTable(w, r, log.OpReset, func(t tableState, _ formValues, _ log.LogFields) error {
		t.ResetFilters()
		return nil
	})
}

func (s *Server) handlePagination(w http.ResponseWriter, r *http.Request) {
	s.withTable(w, r, log.OpPage, func(t tableState, form formValues, fields log.LogFields) error {
		req, err := ParsePaginationRequest(form)
		if err != nil {
			return err
		}
		if req.Enabled != nil {
			t.SetPaginationEnabled(*req.Enabled)
			fields["pagination"] = *req.Enabled
		}
		if req.RowsPerPage != nil {
			if err := t.SetRowsPerPage(*req.RowsPerPage); err != nil {
				return err
			}
			fields["rows_per_page"] = *req.RowsPerPage
		}
		return nil
	})
}

// tableAction changes one table. form holds the parsed request body.
type tableAction func(t tableState, form formValues, fields log.LogFields) error

// withTable resolves the named table of the caller's session, applies
// action when set and responds with the re-rendered table: the partial for
// htmx requests, a redirect back to the page otherwise.
func (s *Server) withTable(w http.ResponseWriter, r *http.Request, op string, action tableAction) {
	ctx := r.Context()
	logger := log.NewStructuredLogger(log.FromContext(ctx))

	name := r.PathValue("name")
	if !datasets.Known(name) {
		NotFoundError("Unknown table").Write(w)
		return
	}

	var form formValues
	if action != nil {
		p := NewRequestBodyParser(r)
		if err := p.Parse(); err != nil {
			s.writeError(w, r, http.StatusBadRequest, "Malformed request")
			return
		}
		form = p
	}

	snap, err := s.loadSnapshot(ctx)
	if err != nil {
		logger.LogError(ctx, "Failed to load datasets", err, log.OpLoad, log.NewFields().WithDataset(name))
		s.writeError(w, r, http.StatusServiceUnavailable, unavailableText)
		return
	}

	sess := s.sessions.get(w, r)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := sess.sync(snap, s.buildTables); err != nil {
		logger.LogError(ctx, "Failed to build tables", err, log.OpRender, nil)
		s.writeError(w, r, http.StatusInternalServerError, "Failed to build tables")
		return
	}
	t := sess.tables[name]

	if action != nil {
		fields := log.NewFields()
		if err := action(t, form, fields); err != nil {
			status := statusFor(err)
			if status >= http.StatusInternalServerError {
				logger.LogError(ctx, "Table action failed", err, op, fields.WithTable(name, sess.logID()))
			}
			s.writeError(w, r, status, err.Error())
			return
		}
		logger.LogTableAction(ctx, name, sess.logID(), op, fields)
	}

	if !isHTMX(r) && r.Method != http.MethodGet {
		http.Redirect(w, r, "/#table-"+name, http.StatusSeeOther)
		return
	}
	s.writeTable(ctx, w, name, t)
}

func (s *Server) writeTable(ctx context.Context, w http.ResponseWriter, name string, t tableState) {
	view := newTableView(name, t)
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "table", view); err != nil {
		log.NewStructuredLogger(log.FromContext(ctx)).LogError(ctx, "Failed to render table", err, log.OpRender,
			log.NewFields().WithDataset(name))
		InternalServerError("Failed to render table").Write(w)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	NewHTMXResponse().
		TriggerTableUpdated(name, view.View.Total).
		BodyHTML(buf.Bytes()).
		Write(w)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	resp := ErrorResponse(status, message)
	if isHTMX(r) {
		resp.TriggerErrorNotification(message)
	}
	resp.Write(w)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	s.snapshots.Invalidate(snapshotKey)
	s.logger.InfoContext(r.Context(), "Dataset snapshot invalidated")
	if isHTMX(r) {
		NewHTMXResponse().Refresh().Write(w)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	requests := s.tracer.GetMetrics()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"sessions":     s.SessionCount(),
		"requests":     requests.TotalRequests,
		"in_flight":    requests.InFlight,
		"suspicious":   s.detector.GetMetrics().SuspiciousRequests,
		"rate_limited": s.limiter.Hits(),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		if err := s.ready(r.Context()); err != nil {
			s.logger.WarnContext(r.Context(), "Readiness check failed", log.FieldError, err.Error())
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
