package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"calcforge/internal/calculator"
	"calcforge/internal/domain"
	"calcforge/internal/observability"
	"calcforge/internal/reporting"
	"calcforge/internal/roi"
	"calcforge/internal/templates"
)

// Response headers describing how a result was produced.
const (
	FingerprintHeader = "X-Calc-Fingerprint"
	CacheHeader       = "X-Cache"
)

// ErrorResponse is the JSON body for failed requests.
type ErrorResponse struct {
	Detail string `json:"detail"`
	Field  string `json:"field,omitempty"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "PolyAI ROI Calculator API"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// handleCalc runs a calculation for the posted DealInputs.
func (s *Server) handleCalc(w http.ResponseWriter, r *http.Request) {
	in, ok := s.decodeInputs(w, r)
	if !ok {
		return
	}

	res, meta, err := s.calc.Calculate(r.Context(), in)
	if err != nil {
		s.writeCalcError(w, r, err)
		return
	}

	setMetaHeaders(w, meta)
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.Listing())
}

func (s *Server) handleTemplate(w http.ResponseWriter, r *http.Request) {
	vertical := mux.Vars(r)["vertical"]
	in, err := s.catalog.Get(vertical)
	if errors.Is(err, templates.ErrUnknownVertical) {
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Detail: fmt.Sprintf("Unknown vertical: %s", vertical),
			Field:  "vertical",
		})
		return
	}
	if err != nil {
		s.writeInternal(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, in)
}

// export describes one export format.
type export struct {
	contentType string
	filename    string
	render      func(s *Server, r *http.Request, rep *reporting.Report) ([]byte, error)
}

var exports = map[string]export{
	"csv": {
		contentType: "text/csv; charset=utf-8",
		filename:    "roi_data.csv",
		render: func(_ *Server, _ *http.Request, rep *reporting.Report) ([]byte, error) {
			return []byte(reporting.RenderCSV(rep)), nil
		},
	},
	"markdown": {
		contentType: "text/markdown; charset=utf-8",
		filename:    "ROI_REPORT.md",
		render: func(_ *Server, _ *http.Request, rep *reporting.Report) ([]byte, error) {
			return []byte(reporting.RenderMarkdown(rep)), nil
		},
	},
	"html": {
		contentType: "text/html; charset=utf-8",
		filename:    "ROI_REPORT.html",
		render: func(_ *Server, _ *http.Request, rep *reporting.Report) ([]byte, error) {
			return reporting.RenderHTML(rep)
		},
	},
	"pdf": {
		contentType: "application/pdf",
		filename:    "roi_report.pdf",
		render: func(s *Server, r *http.Request, rep *reporting.Report) ([]byte, error) {
			if s.pdf == nil {
				return nil, reporting.ErrNoBrowser
			}
			return s.pdf.Render(r.Context(), rep)
		},
	},
}

// handleExport renders the posted DealInputs in the requested format.
// An optional ?title= overrides the report heading.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(mux.Vars(r)["format"])
	exp, ok := exports[format]
	if !ok {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Detail: fmt.Sprintf("Unknown export format: %s", format)})
		return
	}

	in, ok := s.decodeInputs(w, r)
	if !ok {
		return
	}

	start := time.Now()
	res, meta, err := s.calc.Calculate(r.Context(), in)
	if err != nil {
		observability.RecordExport(format, "invalid", time.Since(start).Seconds())
		s.writeCalcError(w, r, err)
		return
	}

	rep, err := s.generator.Generate(r.URL.Query().Get("title"), meta.Fingerprint, in, res)
	if err != nil {
		observability.RecordExport(format, "error", time.Since(start).Seconds())
		s.writeInternal(w, r, err)
		return
	}

	body, err := exp.render(s, r, rep)
	if errors.Is(err, reporting.ErrNoBrowser) {
		observability.RecordExport(format, "unavailable", time.Since(start).Seconds())
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Detail: "PDF export is not available on this server"})
		return
	}
	if err != nil {
		observability.RecordExport(format, "error", time.Since(start).Seconds())
		s.writeInternal(w, r, err)
		return
	}
	observability.RecordExport(format, "success", time.Since(start).Seconds())

	setMetaHeaders(w, meta)
	w.Header().Set("Content-Type", exp.contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", exp.filename))
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// decodeInputs reads DealInputs from the body. On failure it writes a 400 and returns false.
func (s *Server) decodeInputs(w http.ResponseWriter, r *http.Request) (domain.DealInputs, bool) {
	var in domain.DealInputs
	body := http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(&in); err != nil {
		detail := "Malformed JSON body"
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			detail = "Request body too large"
		case errors.Is(err, io.EOF):
			detail = "Empty request body"
		}
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Detail: detail})
		return in, false
	}
	return in, true
}

// writeCalcError maps calculator errors to status codes.
func (s *Server) writeCalcError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *roi.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Detail: verr.Message, Field: verr.Field})
		return
	}
	if r.Context().Err() != nil {
		// Client went away; nothing useful to send.
		return
	}
	s.writeInternal(w, r, err)
}

func (s *Server) writeInternal(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Printf("internal error id=%s: %v", RequestID(r.Context()), err)
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{Detail: "Internal server error"})
}

func setMetaHeaders(w http.ResponseWriter, meta calculator.Meta) {
	if meta.Fingerprint != "" {
		w.Header().Set(FingerprintHeader, meta.Fingerprint)
	}
	if meta.CacheHit {
		w.Header().Set(CacheHeader, "HIT")
	} else {
		w.Header().Set(CacheHeader, "MISS")
	}
}

// writeJSON encodes v before committing the status, so an encoding
// failure still reaches the client as a 500.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body = []byte(`{"detail":"Internal server error"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(body, '\n'))
}
