package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/saladlab/consult-tags/internal/analyzer"
	"github.com/saladlab/consult-tags/internal/common"
	"github.com/saladlab/consult-tags/internal/engine"
	"github.com/saladlab/consult-tags/internal/model"
	"github.com/saladlab/consult-tags/internal/service"
	"github.com/saladlab/consult-tags/internal/sheets"
)

const maxBodyBytes = 1 << 20

type messageResponse struct {
	Status  string `json:"status,omitempty"`
	Message string `json:"message"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

type gridProperties struct {
	RowCount    int64 `json:"rowCount"`
	ColumnCount int64 `json:"columnCount"`
}

type sheetResponse struct {
	Title          string         `json:"title"`
	SheetType      string         `json:"sheet_type"`
	GridProperties gridProperties `json:"grid_properties"`
	SheetID        int64          `json:"sheet_id"`
	Index          int64          `json:"index"`
}

type sheetListResponse struct {
	Sheets []sheetResponse `json:"sheets"`
}

type analyzeRequest struct {
	SheetName string `json:"sheet_name"`
}

type analyzeResponse struct {
	TagCounts          model.FrequencyMapping `json:"tag_counts"`
	CategoryCounts     model.CategoryMapping  `json:"category_counts"`
	CompanyStats       model.MembershipCounts `json:"company_stats"`
	ID                 string                 `json:"id"`
	NewSheetName       string                 `json:"new_sheet_name"`
	TotalConsultations int                    `json:"total_consultations"`
	Success            bool                   `json:"success"`
}

type chartRequest struct {
	SheetName     string `json:"sheet_name"`
	ChartStartRow int    `json:"chart_start_row"`
	ChartWidth    int    `json:"chart_width"`
	ChartHeight   int    `json:"chart_height"`
}

type chartResponse struct {
	SheetName string  `json:"sheet_name"`
	ChartIDs  []int64 `json:"chart_ids"`
	Success   bool    `json:"success"`
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, messageResponse{Message: "Consultation Tag Analyzer API"})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, messageResponse{
		Status:  "healthy",
		Message: "Consultation Tag Analyzer API is running",
	})
}

func (s *Server) handleSheets(w http.ResponseWriter, r *http.Request) {
	infos, err := s.backend.Sheets(r.Context())
	if err != nil {
		s.writeError(w, "failed to list sheets", err)
		return
	}

	resp := sheetListResponse{Sheets: make([]sheetResponse, 0, len(infos))}
	for _, info := range infos {
		resp.Sheets = append(resp.Sheets, sheetResponse{
			SheetID:   info.ID,
			Title:     info.Title,
			Index:     info.Index,
			SheetType: info.Type,
			GridProperties: gridProperties{
				RowCount:    info.RowCount,
				ColumnCount: info.ColumnCount,
			},
		})
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, "invalid request", err)
		return
	}

	analysis, err := s.backend.Analyze(r.Context(), req.SheetName)
	if err != nil {
		s.writeError(w, "analysis failed", err)
		return
	}

	resp := analyzeResponse{
		ID:                 analysis.ID,
		TagCounts:          analysis.TagCounts,
		CategoryCounts:     analysis.Categories,
		CompanyStats:       analysis.Membership,
		TotalConsultations: analysis.TotalConsultations,
		Success:            true,
	}

	// Local data sources have nowhere to write; the analysis is still returned.
	published, err := s.backend.Publish(r.Context(), analysis, false, service.DefaultChartLayout())
	switch {
	case errors.Is(err, engine.ErrNoWriter):
	case err != nil:
		s.writeError(w, "analysis failed", err)
		return
	default:
		resp.NewSheetName = published.SummarySheet
	}

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSheetsCharts(w http.ResponseWriter, r *http.Request) {
	defaults := service.DefaultChartLayout()
	req := chartRequest{
		ChartStartRow: defaults.StartRow,
		ChartWidth:    defaults.Width,
		ChartHeight:   defaults.Height,
	}
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, "invalid request", err)
		return
	}
	if req.ChartStartRow < 1 || req.ChartWidth <= 0 || req.ChartHeight <= 0 {
		s.writeError(w, "invalid request", badRequest("chart_start_row must be at least 1 and chart sizes positive"))
		return
	}

	analysis, err := s.backend.Analyze(r.Context(), req.SheetName)
	if err != nil {
		s.writeError(w, "chart creation failed", err)
		return
	}

	ids, err := s.backend.AddCharts(r.Context(), analysis, service.ChartLayout{
		StartRow: req.ChartStartRow,
		Width:    req.ChartWidth,
		Height:   req.ChartHeight,
	})
	if err != nil {
		s.writeError(w, "chart creation failed", err)
		return
	}

	s.writeJSON(w, http.StatusOK, chartResponse{
		ChartIDs:  ids,
		SheetName: sheets.SummaryTitle(analysis.Sheet),
		Success:   true,
	})
}

type requestError struct {
	msg string
}

func (e *requestError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &requestError{msg: fmt.Sprintf(format, args...)}
}

// decodeBody parses a JSON body with a sheet_name field.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return badRequest("malformed JSON body: %v", err)
	}

	var name string
	switch v := dst.(type) {
	case *analyzeRequest:
		name = v.SheetName
	case *chartRequest:
		name = v.SheetName
	}
	if strings.TrimSpace(name) == "" {
		return badRequest("sheet_name is required")
	}
	return nil
}

func statusFor(err error) int {
	var reqErr *requestError
	switch {
	case errors.As(err, &reqErr):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrNotEnoughData), errors.Is(err, common.ErrSheetNotFound):
		return http.StatusNotFound
	case errors.Is(err, analyzer.ErrSchema):
		return http.StatusUnprocessableEntity
	case errors.Is(err, engine.ErrNoWriter):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, prefix string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(prefix, "error", err)
	} else {
		s.logger.Warn(prefix, "error", err, "status", status)
	}
	s.writeJSON(w, status, errorResponse{Detail: fmt.Sprintf("%s: %v", prefix, err)})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Warn("failed to encode response", "error", err)
	}
}
