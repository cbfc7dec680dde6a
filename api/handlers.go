/*
handlers.go - HTTP API handlers for the tax-credit analysis service

PURPOSE:
  Exposes the credit engine, company registry, heuristic scoring, and
  pension cross-check via REST. Handles HTTP request/response, JSON
  serialization, and delegates to domain logic.

ENDPOINTS:
  Analysis:
    POST   /api/analyze                     Run a credit analysis

  Companies:
    GET    /api/companies                   Search with pagination
    POST   /api/companies                   Create/update a company
    GET    /api/companies/{id}              Get one company
    GET    /api/companies/{id}/analysis     Analyze a stored company
    GET    /api/companies/{id}/assessment   Heuristic growth/risk read

  Registry statistics:
    GET    /api/aggregates                  Headcount stats for a year
    GET    /api/regions                     Companies per province

  Pension:
    POST   /api/pension/status              Workplace subscriber lookup

  Misc:
    GET    /api/samples                     Demo company listing
    POST   /api/reset                       Database reset (dev only)

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input
  3. Call domain logic (analyzer, store, scorer, pension client)
  4. Serialize response
  5. Handle errors

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 502: Pension registry failures
  - 500: Internal errors

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.
*/
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"

	"github.com/warp/taxcredit-engine/credit"
	"github.com/warp/taxcredit-engine/pension"
	"github.com/warp/taxcredit-engine/scoring"
	"github.com/warp/taxcredit-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// PensionService resolves a company to its pension workplace snapshot.
// Satisfied by *pension.Client; tests swap in a stub.
type PensionService interface {
	Lookup(ctx context.Context, regNo, companyName string) (pension.Status, error)
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store    *sqlite.Store
	Analyzer *credit.Analyzer
	Pension  PensionService // nil when no registry key is configured

	// Track currently loaded scenario
	currentScenario string
}

// NewHandler creates a new handler with the given store.
func NewHandler(store *sqlite.Store) *Handler {
	return &Handler{
		Store:    store,
		Analyzer: credit.NewAnalyzer(),
	}
}

// =============================================================================
// ANALYSIS
// =============================================================================

// Analyze runs a credit analysis from an inline profile or a stored
// registration number.
// POST /api/analyze
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var (
		profile    *credit.CompanyProfile
		company    CompanyDTO
		headcounts = req.Headcounts
	)
	switch {
	case req.Profile != nil:
		profile = profileFromDTO(*req.Profile)
		company = *req.Profile
		if headcounts == nil {
			headcounts = req.Profile.Headcounts
		}
	case req.RegNo != "":
		rec, _, err := h.Store.GetByRegNo(r.Context(), req.RegNo)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to resolve company", err)
			return
		}
		if rec == nil {
			writeError(w, http.StatusNotFound, "Company not found", nil)
			return
		}
		profile = profileFromRecord(*rec)
		company = toCompanyDTO(*rec)
		if headcounts == nil {
			headcounts = headcountKeys(rec.Headcounts)
		}
	}

	h.runAnalysis(w, r, profile, company, headcounts, req)
}

// AnalyzeCompany analyzes a stored company by ID.
// GET /api/companies/{id}/analysis
func (h *Handler) AnalyzeCompany(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Store.GetCompany(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get company", err)
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "Company not found", nil)
		return
	}

	var req AnalyzeRequest
	req.Mode = r.URL.Query().Get("mode")
	req.AsOf = r.URL.Query().Get("as_of")
	h.runAnalysis(w, r, profileFromRecord(*rec), toCompanyDTO(*rec), headcountKeys(rec.Headcounts), req)
}

func (h *Handler) runAnalysis(w http.ResponseWriter, r *http.Request,
	profile *credit.CompanyProfile, company CompanyDTO, headcounts map[string]int, req AnalyzeRequest) {

	input := credit.AnalysisInput{
		Profile:         profile,
		HeadcountByYear: headcounts,
	}
	if len(req.Adjustments) > 0 {
		input.Adjustments = make(map[string]credit.Adjustment, len(req.Adjustments))
		for year, adj := range req.Adjustments {
			input.Adjustments[year] = credit.Adjustment{
				YouthCount:          adj.YouthCount,
				SocialInsuranceBase: adj.SocialInsuranceBase,
			}
		}
	}
	if req.AsOf != "" {
		t, err := time.Parse("2006-01-02", req.AsOf)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid as_of date", err)
			return
		}
		input.Now = credit.NewTimePoint(t.Year(), t.Month(), t.Day())
	}

	analyzer := *h.Analyzer
	if req.Mode != "" {
		analyzer.Mode = credit.RateMode(req.Mode)
	}

	result, err := analyzer.Analyze(input)
	if err != nil {
		if errors.Is(err, credit.ErrNoProfile) {
			writeError(w, http.StatusBadRequest, "A company profile or registration number is required", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Analysis failed", err)
		return
	}

	dto := AnalysisDTO{
		Company:  company,
		Zone:     string(result.Zone),
		Category: string(result.Category),
		PerYear:  make([]YearDTO, len(result.Years)),
		Summary:  toSummaryDTO(result.Summary),
	}
	for i, year := range result.Years {
		dto.PerYear[i] = toYearDTO(year)
	}

	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// COMPANIES
// =============================================================================

// SearchCompanies searches the registry with pagination.
// GET /api/companies?reg_no=&name=&province=&page=&page_size=
func (h *Handler) SearchCompanies(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("page_size"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 1000 {
		pageSize = 1000
	}

	records, total, err := h.Store.Search(r.Context(), sqlite.SearchQuery{
		RegNo:    q.Get("reg_no"),
		Name:     q.Get("name"),
		Province: q.Get("province"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to search companies", err)
		return
	}

	resp := SearchResponse{
		Companies: make([]CompanyDTO, len(records)),
		Total:     total,
		Page:      page,
		PageSize:  pageSize,
		HasNext:   page*pageSize < total,
		HasPrev:   page > 1,
	}
	for i, rec := range records {
		resp.Companies[i] = toCompanyDTO(rec)
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateCompany upserts a company record.
// POST /api/companies
func (h *Handler) CreateCompany(w http.ResponseWriter, r *http.Request) {
	var req CompanyDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.RegNo == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "reg_no and name are required", nil)
		return
	}

	rec := sqlite.CompanyRecord{
		ID:           req.ID,
		RegNo:        req.RegNo,
		Name:         req.Name,
		Province:     req.Province,
		District:     req.District,
		IndustryCode: req.IndustryCode,
		IndustryName: req.IndustryName,
		Excluded:     req.Excluded,
	}
	if req.EstablishedAt != "" {
		t, err := time.Parse("2006-01-02", req.EstablishedAt)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid established_at date", err)
			return
		}
		rec.EstablishedAt = t
	}
	if len(req.Headcounts) > 0 {
		rec.Headcounts = make(map[int]int, len(req.Headcounts))
		for key, count := range req.Headcounts {
			year, ok := credit.ParseYearKey(key)
			if !ok {
				writeError(w, http.StatusBadRequest, "Invalid headcount year "+key, nil)
				return
			}
			rec.Headcounts[year] = count
		}
	}

	saved, err := h.Store.SaveCompany(r.Context(), rec)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save company", err)
		return
	}
	writeJSON(w, http.StatusCreated, toCompanyDTO(saved))
}

// GetCompany returns a single company.
// GET /api/companies/{id}
func (h *Handler) GetCompany(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Store.GetCompany(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get company", err)
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "Company not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toCompanyDTO(*rec))
}

// GetAssessment returns the heuristic growth/risk read on a company.
// GET /api/companies/{id}/assessment
func (h *Handler) GetAssessment(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Store.GetCompany(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get company", err)
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "Company not found", nil)
		return
	}

	_, duplicates, err := h.Store.GetByRegNo(r.Context(), rec.RegNo)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to count duplicates", err)
		return
	}

	assessment := scoring.Assess(scoring.CompanyFacts{
		Profile:        *profileFromRecord(*rec),
		IndustryName:   rec.IndustryName,
		DuplicateCount: duplicates,
	})
	writeJSON(w, http.StatusOK, toAssessmentDTO(assessment))
}

// =============================================================================
// REGISTRY STATISTICS
// =============================================================================

// GetAggregates returns headcount statistics for one year.
// GET /api/aggregates?year=2024 (year omitted = latest)
func (h *Handler) GetAggregates(w http.ResponseWriter, r *http.Request) {
	year, _ := strconv.Atoi(r.URL.Query().Get("year"))

	agg, err := h.Store.AggregatesForYear(r.Context(), year)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to aggregate", err)
		return
	}
	writeJSON(w, http.StatusOK, AggregatesDTO{
		Year:         agg.Year,
		Companies:    agg.Companies,
		MaxHeadcount: agg.MaxHeadcount,
		MinHeadcount: agg.MinHeadcount,
		AvgHeadcount: agg.AvgHeadcount,
	})
}

// GetRegionDistribution returns company counts per province.
// GET /api/regions
func (h *Handler) GetRegionDistribution(w http.ResponseWriter, r *http.Request) {
	dist, err := h.Store.RegionDistribution(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute distribution", err)
		return
	}
	writeJSON(w, http.StatusOK, dist)
}

// ListSamples returns a short demo listing.
// GET /api/samples?limit=10
func (h *Handler) ListSamples(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 10
	}

	records, err := h.Store.Samples(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list samples", err)
		return
	}
	dtos := make([]CompanyDTO, len(records))
	for i, rec := range records {
		dtos[i] = toCompanyDTO(rec)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// PENSION
// =============================================================================

// PensionStatus looks up a workplace's subscriber count in the national
// pension registry.
// POST /api/pension/status
func (h *Handler) PensionStatus(w http.ResponseWriter, r *http.Request) {
	if h.Pension == nil {
		writeError(w, http.StatusServiceUnavailable, "Pension lookup is not configured", nil)
		return
	}

	var req PensionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.RegNo == "" {
		writeError(w, http.StatusBadRequest, "biz_no is required", nil)
		return
	}

	// Fall back to the stored company name when the caller sent none.
	name := req.Name
	if name == "" {
		if rec, _, err := h.Store.GetByRegNo(r.Context(), req.RegNo); err == nil && rec != nil {
			name = rec.Name
		}
	}

	status, err := h.Pension.Lookup(r.Context(), req.RegNo, name)
	if err != nil {
		switch {
		case errors.Is(err, pension.ErrNotFound):
			writeError(w, http.StatusNotFound, "No matching workplace", err)
		case errors.Is(err, pension.ErrUpstream):
			writeError(w, http.StatusBadGateway, "Pension registry error", err)
		default:
			writeError(w, http.StatusInternalServerError, "Pension lookup failed", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, PensionDTO{
		WorkplaceName:   status.Workplace.Name,
		MaskedRegNo:     status.Workplace.MaskedRegNo,
		Seq:             status.Workplace.Seq,
		RoadAddress:     status.Workplace.RoadAddress,
		SubscriberCount: status.SubscriberCount,
		ReferenceMonth:  status.ReferenceMonth,
	})
}

// =============================================================================
// ADMIN
// =============================================================================

// ResetDatabase clears all data.
// POST /api/reset
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

func profileFromDTO(dto CompanyDTO) *credit.CompanyProfile {
	p := &credit.CompanyProfile{
		RegistrationNo: dto.RegNo,
		Name:           dto.Name,
		Province:       dto.Province,
		District:       dto.District,
		IndustryCode:   dto.IndustryCode,
		Excluded:       dto.Excluded,
	}
	if dto.EstablishedAt != "" {
		if t, err := time.Parse("2006-01-02", dto.EstablishedAt); err == nil {
			p.EstablishedAt = credit.NewTimePoint(t.Year(), t.Month(), t.Day())
		}
	}
	return p
}

func profileFromRecord(rec sqlite.CompanyRecord) *credit.CompanyProfile {
	p := &credit.CompanyProfile{
		RegistrationNo: rec.RegNo,
		Name:           rec.Name,
		Province:       rec.Province,
		District:       rec.District,
		IndustryCode:   rec.IndustryCode,
		Excluded:       rec.Excluded,
	}
	if !rec.EstablishedAt.IsZero() {
		t := rec.EstablishedAt
		p.EstablishedAt = credit.NewTimePoint(t.Year(), t.Month(), t.Day())
	}
	return p
}

func headcountKeys(raw map[int]int) map[string]int {
	out := make(map[string]int, len(raw))
	for year, count := range raw {
		out[itoaYear(year)] = count
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
