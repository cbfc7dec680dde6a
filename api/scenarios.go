/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the registry with realistic
	company data. Each scenario seeds companies whose headcount histories
	demonstrate a specific path through the credit engine.

AVAILABLE SCENARIOS:

	steady-growth:    Yearly headcount increases, all cohorts in good standing
	recapture:        A sharp decrease that forfeits recent cohorts
	unified-program:  Post-cutover cohorts priced under the flat rate table
	mixed-registry:   A small registry with duplicates and an excluded company

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Seed the scenario's companies with their headcount series

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "recapture"}

NOTE:

	Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: Handler wiring
  - server.go: Route registration
*/
package api

import (
	"context"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"github.com/warp/taxcredit-engine/store/sqlite"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "steady-growth",
		Name:        "Steady Growth",
		Description: "Yearly headcount increases with every cohort still claimable",
	},
	{
		ID:          "recapture",
		Name:        "Recapture",
		Description: "A 2024 headcount collapse forfeiting the 2022-2023 cohorts",
	},
	{
		ID:          "unified-program",
		Name:        "Unified Program",
		Description: "Post-2025 cohorts priced under the flat unified rate table",
	},
	{
		ID:          "mixed-registry",
		Name:        "Mixed Registry",
		Description: "Duplicate filings plus an excluded company, for search and scoring demos",
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	if h.currentScenario == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	for _, s := range scenarios {
		if s.ID == h.currentScenario {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, ScenarioDTO{ID: h.currentScenario, Name: h.currentScenario})
}

// LoadScenario resets the database and seeds one scenario.
// POST /api/scenarios/load
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	loaders := map[string]func(context.Context, *Handler) error{
		"steady-growth":   loadSteadyGrowthScenario,
		"recapture":       loadRecaptureScenario,
		"unified-program": loadUnifiedProgramScenario,
		"mixed-registry":  loadMixedRegistryScenario,
	}
	loader, ok := loaders[req.ScenarioID]
	if !ok {
		writeError(w, http.StatusBadRequest, "Unknown scenario "+req.ScenarioID, nil)
		return
	}

	ctx := r.Context()
	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	if err := loader(ctx, h); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
		return
	}

	h.currentScenario = req.ScenarioID
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "scenario": req.ScenarioID})
}

// =============================================================================
// LOADERS
// =============================================================================

func seed(ctx context.Context, h *Handler, rec sqlite.CompanyRecord) error {
	_, err := h.Store.SaveCompany(ctx, rec)
	return err
}

func established(year int) time.Time {
	return time.Date(year, time.March, 2, 0, 0, 0, 0, time.UTC)
}

func loadSteadyGrowthScenario(ctx context.Context, h *Handler) error {
	return seed(ctx, h, sqlite.CompanyRecord{
		RegNo:         "1048112233",
		Name:          "한빛소프트웨어",
		Province:      "경기도",
		District:      "성남시",
		IndustryCode:  "62010",
		IndustryName:  "소프트웨어 개발 서비스업",
		EstablishedAt: established(2015),
		Headcounts: map[int]int{
			2020: 12, 2021: 15, 2022: 19, 2023: 24, 2024: 27,
		},
	})
}

func loadRecaptureScenario(ctx context.Context, h *Handler) error {
	// The shape from the recapture walk-through: growth through 2023,
	// then a collapse that forfeits the in-window cohorts.
	return seed(ctx, h, sqlite.CompanyRecord{
		RegNo:         "2068445566",
		Name:          "동서물류",
		Province:      "부산광역시",
		District:      "사하구",
		IndustryCode:  "52901",
		IndustryName:  "화물 운송 중개업",
		EstablishedAt: established(2012),
		Headcounts: map[int]int{
			2021: 14, 2022: 15, 2023: 18, 2024: 8,
		},
	})
}

func loadUnifiedProgramScenario(ctx context.Context, h *Handler) error {
	return seed(ctx, h, sqlite.CompanyRecord{
		RegNo:         "3128778899",
		Name:          "미래반도체",
		Province:      "충청북도",
		District:      "청주시",
		IndustryCode:  "26110",
		IndustryName:  "전자집적회로 제조업",
		EstablishedAt: established(2019),
		Headcounts: map[int]int{
			2023: 30, 2024: 34, 2025: 41,
		},
	})
}

func loadMixedRegistryScenario(ctx context.Context, h *Handler) error {
	records := []sqlite.CompanyRecord{
		{
			RegNo:         "1048112233",
			Name:          "한빛소프트웨어",
			Province:      "경기도",
			District:      "성남시",
			IndustryCode:  "62010",
			IndustryName:  "소프트웨어 개발 서비스업",
			EstablishedAt: established(2015),
			Headcounts:    map[int]int{2023: 24, 2024: 27},
		},
		{
			// Duplicate filing under the same registration number.
			RegNo:         "1048112233",
			Name:          "한빛소프트웨어 판교지점",
			Province:      "경기도",
			District:      "성남시",
			IndustryCode:  "62010",
			IndustryName:  "소프트웨어 개발 서비스업",
			EstablishedAt: established(2018),
		},
		{
			RegNo:         "4208990011",
			Name:          "대한주류유통",
			Province:      "서울특별시",
			District:      "강서구",
			IndustryCode:  "46333",
			IndustryName:  "주류 도매업",
			EstablishedAt: established(2010),
			Excluded:      true,
			Headcounts:    map[int]int{2023: 9, 2024: 11},
		},
	}
	for _, rec := range records {
		if err := seed(ctx, h, rec); err != nil {
			return err
		}
	}
	return nil
}
