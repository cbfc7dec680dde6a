/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY:
  Credit amounts travel as plain JSON numbers in won. The engine computes
  on decimals and only converts at this boundary.

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.
*/
package api

import (
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/warp/taxcredit-engine/credit"
	"github.com/warp/taxcredit-engine/scoring"
	"github.com/warp/taxcredit-engine/store/sqlite"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// AnalyzeRequest drives one credit analysis. Either RegNo (resolved
// against the registry) or an inline Profile must be present; inline
// fields win when both are set.
type AnalyzeRequest struct {
	RegNo      string                   `json:"reg_no,omitempty"`
	Profile    *CompanyDTO              `json:"profile,omitempty"`
	Headcounts map[string]int           `json:"headcounts,omitempty"`
	Adjustments map[string]AdjustmentDTO `json:"adjustments,omitempty"`
	Mode       string                   `json:"mode,omitempty"`  // "", "generation_a", "generation_b"
	AsOf       string                   `json:"as_of,omitempty"` // ISO date; empty = today
}

// AdjustmentDTO is a caller-supplied what-if split for one cohort year.
type AdjustmentDTO struct {
	YouthCount          int `json:"youth_count"`
	SocialInsuranceBase int `json:"social_insurance_base,omitempty"`
}

// CompanyDTO represents a company in API traffic.
type CompanyDTO struct {
	ID            string         `json:"id,omitempty"`
	RegNo         string         `json:"reg_no"`
	Name          string         `json:"name"`
	Province      string         `json:"province,omitempty"`
	District      string         `json:"district,omitempty"`
	IndustryCode  string         `json:"industry_code,omitempty"`
	IndustryName  string         `json:"industry_name,omitempty"`
	EstablishedAt string         `json:"established_at,omitempty"`
	Excluded      bool           `json:"excluded,omitempty"`
	Headcounts    map[string]int `json:"headcounts,omitempty"`
}

// AnalysisDTO is the full analysis response.
type AnalysisDTO struct {
	Company  CompanyDTO    `json:"company"`
	Zone     string        `json:"zone"`
	Category string        `json:"category"`
	PerYear  []YearDTO     `json:"per_year"`
	Summary  SummaryDTO    `json:"summary"`
}

// YearDTO is one row of the per-year ledger.
type YearDTO struct {
	Year                  int            `json:"year"`
	ChangeType            string         `json:"change_type"`
	Status                string         `json:"status"`
	IncreaseCount         int            `json:"increase_count"`
	AdjustedYouthCount    int            `json:"adjusted_youth_count"`
	OthersCount           int            `json:"others_count"`
	EmploymentCredit      float64        `json:"employment_credit"`
	SocialInsuranceCredit float64        `json:"social_insurance_credit"`
	TotalCredit           float64        `json:"total_credit"`
	RecaptureAmount       float64        `json:"recapture_amount"`
	Generation            string         `json:"generation"`
	AmendmentDeadline     string         `json:"amendment_deadline,omitempty"`
	Deadlines             []DeadlineDTO  `json:"deadlines,omitempty"`
	MonitoringEndDate     string         `json:"monitoring_end_date,omitempty"`
	Violation             *ViolationDTO  `json:"violation,omitempty"`
	Recapture             *RecaptureDTO  `json:"recapture,omitempty"`
}

// DeadlineDTO is one amendment-deadline tier.
type DeadlineDTO struct {
	Offset        int    `json:"offset"`
	Date          string `json:"date"`
	Available     bool   `json:"available"`
	RemainingDays int    `json:"remaining_days"`
}

// ViolationDTO describes a monitoring-window breach.
type ViolationDTO struct {
	Year      int `json:"year"`
	Baseline  int `json:"baseline"`
	Observed  int `json:"observed"`
	Shortfall int `json:"shortfall"`
}

// RecaptureDTO describes a decrease event and the cohorts it forfeits.
type RecaptureDTO struct {
	DecreaseYear   int     `json:"decrease_year"`
	DecreaseCount  int     `json:"decrease_count"`
	ForfeitedYears []int   `json:"forfeited_years"`
	Amount         float64 `json:"amount"`
}

// SummaryDTO buckets credit amounts by status.
type SummaryDTO struct {
	ByStatus   map[string]float64 `json:"by_status"`
	GrandTotal float64            `json:"grand_total"`
}

// SearchResponse is one page of registry matches.
type SearchResponse struct {
	Companies []CompanyDTO `json:"companies"`
	Total     int          `json:"total"`
	Page      int          `json:"page"`
	PageSize  int          `json:"page_size"`
	HasNext   bool         `json:"has_next"`
	HasPrev   bool         `json:"has_prev"`
}

// AggregatesDTO summarizes registry-wide headcounts for one year.
type AggregatesDTO struct {
	Year         int     `json:"year"`
	Companies    int     `json:"companies"`
	MaxHeadcount int     `json:"max_headcount"`
	MinHeadcount int     `json:"min_headcount"`
	AvgHeadcount float64 `json:"avg_headcount"`
}

// AssessmentDTO is the heuristic growth/risk read on a company.
type AssessmentDTO struct {
	Band            string   `json:"band"`
	BusinessAge     int      `json:"business_age"`
	Potential       string   `json:"potential"`
	Score           int      `json:"score"`
	Risk            string   `json:"risk"`
	Priority        string   `json:"priority"`
	Eligible        bool     `json:"eligible"`
	EstimatedCredit float64  `json:"estimated_credit"`
	Recommendations []string `json:"recommendations"`
}

// PensionRequest asks for a workplace subscriber lookup.
type PensionRequest struct {
	RegNo string `json:"biz_no"`
	Name  string `json:"wkpl_nm,omitempty"`
}

// PensionDTO is the resolved subscriber snapshot.
type PensionDTO struct {
	WorkplaceName   string `json:"workplace_name"`
	MaskedRegNo     string `json:"masked_reg_no"`
	Seq             string `json:"seq"`
	RoadAddress     string `json:"road_address,omitempty"`
	SubscriberCount int    `json:"subscriber_count"`
	ReferenceMonth  string `json:"reference_month"`
}

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// LoadScenarioRequest selects a scenario to seed.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func won(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

func toCompanyDTO(rec sqlite.CompanyRecord) CompanyDTO {
	dto := CompanyDTO{
		ID:           rec.ID,
		RegNo:        rec.RegNo,
		Name:         rec.Name,
		Province:     rec.Province,
		District:     rec.District,
		IndustryCode: rec.IndustryCode,
		IndustryName: rec.IndustryName,
		Excluded:     rec.Excluded,
	}
	if !rec.EstablishedAt.IsZero() {
		dto.EstablishedAt = rec.EstablishedAt.Format("2006-01-02")
	}
	if len(rec.Headcounts) > 0 {
		dto.Headcounts = make(map[string]int, len(rec.Headcounts))
		for year, count := range rec.Headcounts {
			dto.Headcounts[itoaYear(year)] = count
		}
	}
	return dto
}

func toYearDTO(y credit.YearResult) YearDTO {
	dto := YearDTO{
		Year:                  y.Year,
		ChangeType:            string(y.ChangeType),
		Status:                string(y.Status),
		IncreaseCount:         y.IncreaseCount,
		AdjustedYouthCount:    y.AdjustedYouthCount,
		OthersCount:           y.OthersCount,
		EmploymentCredit:      won(y.EmploymentCredit),
		SocialInsuranceCredit: won(y.SocialInsuranceCredit),
		TotalCredit:           won(y.TotalCredit),
		RecaptureAmount:       won(y.RecaptureAmount),
		Generation:            string(y.Generation),
	}
	if !y.AmendmentDeadline.IsZero() {
		dto.AmendmentDeadline = y.AmendmentDeadline.String()
	}
	for _, d := range y.Deadlines {
		dto.Deadlines = append(dto.Deadlines, DeadlineDTO{
			Offset:        d.Offset,
			Date:          d.Date.String(),
			Available:     d.Available,
			RemainingDays: d.RemainingDays,
		})
	}
	if !y.MonitoringEnd.IsZero() {
		dto.MonitoringEndDate = y.MonitoringEnd.String()
	}
	if v := y.Violation; v != nil {
		dto.Violation = &ViolationDTO{
			Year: v.Year, Baseline: v.Baseline, Observed: v.Observed, Shortfall: v.Shortfall,
		}
	}
	if rc := y.Recapture; rc != nil {
		dto.Recapture = &RecaptureDTO{
			DecreaseYear:   rc.DecreaseYear,
			DecreaseCount:  rc.DecreaseCount,
			ForfeitedYears: rc.ForfeitedYears,
			Amount:         won(rc.Amount),
		}
	}
	return dto
}

func toSummaryDTO(s credit.Summary) SummaryDTO {
	dto := SummaryDTO{
		ByStatus:   make(map[string]float64, len(s.ByStatus)),
		GrandTotal: won(s.GrandTotal),
	}
	for status, amount := range s.ByStatus {
		dto.ByStatus[string(status)] = won(amount)
	}
	return dto
}

func toAssessmentDTO(a scoring.Assessment) AssessmentDTO {
	return AssessmentDTO{
		Band:            string(a.Band),
		BusinessAge:     a.BusinessAge,
		Potential:       string(a.Potential),
		Score:           a.Score,
		Risk:            string(a.Risk),
		Priority:        string(a.Priority),
		Eligible:        a.Eligible,
		EstimatedCredit: won(a.EstimatedCredit),
		Recommendations: a.Recommendations,
	}
}

func itoaYear(year int) string {
	return strconv.Itoa(year)
}
