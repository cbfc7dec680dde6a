/*
Package scoring provides the heuristic growth/risk assessment that rides
alongside the credit engine.

PURPOSE:
  Produces a quick, rule-based read on a company: growth potential,
  a composite 0-100 score, a risk band, a filing priority, and a rough
  estimated-credit ceiling. It shares the company profile with the credit
  engine but never feeds back into it — the credit ledger is correct with
  or without this module.

SCORING MODEL:
  Weighted additive rules over business age, industry band (advanced
  manufacturing > tech services > general), location, record-duplication
  noise, and the external exclusion marker. All thresholds live in this
  file; they are tuning constants, not statute.
*/
package scoring

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/warp/taxcredit-engine/credit"
)

// =============================================================================
// INPUT
// =============================================================================

// CompanyFacts is everything the heuristics look at. IndustryName is the
// free-text industry label (distinct from the numeric code the credit
// engine classifies on); DuplicateCount is how many duplicate registry
// rows the company resolved from.
type CompanyFacts struct {
	Profile        credit.CompanyProfile
	IndustryName   string
	DuplicateCount int
	Now            credit.TimePoint // zero value means today
}

func (f CompanyFacts) businessAge() int {
	if f.Profile.EstablishedAt.IsZero() {
		return 0
	}
	now := f.Now
	if now.IsZero() {
		now = credit.Today()
	}
	age := now.Year() - f.Profile.EstablishedAt.Year()
	if age < 0 {
		return 0
	}
	return age
}

// =============================================================================
// INDUSTRY BANDS
// =============================================================================

type IndustryBand string

const (
	BandAdvancedTech IndustryBand = "advanced_tech" // electronics/IT manufacturing
	BandTechService  IndustryBand = "tech_service"  // IT/software services
	BandGeneral      IndustryBand = "general"
)

// Band classifies the free-text industry name. Matching is substring
// based, same as the registry data it was tuned against.
func Band(industryName string) IndustryBand {
	manufacturing := strings.Contains(industryName, "제조")
	service := strings.Contains(industryName, "서비스")
	tech := strings.Contains(industryName, "전자") ||
		strings.Contains(industryName, "IT") ||
		strings.Contains(industryName, "반도체")
	software := strings.Contains(industryName, "IT") || strings.Contains(industryName, "소프트웨어")

	switch {
	case manufacturing && tech:
		return BandAdvancedTech
	case service && software:
		return BandTechService
	default:
		return BandGeneral
	}
}

// =============================================================================
// GRADES
// =============================================================================

type GrowthPotential string

const (
	GrowthVeryHigh   GrowthPotential = "very_high"
	GrowthHigh       GrowthPotential = "high"
	GrowthModerate   GrowthPotential = "moderate"
	GrowthDeveloping GrowthPotential = "developing"
	GrowthCaution    GrowthPotential = "caution"
)

type RiskLevel string

const (
	RiskVeryLow RiskLevel = "very_low"
	RiskLow     RiskLevel = "low"
	RiskMedium  RiskLevel = "medium"
	RiskHigh    RiskLevel = "high"
)

type Priority string

const (
	PriorityA Priority = "A" // top of the filing queue
	PriorityB Priority = "B"
	PriorityC Priority = "C"
	PriorityD Priority = "D" // needs review first
)

// =============================================================================
// SCORING
// =============================================================================

// Potential bands the growth outlook.
func Potential(f CompanyFacts) GrowthPotential {
	score := 50

	switch age := f.businessAge(); {
	case age >= 15:
		score += 25
	case age >= 10:
		score += 20
	case age >= 5:
		score += 15
	case age >= 3:
		score += 10
	}

	switch Band(f.IndustryName) {
	case BandAdvancedTech:
		score += 30
	case BandTechService:
		score += 25
	default:
		score += 10
	}

	switch {
	case containsAny(f.Profile.Province, "서울특별시", "경기도"):
		score += 15
	case containsAny(f.Profile.Province, "인천광역시", "부산광역시", "대구광역시"):
		score += 10
	default:
		score += 5
	}

	if f.Profile.Excluded {
		score -= 40
	}

	switch {
	case score >= 90:
		return GrowthVeryHigh
	case score >= 75:
		return GrowthHigh
	case score >= 60:
		return GrowthModerate
	case score >= 40:
		return GrowthDeveloping
	default:
		return GrowthCaution
	}
}

// Score is the composite 0-100 rating.
func Score(f CompanyFacts) int {
	score := 60.0

	age := float64(f.businessAge()) * 2.5
	if age > 25 {
		age = 25
	}
	score += age

	switch Band(f.IndustryName) {
	case BandAdvancedTech:
		score += 25
	case BandTechService:
		score += 20
	default:
		score += 10
	}

	// Duplicate registry rows dent data confidence.
	if f.DuplicateCount > 3 {
		score -= 15
	} else if f.DuplicateCount > 1 {
		score -= 5
	}

	if f.Profile.Excluded {
		score -= 30
	}

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return int(score)
}

// Risk bands the downside.
func Risk(f CompanyFacts) RiskLevel {
	risk := 0

	if f.businessAge() < 3 {
		risk += 30
	}
	if f.DuplicateCount > 2 {
		risk += 20
	}
	if f.Profile.Excluded {
		risk += 50
	}
	if Band(f.IndustryName) == BandGeneral && !strings.Contains(f.IndustryName, "서비스") {
		risk += 10
	}

	switch {
	case risk >= 70:
		return RiskHigh
	case risk >= 40:
		return RiskMedium
	case risk >= 20:
		return RiskLow
	default:
		return RiskVeryLow
	}
}

// Prioritize combines score and risk into a filing priority.
func Prioritize(f CompanyFacts) Priority {
	score := Score(f)
	risk := Risk(f)

	switch {
	case score >= 80 && risk == RiskVeryLow:
		return PriorityA
	case score >= 70 && risk == RiskLow:
		return PriorityB
	case score >= 60:
		return PriorityC
	default:
		return PriorityD
	}
}

// EstimatedCredit is a ceiling-capped rough prediction in won. It is a
// marketing number, not the ledger — the credit engine computes the real
// amounts.
func EstimatedCredit(f CompanyFacts) decimal.Decimal {
	base := decimal.NewFromInt(3_000_000)

	switch Band(f.IndustryName) {
	case BandAdvancedTech:
		base = base.Mul(decimal.NewFromInt(3))
	case BandTechService:
		base = base.Mul(decimal.NewFromFloat(2.2))
	default:
		base = base.Mul(decimal.NewFromFloat(1.3))
	}

	switch age := f.businessAge(); {
	case age >= 10:
		base = base.Mul(decimal.NewFromFloat(1.5))
	case age >= 5:
		base = base.Mul(decimal.NewFromFloat(1.3))
	}

	if f.Profile.Excluded {
		base = base.Mul(decimal.NewFromFloat(0.1))
	}

	cap := decimal.NewFromInt(50_000_000)
	if base.GreaterThan(cap) {
		return cap
	}
	return base.Round(0)
}

// =============================================================================
// ASSESSMENT
// =============================================================================

// Assessment is the full heuristic read on one company.
type Assessment struct {
	Band            IndustryBand
	BusinessAge     int
	Potential       GrowthPotential
	Score           int
	Risk            RiskLevel
	Priority        Priority
	Eligible        bool
	EstimatedCredit decimal.Decimal
	Recommendations []string
}

// Assess runs every heuristic once.
func Assess(f CompanyFacts) Assessment {
	return Assessment{
		Band:            Band(f.IndustryName),
		BusinessAge:     f.businessAge(),
		Potential:       Potential(f),
		Score:           Score(f),
		Risk:            Risk(f),
		Priority:        Prioritize(f),
		Eligible:        f.businessAge() >= 3 && !f.Profile.Excluded,
		EstimatedCredit: EstimatedCredit(f),
		Recommendations: Recommend(f),
	}
}

// Recommend produces advisory strings. An excluded company gets exactly
// one: see a tax professional.
func Recommend(f CompanyFacts) []string {
	if f.Profile.Excluded {
		return []string{"세액공제 제외 대상입니다. 세무사 상담이 필요합니다."}
	}

	var recs []string
	if f.businessAge() < 3 {
		recs = append(recs, "설립 3년 후 세액공제 신청이 가능합니다.")
	}

	switch Band(f.IndustryName) {
	case BandAdvancedTech:
		recs = append(recs, "첨단기술 기업으로 최대 세액공제 혜택 대상입니다.")
	case BandTechService:
		recs = append(recs, "기술서비스업으로 디지털 전환 투자 시 추가 혜택 대상입니다.")
	default:
		recs = append(recs, "기술 혁신형 사업 전환을 고려해보세요.")
	}

	if f.DuplicateCount > 1 {
		recs = append(recs, fmt.Sprintf("데이터 중복(%d건)이 있어 정리가 필요합니다.", f.DuplicateCount))
	}
	if containsAny(f.Profile.Province, "서울특별시", "경기도") {
		recs = append(recs, "수도권 소재로 다양한 정부 지원 프로그램 활용이 가능합니다.")
	}
	return recs
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
