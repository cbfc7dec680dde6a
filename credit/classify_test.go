package credit_test

import (
	"testing"

	"github.com/warp/taxcredit-engine/credit"
)

func TestRegionClassifier_CapitalRegions(t *testing.T) {
	c := credit.NewRegionClassifier()

	cases := []struct {
		division string
		want     credit.Zone
	}{
		{"서울특별시", credit.ZoneCapital},
		{"경기도", credit.ZoneCapital},
		{"인천광역시", credit.ZoneCapital},
		{"서울특별시 강남구", credit.ZoneCapital}, // substring match
		{"부산광역시", credit.ZoneOther},
		{"제주특별자치도", credit.ZoneOther},
		{"", credit.ZoneOther},
	}

	for _, tc := range cases {
		if got := c.Classify(tc.division); got != tc.want {
			t.Errorf("Classify(%q) = %v, want %v", tc.division, got, tc.want)
		}
	}
}

func TestRegionClassifier_CustomTable(t *testing.T) {
	c := credit.NewRegionClassifier("세종특별자치시")

	if got := c.Classify("세종특별자치시"); got != credit.ZoneCapital {
		t.Errorf("custom table should classify 세종 as capital, got %v", got)
	}
	if got := c.Classify("서울특별시"); got != credit.ZoneOther {
		t.Errorf("custom table should not know 서울, got %v", got)
	}
}

func TestIndustryClassifier_GrowthServicePrefixes(t *testing.T) {
	c := credit.NewIndustryClassifier()

	cases := []struct {
		code string
		want credit.Category
	}{
		{"6201", credit.CategoryGrowthService},
		{"63112", credit.CategoryGrowthService},
		{"72", credit.CategoryGrowthService},
		{"1010", credit.CategoryGeneral},
		{"47911", credit.CategoryGeneral},
		{"6", credit.CategoryGeneral}, // too short
		{"", credit.CategoryGeneral},
	}

	for _, tc := range cases {
		if got := c.Classify(tc.code); got != tc.want {
			t.Errorf("Classify(%q) = %v, want %v", tc.code, got, tc.want)
		}
	}
}
