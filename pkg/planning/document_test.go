package planning

import (
	"strings"
	"testing"
	"time"
)

func TestExtractPricing(t *testing.T) {
	tests := []struct {
		pricing string
		want    int
	}{
		{"월 14,900원", 14900},
		{"9900원/월 구독", 9900},
		{"무료", 15000},
		{"", 15000},
	}
	for _, tt := range tests {
		if got := ExtractPricing(tt.pricing); got != tt.want {
			t.Errorf("ExtractPricing(%q) = %d, want %d", tt.pricing, got, tt.want)
		}
	}
}

func TestExtractConversionRate(t *testing.T) {
	tests := []struct {
		name string
		data map[string]interface{}
		want int
	}{
		{"no targets", nil, 12},
		{
			"korean key",
			map[string]interface{}{"metricTargets": map[string]interface{}{"유료 전환율": "8%"}},
			8,
		},
		{
			"english key",
			map[string]interface{}{"metricTargets": map[string]interface{}{"Conversion Rate": "15 percent"}},
			15,
		},
		{
			"unrelated keys",
			map[string]interface{}{"metricTargets": map[string]interface{}{"DAU": "1000"}},
			12,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractConversionRate(tt.data); got != tt.want {
				t.Errorf("ExtractConversionRate = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestEmptyTemplateMarkdown(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	doc := EmptyTemplateMarkdown(TemplateByLevel(LevelSimple), now)

	for _, want := range []string{
		"# 프로젝트 요구사항 (PRD)",
		"**템플릿 레벨**: 빠르게",
		"**작성 진행도**: 0%",
		"**작성일**: 2026-08-31",
		"_작성 중..._",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("scaffold missing %q", want)
		}
	}
}

func TestProgressivePRD(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	data := map[string]interface{}{
		"productName":    "밥친구",
		"productOneLine": "동네 밥 친구 매칭 서비스",
		"coreProblem":    "혼밥이 외롭다",
		"targetUsers":    []interface{}{"1인 가구", "직장인"},
		"coreFunctions":  []interface{}{"위치 기반 매칭", "채팅"},
	}
	doc := ProgressivePRD(data, 42, now)

	for _, want := range []string{
		"**작성 진행도**: 42%",
		"동네 밥 친구 매칭 서비스",
		"혼밥이 외롭다",
		"1인 가구",
		"위치 기반 매칭",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("draft missing %q", want)
		}
	}

	// Sections without data stay out of the draft.
	if strings.Contains(doc, "비즈니스 모델") {
		t.Error("empty section rendered")
	}
}
