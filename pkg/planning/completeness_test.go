package planning

import "testing"

func testTemplate() Template {
	return Template{
		Level:        "test",
		MinQuestions: 2,
		MaxQuestions: 4,
		Sections: []Section{
			{Name: "제품 개요", Fields: []Field{
				{Key: "productName", Hint: "제품 이름", Priority: PriorityHigh},
				{Key: "oneLiner", Hint: "한 줄 소개", Priority: PriorityHigh},
			}},
			{Name: "핵심 기능", Fields: []Field{
				{Key: "coreFeatures", Hint: "핵심 기능 목록", Priority: PriorityHigh},
				{Key: "niceToHave", Hint: "부가 기능", Priority: PriorityLow},
			}},
		},
	}
}

func TestCheckCompleteness(t *testing.T) {
	tpl := testTemplate()

	data := map[string]interface{}{
		"productName":  "밥친구",
		"oneLiner":     "",
		"coreFeatures": []interface{}{"매칭", "채팅"},
	}
	report := CheckCompleteness(data, tpl)

	if got := report.Sections[0].Score; got != 50 {
		t.Errorf("제품 개요 score = %d, want 50", got)
	}
	if got := report.Sections[1].Score; got != 50 {
		t.Errorf("핵심 기능 score = %d, want 50", got)
	}
	if report.OverallScore != 50 {
		t.Errorf("overall = %d, want 50", report.OverallScore)
	}

	// 기타 low-priority gaps stay out of the critical list.
	if len(report.CriticalGaps) != 1 || report.CriticalGaps[0] != "제품 개요 - 한 줄 소개" {
		t.Errorf("critical gaps = %v", report.CriticalGaps)
	}
}

func TestCheckCompletenessEmptyData(t *testing.T) {
	report := CheckCompleteness(nil, testTemplate())
	if report.OverallScore != 0 {
		t.Errorf("empty data overall = %d, want 0", report.OverallScore)
	}
	if len(report.CriticalGaps) != 3 {
		t.Errorf("expected 3 critical gaps, got %v", report.CriticalGaps)
	}
}

func TestFieldFilled(t *testing.T) {
	data := map[string]interface{}{
		"empty":     "",
		"text":      "ok",
		"emptyList": []interface{}{},
		"list":      []string{"a"},
		"emptyMap":  map[string]interface{}{},
		"num":       3,
		"null":      nil,
	}
	tests := []struct {
		key  string
		want bool
	}{
		{"empty", false},
		{"text", true},
		{"emptyList", false},
		{"list", true},
		{"emptyMap", false},
		{"num", true},
		{"null", false},
		{"missing", false},
	}
	for _, tt := range tests {
		if got := fieldFilled(data, tt.key); got != tt.want {
			t.Errorf("fieldFilled(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestIsCompleteEnough(t *testing.T) {
	full := Report{OverallScore: 95}
	withGaps := Report{OverallScore: 95, CriticalGaps: []string{"gap"}}

	tests := []struct {
		name          string
		report        Report
		count, budget int
		want          bool
	}{
		{"budget exhausted", Report{OverallScore: 10}, 30, 30, true},
		{"score over ninety", withGaps, 5, 30, true},
		{"late and good enough", Report{OverallScore: 72, CriticalGaps: []string{"gap"}}, 25, 30, true},
		{"no gaps and solid", Report{OverallScore: 82}, 10, 30, true},
		{"early with gaps", Report{OverallScore: 60, CriticalGaps: []string{"gap"}}, 5, 30, false},
		{"late but weak", Report{OverallScore: 60, CriticalGaps: []string{"gap"}}, 25, 30, false},
		{"no gaps but thin", Report{OverallScore: 70}, 5, 30, false},
		{"full report early", full, 1, 30, true},
	}
	for _, tt := range tests {
		if got := IsCompleteEnough(tt.report, tt.count, tt.budget); got != tt.want {
			t.Errorf("%s: IsCompleteEnough = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestNextSection(t *testing.T) {
	tpl := testTemplate()
	data := map[string]interface{}{
		"productName": "밥친구",
		"oneLiner":    "동네 밥 친구 매칭",
	}
	report := CheckCompleteness(data, tpl)
	if name := NextSection(report); name != "핵심 기능" {
		t.Errorf("NextSection = %q, want 핵심 기능", name)
	}

	done := CheckCompleteness(map[string]interface{}{
		"productName": "a", "oneLiner": "b", "coreFeatures": "c", "niceToHave": "d",
	}, tpl)
	if name := NextSection(done); name != "" {
		t.Errorf("NextSection on a full template = %q, want empty", name)
	}
}

func TestMissingHighPriorityFields(t *testing.T) {
	missing := MissingHighPriorityFields(map[string]interface{}{"productName": "x"}, testTemplate())
	if len(missing) != 2 {
		t.Fatalf("expected 2 missing high priority fields, got %d", len(missing))
	}
	if missing[0].Field != "oneLiner" || missing[0].Section != "제품 개요" {
		t.Errorf("unexpected first gap: %+v", missing[0])
	}
}
