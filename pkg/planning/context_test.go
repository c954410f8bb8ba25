package planning

import "testing"

func TestInferMindset(t *testing.T) {
	tests := []struct {
		name string
		data map[string]interface{}
		want Mindset
	}{
		{
			name: "no signals",
			data: map[string]interface{}{},
			want: MindsetBalanced,
		},
		{
			name: "free pricing points at growth",
			data: map[string]interface{}{
				"pricing":        "무료로 시작, 저가 구독",
				"successMetrics": []interface{}{"사용자 수 증가"},
			},
			want: MindsetGrowth,
		},
		{
			name: "revenue metrics point at profit",
			data: map[string]interface{}{
				"businessModel":  "프리미엄 구독",
				"successMetrics": []interface{}{"매출 1억", "수익률"},
			},
			want: MindsetProfit,
		},
		{
			name: "quality values",
			data: map[string]interface{}{
				"coreValue":          []interface{}{"정확한 추천", "품질 좋은 매칭"},
				"conversionStrategy": "가치 있는 경험 제공",
			},
			want: MindsetQuality,
		},
		{
			name: "tie falls back to balanced",
			data: map[string]interface{}{
				"coreValue": []interface{}{"빠른 매칭", "정확한 추천"},
			},
			want: MindsetBalanced,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InferMindset(tt.data); got != tt.want {
				t.Errorf("InferMindset = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAnalyzeContext(t *testing.T) {
	data := map[string]interface{}{
		"productName":    "밥친구",
		"productOneLine": "동네 밥 친구 매칭 서비스",
		"coreProblem":    "혼밥이 외롭다",
		"targetUsers":    []interface{}{"1인 가구", "직장인"},
		"coreValue":      []interface{}{"빠른 매칭"},
	}
	prev := map[string]interface{}{"originalIdea": "밥 같이 먹을 사람 찾는 앱"}

	ctx := AnalyzeContext(data, prev)

	if ctx["originalIdea"] != "밥 같이 먹을 사람 찾는 앱" {
		t.Error("originalIdea from onboarding must survive analysis")
	}
	if ctx["product"] != "밥친구: 동네 밥 친구 매칭 서비스" {
		t.Errorf("product = %v", ctx["product"])
	}
	if ctx["problem"] != "혼밥이 외롭다" {
		t.Errorf("problem = %v", ctx["problem"])
	}
	if ctx["target"] != "1인 가구, 직장인" {
		t.Errorf("target = %v", ctx["target"])
	}
	if ctx["userMindset"] != string(MindsetGrowth) {
		t.Errorf("userMindset = %v", ctx["userMindset"])
	}
}

func TestAnalyzeContextEmptyData(t *testing.T) {
	ctx := AnalyzeContext(nil, nil)
	if _, ok := ctx["product"]; ok {
		t.Error("no product expected for empty data")
	}
	if ctx["userMindset"] != string(MindsetBalanced) {
		t.Errorf("userMindset = %v, want balanced", ctx["userMindset"])
	}
}
