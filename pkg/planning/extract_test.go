package planning

import (
	"reflect"
	"testing"
)

func TestResolveChoice(t *testing.T) {
	options := []Option{
		{Label: "구독", Value: "subscription", Description: "월 정기 결제"},
		{Label: "광고", Value: "ads"},
		{Label: "기타", Value: "other", Description: "직접 입력하겠습니다"},
	}
	tests := []struct {
		answer string
		want   string
	}{
		{"1", "구독 - 월 정기 결제"},
		{"2", "광고"},
		{" 3 ", "기타 - 직접 입력하겠습니다"},
		{"4", "4"},
		{"0", "0"},
		{"구독이 좋아요", "구독이 좋아요"},
	}
	for _, tt := range tests {
		if got := ResolveChoice(tt.answer, options); got != tt.want {
			t.Errorf("ResolveChoice(%q) = %q, want %q", tt.answer, got, tt.want)
		}
	}

	if got := ResolveChoice("1", nil); got != "1" {
		t.Errorf("ResolveChoice without options = %q, want pass-through", got)
	}
}

func TestExtractAnswer(t *testing.T) {
	tests := []struct {
		name     string
		section  string
		question string
		answer   string
		want     map[string]interface{}
	}{
		{
			name:     "product name keyword",
			section:  "제품 개요",
			question: "제품명은 무엇인가요?",
			answer:   "밥친구",
			want:     map[string]interface{}{"productName": "밥친구"},
		},
		{
			name:     "section default",
			section:  "제품 개요",
			question: "이 제품을 어떻게 소개하시겠어요?",
			answer:   "동네 밥 친구 매칭",
			want:     map[string]interface{}{"productOneLine": "동네 밥 친구 매칭"},
		},
		{
			name:     "list split on commas",
			section:  "타겟 사용자",
			question: "누구를 위한 제품인가요?",
			answer:   "1인 가구, 직장인, 대학생",
			want:     map[string]interface{}{"targetUsers": []interface{}{"1인 가구", "직장인", "대학생"}},
		},
		{
			name:     "key value lines",
			section:  "성공 지표 (KPI)",
			question: "각 지표의 목표 수치를 알려주세요",
			answer:   "DAU: 1000\n전환율: 12%",
			want: map[string]interface{}{"metricTargets": map[string]interface{}{
				"DAU": "1000", "전환율": "12%",
			}},
		},
		{
			name:     "section alias",
			section:  "기존 솔루션 분석",
			question: "기존 방법의 한계는 무엇인가요?",
			answer:   "느리다, 비싸다",
			want:     map[string]interface{}{"solutionLimitations": []interface{}{"느리다", "비싸다"}},
		},
		{
			name:     "pricing keyword beats section default",
			section:  "비즈니스 모델",
			question: "가격은 어떻게 책정하실 건가요?",
			answer:   "월 15,000원",
			want:     map[string]interface{}{"pricing": "월 15,000원"},
		},
		{
			name:     "unknown section snake cases",
			section:  "새로운 섹션",
			question: "아무 질문",
			answer:   "아무 답변",
			want:     map[string]interface{}{"새로운_섹션": "아무 답변"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractAnswer(tt.section, tt.question, tt.answer, nil)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractAnswer = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestExtractAnswerResolvesOrdinals(t *testing.T) {
	options := []Option{{Label: "구독", Value: "subscription", Description: "월 정기 결제"}}
	got := ExtractAnswer("비즈니스 모델", "수익 모델을 선택해주세요", "1", options)
	want := map[string]interface{}{"businessModel": "구독 - 월 정기 결제"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractAnswer = %#v, want %#v", got, want)
	}
}

func TestEnsureOtherOption(t *testing.T) {
	base := []Option{{Label: "구독", Value: "subscription"}}
	got := EnsureOtherOption(base)
	if len(got) != 2 || got[1].Value != "other" {
		t.Errorf("escape option missing: %#v", got)
	}

	already := []Option{{Label: "기타", Value: "other"}}
	if got := EnsureOtherOption(already); len(got) != 1 {
		t.Errorf("escape option duplicated: %#v", got)
	}
}
