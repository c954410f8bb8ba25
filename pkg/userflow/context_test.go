package userflow

import (
	"reflect"
	"strings"
	"testing"
)

func TestContextMerge(t *testing.T) {
	base := Context{
		TotalScreens: 5,
		ScreenList:   []Screen{{Name: "메인"}},
		LoginMethod:  "카카오 로그인",
	}
	merged := base.Merge(Context{
		ScreenList:  []Screen{{Name: "메인"}, {Name: "설정"}},
		HasFreemium: true,
		PricingInfo: "월 9,900원",
	})

	if merged.TotalScreens != 5 {
		t.Errorf("TotalScreens = %d, want kept value 5", merged.TotalScreens)
	}
	if len(merged.ScreenList) != 2 {
		t.Errorf("ScreenList = %v, want replacement", merged.ScreenList)
	}
	if merged.LoginMethod != "카카오 로그인" {
		t.Errorf("LoginMethod = %q, want kept value", merged.LoginMethod)
	}
	if !merged.HasFreemium || merged.PricingInfo != "월 9,900원" {
		t.Errorf("freemium info not merged: %+v", merged)
	}
	if base.HasFreemium {
		t.Error("Merge mutated the receiver")
	}
}

func TestParseScreenCount(t *testing.T) {
	if got := ParseScreenCount("화면은 7개 정도입니다"); got != 7 {
		t.Errorf("ParseScreenCount = %d, want 7", got)
	}
	if got := ParseScreenCount("잘 모르겠어요"); got != 0 {
		t.Errorf("ParseScreenCount without number = %d, want 0", got)
	}
}

func TestContextFromAnswer(t *testing.T) {
	tests := []struct {
		name     string
		info     ExtractedInfo
		question string
		answer   string
		check    func(t *testing.T, got Context)
	}{
		{
			name:     "screen count question",
			info:     ExtractedInfo{Screens: []string{"메인", "설정"}},
			question: "화면 개수는 몇 개인가요?",
			answer:   "6개 정도요",
			check: func(t *testing.T, got Context) {
				if got.TotalScreens != 6 {
					t.Errorf("TotalScreens = %d, want answer-derived 6", got.TotalScreens)
				}
				if got.ScreenList != nil {
					t.Errorf("ScreenList should stay empty for count questions, got %v", got.ScreenList)
				}
			},
		},
		{
			name:     "screen list question",
			info:     ExtractedInfo{Screens: []string{"메인 화면", "설정 화면"}},
			question: "어떤 화면들이 있나요?",
			answer:   "메인 화면이랑 설정 화면이요",
			check: func(t *testing.T, got Context) {
				want := []Screen{{Name: "메인 화면"}, {Name: "설정 화면"}}
				if !reflect.DeepEqual(got.ScreenList, want) {
					t.Errorf("ScreenList = %v, want %v", got.ScreenList, want)
				}
			},
		},
		{
			name:     "login question",
			question: "로그인은 어떤 방식인가요?",
			answer:   "카카오와 구글 소셜 로그인",
			check: func(t *testing.T, got Context) {
				if got.LoginMethod != "카카오와 구글 소셜 로그인" {
					t.Errorf("LoginMethod = %q", got.LoginMethod)
				}
			},
		},
		{
			name:     "main layout question",
			question: "메인 화면의 레이아웃은 어떻게 구성되나요?",
			answer:   "상단 탭과 카드 리스트",
			check: func(t *testing.T, got Context) {
				if got.MainScreenLayout != "상단 탭과 카드 리스트" {
					t.Errorf("MainScreenLayout = %q", got.MainScreenLayout)
				}
			},
		},
		{
			name:     "payment question flags freemium",
			question: "유료 결제는 어떤 화면에서 하나요?",
			answer:   "설정에서 구독 결제",
			check: func(t *testing.T, got Context) {
				if !got.HasFreemium || got.PricingInfo != "설정에서 구독 결제" {
					t.Errorf("freemium not detected: %+v", got)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, ContextFromAnswer(tt.info, tt.question, tt.answer))
		})
	}
}

func TestMentionedElements(t *testing.T) {
	elements := MentionedElements("추가 버튼을 누르면 입력 모달이 뜨고 통계 탭으로 이동해요")
	joined := strings.Join(elements, "|")
	for _, want := range []string{"추가 버튼", "입력 모달", "통계 탭"} {
		if !strings.Contains(joined, want) {
			t.Errorf("elements %v missing %q", elements, want)
		}
	}

	if got := MentionedElements("특별한 요소는 없습니다"); len(got) != 0 {
		t.Errorf("expected no elements, got %v", got)
	}
}

func TestFollowupQuestion(t *testing.T) {
	q := FollowupQuestion("저장 버튼을 누르면 끝나요")
	if !strings.Contains(q, "저장 버튼") {
		t.Errorf("followup should target the mentioned element, got %q", q)
	}

	generic := FollowupQuestion("그냥 그렇게 돼요")
	if !strings.Contains(generic, "구체적으로") {
		t.Errorf("generic followup = %q", generic)
	}
}

func TestContextSummary(t *testing.T) {
	if got := ContextSummary(Context{}, nil); got != "아직 수집된 정보가 없습니다." {
		t.Errorf("empty summary = %q", got)
	}

	ctx := Context{
		TotalScreens: 4,
		ScreenList:   []Screen{{Name: "메인"}, {Name: "설정"}},
		LoginMethod:  "카카오",
	}
	answers := []Answer{
		{QuestionText: "q1", Answer: "a1"},
		{QuestionText: "q2", Answer: "a2"},
		{QuestionText: "q3", Answer: "a3"},
		{QuestionText: "q4", Answer: "a4"},
	}
	got := ContextSummary(ctx, answers)
	for _, want := range []string{"화면 개수: 4개", "화면 목록: 메인, 설정", "로그인 방식: 카카오", "최근 답변:"} {
		if !strings.Contains(got, want) {
			t.Errorf("summary missing %q in %q", want, got)
		}
	}
	// Only the last three answers are included.
	if strings.Contains(got, "q1") {
		t.Error("summary should cap recent answers at three")
	}
	if !strings.Contains(got, "q4") {
		t.Error("summary missing most recent answer")
	}
}
