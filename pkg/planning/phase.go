package planning

import "math"

// Phase names a stage of the questionnaire by budget consumed.
type Phase string

const (
	PhaseInitial Phase = "initial"
	PhaseMiddle  Phase = "middle"
	PhaseFinal   Phase = "final"
	PhaseClosing Phase = "closing"
)

// TypePreference guides the question style expected for a phase.
type TypePreference struct {
	PreferMultipleChoice bool
	AllowOpenEnded       bool
	RequireSpecificity   bool
}

// CurrentPhase maps question budget progress to a phase.
func CurrentPhase(questionCount, maxQuestions int) Phase {
	if maxQuestions <= 0 {
		return PhaseInitial
	}
	progress := float64(questionCount) / float64(maxQuestions) * 100
	switch {
	case progress < 30:
		return PhaseInitial
	case progress < 70:
		return PhaseMiddle
	case progress < 90:
		return PhaseFinal
	default:
		return PhaseClosing
	}
}

// PhaseStrategy returns the interviewing strategy text injected into
// the question generation prompt.
func PhaseStrategy(phase Phase) string {
	switch phase {
	case PhaseInitial:
		return `**초기 단계 (0-30%)**
- 제품 개요, 핵심 문제, 타겟 사용자 등 기본 정보 수집
- 넓게 탐색하여 전체 그림 파악
- 간단하고 명확한 질문으로 시작
- 사용자의 비전과 방향성 이해`
	case PhaseMiddle:
		return `**중반 단계 (30-70%)**
- 핵심 기능, 비즈니스 모델, 가치 제안 등 구체적 내용 수집
- 이전 답변을 바탕으로 깊이 있는 질문
- 사용자의 mindset에 맞는 관점으로 질문
- 빠진 중요 섹션 집중 공략`
	case PhaseFinal:
		return `**마무리 단계 (70-90%)**
- MVP, 출시 계획, 성공 지표 등 실행 계획 수집
- 아직 빈 섹션이 있다면 우선 순위로 채우기
- 구체적인 수치와 계획 요청
- 리스크 및 대응 방안 확인`
	default:
		return `**종료 단계 (90-100%)**
- 마지막 남은 critical gap만 질문
- 더 이상 중요한 빈 칸이 없다면 종료
- 이미 충분한 정보가 있다면 추가 질문 없이 종료`
	}
}

// PhaseFocusAreas lists the sections a phase should target.
func PhaseFocusAreas(phase Phase) []string {
	switch phase {
	case PhaseInitial:
		return []string{"제품 개요", "문제 정의", "타겟 사용자", "핵심 가치 제안"}
	case PhaseMiddle:
		return []string{"핵심 기능", "비즈니스 모델", "경쟁 분석", "사용자 플로우"}
	case PhaseFinal:
		return []string{"MVP 범위", "성공 지표 (KPI)", "출시 계획", "리스크 및 대응"}
	default:
		return []string{"리스크 및 대응", "출시 계획"}
	}
}

// PhaseTypePreference returns the question style for a phase.
func PhaseTypePreference(phase Phase) TypePreference {
	switch phase {
	case PhaseInitial:
		return TypePreference{PreferMultipleChoice: true, AllowOpenEnded: true, RequireSpecificity: false}
	case PhaseMiddle:
		return TypePreference{PreferMultipleChoice: true, AllowOpenEnded: false, RequireSpecificity: true}
	case PhaseFinal:
		return TypePreference{PreferMultipleChoice: false, AllowOpenEnded: true, RequireSpecificity: true}
	default:
		return TypePreference{PreferMultipleChoice: true, AllowOpenEnded: false, RequireSpecificity: true}
	}
}

// RemainingQuestions returns how much of the budget is left.
func RemainingQuestions(questionCount, maxQuestions int) int {
	if r := maxQuestions - questionCount; r > 0 {
		return r
	}
	return 0
}

// ProgressPercent returns budget consumption rounded to whole percent.
func ProgressPercent(questionCount, maxQuestions int) int {
	if maxQuestions <= 0 {
		return 0
	}
	return int(math.Round(float64(questionCount) / float64(maxQuestions) * 100))
}
