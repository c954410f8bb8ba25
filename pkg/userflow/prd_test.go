package userflow

import (
	"strings"
	"testing"
)

const samplePRD = `# 밥친구

**제품명**: 밥친구
한 줄 요약: 동네에서 같이 밥 먹을 사람을 찾아주는 매칭 서비스
타겟 사용자: 1인 가구 직장인
핵심 기능: 위치 기반 매칭
- 실시간 채팅
- 식당 추천
- 매칭 기록
비즈니스 모델: 프리미엄 구독
`

func TestExtractProductName(t *testing.T) {
	if got := ExtractProductName(samplePRD); got != "밥친구" {
		t.Errorf("ExtractProductName = %q, want 밥친구", got)
	}

	// Falls back to the H1 heading when no labeled name exists.
	if got := ExtractProductName("# 헤딩 제품\n\n내용"); got != "헤딩 제품" {
		t.Errorf("heading fallback = %q", got)
	}

	if got := ExtractProductName("아무 구조 없는 텍스트"); got != "이 제품" {
		t.Errorf("generic fallback = %q", got)
	}
}

func TestExtractPRDSummary(t *testing.T) {
	summary := ExtractPRDSummary(samplePRD)
	for _, want := range []string{
		"✅ 동네에서 같이 밥 먹을 사람을 찾아주는 매칭 서비스",
		"✅ 타겟: 1인 가구 직장인",
		"실시간 채팅",
		"✅ 프리미엄 구독",
	} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q in %q", want, summary)
		}
	}
}

func TestExtractPRDSummaryFallback(t *testing.T) {
	if got := ExtractPRDSummary("아무 구조 없는 텍스트"); got != "✅ PRD 내용을 바탕으로 진행합니다" {
		t.Errorf("fallback summary = %q", got)
	}
}
