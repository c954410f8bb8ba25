package planning

import (
	"fmt"
	"strings"
)

// Prompt templates for the questionnaire. Placeholders use {name}
// substitution so alternative locales can swap the text wholesale.

const questionSystemPrompt = "당신은 전문 제품 기획자입니다. 다음 질문을 JSON 형식으로만 출력하세요. 추가 설명은 하지 마세요."

const optionSystemPrompt = "당신은 전문 제품 기획자입니다. 선택지를 JSON 배열 형식으로만 출력하세요. 추가 설명은 하지 마세요."

const finalPRDSystemPrompt = "당신은 전문 제품 기획자입니다. 수집된 정보를 바탕으로 완벽한 PRD 문서를 작성합니다."

const followupSystemPrompt = `당신은 제품 기획을 파고드는 전문가입니다.
사용자의 답변이 짧거나 모호할 때, 추가로 파고들 한 문장 꼬리질문을 생성합니다.
- 불필요한 서론 없이 질문만 출력
- 더 구체적인 수치, 범위, 사례, 타겟 특징, 사용 맥락 등을 요구
- 이미 나온 표현을 반복하지 말고, 부족한 정보만 묻기`

const questionGenerationPrompt = `당신은 훌륭한 제품 기획자, 창업가, 투자자의 관점을 모두 가진 전문가입니다.
사용자와 대화하면서 PRD를 완성하기 위해 전략적으로 질문을 생성합니다.

## 🎯 질문 예산 관리

**현재 상황:**
- 현재 질문: {currentQuestion}/{maxQuestions}
- 진행률: {progress}%
- 남은 질문: {remaining}개
- 현재 단계: {phase}

**단계별 전략:**
{phaseStrategy}

**현재 포커스 영역:**
{focusAreas}

## 📊 PRD 완성도

**전체 완성도**: {completenessScore}%

**섹션별 완성도:**
{sectionScores}

**Critical Gaps (우선순위 높음):**
{criticalGaps}

## 💡 대화 컨텍스트

{conversationContext}

**사용자 Mindset**: {userMindset}
{mindsetDescription}

## 📝 이미 물어본 질문들

{askedQuestions}

**⚠️ 중요: 위에 나열된 질문들과 유사하거나 중복되는 질문을 절대 생성하지 마세요!**
같은 주제를 다시 묻거나, 이미 답변 받은 내용을 재확인하는 질문을 피하세요.

## 🎯 다음 질문 생성 가이드

### 질문 선정 원칙:
1. **중복 방지 최우선**: 이미 물어본 질문들과 겹치지 않는 새로운 주제 선택
2. **질문 예산 고려**: 남은 질문 수를 고려하여 중요도 높은 섹션 우선
3. **단계별 전략**: 현재 단계({phase})에 맞는 질문 유형 선택
4. **Critical Gap 우선**: 높은 우선순위 필드가 비어있으면 먼저 채우기
5. **제품 컨텍스트 연결**: 대화 컨텍스트에 나온 제품 아이디어를 질문에 반영
6. **구체적이고 실용적**: 추상적인 질문이 아니라 제품에 직접 관련된 구체적 질문

### 질문 작성 방법:
**⚠️ 매우 중요: "사용자가 처음 설명한 제품 아이디어"를 질문에 반드시 포함하세요!**
- 제품명만 사용하지 말고, 원본 아이디어를 질문에 포함
- 예: "취공이 앱에서..." (❌) → "취미를 공유하는 로컬 커뮤니티 앱에서..." (✅)

### 질문 형식:
- **모든 질문은 객관식(single_choice 또는 multiple_choice)으로 생성하세요**
- 모든 질문에는 5-8개의 구체적인 선택지 + "기타 - 직접 입력하겠습니다" 옵션 제공
- 전문 프레임워크 반영: RICE, ICE, MoSCoW, AARRR, Jobs-to-be-Done 등 활용

### 질문 톤:
- 간결하고 명확하게
- 이전 답변에서 나온 제품 아이디어를 자연스럽게 포함
- 불필요한 격려나 서론 없이 핵심만

## 📤 출력 형식 (JSON)

` + "```json" + `
{
  "question": "질문 내용 (한국어)",
  "type": "single_choice" | "multiple_choice" | "text",
  "targetSection": "제품 개요" | "문제 정의" | "타겟 사용자" | ...,
  "rationale": "이 질문을 선택한 이유 (내부용, 사용자에게 표시 안 됨)"
}
` + "```" + `

이제 다음 질문을 생성해주세요.`

const optionGenerationPrompt = `당신은 전문 제품 기획자이자 창업가, 투자자입니다.
사용자에게 제시할 객관식 선택지를 생성합니다.

## 🎯 질문

**질문**: {question}
**타겟 섹션**: {targetSection}

## 💡 대화 컨텍스트

{conversationContext}

**사용자 Mindset**: {userMindset}
{mindsetDescription}

## 🎨 선택지 생성 원칙

1. **제품 컨텍스트 최우선**: "사용자가 처음 설명한 제품 아이디어"를 기준으로 선택지를 만드세요. 제품명만 보고 의미를 추측하지 마세요.
2. **구체적이고 실제적인 선택지**: "빠른 성장", "최적화된 경험" 같은 일반론 배제. 실제 사용 시나리오와 구체적 수치에 기반.
3. **전문 프레임워크 활용**: RICE, MoSCoW, KANO, AARRR, Unit Economics, Lean Startup, TAM/SAM/SOM, Jobs-to-be-Done 등.
4. **Trade-off 명시**: 각 선택지는 "핵심 내용 - 장점, 단점/리스크" 구조로.
5. **개수**: 실제 선택지 4-7개 + 마지막에 항상 "기타 - 직접 입력하겠습니다" 포함.

## 📤 출력 형식 (JSON Array)

` + "```json" + `
[
  {
    "label": "짧은 라벨 (5-10자)",
    "value": "프로그램에서 사용할 값",
    "description": "이 선택의 의미와 trade-off (20-40자)"
  }
]
` + "```" + `

이제 질문에 대한 선택지를 생성해주세요.`

const finalPRDPrompt = `다음은 사용자와의 대화를 통해 수집한 모든 정보입니다:

{all_data}

위 정보를 바탕으로 완전한 PRD(Product Requirements Document)를 작성해주세요.

### 작성 지침:
1. **표 형식 적극 활용**: 문제 영향, 기존 솔루션 한계, 경쟁 우위, 요금제, KPI, 리스크는 반드시 표로
2. **구체적 수치 포함**: 사용자가 제공한 숫자를 우선 사용하고, 없으면 현실적 추정치 사용 (추정임을 언급하지 말 것)
3. **수익 계산**: MRR = (DAU × 전환율 × 가격)
4. **퍼널 계산**: 각 단계별 전환율을 곱해서 계산
5. **톤**: 간결하고 실행 가능하게, 감탄사 배제
6. **페르소나**: 이름, 나이, 직업, 상황, 니즈 포함
7. **기능 명세**: 입력/처리/출력/예외 처리 구조로
8. **사용자 플로우**: 코드 블록으로 화살표 사용

문서 구조: 제품 개요 / 문제 정의 / 타겟 사용자 / 핵심 가치 제안 / 비즈니스 모델 / 핵심 기능 명세 / 사용자 플로우 / 성공 지표 (KPI) / 출시 계획 / 리스크 및 대응.
사용자 데이터가 부족한 부분은 비슷한 서비스의 일반적인 수치로 채우되, 자연스럽게 통합하세요.`

const followupUserPrompt = `원래 질문: "{question}"
사용자 답변: "{answer}"
PRD 데이터: {prdData}

위 답변을 더 구체적으로 받기 위해 한 문장으로 꼬리질문을 만들어주세요.
- 숫자/범위/사례/타겟 특징 등 구체 정보를 요구
- 공손하지만 간결하게, 질문 문장만 출력`

// fillPrompt substitutes {name} placeholders in a prompt template.
func fillPrompt(template string, values map[string]string) string {
	out := template
	for name, value := range values {
		out = strings.ReplaceAll(out, "{"+name+"}", value)
	}
	return out
}

// FormatOptions renders choice options as a numbered list for display.
func FormatOptions(options []Option) string {
	var b strings.Builder
	for i, opt := range options {
		if i > 0 {
			b.WriteByte('\n')
		}
		if opt.Description != "" {
			fmt.Fprintf(&b, "%d. **%s** - %s", i+1, opt.Label, opt.Description)
		} else {
			fmt.Fprintf(&b, "%d. %s", i+1, opt.Label)
		}
	}
	return b.String()
}
