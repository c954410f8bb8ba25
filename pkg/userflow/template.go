package userflow

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"
)

// EmptyTextFlowMarkdown renders the blank text-flow document shown
// before any answers are collected.
func EmptyTextFlowMarkdown(now time.Time) string {
	return fmt.Sprintf(`# 유저 플로우 문서

**작성 진행도**: 0%%
**작성일**: %s

---

## 📱 화면 목록

_작성 중..._

---

## 🎬 사용자 플로우

### 1️⃣ 첫 사용자 플로우

_작성 중..._

### 2️⃣ 일반 사용자 플로우

_작성 중..._

### 3️⃣ 비즈니스 플로우

_작성 중..._

---

## 📝 주요 사용자 시나리오

### 시나리오 1: 첫 사용자

_작성 중..._

### 시나리오 2: 일반 사용자

_작성 중..._

---

**다음 단계**: 채팅을 통해 질문에 답변하시면 이 템플릿이 자동으로 채워집니다.
`, now.Format("2006-01-02"))
}

// EmptyASCIIMarkdown renders the blank screen-mockup document.
func EmptyASCIIMarkdown(now time.Time) string {
	return fmt.Sprintf(`# 화면 구성 (ASCII)

**작성 진행도**: 0%%
**작성일**: %s

---

## 🖼️ 화면 목업

_작성 중..._

질문에 답변하시면 각 화면의 ASCII 목업이 자동으로 생성됩니다.

예시:
`+"```"+`
┌─────────────────────────┐
│ 화면 제목          [⚙️] │
├─────────────────────────┤
│                         │
│ ┌─────────────────────┐ │
│ │ 콘텐츠 영역         │ │
│ └─────────────────────┘ │
│                         │
│                    [+]  │
└─────────────────────────┘
`+"```"+`

---

**다음 단계**: 채팅을 통해 화면 구성에 대한 질문에 답변해주세요.
`, now.Format("2006-01-02"))
}

// EmptyMermaidMarkdown renders the blank screen-transition document.
func EmptyMermaidMarkdown(now time.Time) string {
	return fmt.Sprintf(`# 화면 흐름도 (Mermaid)

**작성 진행도**: 0%%
**작성일**: %s

---

## 🔀 화면 전환 흐름

_작성 중..._

질문에 답변하시면 화면 간 전환 흐름이 자동으로 생성됩니다.

예시:
`+"```mermaid"+`
graph TD
    A[시작 화면] -->|버튼 클릭| B[다음 화면]
    B -->|완료| C[종료 화면]

    style A fill:#e1bee7
    style B fill:#c5e1a5
    style C fill:#ffccbc
`+"```"+`

---

**다음 단계**: 채팅을 통해 화면 흐름에 대한 질문에 답변해주세요.
`, now.Format("2006-01-02"))
}

var (
	screenListPlaceholderRe = regexp.MustCompile(`## 📱 화면 목록\n\n_작성 중\.\.\._`)
	progressRe              = regexp.MustCompile(`\*\*작성 진행도\*\*:\s*\d+%`)
)

// PatchScreenList replaces the screen-list placeholder with the
// collected screens. Documents without the placeholder pass through.
func PatchScreenList(markdown string, screens []Screen) string {
	if len(screens) == 0 {
		return markdown
	}
	lines := make([]string, 0, len(screens))
	for i, s := range screens {
		lines = append(lines, fmt.Sprintf("%d. **%s**", i+1, s.Name))
	}
	replacement := fmt.Sprintf("## 📱 화면 목록\n\n%s\n\n총 %d개 화면",
		strings.Join(lines, "\n"), len(screens))
	return screenListPlaceholderRe.ReplaceAllString(markdown, replacement)
}

// PatchProgress rewrites the progress line to the rounded score.
func PatchProgress(markdown string, completenessScore float64) string {
	replacement := fmt.Sprintf("**작성 진행도**: %d%%", int(math.Round(completenessScore)))
	return progressRe.ReplaceAllString(markdown, replacement)
}
