package userflow

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// FallbackTextFlow builds a basic journey document from the collected
// context when the model response cannot be used.
func FallbackTextFlow(ctx Context, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# 유저 플로우 문서\n\n**작성 진행도**: 100%%\n**작성일**: %s\n\n---\n\n",
		now.Format("2006-01-02"))

	b.WriteString("## 📱 화면 목록\n\n")
	if len(ctx.ScreenList) > 0 {
		for i, s := range ctx.ScreenList {
			if s.Purpose != "" {
				fmt.Fprintf(&b, "%d. **%s** - %s\n", i+1, s.Name, s.Purpose)
			} else {
				fmt.Fprintf(&b, "%d. **%s**\n", i+1, s.Name)
			}
		}
		fmt.Fprintf(&b, "\n총 %d개 화면\n\n", len(ctx.ScreenList))
	} else {
		b.WriteString("_화면 정보가 수집되지 않았습니다._\n\n")
	}

	b.WriteString("## 🎬 사용자 플로우\n\n### 1️⃣ 첫 사용자 플로우\n\n")
	b.WriteString("1. 앱 실행\n")
	if ctx.SplashDuration != "" {
		fmt.Fprintf(&b, "2. 스플래시 화면 (%s)\n", ctx.SplashDuration)
	}
	if ctx.LoginMethod != "" {
		fmt.Fprintf(&b, "3. 로그인 (%s)\n", ctx.LoginMethod)
	}
	b.WriteString("4. 메인 화면 진입\n5. 주요 기능 사용\n\n")

	b.WriteString("### 2️⃣ 일반 사용자 플로우\n\n1. 메인 화면\n2. 기능 실행\n3. 작업 완료\n\n")
	return b.String()
}

// FallbackASCII builds placeholder screen mockups from the collected
// screen list.
func FallbackASCII(ctx Context, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# 화면 구성 (ASCII)\n\n**작성 진행도**: 100%%\n**작성일**: %s\n\n---\n\n",
		now.Format("2006-01-02"))

	if len(ctx.ScreenList) == 0 {
		b.WriteString("_화면 정보가 수집되지 않았습니다._\n\n")
		return b.String()
	}

	for i, s := range ctx.ScreenList {
		fmt.Fprintf(&b, "## 화면 %d: %s\n\n", i+1, s.Name)
		b.WriteString("```\n")
		b.WriteString("┌─────────────────────────┐\n")
		fmt.Fprintf(&b, "│ %s │\n", padScreenName(s.Name, 23))
		b.WriteString("├─────────────────────────┤\n")
		b.WriteString("│                         │\n")
		b.WriteString("│   메인 콘텐츠 영역      │\n")
		b.WriteString("│                         │\n")
		b.WriteString("│                         │\n")
		b.WriteString("└─────────────────────────┘\n")
		b.WriteString("```\n\n")
	}
	return b.String()
}

func padScreenName(name string, width int) string {
	if n := utf8.RuneCountInString(name); n < width {
		return name + strings.Repeat(" ", width-n)
	}
	return name
}

var mermaidColors = []string{"#e1bee7", "#c5e1a5", "#ffccbc", "#b3e5fc", "#fff9c4"}

// FallbackMermaid builds a linear screen-transition diagram from the
// collected screen list.
func FallbackMermaid(ctx Context, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# 화면 흐름도 (Mermaid)\n\n**작성 진행도**: 100%%\n**작성일**: %s\n\n---\n\n",
		now.Format("2006-01-02"))

	b.WriteString("```mermaid\ngraph TD\n")
	if len(ctx.ScreenList) > 0 {
		for i, s := range ctx.ScreenList {
			id := nodeID(i)
			fmt.Fprintf(&b, "    %s[%s]\n", id, s.Name)
			if i < len(ctx.ScreenList)-1 {
				fmt.Fprintf(&b, "    %s --> %s\n", id, nodeID(i+1))
			}
		}
		b.WriteByte('\n')
		for i := range ctx.ScreenList {
			fmt.Fprintf(&b, "    style %s fill:%s\n", nodeID(i), mermaidColors[i%len(mermaidColors)])
		}
	} else {
		b.WriteString("    A[시작]\n    A --> B[종료]\n")
	}
	b.WriteString("```\n\n")
	return b.String()
}

func nodeID(index int) string {
	return string(rune('A' + index))
}
