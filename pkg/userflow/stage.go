package userflow

// Stage names one of the eight interview stages, ordered from overall
// screen structure down to the full journey wrap-up.
type Stage struct {
	Name        string
	Description string
}

// StageFor maps the number of questions already asked to the stage the
// next question should target.
func StageFor(questionCount int) Stage {
	switch {
	case questionCount < 2:
		return Stage{
			Name:        "1단계: 전체 화면 구조",
			Description: "화면 개수와 각 화면의 이름/역할을 파악합니다.",
		}
	case questionCount < 5:
		return Stage{
			Name:        "2단계: 첫 실행 플로우",
			Description: "스플래시, 로그인, 온보딩 등 첫 실행 시 경험을 파악합니다.",
		}
	case questionCount < 8:
		return Stage{
			Name:        "3단계: 메인 화면 구성",
			Description: "메인 화면의 레이아웃, 주요 버튼, UI 요소를 파악합니다.",
		}
	case questionCount < 11:
		return Stage{
			Name:        "4단계: 주요 기능 화면",
			Description: "핵심 기능 화면(추가/편집/상세 등)의 구성을 파악합니다.",
		}
	case questionCount < 13:
		return Stage{
			Name:        "5단계: 목록 상호작용",
			Description: "리스트 항목 클릭, 체크박스, 스와이프 등 상호작용을 파악합니다.",
		}
	case questionCount < 16:
		return Stage{
			Name:        "6단계: 부가 기능 화면",
			Description: "설정, 통계, 프로필 등 부가 화면을 파악합니다.",
		}
	case questionCount < 19:
		return Stage{
			Name:        "7단계: 유료 전환 플로우",
			Description: "Freemium인 경우 결제 화면과 유료 전환 흐름을 파악합니다.",
		}
	default:
		return Stage{
			Name:        "8단계: 전체 흐름 정리",
			Description: "전체 사용자 여정을 확인하고 정리합니다.",
		}
	}
}
