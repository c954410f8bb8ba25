package planning

import "testing"

func TestResolveLevelChoice(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1", LevelSimple},
		{"2", LevelStandard},
		{"3", LevelDetailed},
		{"", LevelStandard},
		{"아무거나", LevelStandard},
	}
	for _, tt := range tests {
		if got := ResolveLevelChoice(tt.input); got != tt.want {
			t.Errorf("ResolveLevelChoice(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestTemplateByLevelFallsBackToStandard(t *testing.T) {
	if got := TemplateByLevel("nonsense"); got.Level != LevelStandard {
		t.Errorf("unknown level resolved to %q, want %q", got.Level, LevelStandard)
	}
	if got := TemplateByLevel(LevelDetailed); got.MaxQuestions != 50 {
		t.Errorf("detailed budget = %d, want 50", got.MaxQuestions)
	}
}

func TestTemplatesShareCoreSections(t *testing.T) {
	core := []string{"제품 개요", "문제 정의", "타겟 사용자", "핵심 기능"}
	for level, tpl := range Templates {
		have := map[string]bool{}
		for _, s := range tpl.Sections {
			have[s.Name] = true
		}
		for _, name := range core {
			if !have[name] {
				t.Errorf("template %q is missing section %q", level, name)
			}
		}
	}
}

func TestLevelOptionsMatchTemplates(t *testing.T) {
	opts := LevelOptions()
	if len(opts) != 3 {
		t.Fatalf("expected 3 level options, got %d", len(opts))
	}
	for _, opt := range opts {
		if _, ok := Templates[opt.Value]; !ok {
			t.Errorf("option %q points at unknown template %q", opt.Label, opt.Value)
		}
	}
}
