package planning

import "testing"

func TestCurrentPhase(t *testing.T) {
	tests := []struct {
		count, max int
		want       Phase
	}{
		{0, 30, PhaseInitial},
		{8, 30, PhaseInitial},
		{9, 30, PhaseMiddle},
		{20, 30, PhaseMiddle},
		{21, 30, PhaseFinal},
		{26, 30, PhaseFinal},
		{27, 30, PhaseClosing},
		{30, 30, PhaseClosing},
		{0, 0, PhaseInitial},
		{3, 0, PhaseInitial},
	}
	for _, tt := range tests {
		if got := CurrentPhase(tt.count, tt.max); got != tt.want {
			t.Errorf("CurrentPhase(%d, %d) = %q, want %q", tt.count, tt.max, got, tt.want)
		}
	}
}

func TestProgressPercent(t *testing.T) {
	tests := []struct {
		count, max, want int
	}{
		{0, 30, 0},
		{15, 30, 50},
		{1, 3, 33},
		{2, 3, 67},
		{30, 30, 100},
		{5, 0, 0},
	}
	for _, tt := range tests {
		if got := ProgressPercent(tt.count, tt.max); got != tt.want {
			t.Errorf("ProgressPercent(%d, %d) = %d, want %d", tt.count, tt.max, got, tt.want)
		}
	}
}

func TestRemainingQuestions(t *testing.T) {
	if got := RemainingQuestions(28, 30); got != 2 {
		t.Errorf("RemainingQuestions(28, 30) = %d, want 2", got)
	}
	if got := RemainingQuestions(31, 30); got != 0 {
		t.Errorf("RemainingQuestions(31, 30) = %d, want 0", got)
	}
}

func TestPhaseTypePreference(t *testing.T) {
	if pref := PhaseTypePreference(PhaseInitial); pref.RequireSpecificity {
		t.Errorf("initial phase should not demand specificity, got %+v", pref)
	}
	if pref := PhaseTypePreference(PhaseFinal); pref.PreferMultipleChoice || !pref.RequireSpecificity {
		t.Errorf("final phase should want specific open answers, got %+v", pref)
	}
}

func TestPhaseStrategyIsNonEmptyForAllPhases(t *testing.T) {
	for _, phase := range []Phase{PhaseInitial, PhaseMiddle, PhaseFinal, PhaseClosing} {
		if PhaseStrategy(phase) == "" {
			t.Errorf("empty strategy for phase %q", phase)
		}
		if len(PhaseFocusAreas(phase)) == 0 {
			t.Errorf("no focus areas for phase %q", phase)
		}
	}
}
