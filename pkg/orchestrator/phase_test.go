package orchestrator

import "testing"

func TestPhaseDescription(t *testing.T) {
	tests := []struct {
		phase string
		want  string
	}{
		{"extract_screens", "Extracting screens from PRD..."},
		{"generate_options", "Generating layout options..."},
		{"create_ascii_ui", "Creating ASCII UI mockups..."},
		{"refine_design", "Refining design with user feedback..."},
		{"build_design_system", "Building design system..."},
		{"generate_ai_prompts", "Generating AI Studio prompts..."},
		{"validate_code", "Validating generated code..."},
		{"generate_documents", "Generating documentation..."},
		{"package_for_dev", "Packaging deliverables..."},
		{"mystery_phase", "Working on mystery_phase..."},
	}
	for _, tt := range tests {
		if got := PhaseDescription(tt.phase); got != tt.want {
			t.Errorf("PhaseDescription(%q) = %q, want %q", tt.phase, got, tt.want)
		}
	}
}

func TestEstimateSecondsLeft(t *testing.T) {
	tests := []struct {
		percent int
		want    int
	}{
		{0, 2400},
		{50, 1200},
		{35, 1560},
		{99, 24},
		{100, 0},
	}
	for _, tt := range tests {
		if got := EstimateSecondsLeft(tt.percent); got != tt.want {
			t.Errorf("EstimateSecondsLeft(%d) = %d, want %d", tt.percent, got, tt.want)
		}
	}
}
