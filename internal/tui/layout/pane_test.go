package layout

import "testing"

func TestCalculateListHeight(t *testing.T) {
	cfg := DefaultConfig().Frame

	tests := []struct {
		name           string
		terminalHeight int
		want           int
	}{
		{"normal terminal", 15, 10},           // 15 - 5 = 10
		{"tall terminal capped", 50, 15},      // 50 - 5 = 45, max is 15
		{"small terminal enforces min", 6, 3}, // 6 - 5 = 1, min is 3
		{"terminal smaller than chrome", 2, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateListHeight(tt.terminalHeight, cfg)
			if got != tt.want {
				t.Errorf("CalculateListHeight(%d) = %d, want %d",
					tt.terminalHeight, got, tt.want)
			}
		})
	}
}

func TestCalculateListHeight_NoCap(t *testing.T) {
	cfg := DefaultConfig().Frame
	cfg.MaxListHeight = 0

	if got := CalculateListHeight(50, cfg); got != 45 {
		t.Errorf("CalculateListHeight(50) = %d, want 45", got)
	}
}

func TestCalculateRowWidth(t *testing.T) {
	cfg := DefaultConfig().Frame

	tests := []struct {
		name          string
		terminalWidth int
		want          int
	}{
		{"normal terminal", 80, 76}, // 80 - 4 = 76
		{"wide terminal", 200, 196},
		{"narrow enforces min", 12, 10}, // 12 - 4 = 8, min is 10
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateRowWidth(tt.terminalWidth, cfg)
			if got != tt.want {
				t.Errorf("CalculateRowWidth(%d) = %d, want %d",
					tt.terminalWidth, got, tt.want)
			}
		})
	}
}

func TestCalculateViewportOffset(t *testing.T) {
	tests := []struct {
		name           string
		selected       int
		total          int
		viewportHeight int
		want           int
	}{
		{"no scroll needed", 2, 5, 10, 0},
		{"selection near start", 1, 20, 10, 0},
		{"selection in middle", 10, 20, 10, 5}, // 10 - 10/2 = 5
		{"selection near end", 18, 20, 10, 10}, // max offset = 20-10 = 10
		{"selection at end", 19, 20, 10, 10},
		{"all items visible", 5, 8, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateViewportOffset(tt.selected, tt.total, tt.viewportHeight)
			if got != tt.want {
				t.Errorf("CalculateViewportOffset(%d, %d, %d) = %d, want %d",
					tt.selected, tt.total, tt.viewportHeight, got, tt.want)
			}
		})
	}
}
