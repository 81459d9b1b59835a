package layout

// LayoutConfig holds all layout-related configuration values.
type LayoutConfig struct {
	Frame FrameConfig
	Text  TextConfig
}

// FrameConfig holds launcher frame dimensions in terminal cells.
type FrameConfig struct {
	// ChromeLines is subtracted from terminal height for the result list.
	// Accounts for: app padding (1) + input (1) + separator (1) + status (1) + help bar (1) = 5
	ChromeLines int

	// MinListHeight is the minimum number of result rows shown.
	MinListHeight int

	// MaxListHeight caps the result rows so a tall terminal does not
	// stretch the list. Zero means no cap.
	MaxListHeight int

	// ContentPadding is subtracted from the terminal width for rows.
	// Accounts for app padding on both sides (2 + 2).
	ContentPadding int

	// MinWidth is the narrowest row width rendered.
	MinWidth int
}

// TextConfig holds text truncation configuration.
type TextConfig struct {
	// Ellipsis is the string used to indicate truncation.
	Ellipsis string
}

// DefaultConfig returns the default layout configuration.
func DefaultConfig() LayoutConfig {
	return LayoutConfig{
		Frame: FrameConfig{
			ChromeLines:    5,
			MinListHeight:  3,
			MaxListHeight:  15,
			ContentPadding: 4,
			MinWidth:       10,
		},
		Text: TextConfig{
			Ellipsis: "...",
		},
	}
}
