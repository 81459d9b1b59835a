package layout

// CalculateListHeight computes how many result rows fit in the terminal.
// Returns at least MinListHeight and at most MaxListHeight when set.
func CalculateListHeight(terminalHeight int, cfg FrameConfig) int {
	height := terminalHeight - cfg.ChromeLines
	if cfg.MaxListHeight > 0 && height > cfg.MaxListHeight {
		height = cfg.MaxListHeight
	}
	if height < cfg.MinListHeight {
		return cfg.MinListHeight
	}
	return height
}

// CalculateRowWidth computes the width available for row text.
func CalculateRowWidth(terminalWidth int, cfg FrameConfig) int {
	width := terminalWidth - cfg.ContentPadding
	if width < cfg.MinWidth {
		return cfg.MinWidth
	}
	return width
}

// CalculateViewportOffset calculates the scroll offset needed to keep the
// selected row visible within the viewport.
func CalculateViewportOffset(selected, total, viewportHeight int) int {
	if total <= viewportHeight {
		return 0
	}

	// Keep selection roughly centered, but clamp to valid range
	offset := selected - viewportHeight/2
	if offset < 0 {
		offset = 0
	}

	maxOffset := total - viewportHeight
	if offset > maxOffset {
		offset = maxOffset
	}

	return offset
}
