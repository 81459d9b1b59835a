package layout

import "github.com/charmbracelet/x/ansi"

// resetCode closes any style left open by a cut inside styled text.
const resetCode = "\x1b[0m"

// TruncateText fits plain text into maxWidth terminal cells, ending the cut
// with the configured ellipsis. It reports whether anything was cut.
func TruncateText(text string, maxWidth int, cfg TextConfig) (string, bool) {
	if maxWidth <= 0 {
		return "", true
	}
	if ansi.StringWidth(text) <= maxWidth {
		return text, false
	}
	if maxWidth <= ansi.StringWidth(cfg.Ellipsis) {
		return ansi.Truncate(cfg.Ellipsis, maxWidth, ""), true
	}
	return ansi.Truncate(text, maxWidth, cfg.Ellipsis), true
}

// TruncateWithPrefixSuffix fits a result row: the selection marker and the
// lane tag stay intact and only the label between them is shortened.
// Example: TruncateWithPrefixSuffix("Search the web for rust", 20, "▌ ", " [search]", cfg)
// gives "▌ Search... [search]".
func TruncateWithPrefixSuffix(text string, maxWidth int, prefix, suffix string, cfg TextConfig) (string, bool) {
	if maxWidth <= 0 {
		return "", true
	}

	combined := prefix + text + suffix
	if ansi.StringWidth(combined) <= maxWidth {
		return combined, false
	}

	frame := ansi.StringWidth(prefix) + ansi.StringWidth(suffix)
	if frame+ansi.StringWidth(cfg.Ellipsis) >= maxWidth {
		return TruncateText(combined, maxWidth, cfg)
	}
	return prefix + ansi.Truncate(text, maxWidth-frame, cfg.Ellipsis) + suffix, true
}

// TruncateANSIAware fits styled text, such as the input line with its cursor
// cell or the rendered key hints, without splitting escape sequences.
// A cut line always ends with a reset so its style cannot bleed.
func TruncateANSIAware(styledText string, maxWidth int, cfg TextConfig) string {
	if maxWidth <= 0 {
		return ""
	}
	if ansi.StringWidth(styledText) <= maxWidth {
		return styledText
	}
	if maxWidth <= ansi.StringWidth(cfg.Ellipsis) {
		return ansi.Truncate(cfg.Ellipsis, maxWidth, "")
	}
	return ansi.Truncate(styledText, maxWidth, cfg.Ellipsis) + resetCode
}
