package config

import (
	_ "embed"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/net/idna"
)

// QueryPlaceholder is replaced by the typed query in every URL template.
const QueryPlaceholder = "%%QUERY%%"

// FileName is the config file name inside the config directory.
const FileName = "sprint.toml"

//go:embed default.toml
var defaultContents []byte

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// MatchMode selects how the application lane compares names to the query.
type MatchMode string

const (
	MatchSubstring MatchMode = "substring"
	MatchFuzzy     MatchMode = "fuzzy"
)

// Color is an opaque RGBA color.
type Color struct {
	R, G, B, A uint8
}

// Hex returns the color as #rrggbb, the form lipgloss accepts.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ARGB packs the color the way an Argb8888 pixel buffer stores it.
func (c Color) ARGB() uint32 {
	return uint32(c.A)<<24 | uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// Theme holds the four configurable colors.
type Theme struct {
	Background     Color
	Foreground     Color
	Separator      Color
	SelectionHover Color
}

// WebPrefix maps a trigger typed at the start of the query to a URL template.
type WebPrefix struct {
	Name    string `toml:"name"`
	Trigger string `toml:"trigger"`
	URL     string `toml:"url"`
}

// Launch controls how application entries are started.
type Launch struct {
	Shell    bool   `toml:"shell"`
	Terminal string `toml:"terminal"`
}

// Config is the resolved, validated application configuration.
// It is built once at startup and never mutated afterwards.
type Config struct {
	Font           string
	Theme          Theme
	SearchTemplate string
	WebPrefixes    []WebPrefix
	ResultOrder    []string
	AppLimit       int
	MatchMode      MatchMode
	LogLevel       log.Level
	History        bool
	Launch         Launch
}

// file mirrors the TOML layout. Pointer and nil-able fields detect keys
// that were left out so defaults can be applied.
type file struct {
	Font                string   `toml:"font"`
	BackgroundColor     []int    `toml:"background_color"`
	ForegroundColor     []int    `toml:"foreground_color"`
	SeparatorColor      []int    `toml:"separator_color"`
	SeperatorColor      []int    `toml:"seperator_color"`
	SelectionHoverColor []int    `toml:"selection_hover_color"`
	SearchTemplate      string   `toml:"search_template"`
	WebPrefixes         []any    `toml:"web_prefixes"`
	ResultOrder         []string `toml:"result_order"`
	AppLimit            int      `toml:"app_limit"`
	MatchMode           string   `toml:"match_mode"`
	LogLevel            string   `toml:"log_level"`
	History             *bool    `toml:"history"`
	Launch              *Launch  `toml:"launch"`
}

// parseWebPrefixes accepts each rule either as a table with name, trigger
// and url keys or as a [name, trigger, url] array.
func parseWebPrefixes(raw []any) ([]WebPrefix, error) {
	out := make([]WebPrefix, 0, len(raw))
	for i, item := range raw {
		var p WebPrefix
		switch v := item.(type) {
		case map[string]any:
			for key, val := range v {
				s, ok := val.(string)
				if !ok {
					return nil, fmt.Errorf("%w: web_prefixes[%d].%s: want a string", ErrInvalid, i, key)
				}
				switch key {
				case "name":
					p.Name = s
				case "trigger":
					p.Trigger = s
				case "url":
					p.URL = s
				default:
					return nil, fmt.Errorf("%w: web_prefixes[%d]: unknown key %q", ErrInvalid, i, key)
				}
			}
		case []any:
			if len(v) != 3 {
				return nil, fmt.Errorf("%w: web_prefixes[%d]: want [name, trigger, url], got %d items", ErrInvalid, i, len(v))
			}
			fields := [3]string{}
			for j, val := range v {
				s, ok := val.(string)
				if !ok {
					return nil, fmt.Errorf("%w: web_prefixes[%d][%d]: want a string", ErrInvalid, i, j)
				}
				fields[j] = s
			}
			p = WebPrefix{Name: fields[0], Trigger: fields[1], URL: fields[2]}
		default:
			return nil, fmt.Errorf("%w: web_prefixes[%d]: want a table or a [name, trigger, url] array", ErrInvalid, i)
		}
		out = append(out, p)
	}
	return out, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Font: "FreeSans",
		Theme: Theme{
			Background:     Color{25, 25, 25, 255},
			Foreground:     Color{30, 30, 30, 255},
			Separator:      Color{112, 69, 156, 255},
			SelectionHover: Color{72, 43, 102, 255},
		},
		SearchTemplate: "https://duckduckgo.com/?q=" + QueryPlaceholder,
		WebPrefixes:    DefaultWebPrefixes(),
		ResultOrder:    []string{"prefixes", "math", "desktop", "search"},
		AppLimit:       50,
		MatchMode:      MatchSubstring,
		LogLevel:       log.InfoLevel,
		History:        true,
		Launch:         Launch{Shell: false, Terminal: "xterm"},
	}
}

// DefaultWebPrefixes returns the shipped prefix rules.
func DefaultWebPrefixes() []WebPrefix {
	q := QueryPlaceholder
	return []WebPrefix{
		{Name: "Wikipedia", Trigger: ">wiki", URL: "https://en.wikipedia.org/w/index.php?search=" + q},
		{Name: "StackExchange", Trigger: ">exchange", URL: "https://stackexchange.com/search?q=" + q},
		{Name: "StackOverflow", Trigger: ">overflow", URL: "https://stackoverflow.com/search?q=" + q},
		{Name: "YouTube", Trigger: ">yt", URL: "https://www.youtube.com/results?search_query=" + q},
		{Name: "GitHub", Trigger: ">gh", URL: "https://github.com/search?q=" + q},
		{Name: "LinkedIn", Trigger: ">lnkin", URL: "https://www.linkedin.com/search/results/all/?keywords=" + q},
		{Name: "Reddit", Trigger: ">reddit", URL: "https://www.reddit.com/search/?q=" + q},
		{Name: "Facebook", Trigger: ">facebook", URL: "https://www.facebook.com/search/top/?q=" + q},
		{Name: "Google", Trigger: ">google", URL: "https://www.google.com/search?q=" + q},
		{Name: "Bing", Trigger: ">bing", URL: "https://www.bing.com/search?q=" + q},
		{Name: "DuckDuckGo", Trigger: ">ddg", URL: "https://duckduckgo.com/?q=" + q},
	}
}

// DefaultContents returns the commented default config file.
func DefaultContents() []byte {
	out := make([]byte, len(defaultContents))
	copy(out, defaultContents)
	return out
}

// DefaultPath returns $XDG_CONFIG_HOME/sprint.toml, falling back to
// ~/.config/sprint.toml.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, FileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".config", FileName), nil
}

// Load reads and validates the config at path.
// A missing file is created with the default contents and the defaults are
// returned. Any other failure is fatal for the caller; there is no degraded
// mode.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// Non-fatal: the defaults apply even when the file can't be written
			_ = WriteDefault(path, false)
			return Default(), nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes TOML config data, fills in defaults for missing keys and
// validates the result.
func Parse(data []byte) (*Config, error) {
	var f file
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg, err := f.resolve()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// WriteDefault writes the default config file to path.
// Existing files are left alone unless force is set.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file %s already exists", path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("stat config file: %w", err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, defaultContents, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

func (f file) resolve() (*Config, error) {
	cfg := Default()

	if f.Font != "" {
		cfg.Font = f.Font
	}

	colors := []struct {
		key string
		raw []int
		dst *Color
	}{
		{"background_color", f.BackgroundColor, &cfg.Theme.Background},
		{"foreground_color", f.ForegroundColor, &cfg.Theme.Foreground},
		{"separator_color", firstNonNil(f.SeparatorColor, f.SeperatorColor), &cfg.Theme.Separator},
		{"selection_hover_color", f.SelectionHoverColor, &cfg.Theme.SelectionHover},
	}
	for _, c := range colors {
		if c.raw == nil {
			continue
		}
		color, err := parseRGB(c.raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalid, c.key, err)
		}
		*c.dst = color
	}

	if f.SearchTemplate != "" {
		cfg.SearchTemplate = f.SearchTemplate
	}
	if f.WebPrefixes != nil {
		prefixes, err := parseWebPrefixes(f.WebPrefixes)
		if err != nil {
			return nil, err
		}
		cfg.WebPrefixes = prefixes
	}
	if f.ResultOrder != nil {
		cfg.ResultOrder = f.ResultOrder
	}
	if f.AppLimit != 0 {
		cfg.AppLimit = f.AppLimit
	}
	if f.MatchMode != "" {
		cfg.MatchMode = MatchMode(strings.ToLower(f.MatchMode))
	}
	if f.LogLevel != "" {
		level, err := log.ParseLevel(f.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("%w: log_level: %v", ErrInvalid, err)
		}
		cfg.LogLevel = level
	}
	if f.History != nil {
		cfg.History = *f.History
	}
	if f.Launch != nil {
		cfg.Launch.Shell = f.Launch.Shell
		if f.Launch.Terminal != "" {
			cfg.Launch.Terminal = f.Launch.Terminal
		}
	}

	return cfg, nil
}

// Validate checks the config for errors that would make startup pointless.
// URL template hosts are normalized to their ASCII form in place.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Font) == "" {
		return fmt.Errorf("%w: font must not be empty", ErrInvalid)
	}
	if !strings.Contains(c.SearchTemplate, QueryPlaceholder) {
		return fmt.Errorf("%w: search_template must contain %s", ErrInvalid, QueryPlaceholder)
	}
	tmpl, err := normalizeTemplate(c.SearchTemplate)
	if err != nil {
		return fmt.Errorf("%w: search_template: %v", ErrInvalid, err)
	}
	c.SearchTemplate = tmpl

	if c.AppLimit < 0 {
		return fmt.Errorf("%w: app_limit must be positive, got %d", ErrInvalid, c.AppLimit)
	}
	switch c.MatchMode {
	case MatchSubstring, MatchFuzzy:
	default:
		return fmt.Errorf("%w: match_mode %q (want %q or %q)", ErrInvalid, c.MatchMode, MatchSubstring, MatchFuzzy)
	}

	seen := make(map[string]string, len(c.WebPrefixes))
	for i, p := range c.WebPrefixes {
		if p.Name == "" || p.Trigger == "" {
			return fmt.Errorf("%w: web_prefixes[%d]: name and trigger are required", ErrInvalid, i)
		}
		if other, ok := seen[p.Trigger]; ok {
			return fmt.Errorf("%w: web_prefixes[%d]: trigger %q already used by %q", ErrInvalid, i, p.Trigger, other)
		}
		seen[p.Trigger] = p.Name

		tmpl, err := normalizeTemplate(p.URL)
		if err != nil {
			return fmt.Errorf("%w: web_prefixes[%d] (%s): %v", ErrInvalid, i, p.Name, err)
		}
		c.WebPrefixes[i].URL = tmpl
	}
	return nil
}

// normalizeTemplate checks that tmpl is an absolute URL once the placeholder
// is filled and rewrites an internationalized host to punycode.
func normalizeTemplate(tmpl string) (string, error) {
	u, err := url.Parse(strings.ReplaceAll(tmpl, QueryPlaceholder, "q"))
	if err != nil {
		return "", fmt.Errorf("parse url template %q: %w", tmpl, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("url template %q is not absolute", tmpl)
	}

	host := u.Hostname()
	ascii, err := idna.Lookup.ToASCII(host)
	if err != nil {
		return "", fmt.Errorf("url template host %q: %w", host, err)
	}
	if ascii == host {
		return tmpl, nil
	}
	return strings.Replace(tmpl, host, ascii, 1), nil
}

func parseRGB(raw []int) (Color, error) {
	if len(raw) != 3 {
		return Color{}, fmt.Errorf("want [r, g, b], got %d values", len(raw))
	}
	var rgb [3]uint8
	for i, v := range raw {
		if v < 0 || v > 255 {
			return Color{}, fmt.Errorf("component %d out of range: %d", i, v)
		}
		rgb[i] = uint8(v)
	}
	return Color{R: rgb[0], G: rgb[1], B: rgb[2], A: 255}, nil
}

func firstNonNil(vals ...[]int) []int {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}
