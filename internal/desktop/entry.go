package desktop

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-ini/ini"
)

const groupDesktopEntry = "Desktop Entry"

var (
	// ErrNoEntryGroup is returned for files without a [Desktop Entry] group.
	ErrNoEntryGroup = errors.New("missing [Desktop Entry] group")
	// ErrNotApplication is returned for Link and Directory entries.
	ErrNotApplication = errors.New("not an application entry")
	// ErrNoName is returned when the entry has no Name key.
	ErrNoName = errors.New("missing Name")
	// ErrNoExec is returned when the entry has nothing to launch.
	ErrNoExec = errors.New("missing Exec")
)

// App is an installed application descriptor. Apps are created once when the
// index loads and shared by pointer afterwards; nothing mutates them.
type App struct {
	ID         string            // desktop file ID, e.g. org.gnome.Nautilus.desktop
	Path       string            // file the entry was read from
	Name       string            // untranslated Name
	Names      map[string]string // Name[locale] values keyed by locale
	Comment    string
	Icon       string
	Exec       string
	WorkDir    string
	Terminal   bool
	Hidden     bool // NoDisplay=true or Hidden=true
	OnlyShowIn []string
	NotShowIn  []string
}

// LocalName returns the Name value for the first matching locale, falling
// back to the untranslated Name.
func (a *App) LocalName(locales []string) string {
	for _, l := range locales {
		if n, ok := a.Names[l]; ok && n != "" {
			return n
		}
	}
	return a.Name
}

// VisibleIn reports whether the app may be shown on the given desktops.
// A nil desktops slice means the current desktop is unknown, in which case
// the allow and deny lists are ignored.
func (a *App) VisibleIn(desktops []string) bool {
	if a.Hidden {
		return false
	}
	if desktops == nil {
		return true
	}
	if a.OnlyShowIn != nil && !intersects(a.OnlyShowIn, desktops) {
		return false
	}
	if a.NotShowIn != nil && intersects(a.NotShowIn, desktops) {
		return false
	}
	return true
}

func intersects(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

// iniOptions adapt the ini reader to desktop entry syntax: values are taken
// verbatim up to the end of the line and lines without '=' are ignored.
var iniOptions = ini.LoadOptions{
	IgnoreInlineComment:     true,
	IgnoreContinuation:      true,
	PreserveSurroundedQuote: true,
	SkipUnrecognizableLines: true,
	KeyValueDelimiters:      "=",
}

// Parse reads a desktop entry file. Only the [Desktop Entry] group is kept;
// action groups and unknown keys are ignored.
func Parse(id, path string, data []byte) (*App, error) {
	f, err := ini.LoadSources(iniOptions, data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	sec, err := f.GetSection(groupDesktopEntry)
	if err != nil {
		return nil, ErrNoEntryGroup
	}

	app := &App{ID: id, Path: path, Names: map[string]string{}}
	var entryType string
	for _, k := range sec.Keys() {
		key, value := k.Name(), unescape(k.Value())

		if base, locale, ok := splitLocale(key); ok {
			if base == "Name" {
				app.Names[locale] = value
			}
			continue
		}

		switch key {
		case "Type":
			entryType = value
		case "Name":
			app.Name = value
		case "Comment":
			app.Comment = value
		case "Icon":
			app.Icon = value
		case "Exec":
			app.Exec = value
		case "Path":
			app.WorkDir = value
		case "Terminal":
			app.Terminal = value == "true"
		case "NoDisplay", "Hidden":
			app.Hidden = app.Hidden || value == "true"
		case "OnlyShowIn":
			app.OnlyShowIn = splitList(value)
		case "NotShowIn":
			app.NotShowIn = splitList(value)
		}
	}

	switch {
	case entryType != "" && entryType != "Application":
		return nil, ErrNotApplication
	case app.Name == "":
		return nil, ErrNoName
	case app.Exec == "":
		return nil, ErrNoExec
	}
	return app, nil
}

// splitLocale splits "Name[de_DE]" into ("Name", "de_DE").
func splitLocale(key string) (string, string, bool) {
	open := strings.IndexByte(key, '[')
	if open <= 0 || !strings.HasSuffix(key, "]") {
		return "", "", false
	}
	return key[:open], key[open+1 : len(key)-1], true
}

// splitList parses a semicolon separated list value. Empty items are dropped.
func splitList(value string) []string {
	out := []string{}
	for _, item := range strings.Split(value, ";") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// unescape handles the \s \n \t \r \\ escapes of string values.
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			b.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case 's':
			b.WriteByte(' ')
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '\\':
			b.WriteByte('\\')
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
