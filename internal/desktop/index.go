package desktop

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charlievieth/fastwalk"

	"github.com/nikbrunner/sprint/internal/logging"
)

// Index is the read-only set of installed applications. It is built once at
// startup and owned for the lifetime of the process.
type Index struct {
	apps     []*App
	locales  []string
	desktops []string
}

// NewIndex builds an index from already parsed apps.
func NewIndex(apps []*App, locales, desktops []string) *Index {
	return &Index{apps: apps, locales: locales, desktops: desktops}
}

// Apps returns the apps in load order. Callers must not modify the slice.
func (ix *Index) Apps() []*App { return ix.apps }

// Locales returns the locale lookup order used for names.
func (ix *Index) Locales() []string { return ix.locales }

// Desktops returns the current desktop environments, or nil when unknown.
func (ix *Index) Desktops() []string { return ix.desktops }

// Name returns the locale-resolved display name of app.
func (ix *Index) Name(app *App) string { return app.LocalName(ix.locales) }

// LoadParams holds parameters for Load.
type LoadParams struct {
	Dirs     []string // searched in priority order
	Locales  []string
	Desktops []string
}

// Load scans Dirs for *.desktop files and parses them.
// When two directories provide the same desktop file ID, the earlier
// directory wins. Unparseable entries are skipped.
func Load(ctx context.Context, params LoadParams) (*Index, error) {
	start := time.Now()
	seen := make(map[string]bool)
	var apps []*App

	for _, dir := range params.Dirs {
		files, err := scanDir(ctx, dir)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			if seen[f.id] {
				continue
			}
			data, err := os.ReadFile(f.path)
			if err != nil {
				logging.Debug("skipping unreadable desktop file", "path", f.path, "err", err)
				continue
			}
			app, err := Parse(f.id, f.path, data)
			if err != nil {
				logging.Debug("skipping desktop file", "path", f.path, "err", err)
				// Still shadow lower-priority entries with the same ID
				seen[f.id] = true
				continue
			}
			seen[f.id] = true
			apps = append(apps, app)
		}
	}

	logging.Debug("desktop index loaded", "apps", len(apps), "dirs", len(params.Dirs), "took", time.Since(start))
	return NewIndex(apps, params.Locales, params.Desktops), nil
}

type desktopFile struct {
	id   string
	path string
}

// scanDir walks one applications directory. The walk runs concurrently, so
// results are sorted by path afterwards to keep load order deterministic.
func scanDir(ctx context.Context, root string) ([]desktopFile, error) {
	if _, err := os.Stat(root); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("stat %s: %w", root, err)
	}

	var (
		mu    sync.Mutex
		files []desktopFile
	)
	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, root, func(p string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil || d.IsDir() || !strings.HasSuffix(p, ".desktop") {
			return nil
		}
		rel, relErr := filepath.Rel(root, p)
		if relErr != nil {
			return nil
		}

		mu.Lock()
		files = append(files, desktopFile{id: fileID(rel), path: p})
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].path < files[j].path })
	return files, nil
}

// fileID turns a path relative to an applications dir into a desktop file
// ID: kde/konsole.desktop becomes kde-konsole.desktop.
func fileID(rel string) string {
	return strings.ReplaceAll(filepath.ToSlash(rel), "/", "-")
}

// DefaultDirs returns the XDG applications directories in priority order.
func DefaultDirs() []string {
	var dirs []string

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dataHome = filepath.Join(home, ".local", "share")
		}
	}
	if dataHome != "" {
		dirs = append(dirs, filepath.Join(dataHome, "applications"))
	}

	dataDirs := os.Getenv("XDG_DATA_DIRS")
	if dataDirs == "" {
		dataDirs = "/usr/local/share:/usr/share"
	}
	for _, d := range filepath.SplitList(dataDirs) {
		if d != "" {
			dirs = append(dirs, filepath.Join(d, "applications"))
		}
	}
	return dirs
}

// CurrentDesktops returns XDG_CURRENT_DESKTOP as a list, or nil when unset.
func CurrentDesktops() []string {
	v := os.Getenv("XDG_CURRENT_DESKTOP")
	if v == "" {
		return nil
	}
	var out []string
	for _, d := range strings.Split(v, ":") {
		if d != "" {
			out = append(out, d)
		}
	}
	return out
}

// LocalesFromEnv returns the locale lookup order for localized keys, derived
// from LANGUAGE and the first of LC_ALL, LC_MESSAGES and LANG that is set.
func LocalesFromEnv() []string {
	var raw []string
	for _, l := range strings.Split(os.Getenv("LANGUAGE"), ":") {
		if l != "" {
			raw = append(raw, l)
		}
	}
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(key); v != "" {
			raw = append(raw, v)
			break
		}
	}
	return ExpandLocales(raw...)
}

// ExpandLocales expands each POSIX locale into the match order used for
// localized keys: lang_COUNTRY@MODIFIER, lang_COUNTRY, lang@MODIFIER, lang.
// The encoding part is dropped, and C/POSIX locales are ignored.
func ExpandLocales(locales ...string) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(s string) {
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}

	for _, l := range locales {
		rest, modifier, _ := strings.Cut(l, "@")
		rest, _, _ = strings.Cut(rest, ".")
		if rest == "" || rest == "C" || rest == "POSIX" {
			continue
		}
		lang, country, hasCountry := strings.Cut(rest, "_")

		if hasCountry && modifier != "" {
			add(lang + "_" + country + "@" + modifier)
		}
		if hasCountry {
			add(lang + "_" + country)
		}
		if modifier != "" {
			add(lang + "@" + modifier)
		}
		add(lang)
	}
	return out
}
