package cmd

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ardnew/mung"
)

// Search is an ordered list of directories consulted for scripts that are
// not found relative to the working directory.
type Search []string

// MakeSearch returns dirs followed by the entries of $SHAPESCRIPT_PATH,
// without duplicates or empty entries.
func MakeSearch(dirs ...string) Search {
	joined := mung.Make(
		mung.WithSubjectItems(os.Getenv(PathEnv)),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(dirs...),
	).String()

	var s Search

	for _, dir := range filepath.SplitList(joined) {
		if dir = strings.TrimSpace(dir); dir != "" {
			s = append(s, dir)
		}
	}

	return s
}

// Resolve returns the path of the script called name. Names containing a
// path separator are only tried as given. Each candidate is tried as-is
// and then with [Ext] appended.
func (s Search) Resolve(name string) (string, error) {
	dirs := []string{""}
	if !strings.ContainsRune(name, filepath.Separator) && !filepath.IsAbs(name) {
		dirs = append(dirs, s...)
	}

	for _, dir := range dirs {
		base := filepath.Join(dir, name)

		for _, path := range []string{base, base + Ext} {
			if isFile(path) {
				return path, nil
			}
		}
	}

	return "", ErrScriptNotFound.
		With(slog.String("name", name), slog.Any("path", []string(s))).
		Wrap(fs.ErrNotExist)
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	return info.Mode().IsRegular()
}
