package manifest

import (
	"log/slog"

	"git.home.luguber.info/inful/docsync/internal/logfields"
	"git.home.luguber.info/inful/docsync/internal/nav"
)

// Reconcile rewrites the navigation of the document at path when it differs
// from n. It reports whether the file was written. An unchanged navigation
// leaves the file, and its modification time, untouched.
func Reconcile(path string, n nav.Nav) (bool, error) {
	doc, err := Load(path)
	if err != nil {
		return false, err
	}

	current, ok, err := doc.Nav()
	if err != nil {
		// An undecodable nav is replaced rather than treated as fatal.
		slog.Warn("Existing navigation is not in a recognized shape, replacing it", logfields.Path(path), logfields.Error(err))
	} else if ok && nav.Equal(current, n) {
		slog.Debug("Navigation unchanged, skipping write", logfields.Path(path))
		return false, nil
	}
	if ok && err == nil {
		slog.Debug("Navigation changed", logfields.Path(path), slog.String("diff", nav.Diff(current, n)))
	}

	if err := doc.SetNav(n); err != nil {
		return false, err
	}
	if err := doc.Save(path); err != nil {
		return false, err
	}
	slog.Info("Updated navigation", logfields.Path(path), logfields.Changed(true))
	return true, nil
}
