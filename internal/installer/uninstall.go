package installer

import (
	"fzm/internal/activate"
	"fzm/internal/index"
	"fzm/internal/logger"
	"fzm/internal/state"
)

// Uninstall removes an installed version. State is made consistent before
// the directory tree goes away: if the version was in use, in-use is
// cleared and the session symlink removed first, so a crash mid-uninstall
// leaves at worst an orphaned directory, never a dangling in-use pointer.
func Uninstall(d Deps, specifier string) error {
	if err := index.ValidateSpecifier(specifier); err != nil {
		return err
	}
	if _, err := d.Store.Installed(specifier); err != nil {
		return err
	}

	st := state.Load(d.StatePath)
	if st.InUse == specifier {
		st.InUse = ""
		if err := state.Save(d.StatePath, st); err != nil {
			return err
		}
		if d.SessionDir != "" {
			if err := activate.Unlink(d.SessionDir); err != nil {
				logger.Warn("[WARN] Could not remove session symlink: %v\n", err)
			}
		}
	}

	if err := d.Store.Remove(specifier); err != nil {
		return err
	}

	logger.Info("[INFO] Uninstalled %s\n", specifier)
	return nil
}
