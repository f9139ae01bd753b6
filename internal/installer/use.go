package installer

import (
	"fzm/internal/activate"
	"fzm/internal/index"
	"fzm/internal/logger"
	"fzm/internal/manifest"
	"fzm/internal/state"
)

// Use makes an installed version the active one: persist it as in-use and,
// when a shell session is established, repoint the session symlink.
// Symlink trouble is a warning, never a command failure.
func Use(d Deps, specifier string) error {
	if err := index.ValidateSpecifier(specifier); err != nil {
		return err
	}
	if _, err := d.Store.Installed(specifier); err != nil {
		return err
	}

	st := state.Load(d.StatePath)
	st.InUse = specifier
	if err := state.Save(d.StatePath, st); err != nil {
		return err
	}

	if d.SessionDir != "" {
		if err := activate.Link(d.SessionDir, d.Store.ExecutablePath(specifier)); err != nil {
			logger.Warn("[WARN] Could not update session symlink: %v\n", err)
		}
	}

	logger.Info("[INFO] Now using %s\n", specifier)
	return nil
}

// Autoswitch selects an installed version for the project in dir based on
// its manifest's minimum-version constraint, updating only the session
// symlink. It never persists state: the choice is scoped to the directory,
// not the user. The whole path is silent — it runs on every directory
// change, and "no manifest", "no constraint", and "no matching installed
// version" are all normal.
func Autoswitch(d Deps, dir string) error {
	minVersion := manifest.MinimumVersion(dir)
	if minVersion == "" {
		return nil
	}

	match, err := d.Store.FindBestMatch(minVersion)
	if err != nil {
		logger.Debug("[DEBUG] Autoswitch skipped: %v\n", err)
		return nil
	}
	if match == "" || d.SessionDir == "" {
		return nil
	}

	if err := activate.Link(d.SessionDir, d.Store.ExecutablePath(match)); err != nil {
		logger.Warn("[WARN] Could not update session symlink: %v\n", err)
		return nil
	}
	logger.Debug("[DEBUG] Autoswitched session to %s (constraint %s)\n", match, minVersion)
	return nil
}
