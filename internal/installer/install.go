package installer

import (
	"errors"
	"fmt"
	"os"

	"fzm/internal/index"
	"fzm/internal/logger"
	"fzm/internal/state"
	"fzm/internal/store"
)

// Install materializes a toolchain version on disk: resolve the specifier
// against the remote index, download and extract the platform artifact,
// and record the resolved full version in the store marker. Installing an
// already-installed version is a successful no-op; installing master when
// a newer snapshot exists upstream updates it in place.
func Install(d Deps, specifier string) error {
	if err := index.ValidateSpecifier(specifier); err != nil {
		return err
	}

	info, err := d.Index.Resolve(specifier)
	if err != nil {
		return err
	}
	fullVersion := info.FullVersion(specifier)

	existing, err := d.Store.Installed(specifier)
	switch {
	case err == nil && existing == fullVersion:
		logger.Info("[INFO] %s (%s) is already installed\n", specifier, fullVersion)
		return nil
	case err == nil && specifier != "master":
		// A tagged release never changes upstream; whatever the marker
		// says, there is nothing to update.
		logger.Info("[INFO] %s is already installed\n", specifier)
		return nil
	case err == nil:
		logger.Info("[INFO] Updating master: %s -> %s\n", existing, fullVersion)
	case errors.Is(err, store.ErrNotInstalled):
		// Normal first-install path.
	default:
		return err
	}

	platform := index.PlatformKey()
	artifact, ok := info.Artifacts[platform]
	if !ok {
		return fmt.Errorf("%w: %s has no %s build", ErrNoArtifact, specifier, platform)
	}

	d.Sink.Status(fmt.Sprintf("downloading %s...", fullVersion))
	archive, err := Download(artifact.Tarball, d.CacheDir, d.Sink)
	if err != nil {
		return err
	}

	destDir := d.Store.Dir(specifier)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("installer: create version directory: %w", err)
	}

	d.Sink.Status(fmt.Sprintf("extracting %s...", fullVersion))
	if err := Extract(archive, destDir); err != nil {
		// Partial contents may remain, but without a marker the store
		// still reports the version as not installed and a retry
		// re-extracts over them.
		return err
	}

	// The marker is written last: its presence is what "installed" means.
	if err := d.Store.WriteMarker(specifier, fullVersion); err != nil {
		return err
	}

	// First install bootstraps activation so a bare "fzm install" leaves a
	// usable default. The symlink is not touched here; that is the
	// use/env flow's job.
	st := state.Load(d.StatePath)
	if st.InUse == "" {
		st.InUse = specifier
		if err := state.Save(d.StatePath, st); err != nil {
			return err
		}
		logger.Debug("[DEBUG] Bootstrapped in-use version to %s\n", specifier)
	}

	logger.Info("[INFO] Installed %s (%s)\n", specifier, fullVersion)
	return nil
}
