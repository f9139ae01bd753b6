package installer

import (
	"archive/tar"    // Reading .tar archives
	"archive/zip"    // Reading .zip archives
	"compress/bzip2" // Reading .bz2 compressed data
	"compress/gzip"  // Reading .gz compressed data
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip" // Reading .7z archives
	"github.com/xi2/xz"          // Reading .xz compressed data

	"fzm/internal/logger"
)

// Extract decompresses the cached archive into destDir, discarding the
// single top-level directory every toolchain archive wraps its payload in,
// so the executable lands directly inside destDir.
//
// A corrupt or truncated archive fails with the decompressor's error;
// the destination may then hold partial contents, and the caller must
// treat any failure as "installation did not succeed" (the version marker
// is only written after Extract returns nil).
func Extract(src, destDir string) error {
	switch {
	case strings.HasSuffix(src, ".zip"):
		logger.Debug("[DEBUG] Archive type is zip\n")
		return extractZip(src, destDir)
	case strings.HasSuffix(src, ".7z"):
		logger.Debug("[DEBUG] Archive type is 7z\n")
		return extract7z(src, destDir)
	case strings.HasSuffix(src, ".tar"), strings.HasSuffix(src, ".tar.gz"), strings.HasSuffix(src, ".tgz"),
		strings.HasSuffix(src, ".tar.bz2"), strings.HasSuffix(src, ".tar.xz"):
		logger.Debug("[DEBUG] Archive type is tar\n")
		return extractTar(src, destDir)
	default:
		return fmt.Errorf("installer: unsupported archive format: %s", src)
	}
}

// extractTar handles tar and its compressed variants.
func extractTar(src, destDir string) error {
	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("installer: open archive: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f
	switch {
	case strings.HasSuffix(src, ".tar.gz"), strings.HasSuffix(src, ".tgz"):
		gr, err := gzip.NewReader(f)
		if err != nil {
			return fmt.Errorf("installer: bad gzip archive: %w", err)
		}
		defer gr.Close()
		reader = gr
	case strings.HasSuffix(src, ".tar.bz2"):
		reader = bzip2.NewReader(f)
	case strings.HasSuffix(src, ".tar.xz"):
		xzr, err := xz.NewReader(f, 0)
		if err != nil {
			return fmt.Errorf("installer: bad xz archive: %w", err)
		}
		reader = xzr
	}

	tr := tar.NewReader(reader)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("installer: bad archive: %w", err)
		}

		rel, skip, err := stripRoot(hdr.Name)
		if err != nil {
			return err
		}
		if skip {
			continue
		}
		target, err := securePath(destDir, rel)
		if err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("installer: mkdir %s: %w", target, err)
			}
		case tar.TypeReg:
			if err := writeEntry(target, tr, os.FileMode(hdr.Mode)); err != nil {
				return err
			}
		case tar.TypeSymlink:
			if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("installer: replace symlink %s: %w", target, err)
			}
			if err := os.Symlink(hdr.Linkname, target); err != nil {
				return fmt.Errorf("installer: symlink %s: %w", target, err)
			}
		}
	}
	return nil
}

// extractZip extracts a .zip archive.
func extractZip(src, destDir string) error {
	r, err := zip.OpenReader(src)
	if err != nil {
		return fmt.Errorf("installer: bad zip archive: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		rel, skip, err := stripRoot(f.Name)
		if err != nil {
			return err
		}
		if skip {
			continue
		}
		target, err := securePath(destDir, rel)
		if err != nil {
			return err
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("installer: mkdir %s: %w", target, err)
			}
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("installer: read zip entry %s: %w", f.Name, err)
		}
		err = writeEntry(target, rc, f.Mode())
		rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

// extract7z extracts a .7z archive using the sevenzip library.
func extract7z(src, destDir string) error {
	r, err := sevenzip.OpenReader(src)
	if err != nil {
		return fmt.Errorf("installer: bad 7z archive: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		rel, skip, err := stripRoot(f.Name)
		if err != nil {
			return err
		}
		if skip {
			continue
		}
		target, err := securePath(destDir, rel)
		if err != nil {
			return err
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("installer: mkdir %s: %w", target, err)
			}
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("installer: read 7z entry %s: %w", f.Name, err)
		}
		err = writeEntry(target, rc, f.Mode())
		rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

// writeEntry creates target (and any missing parent directories) from the
// entry reader, preserving the archive's executable bits.
func writeEntry(target string, r io.Reader, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("installer: mkdir for %s: %w", target, err)
	}
	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode.Perm())
	if err != nil {
		return fmt.Errorf("installer: create %s: %w", target, err)
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return fmt.Errorf("installer: write %s: %w", target, err)
	}
	return out.Close()
}

// stripRoot removes the archive's single top-level path component from an
// entry name. The root itself is skipped (nothing to create for it), and
// entries that climb out of the archive are rejected. Archive entries use
// forward slashes regardless of platform.
func stripRoot(name string) (rel string, skip bool, err error) {
	clean := path.Clean(strings.ReplaceAll(name, "\\", "/"))
	clean = strings.TrimPrefix(clean, "./")
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", false, fmt.Errorf("installer: illegal archive path %s", name)
	}
	if clean == "." || clean == "" || clean == "/" {
		return "", true, nil
	}
	clean = strings.TrimPrefix(clean, "/")

	idx := strings.IndexByte(clean, '/')
	if idx < 0 || clean[idx+1:] == "" {
		return "", true, nil
	}
	return filepath.FromSlash(clean[idx+1:]), false, nil
}

// securePath joins rel under destDir, rejecting entries that would land
// outside it (zip-slip). stripRoot already cleaned the path, so this is a
// belt check against anything Join could still push outside the root.
func securePath(destDir, rel string) (string, error) {
	target := filepath.Join(destDir, rel)
	root := filepath.Clean(destDir)
	if target != root && !strings.HasPrefix(target, root+string(os.PathSeparator)) {
		return "", fmt.Errorf("installer: illegal archive path %s", rel)
	}
	return target, nil
}
