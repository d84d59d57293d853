// Package paths resolves author-supplied file references against the site
// tree. Sites are authored on case-insensitive filesystems and deployed on
// case-sensitive ones, so every lookup runs a cascading list of candidate
// strategies and returns the first hit instead of trusting the exact
// spelling.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// ResolveCaseInsensitive resolves rel under baseDir trying, in order: the
// exact path, the lowercased filename (directory case preserved), and the
// fully lowercased relative path. It returns the first existing path.
func ResolveCaseInsensitive(baseDir, rel string) (string, bool) {
	candidates := []string{
		filepath.Join(baseDir, rel),
		filepath.Join(baseDir, filepath.Dir(rel), strings.ToLower(filepath.Base(rel))),
		filepath.Join(baseDir, strings.ToLower(rel)),
	}
	for _, candidate := range candidates {
		if fileExists(candidate) {
			return candidate, true
		}
	}
	return "", false
}

// IsExternalURL reports whether the reference is an http(s) URL, which
// bypasses filesystem validation entirely.
func IsExternalURL(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// ValidateImagePath checks that an image exists under imagesDir with the
// case-insensitive cascade plus a legacy extension-case fallback (image.jpg
// vs image.JPG). External URLs validate as-is. It returns whether the image
// exists and the path it resolved to (the expected path when missing, for
// use in warning messages).
func ValidateImagePath(imagesDir, imagePath string) (bool, string) {
	if IsExternalURL(imagePath) {
		return true, imagePath
	}

	if resolved, ok := ResolveCaseInsensitive(imagesDir, imagePath); ok {
		return true, resolved
	}

	full := filepath.Join(imagesDir, imagePath)
	if ext := filepath.Ext(full); ext != "" {
		base := strings.TrimSuffix(full, ext)
		for _, alt := range []string{strings.ToUpper(ext), strings.ToLower(ext)} {
			if fileExists(base + alt) {
				return true, base + alt
			}
		}
	}
	return false, full
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
