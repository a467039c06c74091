package pipeline

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// maxEmbeddedImageSize caps a single local image inlined as a data URI.
const maxEmbeddedImageSize = 10 << 20

// EmbedLocalImages replaces relative img src paths with data URIs so the
// fragment stays self-contained when pasted elsewhere. Paths must resolve
// under sourceDir. Images that cannot be read or are not images are left as
// they are and reported in skipped. An empty sourceDir is a no-op.
func EmbedLocalImages(doc *goquery.Document, sourceDir string) (embedded int, skipped []string, err error) {
	if sourceDir == "" {
		return 0, nil, nil
	}

	absSourceDir, err := filepath.Abs(sourceDir)
	if err != nil {
		return 0, nil, fmt.Errorf("resolving source directory: %w", err)
	}

	doc.Find("img[src]").Each(func(_ int, img *goquery.Selection) {
		src, _ := img.Attr("src")
		if !isRelativePath(src) {
			return
		}

		absPath := filepath.Join(absSourceDir, filepath.FromSlash(localPath(src)))
		if !isPathUnderDir(absPath, absSourceDir) {
			skipped = append(skipped, src)
			return
		}

		uri, readErr := imageDataURI(absPath)
		if readErr != nil {
			skipped = append(skipped, src)
			return
		}
		img.SetAttr("src", uri)
		embedded++
	})
	return embedded, skipped, nil
}

// localPath drops any query or fragment and decodes percent escapes.
func localPath(src string) string {
	if u, err := url.Parse(src); err == nil && u.Path != "" {
		return u.Path
	}
	return src
}

func imageDataURI(path string) (string, error) {
	f, err := os.Open(path) // #nosec G304 -- path checked against source directory
	if err != nil {
		return "", err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxEmbeddedImageSize+1))
	if err != nil {
		return "", err
	}
	if len(data) > maxEmbeddedImageSize {
		return "", fmt.Errorf("image %s exceeds %d bytes", path, maxEmbeddedImageSize)
	}

	mime := http.DetectContentType(data)
	if strings.HasSuffix(strings.ToLower(path), ".svg") {
		mime = "image/svg+xml"
	}
	if !strings.HasPrefix(mime, "image/") {
		return "", fmt.Errorf("%s is %s, not an image", path, mime)
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// isRelativePath reports whether path points into the local tree.
func isRelativePath(path string) bool {
	if path == "" {
		return false
	}

	// Skip URLs (http, https, file, data, protocol-relative)
	if strings.HasPrefix(path, "http://") ||
		strings.HasPrefix(path, "https://") ||
		strings.HasPrefix(path, "file://") ||
		strings.HasPrefix(path, "data:") ||
		strings.HasPrefix(path, "//") {
		return false
	}

	if strings.HasPrefix(path, "#") {
		return false
	}

	return !filepath.IsAbs(path) && !strings.HasPrefix(path, "/")
}

// isPathUnderDir checks if absPath is under dir (prevents path traversal).
func isPathUnderDir(absPath, dir string) bool {
	cleanPath := filepath.Clean(absPath)
	cleanDir := filepath.Clean(dir)

	// Ensure dir ends with separator for correct prefix matching
	if !strings.HasSuffix(cleanDir, string(filepath.Separator)) {
		cleanDir += string(filepath.Separator)
	}

	return strings.HasPrefix(cleanPath+string(filepath.Separator), cleanDir)
}
