package handler

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// UploadsURLPrefix is where saved photos are served from.
const UploadsURLPrefix = "/static/uploads/"

var allowedExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
	"webp": true,
}

// allowedFile checks the extension after the last dot.
func allowedFile(name string) bool {
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return false
	}
	return allowedExtensions[strings.ToLower(name[i+1:])]
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SecureFilename reduces name to a safe ASCII file name: accents are
// decomposed and dropped, path separators and whitespace become
// underscores, other characters are removed and leading or trailing dots
// and underscores are trimmed. The result may be empty.
func SecureFilename(name string) string {
	var b strings.Builder
	for _, r := range norm.NFKD.String(name) {
		if r < 128 {
			b.WriteRune(r)
		}
	}
	s := strings.NewReplacer("/", " ", "\\", " ").Replace(b.String())
	s = strings.Join(strings.Fields(s), "_")
	s = unsafeFilenameChars.ReplaceAllString(s, "")
	return strings.Trim(s, "._")
}

// photoName builds the stored name: sanitized base, unix timestamp suffix,
// original extension.
func photoName(original string, unix int64) string {
	name := SecureFilename(original)
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	if base == "" {
		base = "foto"
	}
	return fmt.Sprintf("%s_%d%s", base, unix, ext)
}

// savePhoto stores the upload and returns its public path.
func (h *Handler) savePhoto(file multipart.File, header *multipart.FileHeader) (string, error) {
	name := photoName(header.Filename, h.clock.Now().Unix())
	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		return "", err
	}
	dst, err := os.OpenFile(filepath.Join(h.uploadDir, name), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		return "", err
	}
	if err := dst.Close(); err != nil {
		return "", err
	}
	return UploadsURLPrefix + name, nil
}

// noDirFS hides directories so the upload folder cannot be listed.
type noDirFS struct {
	fs http.FileSystem
}

func (n noDirFS) Open(name string) (http.File, error) {
	f, err := n.fs.Open(name)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if st.IsDir() {
		f.Close()
		return nil, os.ErrNotExist
	}
	return f, nil
}

// Uploads serves saved photos.
func (h *Handler) Uploads() http.Handler {
	return http.StripPrefix(UploadsURLPrefix, http.FileServer(noDirFS{fs: http.Dir(h.uploadDir)}))
}
