package fsattr

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/plsx/internal/models"
	"github.com/desertthunder/plsx/internal/plparser"
	"github.com/desertthunder/plsx/internal/pls"
	"github.com/patrickmn/go-cache"
)

// DirectoryType is the content type reported for directories.
const DirectoryType = "inode/directory"

// thumbnail size directories, largest first
var thumbnailSizes = []string{"xx-large", "x-large", "large", "normal"}

// extension types the system mime database commonly lacks
var mediaTypes = map[string]string{
	".mp3":  "audio/mpeg",
	".ogg":  "audio/ogg",
	".oga":  "audio/ogg",
	".opus": "audio/ogg",
	".flac": "audio/flac",
	".m4a":  "audio/mp4",
	".aac":  "audio/aac",
	".wav":  "audio/x-wav",
	".wma":  "audio/x-ms-wma",
	".mkv":  "video/x-matroska",
	".webm": "video/webm",
	".mp4":  "video/mp4",
	".avi":  "video/x-msvideo",
	".mov":  "video/quicktime",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

var registerTypes sync.Once

// Opts configures a [Provider].
type Opts struct {
	TTL          time.Duration // Memoization lifetime, 0 disables it
	ThumbnailDir string        // Defaults to $XDG_CACHE_HOME/thumbnails
	Logger       *log.Logger
}

// Provider answers attribute queries for local paths.
type Provider struct {
	cache        *cache.Cache
	thumbnailDir string
	logger       *log.Logger
}

// New creates a provider.
func New(opts Opts) *Provider {
	registerTypes.Do(func() {
		for ext, typ := range mediaTypes {
			_ = mime.AddExtensionType(ext, typ)
		}
		for ext, typ := range plparser.Extensions() {
			_ = mime.AddExtensionType(ext, typ)
		}
	})

	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.ThumbnailDir == "" {
		opts.ThumbnailDir = DefaultThumbnailDir()
	}

	p := &Provider{thumbnailDir: opts.ThumbnailDir, logger: opts.Logger.WithPrefix("fsattr")}
	if opts.TTL > 0 {
		p.cache = cache.New(opts.TTL, 2*opts.TTL)
	}
	return p
}

// DefaultThumbnailDir returns the freedesktop.org thumbnail cache directory.
func DefaultThumbnailDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "thumbnails")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".cache", "thumbnails")
}

// QueryAttributes returns the attributes of path, following symlinks.
func (p *Provider) QueryAttributes(path string) (*models.Attributes, error) {
	if p.cache != nil {
		if v, ok := p.cache.Get(path); ok {
			attrs := *v.(*models.Attributes)
			return &attrs, nil
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	attrs := &models.Attributes{
		DisplayName: info.Name(),
		FileType:    fileType(info),
		ModTime:     info.ModTime(),
		ContentType: ContentType(path, info),
	}
	if attrs.FileType == models.FileTypeRegular {
		attrs.ThumbnailPath, attrs.ThumbnailingFailed = p.thumbnail(path)
	}

	if p.cache != nil {
		p.cache.Set(path, attrs, cache.DefaultExpiration)
		c := *attrs
		return &c, nil
	}
	return attrs, nil
}

// Invalidate drops the memoized attributes of path.
func (p *Provider) Invalidate(path string) {
	if p.cache != nil {
		p.cache.Delete(path)
	}
}

// Cached returns the number of memoized entries.
func (p *Provider) Cached() int {
	if p.cache == nil {
		return 0
	}
	return p.cache.ItemCount()
}

func fileType(info fs.FileInfo) models.FileType {
	switch mode := info.Mode(); {
	case mode.IsDir():
		return models.FileTypeDirectory
	case mode.IsRegular():
		return models.FileTypeRegular
	case mode&fs.ModeSymlink != 0:
		return models.FileTypeSymlink
	default:
		return models.FileTypeSpecial
	}
}

// ContentType guesses the content type of path from its extension, falling back
// to sniffing the first bytes of regular files.
func ContentType(path string, info fs.FileInfo) string {
	if info != nil && info.IsDir() {
		return DirectoryType
	}
	if typ := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); typ != "" {
		return stripParams(typ)
	}
	if info != nil && !info.Mode().IsRegular() {
		return ""
	}

	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return ""
	}
	if n == 0 {
		return ""
	}
	if format := plparser.DetectFormat(path, head[:n]); format != plparser.FormatUnknown {
		return format.Mime()
	}
	return stripParams(http.DetectContentType(head[:n]))
}

func stripParams(typ string) string {
	if mt, _, err := mime.ParseMediaType(typ); err == nil {
		return mt
	}
	return typ
}

// ThumbnailName returns the freedesktop.org thumbnail file name for path.
func ThumbnailName(path string) string {
	sum := md5.Sum([]byte(pls.FileURL(path)))
	return hex.EncodeToString(sum[:]) + ".png"
}

// thumbnail returns the path of an existing thumbnail for path and whether a
// thumbnailer recorded a failure for it.
func (p *Provider) thumbnail(path string) (string, bool) {
	if p.thumbnailDir == "" {
		return "", false
	}
	name := ThumbnailName(path)

	for _, size := range thumbnailSizes {
		candidate := filepath.Join(p.thumbnailDir, size, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, false
		}
	}

	failures, err := os.ReadDir(filepath.Join(p.thumbnailDir, "fail"))
	if err != nil {
		return "", false
	}
	for _, app := range failures {
		if !app.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(p.thumbnailDir, "fail", app.Name(), name)); err == nil {
			p.logger.Debug("thumbnailing previously failed", "path", path, "thumbnailer", app.Name())
			return "", true
		}
	}
	return "", false
}
