// package formatter renders browse results to various formats (plain text, CSV, Markdown, JSON, M3U)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/plsx/internal/models"
	"github.com/desertthunder/plsx/internal/pls"
	"github.com/desertthunder/plsx/internal/shared"
)

// Supported export formats.
const (
	FormatText     = "text"
	FormatCSV      = "csv"
	FormatMarkdown = "md"
	FormatJSON     = "json"
	FormatM3U      = "m3u"
)

// Formats lists the accepted --format values.
var Formats = []string{FormatText, FormatCSV, FormatMarkdown, FormatJSON, FormatM3U}

var extensions = map[string]string{
	FormatText:     ".txt",
	FormatCSV:      ".csv",
	FormatMarkdown: ".md",
	FormatJSON:     ".json",
	FormatM3U:      ".m3u",
}

// Listing is the result of browsing one container.
type Listing struct {
	Container *models.Media
	Items     []*models.Media
	Keys      []models.Key // Columns to render; empty means models.DefaultKeys
	Skip      uint         // Offset of the first item, used for numbering
}

func (l *Listing) keys() []models.Key {
	if len(l.Keys) == 0 {
		return models.DefaultKeys()
	}
	return l.Keys
}

func (l *Listing) title() string {
	if l.Container == nil {
		return "Playlist"
	}
	if l.Container.Title != "" {
		return l.Container.Title
	}
	if path, err := pls.ResolvePath(l.Container.URL); err == nil {
		return filepath.Base(path)
	}
	return l.Container.URL
}

// Value renders a single metadata key of m. Unset values render as "".
func Value(m *models.Media, k models.Key) string {
	switch k {
	case models.KeyTitle:
		return m.Title
	case models.KeyURL:
		return m.URL
	case models.KeyMime:
		return m.Mime
	case models.KeyModificationDate:
		if m.ModificationDate.IsZero() {
			return ""
		}
		return m.ModificationDate.Format(time.RFC3339)
	case models.KeyChildCount:
		if !m.IsCollection() || m.ChildCount == models.UnknownChildCount {
			return ""
		}
		return strconv.Itoa(m.ChildCount)
	case models.KeyDuration:
		if m.Duration <= 0 {
			return ""
		}
		return shared.FormatDuration(m.Duration)
	case models.KeyThumbnail:
		return m.Thumbnail
	case models.KeyAlbum:
		return m.Album
	case models.KeyArtist:
		return m.Artist
	case models.KeyGenre:
		return m.Genre
	default:
		return ""
	}
}

// Export renders l in format.
func Export(l *Listing, format string) ([]byte, error) {
	switch NormalizeFormat(format) {
	case FormatText:
		return ExportToText(l)
	case FormatCSV:
		return ExportToCSV(l)
	case FormatMarkdown:
		return ExportToMarkdown(l)
	case FormatJSON:
		return ExportToJSON(l)
	case FormatM3U:
		return ExportToM3U(l)
	default:
		return nil, fmt.Errorf("%w: unknown format %q (expected one of %s)", shared.ErrInvalidFlag, format, strings.Join(Formats, ", "))
	}
}

// NormalizeFormat maps format aliases to their canonical name.
func NormalizeFormat(format string) string {
	switch f := strings.ToLower(strings.TrimSpace(format)); f {
	case "", "txt":
		return FormatText
	case "markdown":
		return FormatMarkdown
	case "m3u8":
		return FormatM3U
	default:
		return f
	}
}

// ExportToCSV renders one row per item with a Kind column followed by the listing keys
func ExportToCSV(l *Listing) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	keys := l.keys()
	headers := make([]string, 0, len(keys)+1)
	headers = append(headers, "kind")
	for _, k := range keys {
		headers = append(headers, k.String())
	}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, m := range l.Items {
		record := make([]string, 0, len(keys)+1)
		record = append(record, m.Kind.String())
		for _, k := range keys {
			record = append(record, Value(m, k))
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown renders a heading and a table of the listing keys
func ExportToMarkdown(l *Listing) ([]byte, error) {
	var buf bytes.Buffer
	keys := l.keys()

	buf.WriteString(fmt.Sprintf("# %s\n\n", l.title()))
	if l.Container != nil && l.Container.URL != "" {
		buf.WriteString(fmt.Sprintf("**Source**: `%s`\n\n", l.Container.URL))
	}
	buf.WriteString(fmt.Sprintf("**Entries**: %d\n\n", len(l.Items)))

	if len(l.Items) == 0 {
		return buf.Bytes(), nil
	}

	buf.WriteString("| # | Kind |")
	for _, k := range keys {
		buf.WriteString(fmt.Sprintf(" %s |", k))
	}
	buf.WriteString("\n|---|---|")
	for range keys {
		buf.WriteString("---|")
	}
	buf.WriteString("\n")

	for i, m := range l.Items {
		buf.WriteString(fmt.Sprintf("| %d | %s |", int(l.Skip)+i+1, m.Kind))
		for _, k := range keys {
			buf.WriteString(fmt.Sprintf(" %s |", escapeCell(Value(m, k))))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// ExportToText renders a numbered list of items
func ExportToText(l *Listing) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Playlist: %s\n", l.title()))
	buf.WriteString(fmt.Sprintf("Entries: %d\n\n", len(l.Items)))

	for i, m := range l.Items {
		buf.WriteString(fmt.Sprintf("%d. %s\n", int(l.Skip)+i+1, FormatItem(m, l.keys())))
	}

	return buf.Bytes(), nil
}

// FormatItem renders one item on a single line: kind, title and the remaining keys.
func FormatItem(m *models.Media, keys []models.Key) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s] %s", m.Kind, displayTitle(m)))

	var extra []string
	for _, k := range keys {
		if k == models.KeyTitle {
			continue
		}
		if v := Value(m, k); v != "" {
			extra = append(extra, fmt.Sprintf("%s=%s", k, v))
		}
	}
	if len(extra) > 0 {
		b.WriteString("  ")
		b.WriteString(strings.Join(extra, " "))
	}
	return b.String()
}

func displayTitle(m *models.Media) string {
	title := m.Title
	if title == "" {
		title = m.URL
	}
	if m.Artist != "" {
		return m.Artist + " - " + title
	}
	return title
}

// ExportToJSON renders the container and its items
func ExportToJSON(l *Listing) ([]byte, error) {
	items := l.Items
	if items == nil {
		items = []*models.Media{}
	}
	return shared.MarshalJSON(struct {
		Container *models.Media   `json:"container,omitempty"`
		Skip      uint            `json:"skip,omitempty"`
		Items     []*models.Media `json:"items"`
	}{l.Container, l.Skip, items}, true)
}

// ExportToM3U renders an extended M3U playlist that can be browsed again.
// Local items are written as paths, everything else as its URL.
func ExportToM3U(l *Listing) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("#EXTM3U\n")

	for _, m := range l.Items {
		if m.URL == "" {
			continue
		}
		duration := int64(-1)
		if m.Duration > 0 {
			duration = m.Duration
		}
		buf.WriteString(fmt.Sprintf("#EXTINF:%d,%s\n", duration, displayTitle(m)))

		ref := m.URL
		if path, err := pls.ResolvePath(m.URL); err == nil {
			ref = path
		}
		buf.WriteString(ref + "\n")
	}

	return buf.Bytes(), nil
}

// WriteExport writes l in format to path.
//
// Defaults to the container title plus the format's extension.
func WriteExport(l *Listing, format, path string) (string, error) {
	format = NormalizeFormat(format)
	data, err := Export(l, format)
	if err != nil {
		return "", err
	}

	if path == "" {
		base := strings.TrimSuffix(l.title(), filepath.Ext(l.title()))
		path = base + "_export" + extensions[format]
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s export: %w", format, err)
	}
	return path, nil
}

// ExportHistoryToText renders browse records, newest first, one per line
func ExportHistoryToText(records []*models.BrowseRecord) []byte {
	var buf bytes.Buffer
	if len(records) == 0 {
		buf.WriteString("No browses recorded.\n")
		return buf.Bytes()
	}

	for _, r := range records {
		line := fmt.Sprintf("#%d  %s  %-9s  %d/%d delivered  %s",
			r.Sequence(),
			r.FinishedAt.Local().Format("2006-01-02 15:04:05"),
			r.Status,
			r.Delivered,
			r.Total,
			r.ContainerURL,
		)
		if r.Skipped > 0 {
			line += fmt.Sprintf("  (%d skipped)", r.Skipped)
		}
		if r.ErrorMessage != "" && r.Status.IsTerminalError() {
			line += "  error: " + r.ErrorMessage
		}
		buf.WriteString(line + "\n")
	}
	return buf.Bytes()
}
