package plparser

import (
	"bufio"
	"io"
	"strings"

	"github.com/desertthunder/plsx/internal/models"
)

// readM3U reads plain and extended M3U. #EXTINF applies to the next reference;
// #EXTALB, #EXTART and #EXTGENRE apply until replaced.
func readM3U(r io.Reader, emit emitFunc) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	pending := map[string]string{}
	sticky := map[string]string{}
	first := true

	for scanner.Scan() {
		line := scanner.Text()
		if first {
			line = strings.TrimPrefix(line, "\ufeff")
			first = false
		}
		line = strings.TrimSpace(line)

		switch {
		case line == "":
			continue
		case hasDirective(line, "#EXTINF:"):
			pending = parseExtinf(line[len("#EXTINF:"):])
		case hasDirective(line, "#EXTALB:"):
			setOrDelete(sticky, models.MetaAlbum, line[len("#EXTALB:"):])
		case hasDirective(line, "#EXTART:"):
			setOrDelete(sticky, models.MetaAuthor, line[len("#EXTART:"):])
		case hasDirective(line, "#EXTGENRE:"):
			setOrDelete(sticky, models.MetaGenre, line[len("#EXTGENRE:"):])
		case hasDirective(line, "#EXTIMG:"):
			setOrDelete(pending, models.MetaImageURI, line[len("#EXTIMG:"):])
		case strings.HasPrefix(line, "#"):
			continue
		default:
			md := make(map[string]string, len(sticky)+len(pending))
			for k, v := range sticky {
				md[k] = v
			}
			for k, v := range pending {
				md[k] = v
			}
			pending = map[string]string{}
			if err := emit(Entry{URI: line, Metadata: md}); err != nil {
				return err
			}
		}
	}
	return scanner.Err()
}

func hasDirective(line, directive string) bool {
	return len(line) >= len(directive) && strings.EqualFold(line[:len(directive)], directive)
}

func setOrDelete(md map[string]string, key, value string) {
	if value = strings.TrimSpace(value); value != "" {
		md[key] = value
		return
	}
	delete(md, key)
}

// parseExtinf parses `<duration> [attr="value" ...],[artist - ]title`.
func parseExtinf(s string) map[string]string {
	md := map[string]string{}

	header, title := s, ""
	inQuote := false
	for i, c := range s {
		if c == '"' {
			inQuote = !inQuote
		}
		if c == ',' && !inQuote {
			header, title = s[:i], s[i+1:]
			break
		}
	}

	fields := splitAttributes(header)
	if len(fields) > 0 {
		if d := fields[0]; d != "" && !strings.HasPrefix(d, "-") {
			md[models.MetaDuration] = d
		}
		for _, f := range fields[1:] {
			k, v, ok := strings.Cut(f, "=")
			if !ok {
				continue
			}
			v = strings.Trim(v, `"`)
			switch strings.ToLower(k) {
			case "tvg-logo":
				setOrDelete(md, models.MetaImageURI, v)
			case "group-title":
				setOrDelete(md, models.MetaGenre, v)
			}
		}
	}

	title = strings.TrimSpace(title)
	if artist, name, ok := strings.Cut(title, " - "); ok {
		setOrDelete(md, models.MetaAuthor, artist)
		title = strings.TrimSpace(name)
	}
	setOrDelete(md, models.MetaTitle, title)
	return md
}

// splitAttributes splits on whitespace outside double quotes.
func splitAttributes(s string) []string {
	var fields []string
	var b strings.Builder
	inQuote := false
	for _, c := range strings.TrimSpace(s) {
		switch {
		case c == '"':
			inQuote = !inQuote
			b.WriteRune(c)
		case (c == ' ' || c == '\t') && !inQuote:
			if b.Len() > 0 {
				fields = append(fields, b.String())
				b.Reset()
			}
		default:
			b.WriteRune(c)
		}
	}
	if b.Len() > 0 {
		fields = append(fields, b.String())
	}
	return fields
}
