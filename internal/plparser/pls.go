package plparser

import (
	"bufio"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/desertthunder/plsx/internal/models"
)

type plsEntry struct {
	file   string
	title  string
	length string
}

// readPLS reads the [playlist] section of a PLS file. Entries are emitted in
// index order; indices without a FileN key are dropped.
func readPLS(r io.Reader, emit emitFunc) error {
	scanner := bufio.NewScanner(r)
	entries := map[int]*plsEntry{}
	inPlaylist := false

	for scanner.Scan() {
		line := strings.TrimSpace(strings.TrimPrefix(scanner.Text(), "\ufeff"))
		if line == "" || strings.HasPrefix(line, ";") || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			inPlaylist = strings.EqualFold(line, "[playlist]")
			continue
		}
		if !inPlaylist {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		var field string
		for _, prefix := range []string{"file", "title", "length"} {
			if strings.HasPrefix(key, prefix) {
				field = prefix
				break
			}
		}
		if field == "" {
			continue
		}
		n, err := strconv.Atoi(key[len(field):])
		if err != nil {
			continue
		}

		e, ok := entries[n]
		if !ok {
			e = &plsEntry{}
			entries[n] = e
		}
		switch field {
		case "file":
			e.file = value
		case "title":
			e.title = value
		case "length":
			e.length = value
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	indices := make([]int, 0, len(entries))
	for n := range entries {
		indices = append(indices, n)
	}
	slices.Sort(indices)

	for _, n := range indices {
		e := entries[n]
		if e.file == "" {
			continue
		}
		md := map[string]string{}
		setOrDelete(md, models.MetaTitle, e.title)
		if e.length != "" && !strings.HasPrefix(e.length, "-") {
			md[models.MetaDuration] = e.length
		}
		if err := emit(Entry{URI: e.file, Metadata: md}); err != nil {
			return err
		}
	}
	return nil
}
