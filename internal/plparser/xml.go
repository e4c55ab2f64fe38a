package plparser

import (
	"encoding/xml"
	"errors"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/desertthunder/plsx/internal/models"
)

// readXML reads ASX and XSPF. Element names are matched case-insensitively
// since ASX files in the wild mix case freely.
func readXML(r io.Reader, format Format, emit emitFunc) error {
	dec := xml.NewDecoder(r)
	dec.Strict = false
	dec.AutoClose = xml.HTMLAutoClose
	dec.Entity = xml.HTMLEntity
	dec.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) { return input, nil }

	item := "entry"
	if format == FormatXSPF {
		item = "track"
	}

	var cur *Entry
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			name := strings.ToLower(t.Name.Local)
			if name == item {
				cur = &Entry{Metadata: map[string]string{}}
				continue
			}
			if cur == nil {
				continue
			}
			if format == FormatASX {
				err = asxField(dec, t, name, cur)
			} else {
				err = xspfField(dec, t, name, cur)
			}
			if err != nil {
				return err
			}

		case xml.EndElement:
			if strings.ToLower(t.Name.Local) != item || cur == nil {
				continue
			}
			e := *cur
			cur = nil
			if e.URI == "" {
				continue
			}
			if err := emit(e); err != nil {
				return err
			}
		}
	}
}

func attr(se xml.StartElement, name string) string {
	for _, a := range se.Attr {
		if strings.EqualFold(a.Name.Local, name) {
			return strings.TrimSpace(a.Value)
		}
	}
	return ""
}

func text(dec *xml.Decoder, se xml.StartElement) (string, error) {
	var s string
	if err := dec.DecodeElement(&s, &se); err != nil {
		return "", err
	}
	return strings.TrimSpace(s), nil
}

func asxField(dec *xml.Decoder, se xml.StartElement, name string, e *Entry) error {
	switch name {
	case "ref":
		if e.URI == "" {
			e.URI = attr(se, "href")
		}
	case "duration":
		if v := attr(se, "value"); v != "" {
			e.Metadata[models.MetaDuration] = v
		}
	case "title", "author", "copyright", "abstract":
		s, err := text(dec, se)
		if err != nil {
			return err
		}
		switch name {
		case "title":
			setOrDelete(e.Metadata, models.MetaTitle, s)
		case "author":
			setOrDelete(e.Metadata, models.MetaAuthor, s)
		}
	}
	return nil
}

func xspfField(dec *xml.Decoder, se xml.StartElement, name string, e *Entry) error {
	switch name {
	case "location", "title", "creator", "album", "duration", "image", "annotation", "info", "identifier":
	default:
		return nil
	}

	s, err := text(dec, se)
	if err != nil {
		return err
	}
	switch name {
	case "location":
		if e.URI == "" {
			e.URI = xspfLocation(s)
		}
	case "title":
		setOrDelete(e.Metadata, models.MetaTitle, s)
	case "creator":
		setOrDelete(e.Metadata, models.MetaAuthor, s)
	case "album":
		setOrDelete(e.Metadata, models.MetaAlbum, s)
	case "image":
		setOrDelete(e.Metadata, models.MetaImageURI, s)
	case "duration":
		// milliseconds
		if ms, err := strconv.ParseInt(s, 10, 64); err == nil && ms > 0 {
			e.Metadata[models.MetaDuration] = strconv.FormatInt(ms/1000, 10)
		}
	}
	return nil
}

// xspfLocation unescapes relative locations; absolute URIs are kept as written.
func xspfLocation(s string) string {
	if strings.Contains(s, "://") || strings.HasPrefix(s, "file:") {
		return s
	}
	if u, err := url.PathUnescape(s); err == nil {
		return u
	}
	return s
}
