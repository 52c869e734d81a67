// Package icalendar writes the RFC 5545 documents served as calendar feeds.
package icalendar

import (
	"bytes"
	"io"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
)

const (
	floatingLayout = "20060102T150405"
	dateLayout     = "20060102"
)

// Entry is one VEVENT. Start and End are read as wall-clock values in their
// own location and written without a zone (floating time). Callers keep them
// in UTC so no daylight saving shift applies. For all-day entries only the
// dates count and End is exclusive.
type Entry struct {
	UID         string
	Stamp       time.Time
	Start       time.Time
	End         time.Time
	AllDay      bool
	Summary     string
	Location    string
	Description string
}

// Document is a calendar being assembled. It is not safe for concurrent use.
type Document struct {
	cal     *ics.Calendar
	entries int
}

// NewDocument starts a PUBLISH calendar with the given product id and display name.
func NewDocument(productID, name string) *Document {
	cal := ics.NewCalendar()
	cal.SetProductId(productID)
	cal.SetXWRCalName(normalizeText(name))
	cal.SetCalscale("GREGORIAN")
	cal.SetMethod(ics.MethodPublish)
	return &Document{cal: cal}
}

// Add appends an entry. Empty location and description are left out.
func (d *Document) Add(e Entry) {
	ev := d.cal.AddEvent(e.UID)
	ev.SetDtStampTime(e.Stamp)

	if e.AllDay {
		ev.SetAllDayStartAt(e.Start)
		ev.SetAllDayEndAt(e.End)
	} else {
		// SetStartAt would convert to UTC; feeds use floating local time
		ev.SetProperty(ics.ComponentPropertyDtStart, e.Start.Format(floatingLayout))
		ev.SetProperty(ics.ComponentPropertyDtEnd, e.End.Format(floatingLayout))
	}

	ev.SetSummary(normalizeText(e.Summary))
	if e.Location != "" {
		ev.SetLocation(normalizeText(e.Location))
	}
	if e.Description != "" {
		ev.SetDescription(normalizeText(e.Description))
	}
	d.entries++
}

// Len returns the number of entries added so far.
func (d *Document) Len() int { return d.entries }

// WriteTo serializes the document with CRLF line endings and 75 octet folding.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	err := d.cal.SerializeTo(cw, ics.WithNewLineWindows)
	return cw.n, err
}

// Bytes returns the serialized document.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := d.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Escape applies TEXT escaping (backslash, newline, comma, semicolon).
// The serializer does this itself; Escape exists for callers building raw lines.
func Escape(s string) string {
	return ics.ToText(normalizeText(s))
}

// Unescape reverses Escape.
func Unescape(s string) string {
	return ics.FromText(s)
}

// normalizeText folds CRLF and lone CR into LF, the only line break TEXT values can carry.
// Other whitespace is kept as entered.
func normalizeText(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
