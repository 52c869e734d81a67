// Package csvexport writes the semicolon separated lists the club office opens in Excel.
package csvexport

import (
	"encoding/csv"
	"io"

	"laufmanager.de/models"
)

const separator = ';'

func newWriter(w io.Writer) *csv.Writer {
	cw := csv.NewWriter(w)
	cw.Comma = separator
	cw.UseCRLF = true
	return cw
}

func yesNo(b bool) string {
	if b {
		return "ja"
	}
	return "nein"
}

// WriteAttendees writes the roster of one event.
func WriteAttendees(w io.Writer, attendees []models.Attendee) error {
	cw := newWriter(w)
	if err := cw.Write([]string{"Name", "Email"}); err != nil {
		return err
	}
	for _, a := range attendees {
		if err := cw.Write([]string{a.DisplayName, a.Email}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteRunners writes the member list.
func WriteRunners(w io.Writer, runners []models.Runner) error {
	cw := newWriter(w)
	if err := cw.Write([]string{"Name", "Email", "Admin"}); err != nil {
		return err
	}
	for i := range runners {
		r := &runners[i]
		if err := cw.Write([]string{r.Name(), r.Email, yesNo(r.IsAdmin)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
