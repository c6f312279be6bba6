package jsonbind

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	dateTimeLexical = regexp.MustCompile(`^-?\d{4,}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.(\d+))?(Z|[+-]\d{2}:\d{2})?$`)
	dateLexical     = regexp.MustCompile(`^-?\d{4,}-\d{2}-\d{2}(Z|[+-]\d{2}:\d{2})?$`)
)

// DateTime is an xsd:dateTime value. It remembers the lexical layout it was
// parsed from (fraction digits and time zone) and writes the same layout
// back.
type DateTime struct {
	time.Time
	layout string
}

// ParseDateTime parses an xsd:dateTime lexical form such as
// 2024-07-19T08:19:46.729+02:00 or 2022-02-03T14:48:54Z.
func ParseDateTime(s string) (DateTime, error) {
	m := dateTimeLexical.FindStringSubmatch(s)
	if m == nil {
		return DateTime{}, fmt.Errorf("jsonbind: invalid xsd:dateTime %q", s)
	}
	layout := "2006-01-02T15:04:05"
	if m[2] != "" {
		layout += "." + strings.Repeat("0", len(m[2]))
	}
	layout += zoneLayout(m[3])
	t, err := time.Parse(layout, s)
	if err != nil {
		return DateTime{}, fmt.Errorf("jsonbind: invalid xsd:dateTime %q: %w", s, err)
	}
	return DateTime{Time: t, layout: layout}, nil
}

// NewDateTime wraps t, formatted as RFC 3339 with milliseconds.
func NewDateTime(t time.Time) DateTime {
	return DateTime{Time: t, layout: "2006-01-02T15:04:05.000Z07:00"}
}

func (d DateTime) String() string {
	layout := d.layout
	if layout == "" {
		layout = time.RFC3339Nano
	}
	return d.Time.Format(layout)
}

// HasZone reports whether the value carries a time zone.
func (d DateTime) HasZone() bool {
	return d.layout == "" || strings.HasSuffix(d.layout, "07:00")
}

func (d DateTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *DateTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("jsonbind: xsd:dateTime must be a string: %w", err)
	}
	parsed, err := ParseDateTime(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Date is an xsd:date value with an optional time zone.
type Date struct {
	time.Time
	layout string
}

func ParseDate(s string) (Date, error) {
	m := dateLexical.FindStringSubmatch(s)
	if m == nil {
		return Date{}, fmt.Errorf("jsonbind: invalid xsd:date %q", s)
	}
	layout := "2006-01-02" + zoneLayout(m[1])
	t, err := time.Parse(layout, s)
	if err != nil {
		return Date{}, fmt.Errorf("jsonbind: invalid xsd:date %q: %w", s, err)
	}
	return Date{Time: t, layout: layout}, nil
}

func (d Date) String() string {
	layout := d.layout
	if layout == "" {
		layout = "2006-01-02"
	}
	return d.Time.Format(layout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("jsonbind: xsd:date must be a string: %w", err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// zoneLayout maps a lexical zone suffix to the layout that reproduces it.
func zoneLayout(zone string) string {
	switch zone {
	case "":
		return ""
	case "Z":
		return "Z07:00"
	default:
		return "-07:00"
	}
}
