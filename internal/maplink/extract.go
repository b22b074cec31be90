package maplink

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether both axes are inside their geographic range.
func (c Coordinates) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}

const (
	num = `([+-]?\d+\.?\d*)`
	sep = `,\+?`
)

type extractor struct {
	name string
	re   *regexp.Regexp
	// swap is set for encodings that carry longitude first.
	swap bool
}

var barePair = regexp.MustCompile(`^\s*` + num + `\s*,\s*` + num + `\s*$`)

// Order matters: the first in-range match wins.
var extractors = []extractor{
	{name: "at", re: regexp.MustCompile(`@` + num + sep + num)},
	{name: "q", re: regexp.MustCompile(`q=` + num + sep + num)},
	{name: "ll", re: regexp.MustCompile(`ll=` + num + sep + num)},
	{name: "place", re: regexp.MustCompile(`place/.*/@` + num + sep + num)},
	{name: "data_3d4d", re: regexp.MustCompile(`!3d` + num + `!4d` + num)},
	{name: "center", re: regexp.MustCompile(`center=` + num + sep + num)},
	{name: "destination", re: regexp.MustCompile(`destination=` + num + sep + num)},
	{name: "search", re: regexp.MustCompile(`search/` + num + sep + num)},
	{name: "saddr", re: regexp.MustCompile(`saddr=` + num + sep + num)},
	{name: "daddr", re: regexp.MustCompile(`daddr=` + num + sep + num)},
	{name: "data_1d2d", re: regexp.MustCompile(`!1d` + num + `!2d` + num), swap: true},
}

// dms matches pairs such as 7°33'35.3"S 110°49'44.4"E, raw or percent-encoded.
var dms = regexp.MustCompile(
	`(?i)(\d+)(?:°|%C2%B0)(\d+)(?:'|%27)([\d.]+)(?:"|%22)([NS])(?:\+|\s|%20)*` +
		`(\d+)(?:°|%C2%B0)(\d+)(?:'|%27)([\d.]+)(?:"|%22)([EW])`)

// Extract pulls coordinates out of a bare "lat,lng" string or a map URL.
// It never performs network calls.
func Extract(raw string) (Coordinates, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return Coordinates{}, false
	}

	if m := barePair.FindStringSubmatch(value); m != nil {
		if c, ok := pair(m[1], m[2], false); ok {
			return c, true
		}
	}

	decoded, err := url.PathUnescape(value)
	if err != nil {
		decoded = value
	}

	for _, ex := range extractors {
		m := ex.re.FindStringSubmatch(decoded)
		if m == nil {
			continue
		}
		if c, ok := pair(m[1], m[2], ex.swap); ok {
			return c, true
		}
	}

	for _, candidate := range []string{value, decoded} {
		if c, ok := parseDMS(candidate); ok {
			return c, true
		}
	}
	return Coordinates{}, false
}

func pair(a, b string, swap bool) (Coordinates, bool) {
	first, err := strconv.ParseFloat(a, 64)
	if err != nil {
		return Coordinates{}, false
	}
	second, err := strconv.ParseFloat(b, 64)
	if err != nil {
		return Coordinates{}, false
	}
	c := Coordinates{Latitude: first, Longitude: second}
	if swap {
		c = Coordinates{Latitude: second, Longitude: first}
	}
	return c, c.Valid()
}

func parseDMS(s string) (Coordinates, bool) {
	m := dms.FindStringSubmatch(s)
	if m == nil {
		return Coordinates{}, false
	}
	lat, ok := dmsToDecimal(m[1], m[2], m[3], m[4])
	if !ok {
		return Coordinates{}, false
	}
	lng, ok := dmsToDecimal(m[5], m[6], m[7], m[8])
	if !ok {
		return Coordinates{}, false
	}
	c := Coordinates{Latitude: lat, Longitude: lng}
	return c, c.Valid()
}

func dmsToDecimal(deg, min, sec, hemisphere string) (float64, bool) {
	d, err := strconv.ParseFloat(deg, 64)
	if err != nil {
		return 0, false
	}
	m, err := strconv.ParseFloat(min, 64)
	if err != nil {
		return 0, false
	}
	s, err := strconv.ParseFloat(sec, 64)
	if err != nil {
		return 0, false
	}
	v := d + m/60 + s/3600
	switch strings.ToUpper(hemisphere) {
	case "S", "W":
		v = -v
	}
	return v, true
}
