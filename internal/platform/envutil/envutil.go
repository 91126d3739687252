package envutil

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// lookup returns the trimmed value of name and whether it was set to
// something other than whitespace.
func lookup(name string) (string, bool) {
	v, ok := os.LookupEnv(name)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

// parsed applies parse to a set variable, keeping def when the variable is
// unset or unparsable.
func parsed[T any](name string, def T, parse func(string) (T, error)) T {
	v, ok := lookup(name)
	if !ok {
		return def
	}
	out, err := parse(v)
	if err != nil {
		return def
	}
	return out
}

func String(name, def string) string {
	if v, ok := lookup(name); ok {
		return v
	}
	return def
}

func Int(name string, def int) int {
	return parsed(name, def, strconv.Atoi)
}

func Float(name string, def float64) float64 {
	return parsed(name, def, func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
}

var boolWords = map[string]bool{
	"1": true, "true": true, "yes": true, "y": true, "on": true,
	"0": false, "false": false, "no": false, "n": false, "off": false,
}

func Bool(name string, def bool) bool {
	v, ok := lookup(name)
	if !ok {
		return def
	}
	if b, known := boolWords[strings.ToLower(v)]; known {
		return b
	}
	return def
}

// Seconds reads an integer number of seconds. Non-positive values fall back to def.
func Seconds(name string, def time.Duration) time.Duration {
	if n := Int(name, 0); n > 0 {
		return time.Duration(n) * time.Second
	}
	return def
}

// List splits a comma separated variable, dropping blank entries. An unset
// variable yields def.
func List(name string, def []string) []string {
	v, ok := lookup(name)
	if !ok {
		return def
	}
	return SplitList(v)
}

func SplitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
