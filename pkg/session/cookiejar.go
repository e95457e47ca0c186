package session

import (
	"net/http"
	"strings"
)

// CookieJar is an ordered name to value mapping of the cookies issued by the
// server. Insertion order is preserved so serialized sessions and Cookie
// headers are stable across runs.
type CookieJar struct {
	names  []string
	values map[string]string
}

// NewCookieJar creates an empty cookie jar
func NewCookieJar() *CookieJar {
	return &CookieJar{values: make(map[string]string)}
}

// Set stores a cookie value, keeping the position of an existing name
func (j *CookieJar) Set(name, value string) {
	if name == "" {
		return
	}
	if _, ok := j.values[name]; !ok {
		j.names = append(j.names, name)
	}
	j.values[name] = value
}

// Get returns the value for a cookie name, or "" when absent
func (j *CookieJar) Get(name string) string {
	return j.values[name]
}

// Names returns the cookie names in insertion order
func (j *CookieJar) Names() []string {
	out := make([]string, len(j.names))
	copy(out, j.names)
	return out
}

// Len returns the number of cookies in the jar
func (j *CookieJar) Len() int {
	return len(j.names)
}

// Merge folds response cookies into the jar. The jar is a union by cookie
// name; a new value always wins, nothing is ever removed.
func (j *CookieJar) Merge(cookies []*http.Cookie) {
	for _, c := range cookies {
		j.Set(c.Name, c.Value)
	}
}

// Header builds the Cookie request header value, skipping blank cookies
func (j *CookieJar) Header() string {
	pairs := make([]string, 0, len(j.names))
	for _, name := range j.names {
		if v := j.values[name]; v != "" {
			pairs = append(pairs, name+"="+v)
		}
	}

	return strings.Join(pairs, "; ")
}

// Serialize returns the cookies as "name=value" strings in jar order
func (j *CookieJar) Serialize() []string {
	out := make([]string, 0, len(j.names))
	for _, name := range j.names {
		out = append(out, name+"="+j.values[name])
	}
	return out
}

// Clone returns an independent copy of the jar
func (j *CookieJar) Clone() *CookieJar {
	clone := NewCookieJar()
	for _, name := range j.names {
		clone.Set(name, j.values[name])
	}
	return clone
}

// DeserializeCookies restores serialized cookie strings into the jar.
// Attributes after the first "name=value" pair are ignored so jars written
// by older builds (which persisted full Set-Cookie strings) still load.
func DeserializeCookies(serialized []string, into *CookieJar) *CookieJar {
	if into == nil {
		into = NewCookieJar()
	}

	for _, raw := range serialized {
		pair := raw
		if i := strings.Index(raw, ";"); i >= 0 {
			pair = raw[:i]
		}

		name, value, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok || name == "" {
			continue
		}
		into.Set(name, value)
	}

	return into
}
