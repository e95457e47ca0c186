package session

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCookieJarSetGet(t *testing.T) {
	jar := NewCookieJar()
	jar.Set("csrftoken", "abc")
	jar.Set("mid", "xyz")

	assert.Equal(t, "abc", jar.Get("csrftoken"))
	assert.Equal(t, "xyz", jar.Get("mid"))
	assert.Equal(t, "", jar.Get("missing"))
	assert.Equal(t, 2, jar.Len())
}

func TestCookieJarOrderStable(t *testing.T) {
	jar := NewCookieJar()
	jar.Set("b", "1")
	jar.Set("a", "2")
	jar.Set("c", "3")

	// Overwriting keeps the original position
	jar.Set("a", "4")

	assert.Equal(t, []string{"b", "a", "c"}, jar.Names())
	assert.Equal(t, []string{"b=1", "a=4", "c=3"}, jar.Serialize())
}

func TestCookieJarIgnoresBlankName(t *testing.T) {
	jar := NewCookieJar()
	jar.Set("", "value")

	assert.Equal(t, 0, jar.Len())
}

func TestCookieJarHeader(t *testing.T) {
	jar := NewCookieJar()
	jar.Set("csrftoken", "abc")
	jar.Set("empty", "")
	jar.Set("sessionid", "s1")

	assert.Equal(t, "csrftoken=abc; sessionid=s1", jar.Header())
}

func TestCookieJarMerge(t *testing.T) {
	jar := NewCookieJar()
	jar.Set("csrftoken", "old")

	jar.Merge([]*http.Cookie{
		{Name: "csrftoken", Value: "new"},
		{Name: "mid", Value: "m1"},
	})

	assert.Equal(t, "new", jar.Get("csrftoken"))
	assert.Equal(t, "m1", jar.Get("mid"))
	assert.Equal(t, 2, jar.Len())
}

func TestCookieJarClone(t *testing.T) {
	jar := NewCookieJar()
	jar.Set("a", "1")

	clone := jar.Clone()
	clone.Set("a", "2")
	clone.Set("b", "3")

	assert.Equal(t, "1", jar.Get("a"))
	assert.Equal(t, 1, jar.Len())
	assert.Equal(t, 2, clone.Len())
}

func TestDeserializeCookies(t *testing.T) {
	jar := DeserializeCookies([]string{
		"csrftoken=abc",
		"sessionid=s1; Path=/; HttpOnly",
		"malformed",
		"  mid=m1  ",
	}, nil)

	assert.Equal(t, "abc", jar.Get("csrftoken"))
	assert.Equal(t, "s1", jar.Get("sessionid"))
	assert.Equal(t, "m1", jar.Get("mid"))
	assert.Equal(t, 3, jar.Len())
}
