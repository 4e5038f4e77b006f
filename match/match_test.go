package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	tests := map[string]string{
		"Acme, Inc.":         "acme",
		"  Acme   Labs LLC ":  "acme labs",
		"Foo Co.":            "foo",
		"Foo Company":        "foo",
		"Coco":               "coco",
		"Déjà Vu AI":         "dj vu ai",
		"A.I. Robotics Corp": "ai robotics",
		"":                   "",
	}

	for in, want := range tests {
		assert.Equal(t, want, NormalizeName(in), in)
	}

	assert.True(t, SameName("Acme Inc", "ACME"))
	assert.False(t, SameName("Acme", "Acme Labs"))
}

func TestCleanCompanyName(t *testing.T) {
	assert.Equal(t, "Acme", CleanCompanyName("Acme (YC W24)"))
	assert.Equal(t, "Acme (Labs) One", CleanCompanyName("Acme (Labs) One"))
	assert.Equal(t, "", CleanCompanyName(""))
}

func TestCleanSheetName(t *testing.T) {
	tests := map[string]string{
		"Acme (YC W24)":         "Acme",
		"Acme™":                 "Acme",
		"Rocket 🚀 Labs":        "Rocket Labs",
		"Widgets, Inc.":         "Widgets",
		"Widgets, Inc":          "Widgets",
		"Beta (a16z) Systems.":  "Beta Systems",
		"Clean":                 "Clean",
		"Trailing,":             "Trailing",
		"Acme® (S25), Inc.":     "Acme",
	}

	for in, want := range tests {
		assert.Equal(t, want, CleanSheetName(in), in)
	}
}

func TestFirstName(t *testing.T) {
	assert.Equal(t, "Ada", FirstName("  Ada Lovelace"))
	assert.Equal(t, "", FirstName(" "))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "one two", Truncate("one\r\ntwo", 20))
	assert.Equal(t, "abc...", Truncate("abcdef", 3))
	assert.Equal(t, "abc", Truncate("abc", 3))
}

func TestStripHTML(t *testing.T) {
	assert.Equal(t, "Met the founder.", StripHTML("<p>Met the <b>founder</b>.</p>"))
}

func TestDomains(t *testing.T) {
	assert.Equal(t, "acme.com", EmailDomain("Jane@ACME.com "))
	assert.Equal(t, "", EmailDomain("no-at-sign"))

	assert.Equal(t, "acme.com", WebsiteDomain("https://www.acme.com/about"))
	assert.Equal(t, "acme.io", WebsiteDomain("acme.io?ref=x"))
	assert.Equal(t, "", WebsiteDomain(""))

	assert.True(t, SameDomain("Acme.com", "acme.com "))
	assert.False(t, SameDomain("", ""))
}
