package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanDiscPath(t *testing.T) {
	testCases := []struct {
		input, expected string
	}{
		{"battle/first.lmt", "battle/first.lmt"},
		{"/battle/first.lmt", "battle/first.lmt"},
		{"battle\\first.lmt", "battle/first.lmt"},
		{"battle//./first.lmt", "battle/first.lmt"},
		{"", "."},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, CleanDiscPath(tc.input), "CleanDiscPath(%q)", tc.input)
	}
}

func TestDiscPathKey(t *testing.T) {
	assert.Equal(t, DiscPathKey("Battle/First.LMT"), DiscPathKey("/battle/first.lmt"))
}

func TestBaseNameAndExtension(t *testing.T) {
	assert.Equal(t, "a001_ep.enp", BaseName("field/a001_ep.enp"))
	assert.Equal(t, ".enp", Extension("field/A001_EP.ENP"))
	assert.Equal(t, "", Extension("field/readme"))
}

func TestIsValidFileName(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected bool
	}{
		{"plain", "epevent.evp", true},
		{"spaces", "opening movie.thp", true},
		{"empty", "", false},
		{"slash", "a/b", false},
		{"control", "ab\x01cd", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsValidFileName(tc.input))
		})
	}
}
