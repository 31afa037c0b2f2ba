package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/librarydesk/core"
)

func Test_NormalizeISBN(t *testing.T) {
	testCases := []struct {
		name     string
		raw      string
		expected core.ISBNString
	}{
		{name: "hyphenated", raw: "978-604-123-4567", expected: "9786041234567"},
		{name: "already normalized", raw: "9786041234567", expected: "9786041234567"},
		{name: "interior and surrounding whitespace", raw: "  978 604\t1234567 ", expected: "9786041234567"},
		{name: "lower case check digit", raw: "0-306-40615-x", expected: "030640615X"},
		{name: "only separators", raw: " - - ", expected: ""},
		{name: "empty", raw: "", expected: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, core.NormalizeISBN(tc.raw), "Should normalize %q", tc.raw)
		})
	}
}

func Test_NormalizeISBN_HyphenatedAndPlainProduceSameKey(t *testing.T) {
	assert.Equal(t, core.NormalizeISBN("978-604-123-4567"), core.NormalizeISBN("9786041234567"))
}
