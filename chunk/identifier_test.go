package chunk

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsLegalFormType(t *testing.T) {
	cases := []struct {
		name string
		id   ID
		want bool
	}{
		{"simple", ID{'I', 'L', 'B', 'M'}, true},
		{"tail padded", ID{'A', 'B', ' ', ' '}, true},
		{"leading space", ID{' ', 'A', 'B', 'C'}, false},
		{"leading digit", ID{'8', 'S', 'V', 'X'}, false},
		{"space in middle", ID{'A', ' ', 'B', 'C'}, false},
		{"reserved FORM", FORM, false},
		{"reserved LIST", LIST, false},
		{"reserved CAT", CAT_, false},
		{"reserved PROP", PROP, false},
		{"non printable", ID{'A', 'B', 0x01, 'D'}, false},
		{"wildcard rejected as form type", Wildcard, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, IsLegalFormType(tc.id))
		})
	}
}
