package stringsutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitTrimmed(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"plain list", "a,b,c", []string{"a", "b", "c"}},
		{"surrounding whitespace", " a , b ", []string{"a", "b"}},
		{"empty parts dropped", "a,, ,b", []string{"a", "b"}},
		{"empty input", "", nil},
		{"only separators", " , ,", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitTrimmed(tt.in, ","))
		})
	}
}
