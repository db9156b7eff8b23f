package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReferences(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want []Ref
	}{
		{name: "two references", expr: "=R1C1 + R2C2", want: []Ref{{1, 1}, {2, 2}}},
		{name: "reference and literal", expr: "=R3C4 * 2", want: []Ref{{3, 4}}},
		{name: "duplicates collapse", expr: "=R1C1 + R1C1", want: []Ref{{1, 1}}},
		{name: "literal only", expr: "=1 + 2", want: nil},
		{name: "empty", expr: "=", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, References(tt.expr))
		})
	}
}
