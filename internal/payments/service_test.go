package payments

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskCardNumber(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "16 digits",
			in:   "4111111111111111",
			want: "4111 XXXX XXXX 1111",
		},
		{
			name: "spaces stripped first",
			in:   "4111 1111 1111 1111",
			want: "4111 XXXX XXXX 1111",
		},
		{
			name: "15 digit amex",
			in:   "378282246310005",
			want: "3782 XXXX XXX0 005",
		},
		{
			name: "short number passes through",
			in:   "12345678",
			want: "12345678",
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MaskCardNumber(tt.in))
		})
	}
}
