package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateAddr(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"full address", "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", "0xf39F…2266"},
		{"short value kept", "0x1234", "0x1234"},
		{"boundary kept", "0x12345678", "0x12345678"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TruncateAddr(tt.in))
		})
	}
}

func TestBanner(t *testing.T) {
	b := Banner()
	assert.NotEmpty(t, b)
	assert.True(t, strings.HasSuffix(b, "\n"))
}
