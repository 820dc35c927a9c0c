package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func envMap(kv map[string]string) func(string) string {
	return func(k string) string { return kv[k] }
}

func TestShouldDisableColors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		tty  bool
		want bool
	}{
		{name: "no_color", env: map[string]string{"NO_COLOR": "1"}, tty: true, want: true},
		{name: "dumb terminal", env: map[string]string{"TERM": "dumb"}, tty: true, want: true},
		{name: "redirected", env: map[string]string{"TERM": "xterm-256color"}, tty: false, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shouldDisableColors(envMap(tt.env), tt.tty))
		})
	}
}

func TestDisableColors(t *testing.T) {
	disableColors()

	for _, c := range []string{colorYellow, colorCyan, colorDim, colorBold, colorReset} {
		assert.Empty(t, c)
	}
}
