package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			"separate value",
			[]string{"-c", "conf.json", "-x", "other"},
			[]string{"-c"},
			[]string{"-c", "conf.json"},
		},
		{
			"equals form",
			[]string{"--config=conf.json", "-b=main"},
			[]string{"--config"},
			[]string{"--config=conf.json"},
		},
		{
			"unknown flags dropped",
			[]string{"-z", "val", "-b", "main"},
			[]string{"-b"},
			[]string{"-b", "main"},
		},
		{
			"flag followed by another flag keeps no value",
			[]string{"-b", "-u", "admin"},
			[]string{"-b", "-u"},
			[]string{"-b", "-u", "admin"},
		},
		{
			"empty input",
			nil,
			[]string{"-c"},
			[]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}
