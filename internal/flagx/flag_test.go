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
			name:    "short flag with separate value",
			args:    []string{"-c", "blocksearch.toml", "-a", ":5000"},
			allowed: []string{"-c", "-config"},
			want:    []string{"-c", "blocksearch.toml"},
		},
		{
			name:    "equals form",
			args:    []string{"-config=alt.json", "-a", ":5000"},
			allowed: []string{"-c", "-config"},
			want:    []string{"-config=alt.json"},
		},
		{
			name:    "unknown flags and positionals ignored",
			args:    []string{"-x", "1", "--y=2", "positional"},
			allowed: []string{"-c"},
			want:    []string{},
		},
		{
			name:    "trailing flag without value kept",
			args:    []string{"-c"},
			allowed: []string{"-c"},
			want:    []string{"-c"},
		},
		{
			name:    "next dash token is not a value",
			args:    []string{"-c", "-i", "sheet-id"},
			allowed: []string{"-c", "-i"},
			want:    []string{"-c", "-i", "sheet-id"},
		},
		{
			name:    "order and repeats preserved",
			args:    []string{"-a", ":1", "-b", "workbook", "-a", ":2"},
			allowed: []string{"-a", "-b"},
			want:    []string{"-a", ":1", "-b", "workbook", "-a", ":2"},
		},
		{
			name:    "empty args",
			args:    []string{},
			allowed: []string{"-c"},
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}

func TestConfigFileFlag(t *testing.T) {
	t.Run("short", func(t *testing.T) {
		assert.Equal(t, "/etc/blocksearch.toml", ConfigFileFlag([]string{"-c", "/etc/blocksearch.toml"}))
	})

	t.Run("long", func(t *testing.T) {
		assert.Equal(t, "cfg.json", ConfigFileFlag([]string{"-a", ":5000", "-config", "cfg.json"}))
	})

	t.Run("absent", func(t *testing.T) {
		assert.Empty(t, ConfigFileFlag([]string{"-a", ":5000"}))
	})

	t.Run("last wins", func(t *testing.T) {
		assert.Equal(t, "2.json", ConfigFileFlag([]string{"-c", "1.json", "-config", "2.json"}))
	})
}
