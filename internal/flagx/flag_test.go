package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	server := []string{"-a", "-d", "-s", "-l", "-storage", "-env"}

	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "server flags kept with values",
			args:    []string{"-a", ":50051", "-c", "bot.json", "-storage", "memory"},
			allowed: server,
			want:    []string{"-a", ":50051", "-storage", "memory"},
		},
		{
			name:    "equals form",
			args:    []string{"-d=postgres://db/driveaccess", "-x=1"},
			allowed: server,
			want:    []string{"-d=postgres://db/driveaccess"},
		},
		{
			name:    "dsn value containing equals signs",
			args:    []string{"-d", "host=db user=bot sslmode=disable"},
			allowed: server,
			want:    []string{"-d", "host=db user=bot sslmode=disable"},
		},
		{
			name:    "dash token is not a value",
			args:    []string{"-s", "-l", "debug"},
			allowed: server,
			want:    []string{"-s", "-l", "debug"},
		},
		{
			name:    "trailing flag without value",
			args:    []string{"-env"},
			allowed: server,
			want:    []string{"-env"},
		},
		{
			name:    "positional words skipped",
			args:    []string{"summary", "-a", ":1", "extra"},
			allowed: server,
			want:    []string{"-a", ":1"},
		},
		{
			name:    "nothing allowed",
			args:    []string{"-a", ":1"},
			allowed: nil,
			want:    []string{},
		},
		{
			name:    "repeated flag keeps order",
			args:    []string{"-l", "info", "-l", "debug"},
			allowed: server,
			want:    []string{"-l", "info", "-l", "debug"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}

func TestConfigFileFlag(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"short", []string{"-c", "/path/short.json"}, "/path/short.json"},
		{"long", []string{"-config", "/path/long.json"}, "/path/long.json"},
		{"equals form", []string{"--config=/path/eq.json", "-a", ":1"}, "/path/eq.json"},
		{"unknown flags ignored", []string{"-x", "1", "-y", "2"}, ""},
		{"last wins", []string{"-c", "/path/1.json", "-config", "/path/2.json"}, "/path/2.json"},
		{"no value", []string{"-c"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConfigFileFlag(tt.args))
		})
	}
}
