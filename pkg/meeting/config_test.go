package meeting

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Validation(t *testing.T) {
	tests := []struct {
		name    string
		params  Params
		wantURL string
		wantErr bool
	}{
		{
			name:    "full meeting url",
			params:  Params{MeetingURL: "https://meet.example/test"},
			wantURL: "https://meet.example/test",
		},
		{
			name:    "joined from base and id",
			params:  Params{BaseURL: "https://meet.example/", MeetingID: "/standup"},
			wantURL: "https://meet.example/standup",
		},
		{
			name:    "missing url",
			params:  Params{DisplayName: "bot"},
			wantErr: true,
		},
		{
			name:    "base without id",
			params:  Params{BaseURL: "https://meet.example"},
			wantErr: true,
		},
		{
			name:    "unsupported scheme",
			params:  Params{MeetingURL: "ftp://meet.example/test"},
			wantErr: true,
		},
		{
			name:    "no host",
			params:  Params{MeetingURL: "https:///test"},
			wantErr: true,
		},
		{
			name:    "user without password",
			params:  Params{MeetingURL: "https://meet.example/test", UserName: "alice"},
			wantErr: true,
		},
		{
			name:    "password without user",
			params:  Params{MeetingURL: "https://meet.example/test", UserPassword: "s3cret"},
			wantErr: true,
		},
		{
			name:    "both credentials",
			params:  Params{MeetingURL: "https://meet.example/test", UserName: "alice", UserPassword: "s3cret"},
			wantURL: "https://meet.example/test",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := NewConfig(tt.params)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrConfigInvalid), "error should wrap ErrConfigInvalid: %v", err)
				assert.True(t, cfg.IsZero())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantURL, cfg.MeetingURL())
		})
	}
}

func TestNewConfig_DefaultDisplayName(t *testing.T) {
	cfg, err := NewConfig(Params{MeetingURL: "https://meet.example/test", DisplayName: "   "})
	require.NoError(t, err)
	assert.Equal(t, DefaultDisplayName, cfg.DisplayName())
}

func TestNewConfig_AllowedHosts(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		patterns []string
		wantErr  bool
	}{
		{name: "exact match", url: "https://meet.jit.si/room", patterns: []string{"meet.jit.si"}},
		{name: "wildcard subdomain", url: "https://video.example.org/room", patterns: []string{"*.example.org"}},
		{name: "wildcard does not cross dots", url: "https://a.b.example.org/room", patterns: []string{"*.example.org"}, wantErr: true},
		{name: "case insensitive", url: "https://Meet.Example.ORG/room", patterns: []string{"meet.example.org"}},
		{name: "not allowed", url: "https://evil.example.com/room", patterns: []string{"meet.jit.si"}, wantErr: true},
		{name: "bad pattern", url: "https://meet.jit.si/room", patterns: []string{"[meet"}, wantErr: true},
		{name: "blank patterns ignored", url: "https://meet.jit.si/room", patterns: []string{" ", "meet.jit.si"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewConfig(Params{MeetingURL: tt.url, AllowedHosts: tt.patterns})
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrConfigInvalid)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_Credentials(t *testing.T) {
	cfg, err := NewConfig(Params{MeetingURL: "https://meet.example/test"})
	require.NoError(t, err)
	_, _, ok := cfg.Credentials()
	assert.False(t, ok)
	assert.False(t, cfg.HasCredentials())

	cfg, err = NewConfig(Params{MeetingURL: "https://meet.example/test", UserName: " alice ", UserPassword: "s3cret"})
	require.NoError(t, err)
	user, pass, ok := cfg.Credentials()
	assert.True(t, ok)
	assert.Equal(t, "alice", user)
	assert.Equal(t, "s3cret", pass)
}

func TestConfig_StringRedactsPassword(t *testing.T) {
	cfg, err := NewConfig(Params{
		MeetingURL:   "https://meet.example/test",
		UserName:     "alice",
		UserPassword: "hunter2",
		Headless:     true,
	})
	require.NoError(t, err)

	for _, rendered := range []string{cfg.String(), fmt.Sprintf("%v", cfg), fmt.Sprintf("%#v", cfg)} {
		assert.NotContains(t, rendered, "hunter2")
		assert.Contains(t, rendered, "alice")
	}
}
