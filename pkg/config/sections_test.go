package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/autojoin/pkg/meeting"
)

func TestMeetingSection_SetData(t *testing.T) {
	s := NewMeetingSection()
	require.NoError(t, s.SetData(map[string]interface{}{
		"display_name":  "Recorder",
		"base_url":      "https://meet.jit.si",
		"meeting_id":    "standup",
		"user_name":     "bot",
		"user_password": "pw",
		"allowed_hosts": []interface{}{"meet.jit.si", "*.example.org"},
	}))

	got := s.Settings()
	assert.Equal(t, "Recorder", got.DisplayName)
	assert.True(t, got.HasTarget())
	assert.Equal(t, []string{"meet.jit.si", "*.example.org"}, got.AllowedHosts)
	assert.NoError(t, s.Validate())

	err := s.SetData(map[string]interface{}{"display_name": "Other", "allowed_hosts": "meet.jit.si"})
	assert.Error(t, err)
	assert.Equal(t, "Recorder", s.Settings().DisplayName, "failed SetData leaves the section unchanged")
}

func TestMeetingSection_Validate(t *testing.T) {
	tests := []struct {
		name     string
		settings MeetingSettings
		wantErr  bool
	}{
		{name: "empty is valid", settings: MeetingSettings{}},
		{name: "url", settings: MeetingSettings{MeetingURL: "https://meet.jit.si/x"}},
		{name: "bad scheme", settings: MeetingSettings{MeetingURL: "ftp://meet.jit.si/x"}, wantErr: true},
		{name: "user without password", settings: MeetingSettings{UserName: "bot"}, wantErr: true},
		{name: "password without user", settings: MeetingSettings{UserPassword: "pw"}, wantErr: true},
		{name: "bad host pattern", settings: MeetingSettings{AllowedHosts: []string{"[meet"}}, wantErr: true},
		{
			name:     "host not allowed",
			settings: MeetingSettings{MeetingURL: "https://evil.example/x", AllowedHosts: []string{"meet.jit.si"}},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewMeetingSection()
			err := s.Update(tt.settings)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, meeting.DefaultDisplayName, s.Settings().DisplayName, "rejected update is rolled back")
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestMeetingSection_SettingsIsACopy(t *testing.T) {
	s := NewMeetingSection()
	require.NoError(t, s.Update(MeetingSettings{AllowedHosts: []string{"meet.jit.si"}}))

	got := s.Settings()
	got.AllowedHosts[0] = "changed"

	assert.Equal(t, "meet.jit.si", s.Settings().AllowedHosts[0])
}

func TestBrowserSection(t *testing.T) {
	s := NewBrowserSection()
	def := s.Settings()
	assert.True(t, def.Headless)
	assert.True(t, def.Install)
	assert.Equal(t, 30*time.Second, def.HeartbeatInterval)
	assert.Equal(t, "screenshot.png", def.ScreenshotPath)
	assert.Equal(t, 20*time.Second, def.Timeouts().Media)
	assert.NoError(t, s.Validate())

	require.NoError(t, s.SetData(map[string]interface{}{
		"viewport_width":     float64(1920),
		"viewport_height":    1080,
		"step_timeout":       "5s",
		"media_timeout":      float64(time.Minute),
		"heartbeat_interval": "1m",
	}))
	got := s.Settings()
	assert.Equal(t, 1920, got.ViewportWidth)
	assert.Equal(t, 1080, got.ViewportHeight)
	assert.Equal(t, 5*time.Second, got.StepTimeout)
	assert.Equal(t, time.Minute, got.MediaTimeout)

	opts := got.SessionOptions()
	require.NotNil(t, opts.Viewport)
	assert.Equal(t, 1920, opts.Viewport.Width)
	assert.True(t, opts.Headless)

	assert.Error(t, s.SetData(map[string]interface{}{"step_timeout": "soon"}))
	assert.Error(t, s.SetData(map[string]interface{}{"headless": "yes"}))

	require.NoError(t, s.SetData(map[string]interface{}{"heartbeat_interval": "10ms"}))
	assert.Error(t, s.Validate())

	s.Reset()
	assert.Equal(t, DefaultBrowserSettings(), s.Settings())
}

func TestLoggingSection(t *testing.T) {
	s := NewLoggingSection()
	assert.NoError(t, s.Validate())
	assert.Equal(t, "info", s.Settings().Level)

	tests := []struct {
		name    string
		data    map[string]interface{}
		wantErr bool
	}{
		{name: "json debug", data: map[string]interface{}{"level": "debug", "format": "json", "verbosity": "verbose"}},
		{name: "bad level", data: map[string]interface{}{"level": "loud"}, wantErr: true},
		{name: "bad format", data: map[string]interface{}{"format": "xml"}, wantErr: true},
		{name: "bad verbosity", data: map[string]interface{}{"verbosity": "chatty"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewLoggingSection()
			require.NoError(t, s.SetData(tt.data))
			if tt.wantErr {
				assert.Error(t, s.Validate())
			} else {
				assert.NoError(t, s.Validate())
			}
		})
	}

	assert.Error(t, s.SetLevel("loud"))
}
