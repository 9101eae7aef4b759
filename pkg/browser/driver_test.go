package browser

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocatorString(t *testing.T) {
	tests := []struct {
		name string
		loc  Locator
		want string
	}{
		{name: "role", loc: ByRole("button", "Join Meeting"), want: `button named "Join Meeting"`},
		{name: "placeholder", loc: ByPlaceholder("Password"), want: `field with placeholder "Password"`},
		{name: "text", loc: ByText("Authentication required"), want: `text "Authentication required"`},
		{name: "tag", loc: ByTag("video"), want: "<video> element"},
		{name: "unknown", loc: Locator{Kind: "xpath", Value: "//div"}, want: `unknown locator "//div"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.loc.String())
		})
	}
}

func TestActionStringRedactsSecrets(t *testing.T) {
	assert.Equal(t, `fill "A Streamer Bot"`, Fill("A Streamer Bot").String())
	assert.Equal(t, "fill <redacted>", FillSecret("hunter2").String())
	assert.NotContains(t, FillSecret("hunter2").String(), "hunter2")
	assert.Equal(t, "click", Click().String())
}

func TestMarkerString(t *testing.T) {
	assert.Equal(t, "present", MarkerPresent.String())
	assert.Equal(t, "absent", MarkerAbsent.String())
}

func TestSessionCloseIsIdempotent(t *testing.T) {
	s := &Session{}

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
}

func TestClosedSessionRejectsOperations(t *testing.T) {
	s := &Session{}
	require.NoError(t, s.Close())

	ctx := context.Background()

	assert.ErrorIs(t, s.Navigate(ctx, "https://meet.example/test", time.Second), ErrClosed)

	_, err := s.Find(ctx, ByTag("video"), time.Second)
	assert.ErrorIs(t, err, ErrClosed)

	marker, err := s.WaitForMarker(ctx, ByText("Authentication required"), time.Second)
	assert.ErrorIs(t, err, ErrClosed)
	assert.Equal(t, MarkerAbsent, marker)

	assert.ErrorIs(t, s.Screenshot(ctx, "screenshot.png"), ErrClosed)
	assert.ErrorIs(t, s.Act(ctx, &element{loc: ByTag("video")}, Click()), ErrClosed)
}

func TestMillisFallsBackToDefault(t *testing.T) {
	s := &Session{timeout: 2 * time.Second}

	assert.Equal(t, 2000.0, s.millis(0))
	assert.Equal(t, 10000.0, s.millis(10*time.Second))
	assert.Equal(t, 1.5, toMillis(1500*time.Microsecond))
}

func TestSessionInfoAfterClose(t *testing.T) {
	s := &Session{headless: true, currentURL: "https://meet.jit.si/standup?login=done"}
	require.NoError(t, s.Close())

	info := s.Info()
	assert.Equal(t, "https://meet.jit.si/standup?login=done", info.CurrentURL)
	assert.True(t, info.Headless)
}
