package config

import (
	"fmt"
	"os"
	"time"

	"github.com/entrhq/autojoin/pkg/meeting"
)

// Environment variables read by Resolve.
const (
	EnvUserName     = "AUTOJOIN_USER_NAME"
	EnvUserPassword = "AUTOJOIN_USER_PASSWORD"
)

// Overrides are per-run values from the command line. Zero values are unset.
type Overrides struct {
	MeetingURL        string
	BaseURL           string
	MeetingID         string
	DisplayName       string
	UserName          string
	Headless          *bool
	Install           *bool
	HeartbeatInterval time.Duration
	ScreenshotPath    string
}

// Sources are the layers merged by Resolve, lowest precedence first.
type Sources struct {
	Meeting   MeetingSettings
	Browser   BrowserSettings
	Attempt   *AttemptFile
	Overrides Overrides

	// Getenv defaults to os.Getenv.
	Getenv func(string) string
}

// Resolved is everything a join attempt needs.
type Resolved struct {
	Meeting meeting.Config
	Browser BrowserSettings
}

// Resolve merges stored settings, the attempt file, command line overrides
// and the environment, in that order, and validates the result.
func Resolve(src Sources) (Resolved, error) {
	m := src.Meeting
	b := src.Browser

	if src.Attempt != nil {
		src.Attempt.applyMeeting(&m)
		src.Attempt.applyBrowser(&b)
	}

	o := src.Overrides
	if o.MeetingURL != "" {
		m.MeetingURL = o.MeetingURL
		m.BaseURL, m.MeetingID = "", ""
	}
	if o.BaseURL != "" || o.MeetingID != "" {
		if o.MeetingURL == "" {
			m.MeetingURL = ""
		}
		setString(&m.BaseURL, o.BaseURL)
		setString(&m.MeetingID, o.MeetingID)
	}
	setString(&m.DisplayName, o.DisplayName)
	setString(&m.UserName, o.UserName)
	if o.Headless != nil {
		b.Headless = *o.Headless
	}
	if o.Install != nil {
		b.Install = *o.Install
	}
	setDuration(&b.HeartbeatInterval, o.HeartbeatInterval)
	setString(&b.ScreenshotPath, o.ScreenshotPath)

	getenv := src.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	setString(&m.UserName, getenv(EnvUserName))
	setString(&m.UserPassword, getenv(EnvUserPassword))

	if err := b.validate(); err != nil {
		return Resolved{}, fmt.Errorf("%w: %v", meeting.ErrConfigInvalid, err)
	}

	params := m.Params()
	params.Headless = b.Headless
	cfg, err := meeting.NewConfig(params)
	if err != nil {
		return Resolved{}, err
	}
	return Resolved{Meeting: cfg, Browser: b}, nil
}

// ResolveFrom reads the stored layers from manager.
func ResolveFrom(manager *Manager, attempt *AttemptFile, overrides Overrides) (Resolved, error) {
	src := Sources{
		Meeting:   MeetingSettings{DisplayName: meeting.DefaultDisplayName},
		Browser:   DefaultBrowserSettings(),
		Attempt:   attempt,
		Overrides: overrides,
	}
	if s := Meeting(manager); s != nil {
		src.Meeting = s.Settings()
	}
	if s := Browser(manager); s != nil {
		src.Browser = s.Settings()
	}
	return Resolve(src)
}
