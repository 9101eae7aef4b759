// Package meeting holds the resolved parameters for a single join attempt.
//
// A Config is immutable once built. The only way to obtain one is through
// NewConfig, which enforces every invariant up front so the join workflow can
// rely on them without re-checking.
package meeting

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/gobwas/glob"
)

// DefaultDisplayName is used when no display name is configured.
const DefaultDisplayName = "A Streamer Bot"

// ErrConfigInvalid is wrapped by every validation error returned from NewConfig.
var ErrConfigInvalid = errors.New("invalid meeting configuration")

// Params are the raw, unvalidated inputs for a Config.
type Params struct {
	DisplayName  string
	UserName     string
	UserPassword string

	// MeetingURL takes precedence. When empty the URL is joined from
	// BaseURL and MeetingID.
	MeetingURL string
	BaseURL    string
	MeetingID  string

	Headless bool

	// AllowedHosts optionally restricts the meeting host to a set of glob
	// patterns such as "meet.jit.si" or "*.example.org".
	AllowedHosts []string
}

// Config is the validated, read-only description of one join attempt.
type Config struct {
	displayName string
	userName    string
	password    string
	meetingURL  string
	headless    bool
}

// NewConfig validates p and returns the resulting Config.
func NewConfig(p Params) (Config, error) {
	meetingURL, err := resolveURL(p)
	if err != nil {
		return Config{}, err
	}

	if err := checkHost(meetingURL, p.AllowedHosts); err != nil {
		return Config{}, err
	}

	user := strings.TrimSpace(p.UserName)
	if (user == "") != (p.UserPassword == "") {
		return Config{}, invalid("user name and password must be set together")
	}

	name := strings.TrimSpace(p.DisplayName)
	if name == "" {
		name = DefaultDisplayName
	}

	return Config{
		displayName: name,
		userName:    user,
		password:    p.UserPassword,
		meetingURL:  meetingURL,
		headless:    p.Headless,
	}, nil
}

// JoinURL joins a server base URL and a meeting id.
func JoinURL(base, id string) string {
	return strings.TrimRight(strings.TrimSpace(base), "/") + "/" + strings.TrimLeft(strings.TrimSpace(id), "/")
}

func resolveURL(p Params) (string, error) {
	raw := strings.TrimSpace(p.MeetingURL)
	if raw == "" {
		if strings.TrimSpace(p.BaseURL) == "" || strings.TrimSpace(p.MeetingID) == "" {
			return "", invalid("meeting URL is required (set meeting_url, or base_url and meeting_id)")
		}
		raw = JoinURL(p.BaseURL, p.MeetingID)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", invalid(fmt.Sprintf("meeting URL %q does not parse: %v", raw, err))
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", invalid(fmt.Sprintf("meeting URL %q must use http or https", raw))
	}
	if u.Host == "" {
		return "", invalid(fmt.Sprintf("meeting URL %q has no host", raw))
	}

	return u.String(), nil
}

func checkHost(meetingURL string, patterns []string) error {
	if len(patterns) == 0 {
		return nil
	}

	u, err := url.Parse(meetingURL)
	if err != nil {
		return invalid(err.Error())
	}
	host := strings.ToLower(u.Hostname())

	for _, pattern := range patterns {
		pattern = strings.ToLower(strings.TrimSpace(pattern))
		if pattern == "" {
			continue
		}
		g, err := glob.Compile(pattern, '.')
		if err != nil {
			return invalid(fmt.Sprintf("allowed host pattern %q: %v", pattern, err))
		}
		if g.Match(host) {
			return nil
		}
	}

	return invalid(fmt.Sprintf("meeting host %q is not in the allowed hosts", host))
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrConfigInvalid, msg)
}

// DisplayName returns the name typed into the pre-join screen.
func (c Config) DisplayName() string {
	return c.displayName
}

// MeetingURL returns the full meeting URL.
func (c Config) MeetingURL() string {
	return c.meetingURL
}

// Headless reports whether the browser should run without a window.
func (c Config) Headless() bool {
	return c.headless
}

// Credentials returns the login credentials. ok is false when none are configured.
func (c Config) Credentials() (user, password string, ok bool) {
	if c.userName == "" {
		return "", "", false
	}
	return c.userName, c.password, true
}

// HasCredentials reports whether both user name and password are set.
func (c Config) HasCredentials() bool {
	return c.userName != ""
}

// IsZero reports whether c was never built by NewConfig.
func (c Config) IsZero() bool {
	return c.meetingURL == ""
}

// String renders the config for logs. The password is never included.
func (c Config) String() string {
	user := "<none>"
	if c.userName != "" {
		user = c.userName
	}
	return fmt.Sprintf("meeting_url=%s display_name=%q user=%s headless=%t",
		c.meetingURL, c.displayName, user, c.headless)
}

// GoString keeps the password out of %#v output as well.
func (c Config) GoString() string {
	return "meeting.Config{" + c.String() + "}"
}
