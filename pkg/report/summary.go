package report

import (
	"time"

	"github.com/entrhq/autojoin/pkg/join"
	"github.com/entrhq/autojoin/pkg/meeting"
)

// AttemptSummary is the durable record of one join attempt.
type AttemptSummary struct {
	MeetingURL     string        `json:"meeting_url"`
	FinalURL       string        `json:"final_url,omitempty"`
	DisplayName    string        `json:"display_name"`
	Authenticated  bool          `json:"credentials_configured"`
	Status         string        `json:"status"`
	Kind           string        `json:"kind,omitempty"`
	Reason         string        `json:"reason,omitempty"`
	Joined         bool          `json:"joined"`
	StartTime      time.Time     `json:"start_time"`
	EndTime        time.Time     `json:"end_time"`
	Duration       time.Duration `json:"duration"`
	Steps          []StepRecord  `json:"steps"`
	Heartbeats     int           `json:"heartbeats"`
	LastScreenshot string        `json:"last_screenshot,omitempty"`
	LogPath        string        `json:"log_path,omitempty"`
	SessionID      string        `json:"session_id,omitempty"`
}

// StepRecord is the serialized form of a join.StepResult.
type StepRecord struct {
	Step     string        `json:"step"`
	Status   string        `json:"status"`
	Policy   string        `json:"policy"`
	Kind     string        `json:"kind,omitempty"`
	Reason   string        `json:"reason,omitempty"`
	Detail   string        `json:"detail,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Note is the skip reason or failure detail, whichever applies.
func (r StepRecord) Note() string {
	if r.Detail != "" {
		return r.Detail
	}
	return r.Reason
}

// NewSummary starts a summary for cfg. The password is never copied.
func NewSummary(cfg meeting.Config) *AttemptSummary {
	return &AttemptSummary{
		MeetingURL:    cfg.MeetingURL(),
		DisplayName:   cfg.DisplayName(),
		Authenticated: cfg.HasCredentials(),
		StartTime:     time.Now(),
		Steps:         []StepRecord{},
	}
}

// ObserveTick records the latest successful screenshot.
func (s *AttemptSummary) ObserveTick(t join.Tick) {
	if t.Err == nil {
		s.LastScreenshot = t.Path
	}
}

// Finish stamps the end time and copies the outcome and step results.
func (s *AttemptSummary) Finish(outcome join.Outcome, results []join.StepResult) {
	s.EndTime = time.Now()
	s.Duration = s.EndTime.Sub(s.StartTime)
	s.Status = string(outcome.Status)
	s.Kind = string(outcome.Kind)
	s.Reason = outcome.Reason
	s.Joined = outcome.Joined
	s.Heartbeats = outcome.Heartbeats

	s.Steps = make([]StepRecord, 0, len(results))
	for _, r := range results {
		s.Steps = append(s.Steps, StepRecord{
			Step:     string(r.Step),
			Status:   string(r.Status),
			Policy:   r.Policy.String(),
			Kind:     string(r.Kind),
			Reason:   r.Reason,
			Detail:   r.Detail,
			Duration: r.Duration,
		})
	}
}
