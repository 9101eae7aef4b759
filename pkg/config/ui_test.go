package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUISection_Defaults(t *testing.T) {
	s := NewUISection()

	assert.Equal(t, SectionIDUI, s.ID())
	assert.Equal(t, AppearanceSystem, s.GetAppearance())
	assert.Equal(t, MeetingSoftwareJitsi, s.MeetingSoftware)
	assert.True(t, s.IsSetupRequired())
	assert.NoError(t, s.Validate())
}

func TestUISection_SetData(t *testing.T) {
	tests := []struct {
		name    string
		data    map[string]interface{}
		wantErr bool
		check   func(t *testing.T, s *UISection)
	}{
		{
			name: "all fields",
			data: map[string]interface{}{"appearance": "Dark", "meeting_software": "jitsi", "setup_required": false},
			check: func(t *testing.T, s *UISection) {
				assert.Equal(t, AppearanceDark, s.GetAppearance())
				assert.False(t, s.IsSetupRequired())
			},
		},
		{
			name: "unknown keys ignored",
			data: map[string]interface{}{"theme_color": "pink"},
			check: func(t *testing.T, s *UISection) {
				assert.Equal(t, AppearanceSystem, s.GetAppearance())
			},
		},
		{
			name:    "wrong type",
			data:    map[string]interface{}{"setup_required": "no"},
			wantErr: true,
		},
		{
			name:  "nil data",
			data:  nil,
			check: func(t *testing.T, s *UISection) { assert.True(t, s.IsSetupRequired()) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewUISection()
			err := s.SetData(tt.data)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, s)
		})
	}
}

func TestUISection_Validate(t *testing.T) {
	s := NewUISection()
	s.SetAppearance("Sepia")
	assert.Error(t, s.Validate())

	s.Reset()
	require.NoError(t, s.SetData(map[string]interface{}{"meeting_software": "zoom"}))
	assert.Error(t, s.Validate())
}

func TestAppearance_Next(t *testing.T) {
	assert.Equal(t, AppearanceDark, AppearanceSystem.Next())
	assert.Equal(t, AppearanceLight, AppearanceDark.Next())
	assert.Equal(t, AppearanceSystem, AppearanceLight.Next())
	assert.Equal(t, AppearanceSystem, Appearance("odd").Next())
}
