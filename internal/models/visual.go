package models

import (
	"time"

	"github.com/google/uuid"
)

// BackgroundType selects how a profile background is rendered.
type BackgroundType string

const (
	BackgroundGradient BackgroundType = "gradient"
	BackgroundImage    BackgroundType = "image"
	BackgroundVideo    BackgroundType = "video"
)

// Valid reports whether t is one of the known background types.
func (t BackgroundType) Valid() bool {
	switch t {
	case BackgroundGradient, BackgroundImage, BackgroundVideo:
		return true
	}
	return false
}

// VisualSettings holds per-profile presentation toggles. One row per profile.
type VisualSettings struct {
	ID                 uuid.UUID      `json:"id"`
	UserID             uuid.UUID      `json:"user_id"`
	BackgroundType     BackgroundType `json:"background_type"`
	BackgroundValue    string         `json:"background_value"`
	BackgroundAudioURL string         `json:"background_audio_url"`
	AudioAutoplay      bool           `json:"audio_autoplay"`
	AudioLoop          bool           `json:"audio_loop"`
	EffectSnowfall     bool           `json:"effect_snowfall"`
	EffectParticles    bool           `json:"effect_particles"`
	EffectGlow         bool           `json:"effect_glow"`
	EffectGlitch       bool           `json:"effect_glitch"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

// DefaultVisualSettings returns the row provisioned for a new profile.
func DefaultVisualSettings(userID uuid.UUID) VisualSettings {
	return VisualSettings{
		UserID:         userID,
		BackgroundType: BackgroundGradient,
		AudioLoop:      true,
		EffectGlow:     true,
	}
}

// VisualSettingsUpdate is a partial visuals edit.
type VisualSettingsUpdate struct {
	BackgroundType     *BackgroundType
	BackgroundValue    *string
	BackgroundAudioURL *string
	AudioAutoplay      *bool
	AudioLoop          *bool
	EffectSnowfall     *bool
	EffectParticles    *bool
	EffectGlow         *bool
	EffectGlitch       *bool
}

// Apply copies the set fields of u onto v.
func (u VisualSettingsUpdate) Apply(v *VisualSettings) {
	if u.BackgroundType != nil {
		v.BackgroundType = *u.BackgroundType
	}
	if u.BackgroundValue != nil {
		v.BackgroundValue = *u.BackgroundValue
	}
	if u.BackgroundAudioURL != nil {
		v.BackgroundAudioURL = *u.BackgroundAudioURL
	}
	if u.AudioAutoplay != nil {
		v.AudioAutoplay = *u.AudioAutoplay
	}
	if u.AudioLoop != nil {
		v.AudioLoop = *u.AudioLoop
	}
	if u.EffectSnowfall != nil {
		v.EffectSnowfall = *u.EffectSnowfall
	}
	if u.EffectParticles != nil {
		v.EffectParticles = *u.EffectParticles
	}
	if u.EffectGlow != nil {
		v.EffectGlow = *u.EffectGlow
	}
	if u.EffectGlitch != nil {
		v.EffectGlitch = *u.EffectGlitch
	}
}
