package dto

import "github.com/hongminglow/void-bio-be/internal/models"

type UpdateProfileRequest struct {
	Username    *string `json:"username" validate:"omitempty,min=1,max=64"`
	DisplayName *string `json:"display_name" validate:"omitempty,max=64"`
	Bio         *string `json:"bio"`
	AvatarURL   *string `json:"avatar_url" validate:"omitempty,url"`
}

func (r UpdateProfileRequest) Update() models.ProfileUpdate {
	return models.ProfileUpdate{
		Username:    r.Username,
		DisplayName: r.DisplayName,
		Bio:         r.Bio,
		AvatarURL:   r.AvatarURL,
	}
}

type UpdateVisualsRequest struct {
	BackgroundType     *string `json:"background_type" validate:"omitempty,oneof=gradient image video"`
	BackgroundValue    *string `json:"background_value"`
	BackgroundAudioURL *string `json:"background_audio_url" validate:"omitempty,url"`
	AudioAutoplay      *bool   `json:"audio_autoplay"`
	AudioLoop          *bool   `json:"audio_loop"`
	EffectSnowfall     *bool   `json:"effect_snowfall"`
	EffectParticles    *bool   `json:"effect_particles"`
	EffectGlow         *bool   `json:"effect_glow"`
	EffectGlitch       *bool   `json:"effect_glitch"`
}

func (r UpdateVisualsRequest) Update() models.VisualSettingsUpdate {
	update := models.VisualSettingsUpdate{
		BackgroundValue:    r.BackgroundValue,
		BackgroundAudioURL: r.BackgroundAudioURL,
		AudioAutoplay:      r.AudioAutoplay,
		AudioLoop:          r.AudioLoop,
		EffectSnowfall:     r.EffectSnowfall,
		EffectParticles:    r.EffectParticles,
		EffectGlow:         r.EffectGlow,
		EffectGlitch:       r.EffectGlitch,
	}
	if r.BackgroundType != nil {
		bt := models.BackgroundType(*r.BackgroundType)
		update.BackgroundType = &bt
	}
	return update
}

type CreateLinkRequest struct {
	Title     string `json:"title" validate:"max=100"`
	Icon      string `json:"icon"`
	URL       string `json:"url" validate:"required_without=Value"`
	Value     string `json:"value" validate:"required_without=URL"`
	IsEnabled *bool  `json:"is_enabled"`
}

type UpdateLinkRequest struct {
	Title     *string `json:"title" validate:"omitempty,max=100"`
	URL       *string `json:"url"`
	Icon      *string `json:"icon"`
	SortOrder *int    `json:"sort_order" validate:"omitempty,min=0"`
	IsEnabled *bool   `json:"is_enabled"`
}

func (r UpdateLinkRequest) Update() models.LinkUpdate {
	return models.LinkUpdate{
		Title:     r.Title,
		URL:       r.URL,
		Icon:      r.Icon,
		SortOrder: r.SortOrder,
		IsEnabled: r.IsEnabled,
	}
}

type SetBadgeDisplayRequest struct {
	IsDisplayed *bool `json:"is_displayed" validate:"required"`
}

type PurchaseRequest struct {
	BadgeID         string   `json:"badge_id" validate:"omitempty,uuid"`
	DiscordUsername string   `json:"discord_username" validate:"required,max=64"`
	Amount          *float64 `json:"amount" validate:"omitempty,gte=0"`
	Notes           string   `json:"notes" validate:"max=500"`
}

type AvailabilityResponse struct {
	Username  string `json:"username"`
	Available bool   `json:"available"`
}
