package dto

type GenerateInviteRequest struct {
	MaxUses int `json:"max_uses" validate:"required,min=1,max=100"`
}

type CreateBadgeRequest struct {
	Name           string `json:"name" validate:"required,max=64"`
	Icon           string `json:"icon" validate:"required"`
	Tooltip        string `json:"tooltip" validate:"max=200"`
	IsPremium      bool   `json:"is_premium"`
	DiscordBuyLink string `json:"discord_buy_link" validate:"omitempty,url"`
}

type SetAdminRequest struct {
	IsAdmin *bool `json:"is_admin" validate:"required"`
}

type AssignBadgeRequest struct {
	IsDisplayed bool `json:"is_displayed"`
}
