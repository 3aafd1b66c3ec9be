package profile

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/hongminglow/void-bio-be/internal/apperr"
	"github.com/hongminglow/void-bio-be/internal/models"
	"github.com/hongminglow/void-bio-be/internal/smartlink"
)

// LinkInput describes a new link. Either URL is given directly, or Value is
// a handle that the platform template expands into the URL.
type LinkInput struct {
	Title     string
	Icon      string
	URL       string
	Value     string
	IsEnabled *bool
}

// EditableLink is a link as the owner's editor shows it. Value is the handle
// recovered from the URL, or the URL itself for free-form links.
type EditableLink struct {
	models.Link
	Value string `json:"value"`
}

// Links returns every link the owner has, enabled or not.
func (s *Service) Links(ctx context.Context, userID uuid.UUID) ([]EditableLink, error) {
	links, err := s.store.ListLinks(ctx, userID, false)
	if err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}
	out := make([]EditableLink, 0, len(links))
	for _, l := range links {
		value := l.URL
		if platform, err := smartlink.Parse(l.Icon); err == nil {
			value = smartlink.ExtractValue(l.URL, platform)
		}
		out = append(out, EditableLink{Link: l, Value: value})
	}
	return out, nil
}

// AddLink appends a link after the owner's current last link.
func (s *Service) AddLink(ctx context.Context, userID uuid.UUID, in LinkInput) (models.Link, error) {
	platform, err := smartlink.Parse(in.Icon)
	if err != nil {
		return models.Link{}, apperr.Wrap(apperr.CodeValidation, "unknown link platform", err)
	}
	url, err := resolveURL(platform, in.URL, in.Value)
	if err != nil {
		return models.Link{}, err
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		cfg, _ := smartlink.Lookup(platform)
		title = cfg.Label
	}

	existing, err := s.store.ListLinks(ctx, userID, false)
	if err != nil {
		return models.Link{}, fmt.Errorf("list links: %w", err)
	}
	next := 0
	for _, l := range existing {
		if l.SortOrder >= next {
			next = l.SortOrder + 1
		}
	}

	enabled := true
	if in.IsEnabled != nil {
		enabled = *in.IsEnabled
	}
	created, err := s.store.CreateLink(ctx, models.Link{
		UserID:    userID,
		Title:     title,
		URL:       url,
		Icon:      string(platform),
		SortOrder: next,
		IsEnabled: enabled,
	})
	if err != nil {
		return models.Link{}, notFound(err, "profile")
	}
	return created, nil
}

// UpdateLink edits a link owned by userID. A new Icon re-validates the platform.
func (s *Service) UpdateLink(ctx context.Context, userID, linkID uuid.UUID, update models.LinkUpdate) (models.Link, error) {
	current, err := s.store.GetLink(ctx, userID, linkID)
	if err != nil {
		return models.Link{}, notFound(err, "link")
	}
	if update.Icon != nil {
		platform, err := smartlink.Parse(*update.Icon)
		if err != nil {
			return models.Link{}, apperr.Wrap(apperr.CodeValidation, "unknown link platform", err)
		}
		tag := string(platform)
		update.Icon = &tag
	}
	if update.URL != nil && strings.TrimSpace(*update.URL) == "" {
		return models.Link{}, apperr.New(apperr.CodeValidation, "link url is required")
	}
	update.Apply(&current)
	updated, err := s.store.UpdateLink(ctx, current)
	if err != nil {
		return models.Link{}, notFound(err, "link")
	}
	return updated, nil
}

// DeleteLink removes a link owned by userID.
func (s *Service) DeleteLink(ctx context.Context, userID, linkID uuid.UUID) error {
	if err := s.store.DeleteLink(ctx, userID, linkID); err != nil {
		return notFound(err, "link")
	}
	return nil
}

func resolveURL(platform smartlink.Platform, rawURL, value string) (string, error) {
	rawURL, value = strings.TrimSpace(rawURL), strings.TrimSpace(value)
	switch {
	case value != "":
		return smartlink.BuildURL(platform, value), nil
	case rawURL != "":
		cfg, _ := smartlink.Lookup(platform)
		if cfg.Input == smartlink.InputURL {
			return smartlink.BuildURL(platform, rawURL), nil
		}
		return rawURL, nil
	default:
		return "", apperr.New(apperr.CodeValidation, "link url or value is required")
	}
}
