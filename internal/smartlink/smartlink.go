// Package smartlink maps link platforms to URL templates so a profile owner
// can enter a handle instead of a full URL.
package smartlink

import (
	"fmt"
	"regexp"
	"strings"
)

// Platform tags a link with the service it points at.
type Platform string

const (
	Twitter   Platform = "twitter"
	Instagram Platform = "instagram"
	YouTube   Platform = "youtube"
	GitHub    Platform = "github"
	TikTok    Platform = "tiktok"
	Twitch    Platform = "twitch"
	Discord   Platform = "discord"
	Telegram  Platform = "telegram"
	Mail      Platform = "mail"
	Threads   Platform = "threads"
	Spotify   Platform = "spotify"
	Website   Platform = "globe"
	Custom    Platform = "link"
)

// InputKind describes what the user types for a platform.
type InputKind string

const (
	InputUsername InputKind = "username"
	InputURL      InputKind = "url"
	InputID       InputKind = "id"
	InputEmail    InputKind = "email"
)

// Config describes one platform. An empty URLTemplate means the value is used as is.
type Config struct {
	Platform    Platform  `json:"value"`
	Label       string    `json:"label"`
	Placeholder string    `json:"placeholder"`
	URLTemplate string    `json:"url_template,omitempty"`
	Input       InputKind `json:"input_type"`
	Description string    `json:"description"`
	CopyAction  bool      `json:"copy_action,omitempty"`
	extract     *regexp.Regexp
}

const placeholder = "{value}"

var catalog = []Config{
	{Platform: Twitter, Label: "Twitter / X", Placeholder: "username", URLTemplate: "https://twitter.com/{value}", Input: InputUsername,
		Description: "Your Twitter/X username without @", extract: regexp.MustCompile(`(?i)(?:twitter\.com|x\.com)/([^/?]+)`)},
	{Platform: Instagram, Label: "Instagram", Placeholder: "username", URLTemplate: "https://instagram.com/{value}", Input: InputUsername,
		Description: "Your Instagram username", extract: regexp.MustCompile(`(?i)instagram\.com/([^/?]+)`)},
	{Platform: YouTube, Label: "YouTube", Placeholder: "@channel or channel URL", URLTemplate: "https://youtube.com/@{value}", Input: InputUsername,
		Description: "Your YouTube channel handle", extract: regexp.MustCompile(`(?i)youtube\.com/@?([^/?]+)`)},
	{Platform: GitHub, Label: "GitHub", Placeholder: "username", URLTemplate: "https://github.com/{value}", Input: InputUsername,
		Description: "Your GitHub username", extract: regexp.MustCompile(`(?i)github\.com/([^/?]+)`)},
	{Platform: TikTok, Label: "TikTok", Placeholder: "username", URLTemplate: "https://tiktok.com/@{value}", Input: InputUsername,
		Description: "Your TikTok username without @", extract: regexp.MustCompile(`(?i)tiktok\.com/@?([^/?]+)`)},
	{Platform: Twitch, Label: "Twitch", Placeholder: "username", URLTemplate: "https://twitch.tv/{value}", Input: InputUsername,
		Description: "Your Twitch username", extract: regexp.MustCompile(`(?i)twitch\.tv/([^/?]+)`)},
	{Platform: Discord, Label: "Discord", Placeholder: "User ID (e.g., 123456789)", Input: InputID,
		Description: "Your Discord User ID - will be copied on click", CopyAction: true},
	{Platform: Telegram, Label: "Telegram", Placeholder: "username", URLTemplate: "https://t.me/{value}", Input: InputUsername,
		Description: "Your Telegram username", extract: regexp.MustCompile(`(?i)t\.me/([^/?]+)`)},
	{Platform: Mail, Label: "Email", Placeholder: "you@example.com", URLTemplate: "mailto:{value}", Input: InputEmail,
		Description: "Your email address"},
	{Platform: Threads, Label: "Threads", Placeholder: "username", URLTemplate: "https://threads.net/@{value}", Input: InputUsername,
		Description: "Your Threads username", extract: regexp.MustCompile(`(?i)threads\.net/@?([^/?]+)`)},
	{Platform: Spotify, Label: "Spotify", Placeholder: "profile URL or ID", URLTemplate: "https://open.spotify.com/user/{value}", Input: InputUsername,
		Description: "Your Spotify profile ID", extract: regexp.MustCompile(`(?i)open\.spotify\.com/user/([^/?]+)`)},
	{Platform: Website, Label: "Website", Placeholder: "https://example.com", Input: InputURL,
		Description: "Full website URL"},
	{Platform: Custom, Label: "Custom Link", Placeholder: "https://example.com", Input: InputURL,
		Description: "Any custom URL"},
}

var byPlatform = func() map[Platform]Config {
	m := make(map[Platform]Config, len(catalog))
	for _, c := range catalog {
		m[c.Platform] = c
	}
	return m
}()

// All returns every platform in display order.
func All() []Config {
	out := make([]Config, len(catalog))
	copy(out, catalog)
	return out
}

// Parse resolves a platform tag. The empty tag resolves to Custom.
func Parse(tag string) (Platform, error) {
	if tag == "" {
		return Custom, nil
	}
	p := Platform(strings.ToLower(strings.TrimSpace(tag)))
	if _, ok := byPlatform[p]; !ok {
		return "", fmt.Errorf("unknown link platform %q", tag)
	}
	return p, nil
}

// Lookup returns the config for p.
func Lookup(p Platform) (Config, bool) {
	c, ok := byPlatform[p]
	return c, ok
}

// BuildURL turns the user's input for p into the link target.
func BuildURL(p Platform, input string) string {
	c, ok := byPlatform[p]
	if !ok {
		return input
	}
	if c.URLTemplate == "" {
		if c.Input == InputURL && !strings.HasPrefix(input, "http") {
			return "https://" + input
		}
		return input
	}
	value := strings.TrimSpace(input)
	if c.Input == InputUsername {
		value = strings.TrimPrefix(value, "@")
	}
	return strings.Replace(c.URLTemplate, placeholder, value, 1)
}

// ExtractValue recovers the handle from a URL built for p, so an editor can
// show the handle again. URLs that do not match are returned unchanged.
func ExtractValue(url string, p Platform) string {
	c, ok := byPlatform[p]
	if !ok || c.URLTemplate == "" || c.extract == nil {
		return url
	}
	if m := c.extract.FindStringSubmatch(url); m != nil {
		return m[1]
	}
	return url
}
