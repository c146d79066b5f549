package models

import (
	"errors"
	"fmt"
	"strings"
)

// Platform identifies the social network a profile belongs to
type Platform string

const (
	PlatformInstagram Platform = "instagram"
	PlatformTwitter   Platform = "twitter"
	PlatformYouTube   Platform = "youtube"
	PlatformTikTok    Platform = "tiktok"
)

// ErrUnsupportedPlatform is returned when a platform name is not one of the supported networks
var ErrUnsupportedPlatform = errors.New("unsupported platform")

// SupportedPlatforms lists every platform the scoring engine has benchmarks for
func SupportedPlatforms() []Platform {
	return []Platform{PlatformInstagram, PlatformTwitter, PlatformYouTube, PlatformTikTok}
}

// Normalize lower-cases and trims the platform name
func (p Platform) Normalize() Platform {
	return Platform(strings.ToLower(strings.TrimSpace(string(p))))
}

// IsSupported reports whether the normalized platform is a known network
func (p Platform) IsSupported() bool {
	switch p.Normalize() {
	case PlatformInstagram, PlatformTwitter, PlatformYouTube, PlatformTikTok:
		return true
	}
	return false
}

// ParsePlatform converts a user-supplied name into a supported Platform
func ParsePlatform(name string) (Platform, error) {
	p := Platform(name).Normalize()
	if !p.IsSupported() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedPlatform, name)
	}
	return p, nil
}
