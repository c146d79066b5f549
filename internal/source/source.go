// Package source is the boundary to wherever profile and post data comes
// from. The analyzer only depends on ProfileSource.
package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"deinfluencer/internal/models"
)

// ErrProfileNotFound is returned when a source has no data for a username
var ErrProfileNotFound = errors.New("profile not found")

// ProfileSource fetches a profile together with its recent posts
type ProfileSource interface {
	FetchProfile(ctx context.Context, platform models.Platform, username string) (*models.AnalysisPayload, error)
}

var usernamePattern = regexp.MustCompile(`^[a-z0-9._-]{1,64}$`)

// NormalizeUsername lower-cases a handle and strips a leading @
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(username), "@"))
}

// ValidUsername reports whether a normalized handle can be looked up
func ValidUsername(username string) bool {
	return usernamePattern.MatchString(username)
}

// FileSource serves payloads from <dir>/<platform>/<username>.json
type FileSource struct {
	dir string
}

// NewFileSource creates a source reading fixtures under dir
func NewFileSource(dir string) *FileSource {
	return &FileSource{dir: dir}
}

// FetchProfile loads the fixture for username on platform
func (s *FileSource) FetchProfile(ctx context.Context, platform models.Platform, username string) (*models.AnalysisPayload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	platform = platform.Normalize()
	if !platform.IsSupported() {
		return nil, fmt.Errorf("%w: %q", models.ErrUnsupportedPlatform, platform)
	}
	username = NormalizeUsername(username)
	if !ValidUsername(username) {
		return nil, fmt.Errorf("%w: invalid username %q", ErrProfileNotFound, username)
	}

	path := filepath.Join(s.dir, string(platform), username+".json")
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s on %s", ErrProfileNotFound, username, platform)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read profile fixture: %w", err)
	}

	var payload models.AnalysisPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode profile fixture %s: %w", path, err)
	}

	// The lookup key is authoritative for identity fields.
	payload.Profile.Platform = platform
	if payload.Profile.Username == "" {
		payload.Profile.Username = username
	}
	return &payload, nil
}
