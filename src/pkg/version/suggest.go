package version

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
)

const (
	BUMP_MAJOR = "major"
	BUMP_MINOR = "minor"
	BUMP_PATCH = "patch"
)

// ErrNoVersion is returned when the manifest declares no static version
var ErrNoVersion = errors.New("manifest has no version")

type cargoPackage struct {
	// Version is usually a string, but members may use `version.workspace = true`
	Version interface{} `toml:"version"`
}

type cargoManifest struct {
	Package   cargoPackage `toml:"package"`
	Workspace struct {
		Package cargoPackage `toml:"package"`
	} `toml:"workspace"`
}

// ReadManifestVersion returns `[workspace.package] version`, falling back to `[package] version`
func ReadManifestVersion(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read manifest: %w", err)
	}

	var m cargoManifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return "", fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}

	for _, v := range []interface{}{m.Workspace.Package.Version, m.Package.Version} {
		if s, ok := v.(string); ok && s != "" {
			return s, nil
		}
	}
	return "", ErrNoVersion
}

// Suggest returns the next version for a release containing (or not) breaking changes.
// Cargo treats 0.x minor bumps as breaking, so 0.x versions bump minor instead of major.
func Suggest(current string, breaking bool) (next string, bump string, err error) {
	v, err := semver.NewVersion(current)
	if err != nil {
		return "", "", fmt.Errorf("failed to parse version %s: %w", current, err)
	}

	var n semver.Version
	switch {
	case breaking && v.Major() == 0:
		n, bump = v.IncMinor(), BUMP_MINOR
	case breaking:
		n, bump = v.IncMajor(), BUMP_MAJOR
	default:
		n, bump = v.IncPatch(), BUMP_PATCH
	}
	return n.String(), bump, nil
}
