// Package version holds the helmad build version and checks that the helm
// binary in use meets the minimum supported version.
package version

import (
	"context"
	"fmt"

	"github.com/Masterminds/semver/v3"

	"github.com/lucas-albers-lz4/helmad/pkg/exitcodes"
	log "github.com/lucas-albers-lz4/helmad/pkg/log"
)

const (
	// MinHelmVersion is the minimum required Helm version
	MinHelmVersion = "3.14.0"
)

// BinaryVersion is set at build time with
// -ldflags "-X github.com/lucas-albers-lz4/helmad/pkg/version.BinaryVersion=..."
var BinaryVersion = "dev"

// HelmVersioner reports the version of the helm binary.
type HelmVersioner interface {
	Version(ctx context.Context) (*semver.Version, error)
}

// CheckHelmVersion asks the helm binary for its version and fails when it is
// older than MinHelmVersion. Pre-release builds of a supported version pass.
// Errors from helm itself are returned wrapped but otherwise unchanged.
func CheckHelmVersion(ctx context.Context, helm HelmVersioner) (*semver.Version, error) {
	v, err := helm.Version(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get Helm version: %w", err)
	}

	if !isVersionGreaterOrEqual(v, semver.MustParse(MinHelmVersion)) {
		return v, &exitcodes.ExitCodeError{
			Code: exitcodes.ExitHelmCommandFailed,
			Err:  fmt.Errorf("helm version %s is not supported. Minimum required version is %s", v, MinHelmVersion),
		}
	}

	log.Debug("Helm version check passed", "version", v.String())
	return v, nil
}

// isVersionGreaterOrEqual compares major, minor and patch only, so that
// build metadata and pre-release tags do not fail the check.
func isVersionGreaterOrEqual(v1, v2 *semver.Version) bool {
	core, err := semver.NewVersion(fmt.Sprintf("%d.%d.%d", v1.Major(), v1.Minor(), v1.Patch()))
	if err != nil {
		return false
	}
	return !core.LessThan(v2)
}
