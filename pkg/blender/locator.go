package blender

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/philipparndt/cadquote/internal/toolexec"
)

const (
	// MacOSPath is where the official macOS build installs
	MacOSPath = "/Applications/Blender.app/Contents/MacOS/Blender"
	// BundleID identifies Blender in the Spotlight index
	BundleID = "org.blenderfoundation.blender"
)

// ErrBlenderNotFound is returned when no Blender installation is found
var ErrBlenderNotFound = fmt.Errorf("blender not found (install it from https://www.blender.org/ or set CADQUOTE_BLENDER): %w", toolexec.ErrToolNotFound)

// Locator finds the Blender executable. The function fields exist so the
// search order can be exercised without a real installation.
type Locator struct {
	// Configured is an explicit path that takes precedence over discovery
	Configured string

	Stat      func(name string) (os.FileInfo, error)
	Spotlight func(ctx context.Context, query string) ([]string, error)
	LookPath  func(file string) (string, error)
}

// DefaultLocator searches the real file system, Spotlight and $PATH
func DefaultLocator(configured string) *Locator {
	return &Locator{
		Configured: configured,
		Stat:       os.Stat,
		Spotlight:  mdfind,
		LookPath:   exec.LookPath,
	}
}

// Find returns the Blender binary, checking in order: the configured path,
// the macOS install location, Spotlight by bundle id, then $PATH
func (l *Locator) Find(ctx context.Context) (string, error) {
	if l.Configured != "" {
		if _, err := l.Stat(l.Configured); err != nil {
			return "", fmt.Errorf("%w: configured path %s: %v", ErrBlenderNotFound, l.Configured, err)
		}
		return l.Configured, nil
	}

	if _, err := l.Stat(MacOSPath); err == nil {
		return MacOSPath, nil
	}

	if l.Spotlight != nil {
		query := fmt.Sprintf("kMDItemCFBundleIdentifier == '%s'", BundleID)
		// Spotlight is best effort; it does not exist outside macOS
		if bundles, err := l.Spotlight(ctx, query); err == nil && len(bundles) > 0 {
			return filepath.Join(bundles[0], "Contents", "MacOS", "Blender"), nil
		}
	}

	if path, err := l.LookPath("blender"); err == nil {
		return path, nil
	}

	return "", ErrBlenderNotFound
}

func mdfind(ctx context.Context, query string) ([]string, error) {
	out, err := exec.CommandContext(ctx, "mdfind", query).Output()
	if err != nil {
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			return nil, nil
		}
		return nil, err
	}
	var bundles []string
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			bundles = append(bundles, line)
		}
	}
	return bundles, nil
}
