// ABOUTME: Tests for build identity constants
// ABOUTME: Ensures the reported identity is usable
package version

import (
	"strings"
	"testing"
)

func TestIdentityDefined(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if Product == "" {
		t.Error("Product should not be empty")
	}
	if Manufacturer == "" {
		t.Error("Manufacturer should not be empty")
	}
}

func TestVersionLooksLikeARelease(t *testing.T) {
	if strings.ContainsAny(Version, " \t\n") {
		t.Errorf("Version %q contains whitespace", Version)
	}
	if len(Version) > 40 {
		t.Errorf("Version %q is unreasonably long", Version)
	}
}
