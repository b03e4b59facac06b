// ABOUTME: Build identity constants
// ABOUTME: Version information reported by the demo player
package version

const (
	// Version is the release version, overridden at build time.
	Version = "0.1.0"

	// Product is the product name.
	Product = "Outpour Player"

	// Manufacturer identifies the project.
	Manufacturer = "Outpour Audio"
)
