package types

// Portfolio is the tracked-package configuration loaded from yaml. It
// replaces per-command package flags for fleet-wide operations.
type Portfolio struct {
	Metadata PortfolioMetadata `yaml:"metadata"`

	// Packages lists the install names tracked by refresh, the
	// dashboard grid, and the portfolio badge.
	Packages []string `yaml:"packages"`

	// IgnoredDependencies are dependency names excluded from priority
	// classification. pip, setuptools, wheel and virtualenv are always
	// ignored; entries here extend that set.
	IgnoredDependencies []string `yaml:"ignored_dependencies,omitempty"`

	// AllowlistURLs maps git install URLs to the released package name
	// they correspond to, for friendly display and version lookup.
	AllowlistURLs map[string]string `yaml:"allowlist_urls,omitempty"`
}

type PortfolioMetadata struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
}

// Contains reports whether the install name is tracked.
func (p Portfolio) Contains(installName string) bool {
	for _, name := range p.Packages {
		if name == installName {
			return true
		}
	}
	return false
}
