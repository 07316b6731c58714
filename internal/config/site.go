package config

// SiteConfig holds per-site configuration for a single property.
// This allows customizing discovery behavior for sites that need different
// pacing or caps than the global defaults.
type SiteConfig struct {
	// DomainSuffix overrides the derived internal-domain suffix for this
	// site. Useful when a property spans a domain different from its
	// start URL's hostname.
	DomainSuffix string `yaml:"domainSuffix,omitempty"`

	// MaxPages overrides the global crawl page cap for this site.
	// If zero, the global MaxCrawlPages is used.
	MaxPages int `yaml:"maxPages,omitempty"`

	// MaxSitemaps overrides the global sitemap file cap for this site.
	// If zero, the global MaxSitemapFiles is used.
	MaxSitemaps int `yaml:"maxSitemaps,omitempty"`

	// Delay overrides the global inter-request delay for this site.
	Delay Duration `yaml:"delay,omitempty"`

	// UserAgent overrides the global User-Agent for this site.
	UserAgent string `yaml:"userAgent,omitempty"`
}

// File represents the structure of the .mirrorscan configuration file.
type File struct {
	// Sites maps domain suffixes to their site-specific configurations.
	// Keys should be the bare domain (e.g., "example.com").
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults contains default site configuration applied to all sites
	// unless overridden in the site-specific configuration.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// GetSiteConfig returns the configuration for a domain suffix.
// It merges the site-specific configuration with defaults.
func (cf *File) GetSiteConfig(domainSuffix string) SiteConfig {
	result := cf.Defaults

	if siteConfig, ok := cf.Sites[domainSuffix]; ok {
		if siteConfig.DomainSuffix != "" {
			result.DomainSuffix = siteConfig.DomainSuffix
		}
		if siteConfig.MaxPages != 0 {
			result.MaxPages = siteConfig.MaxPages
		}
		if siteConfig.MaxSitemaps != 0 {
			result.MaxSitemaps = siteConfig.MaxSitemaps
		}
		if !siteConfig.Delay.IsZero() {
			result.Delay = siteConfig.Delay
		}
		if siteConfig.UserAgent != "" {
			result.UserAgent = siteConfig.UserAgent
		}
	}

	return result
}
