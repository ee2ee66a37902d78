package config

// Profile holds per-document-kind overrides for the pipeline rates.
// This allows tuning behavior for different document classes (thesis
// chapters, abstracts, reference lists) from one profile file.
//
// Zero values mean "not set"; GetProfile merges set fields over defaults.
type Profile struct {
	// SubstitutionRate overrides the global homoglyph substitution rate.
	SubstitutionRate float64 `yaml:"substitutionRate,omitempty"`

	// InsertionRate overrides the invisible-character insertion rate.
	InsertionRate float64 `yaml:"insertionRate,omitempty"`

	// ReplacementRate overrides the synonym replacement rate.
	ReplacementRate float64 `yaml:"replacementRate,omitempty"`

	// Mode overrides the substitution mode.
	Mode string `yaml:"mode,omitempty"`

	// Strategy overrides the paraphrase strategy.
	Strategy string `yaml:"strategy,omitempty"`

	// MaxChangesPerParagraph overrides the per-paragraph change cap.
	MaxChangesPerParagraph int `yaml:"maxChangesPerParagraph,omitempty"`

	// SafeTokens are tokens the substitution engine must never modify.
	SafeTokens []string `yaml:"safeTokens,omitempty"`
}

// File represents the structure of the .veiltext profile file.
type File struct {
	// Profiles maps profile names to their overrides. Names are free
	// labels chosen by the user (e.g. "thesis", "abstract").
	Profiles map[string]Profile `yaml:"profiles,omitempty"`

	// Defaults contains overrides applied to every run unless a named
	// profile overrides them again.
	Defaults Profile `yaml:"defaults,omitempty"`
}

// GetProfile returns the effective profile for a name, merging the named
// profile over the file defaults. An unknown name yields the defaults.
func (f *File) GetProfile(name string) Profile {
	result := f.Defaults

	if p, ok := f.Profiles[name]; ok {
		if p.SubstitutionRate != 0 {
			result.SubstitutionRate = p.SubstitutionRate
		}
		if p.InsertionRate != 0 {
			result.InsertionRate = p.InsertionRate
		}
		if p.ReplacementRate != 0 {
			result.ReplacementRate = p.ReplacementRate
		}
		if p.Mode != "" {
			result.Mode = p.Mode
		}
		if p.Strategy != "" {
			result.Strategy = p.Strategy
		}
		if p.MaxChangesPerParagraph != 0 {
			result.MaxChangesPerParagraph = p.MaxChangesPerParagraph
		}
		if len(p.SafeTokens) > 0 {
			result.SafeTokens = p.SafeTokens
		}
	}

	return result
}

// Apply writes the set fields of a profile into a Config.
func (c *Config) Apply(p Profile) {
	if p.SubstitutionRate != 0 {
		c.SubstitutionRate = p.SubstitutionRate
	}
	if p.InsertionRate != 0 {
		c.InsertionRate = p.InsertionRate
	}
	if p.ReplacementRate != 0 {
		c.ReplacementRate = p.ReplacementRate
	}
	if p.Mode != "" {
		c.Mode = SubstitutionMode(p.Mode)
	}
	if p.Strategy != "" {
		c.Strategy = Strategy(p.Strategy)
	}
	if p.MaxChangesPerParagraph != 0 {
		c.MaxChangesPerUnit = p.MaxChangesPerParagraph
	}
	if len(p.SafeTokens) > 0 {
		c.SafeTokens = append(c.SafeTokens, p.SafeTokens...)
	}
}
