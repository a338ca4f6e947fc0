package update

// Criteria selects releases. An empty string field means the criterion is absent and
// matches every release; it never matches against an empty release field.
type Criteria struct {
	AllowPrerelease bool
	Branch          string // Release must target this branch
	Tag             string // Release tag must equal this exactly
	AssetName       string // Release must carry an asset with this exact name
	Baseline        string // Version currently running, used by GetIfNewer
}

// Matches reports whether r passes every criterion.
func (c Criteria) Matches(r Release) bool {
	if r.Prerelease && !c.AllowPrerelease {
		return false
	}
	if c.Tag != "" && c.Tag != r.Tag {
		return false
	}
	if c.Branch != "" && c.Branch != r.Branch {
		return false
	}
	if c.AssetName != "" && !r.HasAsset(c.AssetName) {
		return false
	}

	return true
}

// Filter returns the releases matching c, in their original order.
func (c Criteria) Filter(releases []Release) []Release {
	out := make([]Release, 0, len(releases))
	for _, r := range releases {
		if c.Matches(r) {
			out = append(out, r)
		}
	}

	return out
}
