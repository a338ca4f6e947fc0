package update

import "testing"

func TestCriteriaMatches(t *testing.T) {
	release := Release{
		Tag:    "v1.2.0",
		Branch: "main",
		Assets: []Asset{{Name: "app-linux-amd64"}, {Name: "checksums.txt"}},
	}
	pre := release
	pre.Prerelease = true

	tests := []struct {
		name     string
		criteria Criteria
		release  Release
		want     bool
	}{
		{"no criteria", Criteria{}, release, true},
		{"prerelease excluded", Criteria{}, pre, false},
		{"prerelease allowed", Criteria{AllowPrerelease: true}, pre, true},
		{
			"prerelease excluded despite matching everything else",
			Criteria{Tag: "v1.2.0", Branch: "main", AssetName: "checksums.txt"},
			pre,
			false,
		},
		{"tag match", Criteria{Tag: "v1.2.0"}, release, true},
		{"tag mismatch", Criteria{Tag: "1.2.0"}, release, false},
		{"branch match", Criteria{Branch: "main"}, release, true},
		{"branch mismatch", Criteria{Branch: "develop"}, release, false},
		{"branch required but release has none", Criteria{Branch: "main"}, Release{Tag: "v1"}, false},
		{"empty branch is absent", Criteria{Branch: ""}, Release{Tag: "v1", Branch: "feature"}, true},
		{"asset present", Criteria{AssetName: "app-linux-amd64"}, release, true},
		{"asset absent", Criteria{AssetName: "app-darwin-arm64"}, release, false},
		{"baseline ignored by filter", Criteria{Baseline: "9.9.9"}, release, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.criteria.Matches(tt.release); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCriteriaFilterKeepsOrder(t *testing.T) {
	releases := []Release{
		{Tag: "v3.0.0", Prerelease: true},
		{Tag: "v1.0.0"},
		{Tag: "v2.0.0"},
	}

	got := Criteria{}.Filter(releases)
	if len(got) != 2 || got[0].Tag != "v1.0.0" || got[1].Tag != "v2.0.0" {
		t.Errorf("Filter() = %v, want [v1.0.0 v2.0.0]", got)
	}
}
