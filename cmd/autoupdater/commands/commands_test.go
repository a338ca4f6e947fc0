package commands

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/localcc/autoupdater/internal/display"
)

const assetBody = "#!/bin/sh\necho new\n"

// fakeInstaller records what the update command asks of the installer.
type fakeInstaller struct {
	notWritable bool
	replaceErr  error
	replaced    []byte
	rolledBack  bool
}

func (f *fakeInstaller) Replace(p string) error {
	b, err := os.ReadFile(p)
	if err != nil {
		return err
	}
	f.replaced = b

	return f.replaceErr
}

func (f *fakeInstaller) Rollback() error {
	f.rolledBack = true

	return nil
}

func (f *fakeInstaller) IsWritable() (bool, error) {
	return !f.notWritable, nil
}

// releaseServer serves a GitHub-style release listing for acme/app plus assets.
type releaseServer struct {
	*httptest.Server
	checksum   string
	apiHits    atomic.Int32
	assetHits  atomic.Int32
	prerelease bool
}

func newReleaseServer(t *testing.T) *releaseServer {
	t.Helper()

	sum := sha256.Sum256([]byte(assetBody))
	rs := &releaseServer{checksum: hex.EncodeToString(sum[:])}

	rs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/repos/") {
			rs.apiHits.Add(1)
		}

		switch {
		case r.URL.Path == "/repos/acme/app/releases":
			w.Header().Set("Content-Type", "application/json")
			if p := r.URL.Query().Get("page"); p != "" && p != "1" {
				_, _ = io.WriteString(w, "[]")

				return
			}
			_, _ = io.WriteString(w, rs.listing())
		case r.URL.Path == "/assets/app-bin":
			rs.assetHits.Add(1)
			_, _ = io.WriteString(w, assetBody)
		case r.URL.Path == "/assets/checksums.txt":
			_, _ = fmt.Fprintf(w, "%s  app-bin\n", rs.checksum)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(rs.Close)

	return rs
}

func (rs *releaseServer) listing() string {
	return fmt.Sprintf(`[
  {
    "tag_name": "v1.1.0",
    "target_commitish": "main",
    "name": "Release 1.1.0",
    "prerelease": %t,
    "html_url": "https://github.com/acme/app/releases/tag/v1.1.0",
    "assets": [
      {"name": "app-bin", "url": "%[2]s/assets/app-bin", "size": %d},
      {"name": "checksums.txt", "url": "%[2]s/assets/checksums.txt", "size": 80}
    ]
  },
  {"tag_name": "v1.0.0", "target_commitish": "main", "name": "Release 1.0.0", "assets": []}
]`, rs.prerelease, rs.URL, len(assetBody))
}

// testEnv isolates a command run from the developer's machine: empty working
// directory and home, no tokens, no gh CLI, fixed version.
type testEnv struct {
	app       *app
	installer *fakeInstaller
	exe       string
	stdin     string
}

func newTestEnv(t *testing.T, version string) *testEnv {
	t.Helper()

	home := t.TempDir()
	t.Chdir(t.TempDir())
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("PATH", "")
	for _, k := range []string{"GITHUB_TOKEN", "GH_TOKEN", "AUTOUPDATER_GITHUB_TOKEN", "GITLAB_TOKEN", "AUTOUPDATER_GITLAB_TOKEN"} {
		t.Setenv(k, "")
		_ = os.Unsetenv(k)
	}

	orig := Version
	Version = version
	t.Cleanup(func() {
		Version = orig
		display.SetColorsEnabled(true)
	})

	env := &testEnv{
		installer: &fakeInstaller{},
		exe:       filepath.Join(t.TempDir(), "app"),
	}
	env.app = newApp()
	env.app.newInstaller = func() selfReplacer { return env.installer }
	env.app.executable = func() (string, error) { return env.exe, nil }

	return env
}

// run executes args against a fresh command tree.
func (e *testEnv) run(args ...string) (string, error) {
	var stdout, stderr bytes.Buffer

	root := newRootCmd(e.app)
	root.SetIn(strings.NewReader(e.stdin))
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--no-color"}, args...))

	err := root.ExecuteContext(context.Background())

	return stdout.String(), err
}

func sourceArgs(rs *releaseServer, extra ...string) []string {
	return append([]string{"--owner", "acme", "--repo", "app", "--api-url", rs.URL, "--asset", "app-bin"}, extra...)
}

func assertContains(t *testing.T, out string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q:\n%s", w, out)
		}
	}
}
