package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/adpatch/internal/cli"
	"github.com/rshade/adpatch/internal/patch"
)

const footerPage = "import Footer from \"../components/footer\";\nexport default function Page() {}\n"

// setupCLITest isolates the test from real config files and quiets logs.
func setupCLITest(t *testing.T) {
	t.Helper()
	chdir(t, t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_DIRS", t.TempDir())
	t.Setenv("ADPATCH_LOG_LEVEL", "error")
	xdg.Reload()
}

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := cli.NewRootCmd("test")
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writePage(t *testing.T, base, rel, content string) string {
	t.Helper()
	full := filepath.Join(base, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o750))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	return full
}

func TestRun_DefaultProfileReportsEveryFile(t *testing.T) {
	setupCLITest(t)
	base := t.TempDir()
	writePage(t, base, "ocr/page.tsx", footerPage)

	stdout, _, err := execute(t, "run", "--base-path", base)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(stdout, "\n"), "\n")
	require.Len(t, lines, len(patch.BannerFiles)+1)
	assert.Equal(t, "Done!", lines[len(lines)-1])
	assert.Contains(t, lines, "Updated: ocr/page.tsx")
	assert.Contains(t, lines, "File not found: "+filepath.Join(base, "rotatepdf", "page.tsx"))
}

func TestRoot_NoSubcommandRuns(t *testing.T) {
	setupCLITest(t)
	base := t.TempDir()
	full := writePage(t, base, "quiz/page.tsx", footerPage)
	t.Setenv("ADPATCH_BASE_PATH", base)

	stdout, _, err := execute(t)
	require.NoError(t, err)

	assert.Contains(t, stdout, "Updated: quiz/page.tsx\n")
	data, err := os.ReadFile(full)
	require.NoError(t, err)
	assert.Contains(t, string(data), "import VerticalAdBanner")
}

func TestRun_ExplicitPathsAndIdempotence(t *testing.T) {
	setupCLITest(t)
	base := t.TempDir()
	writePage(t, base, "ocr/page.tsx", footerPage)

	stdout, _, err := execute(t, "run", "--base-path", base, "ocr/page.tsx")
	require.NoError(t, err)
	assert.Equal(t, "Updated: ocr/page.tsx\nDone!\n", stdout)

	stdout, _, err = execute(t, "run", "--base-path", base, "ocr/page.tsx")
	require.NoError(t, err)
	assert.Equal(t, "Already updated: ocr/page.tsx\nDone!\n", stdout)
}

func TestRun_DryRunWithSummary(t *testing.T) {
	setupCLITest(t)
	base := t.TempDir()
	full := writePage(t, base, "ocr/page.tsx", footerPage)

	stdout, _, err := execute(t, "run", "--dry-run", "--summary", "--base-path", base, "ocr/page.tsx", "gone/page.tsx")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Would update: ocr/page.tsx\n")
	assert.Contains(t, stdout, "Done!\n1 updated, 0 already updated, 1 not found, 0 skipped of 2 files")
	data, err := os.ReadFile(full)
	require.NoError(t, err)
	assert.Equal(t, footerPage, string(data))
}

func TestRun_ConfigFileSelectsProfileAndFiles(t *testing.T) {
	setupCLITest(t)
	base := t.TempDir()
	writePage(t, base, "only/page.tsx", "<Navbar />\n")
	require.NoError(t, os.WriteFile("adpatch.yaml", []byte(
		"base_path: "+base+"\nprofile: split\nfiles:\n  - only/page.tsx\n"), 0o600))

	stdout, _, err := execute(t, "run")
	require.NoError(t, err)
	assert.Equal(t, "Skipped: only/page.tsx (wrapper-expansion anchor not found)\nDone!\n", stdout)
}

func TestRun_InvalidConfigFails(t *testing.T) {
	setupCLITest(t)
	require.NoError(t, os.WriteFile("adpatch.yaml", []byte("profile: nope\n"), 0o600))

	_, stderr, err := execute(t, "run")
	require.Error(t, err)
	assert.ErrorIs(t, err, patch.ErrUnknownProfile)
	assert.Contains(t, stderr, "unknown profile")
}

// TestRun_DebugLogsCallerAndRunID verifies --debug adds caller locations and
// that the patch logs carry the run id of the invocation.
func TestRun_DebugLogsCallerAndRunID(t *testing.T) {
	setupCLITest(t)
	base := t.TempDir()
	writePage(t, base, "ocr/page.tsx", footerPage)

	_, stderr, err := execute(t, "--debug", "run", "--base-path", base, "ocr/page.tsx")
	require.NoError(t, err)

	assert.Contains(t, stderr, "logging_setup.go:")
	var started string
	for _, line := range strings.Split(stderr, "\n") {
		if strings.Contains(line, "patch run started") {
			started = line
		}
	}
	require.NotEmpty(t, started)
	assert.Contains(t, started, "run_id=")
}

func TestList(t *testing.T) {
	setupCLITest(t)
	base := t.TempDir()

	stdout, _, err := execute(t, "list", "--profile", "repair", "--base-path", base)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(stdout, "\n"), "\n")
	require.Len(t, lines, len(patch.RepairFiles))
	assert.Equal(t, filepath.Join(base, "watermark", "page.tsx"), lines[0])
}

func TestProfiles(t *testing.T) {
	setupCLITest(t)

	stdout, _, err := execute(t, "profiles")
	require.NoError(t, err)

	assert.Contains(t, stdout, "NAME")
	for _, name := range patch.ProfileNames() {
		assert.Contains(t, stdout, name)
	}
	assert.Contains(t, stdout, "import VerticalAdBanner")
	assert.Contains(t, stdout, "import-injection,wrapper-expansion,wrapper-closure")
}

func TestConfigInit(t *testing.T) {
	setupCLITest(t)

	stdout, _, err := execute(t, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Configuration initialized at adpatch.yaml")

	data, err := os.ReadFile("adpatch.yaml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "profile: banner")

	_, _, err = execute(t, "config", "init")
	require.Error(t, err, "existing file is not overwritten without --force")

	_, _, err = execute(t, "config", "init", "--force")
	require.NoError(t, err)
}

// TestConfigInit_IgnoresBrokenConfig verifies init works even when the
// current config would fail validation.
func TestConfigInit_IgnoresBrokenConfig(t *testing.T) {
	setupCLITest(t)
	require.NoError(t, os.WriteFile("adpatch.yaml", []byte("profile: nope\n"), 0o600))

	_, _, err := execute(t, "config", "init", "--force")
	require.NoError(t, err)
}

func TestConfigValidate(t *testing.T) {
	setupCLITest(t)
	require.NoError(t, os.WriteFile("custom.yaml", []byte("profile: split\n"), 0o600))

	stdout, _, err := execute(t, "--config", "custom.yaml", "config", "validate", "--verbose")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Configuration is valid")
	assert.Contains(t, stdout, "Profile: split")
	assert.Contains(t, stdout, "Config file: custom.yaml")
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
