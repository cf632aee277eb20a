package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// cliEnv runs the onboard binary against an isolated home directory.
type cliEnv struct {
	t      *testing.T
	bin    string
	env    []string
	config string
	db     string
}

func newCLIEnv(t *testing.T, bin, home, name string) *cliEnv {
	var env []string
	for _, e := range os.Environ() {
		if !strings.HasPrefix(e, "HOME=") && !strings.HasPrefix(e, "ONBOARD_REMOTE_DSN=") && !strings.HasPrefix(e, "XDG_CONFIG_HOME=") {
			env = append(env, e)
		}
	}
	env = append(env, fmt.Sprintf("HOME=%s", home), fmt.Sprintf("XDG_CONFIG_HOME=%s", home))

	return &cliEnv{
		t:      t,
		bin:    bin,
		env:    env,
		config: filepath.Join(home, name, "config.yaml"),
		db:     filepath.Join(home, name, "onboard.db"),
	}
}

func (c *cliEnv) withEnv(kv string) *cliEnv {
	next := *c
	next.env = append(append([]string{}, c.env...), kv)
	return &next
}

func (c *cliEnv) exec(args ...string) (string, error) {
	full := append([]string{"--config", c.config, "--db", c.db}, args...)
	cmd := exec.Command(c.bin, full...)
	cmd.Env = c.env
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	return out.String(), err
}

func (c *cliEnv) run(args ...string) string {
	c.t.Helper()
	out, err := c.exec(args...)
	if err != nil {
		c.t.Fatalf("onboard %v failed: %v\nOutput: %s", args, err, out)
	}
	return out
}

func findBinary(t *testing.T) string {
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get cwd: %v", err)
	}
	binDir := os.Getenv("ONBOARD_BIN_DIR")
	if binDir == "" {
		binDir = filepath.Join(cwd, "..", "..", "bin")
	}
	binDir, _ = filepath.Abs(binDir)

	bin := filepath.Join(binDir, "onboard")
	if _, err := os.Stat(bin); os.IsNotExist(err) {
		t.Skipf("CLI binary not found at %s. Build it with 'go build -o bin/onboard ./cmd/onboard'.", bin)
	}
	return bin
}

func TestEndToEndWorkflow(t *testing.T) {
	home := t.TempDir()
	c := newCLIEnv(t, findBinary(t), home, "onboard")

	c.run("init")

	if out, err := c.exec("list"); err == nil {
		t.Fatalf("list before login should fail, got: %s", out)
	} else if !strings.Contains(out, "onboard login") {
		t.Errorf("missing login hint in: %s", out)
	}

	c.run("login", "--name", "Li Ming", "--id", "li.ming")
	if out := c.run("whoami"); !strings.Contains(out, "li.ming") {
		t.Errorf("whoami output = %q", out)
	}

	c.run("confirm", "task-9", "task-10")
	out := c.run("list", "--tab", "completed", "--show-ids")
	if !strings.Contains(out, "#task-9") || !strings.Contains(out, "#task-10") {
		t.Errorf("completed list is missing confirmed tasks:\n%s", out)
	}

	if _, err := c.exec("confirm", "task-404"); err == nil {
		t.Error("confirming an unknown id should fail")
	}

	// Export, reset, then restore from the export.
	exportPath := filepath.Join(home, "progress.json")
	c.run("export", "json", "--output", exportPath)
	data, err := os.ReadFile(exportPath)
	if err != nil {
		t.Fatalf("export file missing: %v", err)
	}
	var exported struct {
		Progress struct {
			Completed int `json:"completed"`
		} `json:"progress"`
	}
	if err := json.Unmarshal(data, &exported); err != nil {
		t.Fatalf("export is not JSON: %v", err)
	}
	if exported.Progress.Completed != 2 {
		t.Errorf("exported completed = %d, want 2", exported.Progress.Completed)
	}

	c.run("reset", "--yes")
	if out := c.run("list", "--tab", "completed"); !strings.Contains(out, "No completed tasks yet") {
		t.Errorf("tasks still completed after reset:\n%s", out)
	}

	c.run("import", "json", exportPath)
	if out := c.run("stats"); !strings.Contains(out, "Overall: 2/") {
		t.Errorf("stats after import:\n%s", out)
	}

	c.run("backup", "create")
	if out := c.run("backup", "list"); !strings.Contains(out, "onboard-") {
		t.Errorf("backup list output:\n%s", out)
	}

	c.run("doctor")

	c.run("logout")
	if _, err := c.exec("whoami"); err == nil {
		t.Error("whoami after logout should fail")
	}
}

func TestSyncBetweenMachines(t *testing.T) {
	home := t.TempDir()
	bin := findBinary(t)
	remote := "ONBOARD_REMOTE_DSN=" + filepath.Join(home, "remote.db")

	laptop := newCLIEnv(t, bin, home, "laptop").withEnv(remote)
	desktop := newCLIEnv(t, bin, home, "desktop").withEnv(remote)

	for _, c := range []*cliEnv{laptop, desktop} {
		c.run("init")
		c.run("login")
	}

	laptop.run("confirm", "task-9")
	if out := laptop.run("sync", "status"); !strings.Contains(out, "✓ Remote reachable") {
		t.Errorf("sync status output:\n%s", out)
	}

	if out := desktop.run("sync", "pull"); !strings.Contains(out, "1/") {
		t.Errorf("pull did not bring the laptop's confirmation:\n%s", out)
	}
	if out := desktop.run("list", "--tab", "completed", "--show-ids"); !strings.Contains(out, "#task-9") {
		t.Errorf("desktop list after pull:\n%s", out)
	}
}
