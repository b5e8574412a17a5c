package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"taskmk/internal/app"
	"taskmk/internal/loader"
	"taskmk/internal/scheduler"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	// Flag bindings outlive a single Execute.
	tasksFile, envFile, logDir, verbose = app.DefaultTasksFile, "", "", false
	envForce, initForce = false, false
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)
	err := Execute()
	return out.String(), err
}

func writeTasks(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "taskmk.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestHelp_ListsDescribedTasks(t *testing.T) {
	path := writeTasks(t, `
tasks:
  - name: up
    description: Start the containers
  - name: hidden
  - name: down
    description: Stop the containers
`)
	out, err := execute(t, "help", "-f", path)
	if err != nil {
		t.Fatalf("help: %v", err)
	}
	if !strings.Contains(out, "up    Start the containers") || !strings.Contains(out, "down  Stop the containers") {
		t.Errorf("unexpected catalog:\n%s", out)
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("undocumented task listed:\n%s", out)
	}
	if strings.Index(out, "up ") > strings.Index(out, "down ") {
		t.Errorf("catalog not in declaration order:\n%s", out)
	}
}

func TestShorthand_RunsTaskAndPropagatesExitCode(t *testing.T) {
	path := writeTasks(t, `
vars:
  CODE: "0"
tasks:
  - name: check
    command: echo checking; exit $CODE
`)
	out, err := execute(t, "-f", path, "--env-file", filepath.Join(t.TempDir(), ".env"), "check")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !strings.Contains(out, "checking") {
		t.Errorf("missing task output: %q", out)
	}

	_, err = execute(t, "-f", path, "--env-file", filepath.Join(t.TempDir(), ".env"), "run", "check", "CODE=5")
	var failed *scheduler.TaskFailedError
	if !errors.As(err, &failed) {
		t.Fatalf("expected TaskFailedError, got %v", err)
	}
	if code := ExitCode(err); code != 5 {
		t.Errorf("exit code = %d, want 5", code)
	}
}

func TestExitCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{errors.New("boom"), 1},
		{&usageError{errors.New("bad flag")}, 2},
		{fmt.Errorf("wrapped: %w", &scheduler.TaskFailedError{Task: "lint", ExitCode: 3}), 3},
		{&scheduler.TaskFailedError{Task: "dev", ExitCode: -1}, 1},
	}
	for _, c := range cases {
		if got := ExitCode(c.err); got != c.want {
			t.Errorf("ExitCode(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}

func TestBadOverrideIsUsageError(t *testing.T) {
	path := writeTasks(t, "tasks:\n  - name: up\n    command: \"true\"\n")
	_, err := execute(t, "-f", path, "up", "oops")
	if code := ExitCode(err); code != 2 {
		t.Errorf("exit code = %d, want 2 (err %v)", code, err)
	}
}

func TestInit_PicksStarterByExtension(t *testing.T) {
	starters := map[string]*loader.TasksFile{}
	for _, name := range []string{"taskmk.yaml", "taskmk.hcl"} {
		dir := t.TempDir()
		path := filepath.Join(dir, name)
		if _, err := execute(t, "init", "-f", path); err != nil {
			t.Fatalf("init %s: %v", name, err)
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatal(err)
		}
		var got []string
		for _, e := range entries {
			got = append(got, e.Name())
		}
		if diff := cmp.Diff([]string{app.DefaultEnvTemplate, name}, got); diff != "" {
			t.Errorf("%s: files (-want +got):\n%s", name, diff)
		}

		out, err := execute(t, "help", "-f", path)
		if err != nil {
			t.Fatalf("help %s: %v", name, err)
		}
		if !strings.Contains(out, "Restart the containers") {
			t.Errorf("%s: starter catalog missing restart:\n%s", name, out)
		}

		tf, err := loader.LoadTasks(path)
		if err != nil {
			t.Fatalf("load %s: %v", name, err)
		}
		starters[name] = tf
	}
	if diff := cmp.Diff(starters["taskmk.yaml"], starters["taskmk.hcl"]); diff != "" {
		t.Errorf("yaml and hcl starters differ (-yaml +hcl):\n%s", diff)
	}
}

func TestInit_KeepsExistingUnlessForced(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taskmk.yaml")
	if err := os.WriteFile(path, []byte("tasks: []\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "init", "-f", path); err != nil {
		t.Fatalf("init: %v", err)
	}
	if b, _ := os.ReadFile(path); string(b) != "tasks: []\n" {
		t.Errorf("existing tasks file overwritten: %q", b)
	}
	if _, err := execute(t, "init", "--force", "-f", path); err != nil {
		t.Fatalf("init --force: %v", err)
	}
	if b, _ := os.ReadFile(path); !strings.Contains(string(b), "name: restart") {
		t.Errorf("--force did not write the starter: %q", b)
	}
}

func TestVars_ShowsValueAndSource(t *testing.T) {
	path := writeTasks(t, "vars:\n  PROJECT: docs\n  PORT: \"80\"\n  HOST: localhost\ntasks:\n  - name: up\n")
	env := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(env, []byte("PORT=8080\n"), 0644); err != nil {
		t.Fatal(err)
	}
	out, err := execute(t, "vars", "-f", path, "--env-file", env, "PROJECT=web")
	if err != nil {
		t.Fatalf("vars: %v", err)
	}
	want := map[string][]string{
		"HOST":    {`"localhost"`, "(default)"},
		"PORT":    {`"8080"`, "(file)"},
		"PROJECT": {`"web"`, "(override)"},
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got:\n%s", len(want), out)
	}
	for _, line := range lines {
		name := strings.Fields(line)[0]
		for _, part := range want[name] {
			if !strings.Contains(line, part) {
				t.Errorf("%s: %q missing %s", name, line, part)
			}
		}
	}
}

func TestEnv_ForceRecreates(t *testing.T) {
	dir := t.TempDir()
	tmpl := filepath.Join(dir, ".env.dist")
	env := filepath.Join(dir, ".env")
	if err := os.WriteFile(tmpl, []byte("SITE_PORT=${SITE_PORT}\n"), 0644); err != nil {
		t.Fatal(err)
	}
	path := writeTasks(t, fmt.Sprintf("env_template: %s\nvars:\n  SITE_PORT: \"3000\"\ntasks:\n  - name: up\n", tmpl))

	if _, err := execute(t, "env", "-f", path, "--env-file", env); err != nil {
		t.Fatalf("env: %v", err)
	}
	if _, err := execute(t, "env", "-f", path, "--env-file", env, "SITE_PORT=4000"); err != nil {
		t.Fatalf("env again: %v", err)
	}
	if b, _ := os.ReadFile(env); string(b) != "SITE_PORT=3000\n" {
		t.Errorf("existing env file replaced without --force: %q", b)
	}
	if _, err := execute(t, "env", "--force", "-f", path, "--env-file", env, "SITE_PORT=4000"); err != nil {
		t.Fatalf("env --force: %v", err)
	}
	if b, _ := os.ReadFile(env); string(b) != "SITE_PORT=4000\n" {
		t.Errorf("--force did not recreate the env file: %q", b)
	}
}

func TestHelp_MissingTasksFileSuggestsInit(t *testing.T) {
	for _, name := range []string{"taskmk.yaml", "taskmk.hcl"} {
		out, err := execute(t, "help", "-f", filepath.Join(t.TempDir(), name))
		if err != nil {
			t.Errorf("%s: expected usage fallback, got %v", name, err)
		}
		if !strings.Contains(out, "Usage:") {
			t.Errorf("%s: usage not printed:\n%s", name, out)
		}
	}
}
