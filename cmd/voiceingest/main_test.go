package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nguyentantai21042004/voice-ingest/internal/logger"
	"github.com/nguyentantai21042004/voice-ingest/internal/state"
)

func writeConfig(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	statePath := filepath.Join(dir, "state", "processed.json")
	body := "stt:\n  url: http://stt.local/v1/audio/transcriptions\n" +
		"delivery:\n  url: http://hooks.local\n  token: s3cret\n" +
		"paths:\n  watch_dir: " + filepath.Join(dir, "voice") + "\n  state_file: " + statePath + "\n"
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path, statePath
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCheckConfigRedactsToken(t *testing.T) {
	cfgPath, _ := writeConfig(t)
	out, err := execute(t, "check-config", "--config", cfgPath)
	if err != nil {
		t.Fatalf("check-config error = %v", err)
	}
	if strings.Contains(out, "s3cret") {
		t.Errorf("token leaked:\n%s", out)
	}
	if !strings.Contains(out, "Configuration valid") || !strings.Contains(out, "hooks.local") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestCheckConfigInvalid(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	for _, key := range []string{"STT_URL", "DELIVERY_URL", "DELIVERY_TOKEN"} {
		t.Setenv(key, "")
	}
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("stt:\n  url: ftp://nope\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "check-config", "-c", path); err == nil {
		t.Error("check-config accepted an invalid configuration")
	}
}

func TestStateList(t *testing.T) {
	cfgPath, statePath := writeConfig(t)
	store := state.New(statePath, logger.Discard())
	if err := store.Save(state.NewProcessedSet("b.wav", "a.m4a")); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "state", "list", "-c", cfgPath)
	if err != nil {
		t.Fatalf("state list error = %v", err)
	}
	want := "a.m4a\nb.wav\n2 file(s) processed\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestRootAcceptsOnce(t *testing.T) {
	cfgPath, statePath := writeConfig(t)
	for _, args := range [][]string{
		{"--once", "-c", cfgPath},
		{"run", "--once", "-c", cfgPath},
	} {
		t.Run(strings.Join(args[:len(args)-2], " "), func(t *testing.T) {
			if _, err := execute(t, args...); err != nil {
				t.Fatalf("%v error = %v", args, err)
			}
		})
	}
	if _, err := os.Stat(statePath + ".lock"); err != nil {
		t.Errorf("lock file not created: %v", err)
	}
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent to testing.T.Chdir, added in Go 1.24).
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
