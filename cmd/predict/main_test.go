package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCLI(t *testing.T, doc string, all bool) (int, string, string) {
	t.Helper()
	t.Setenv("ARTIFACT_BACKEND", "")
	t.Setenv("ARTIFACT_DIR", filepath.Join("..", "..", "artifacts"))

	dir := t.TempDir()
	input := filepath.Join(dir, "obs.json")
	if err := os.WriteFile(input, []byte(doc), 0644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	var stdout, stderr bytes.Buffer
	code := run(filepath.Join(dir, "none.json"), filepath.Join(dir, "none.env"), input, all, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

const observation = `{
	"photometry": {"u": 19.84, "g": 18.12, "r": 17.31, "i": 16.93, "z": 16.62},
	"morphology": 1,
	"petrosian": {"r50": 2.41, "r90": 6.88},
	"extinction_r": 0.071,
	"clean": 1
}`

func TestRun_PrintsPrediction(t *testing.T) {
	code, stdout, stderr := runCLI(t, observation, false)
	if code != 0 {
		t.Fatalf("exit %d, stderr: %s", code, stderr)
	}
	if !strings.HasPrefix(stdout, "Predicted Redshifts: ") {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestRun_AllPrintsOneLinePerRecord(t *testing.T) {
	code, stdout, stderr := runCLI(t, "["+observation+","+observation+"]", true)
	if code != 0 {
		t.Fatalf("exit %d, stderr: %s", code, stderr)
	}
	if lines := strings.Split(strings.TrimSpace(stdout), "\n"); len(lines) != 2 {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestRun_ErrorKinds(t *testing.T) {
	tests := map[string]string{
		"not json":     "Invalid JSON file",
		`{"clean": 1}`: `missing "photometry.u"`,
		strings.Replace(observation, `"clean": 1`, `"clean": "yes"`, 1): "Error in processing the file.",
	}
	for doc, want := range tests {
		code, _, stderr := runCLI(t, doc, false)
		if code != 1 {
			t.Errorf("exit %d for %q", code, doc)
		}
		if !strings.Contains(stderr, want) {
			t.Errorf("stderr = %q, want it to contain %q", stderr, want)
		}
	}
}
