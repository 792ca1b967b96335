package main

import (
	"bytes"
	"encoding/xml"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func runCmd(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func assertWellFormed(t *testing.T, data []byte) {
	t.Helper()
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		_, err := dec.Token()
		if err == io.EOF {
			return
		}
		if err != nil {
			t.Fatalf("output is not well-formed XML: %v", err)
		}
	}
}

func TestRootCmd_DefaultOutput(t *testing.T) {
	chdir(t, t.TempDir())

	stdout, _, err := runCmd(t)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if stdout != "Generated docs/images/benchmark_graph.svg\n" {
		t.Errorf("stdout = %q", stdout)
	}

	data, err := os.ReadFile(filepath.Join("docs", "images", "benchmark_graph.svg"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	assertWellFormed(t, data)
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if n := doc.Find("rect.bar-bg").Length(); n != 2 {
		t.Errorf("background bars = %d, want 2", n)
	}
	if got := doc.Find("text.value").First().Text(); got != "6,300,000" {
		t.Errorf("first value = %q, want %q", got, "6,300,000")
	}
	if got := doc.Find("text.label").Last().Text(); got != "Masked (Single)" {
		t.Errorf("last label = %q", got)
	}
}

func TestRootCmd_Rerun(t *testing.T) {
	chdir(t, t.TempDir())

	for i := 0; i < 2; i++ {
		if _, _, err := runCmd(t); err != nil {
			t.Fatalf("run %d error: %v", i, err)
		}
	}
}

func TestRootCmd_OutputFlag(t *testing.T) {
	out := filepath.Join(t.TempDir(), "nested", "graph.svg")

	stdout, _, err := runCmd(t, "--output", out)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !strings.Contains(stdout, out) {
		t.Errorf("stdout %q should name %s", stdout, out)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("output not written: %v", err)
	}
}

func TestRootCmd_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "custom.svg")
	cfgPath := filepath.Join(dir, "benchgraph.yaml")
	content := "output:\n  path: " + out + "\ndata:\n  - label: \"Only\"\n    value: 1000\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, _, err := runCmd(t, "--config", cfgPath); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if n := doc.Find("rect.bar").Length(); n != 1 {
		t.Errorf("foreground bars = %d, want 1", n)
	}
	if got := doc.Find("text.value").Text(); got != "1,000" {
		t.Errorf("value = %q, want %q", got, "1,000")
	}
}

func TestRootCmd_LogsConfigSource(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "benchgraph.yaml")
	content := "output:\n  path: " + filepath.Join(dir, "graph.svg") + "\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("BENCHGRAPH_CHART_TITLE", "Overridden")

	_, stderr, err := runCmd(t, "--config", cfgPath)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !strings.Contains(stderr, "using config file") || !strings.Contains(stderr, cfgPath) {
		t.Errorf("expected config file in log, got %q", stderr)
	}
	if !strings.Contains(stderr, "BENCHGRAPH_CHART_TITLE") {
		t.Errorf("expected env override in log, got %q", stderr)
	}
}

func TestRootCmd_DebugLogging(t *testing.T) {
	out := filepath.Join(t.TempDir(), "graph.svg")

	_, stderr, err := runCmd(t, "--output", out, "--log-level", "debug")
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !strings.Contains(stderr, "rendering chart") || !strings.Contains(stderr, "points=2") {
		t.Errorf("expected debug log on stderr, got %q", stderr)
	}
}

func TestRootCmd_InvalidData(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "graph.svg")
	cfgPath := filepath.Join(dir, "benchgraph.yaml")
	content := "output:\n  path: " + out + "\ndata:\n  - label: \"Broken\"\n    value: -5\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, _, err := runCmd(t, "--config", cfgPath); err == nil {
		t.Fatal("expected error for negative value")
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("nothing should be written when rendering fails")
	}
}

func TestRootCmd_UnwritableOutput(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "docs")
	if err := os.WriteFile(blocker, []byte("file"), 0644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	stdout, _, err := runCmd(t, "--output", filepath.Join(blocker, "graph.svg"))
	if err == nil {
		t.Fatal("expected error when output directory cannot be created")
	}
	if stdout != "" {
		t.Errorf("no confirmation expected on failure, got %q", stdout)
	}
}

func TestRootCmd_RejectsArgs(t *testing.T) {
	if _, _, err := runCmd(t, "extra"); err == nil {
		t.Fatal("expected error for positional arguments")
	}
}

func TestMissingConfigFile(t *testing.T) {
	if _, _, err := runCmd(t, "--config", "/nonexistent/benchgraph.yaml"); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestVersionCmd(t *testing.T) {
	stdout, _, err := runCmd(t, "version")
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !strings.HasPrefix(stdout, "benchgraph dev") {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]string{
		"debug": "DEBUG",
		"WARN":  "WARN",
		"error": "ERROR",
		"":      "INFO",
		"loud":  "INFO",
	}
	for in, want := range tests {
		if got := parseLevel(in).String(); got != want {
			t.Errorf("parseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir(%q): %v", dir, err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}
