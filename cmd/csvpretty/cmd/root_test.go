package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/oleg578/csvpretty"
)

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootRendersStdin(t *testing.T) {
	t.Parallel()

	out, _, err := execute(t, "name;age\nalice;30\n")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	want := `+-------+-----+
| name  | age |
+-------+-----+
| alice |  30 |
+-------+-----+
(1 rows)
`
	if out != want {
		t.Fatalf("output mismatch:\n got:\n%s\nwant:\n%s", out, want)
	}
}

func TestRootFlags(t *testing.T) {
	t.Parallel()

	out, _, err := execute(t, "a|b\n", "--border", "0", "--linestyle", "unicode", "--separator", "|")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if out != "a b\n(1 rows)\n" {
		t.Fatalf("output = %q", out)
	}
}

func TestRootCSVFormat(t *testing.T) {
	t.Parallel()

	out, _, err := execute(t, "a; \"b,c\"\n", "--format", "csv")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if out != "a,\"b,c\"\n" {
		t.Fatalf("output = %q", out)
	}
}

func TestRootReadsFileAndWritesOutput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := filepath.Join(dir, "in.csv")
	outPath := filepath.Join(dir, "out.txt")
	if err := os.WriteFile(in, []byte("x\n"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, _, err := execute(t, "", in, "-o", outPath); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	got, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(got) != "+---+\n| x |\n+---+\n(1 rows)\n" {
		t.Fatalf("output file = %q", got)
	}
}

func TestRootWarningsGoToStderr(t *testing.T) {
	t.Parallel()

	out, errOut, err := execute(t, "a,\"open")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.HasSuffix(out, "(1 rows)\n") {
		t.Fatalf("table missing from stdout: %q", out)
	}
	if !strings.Contains(errOut, "unterminated quoted field") {
		t.Fatalf("stderr = %q, want unterminated quote warning", errOut)
	}
}

func TestRootErrors(t *testing.T) {
	t.Parallel()

	tests := [][]string{
		{"--border", "5"},
		{"--separator", "x"},
		{"--linestyle", "fancy"},
		{"--format", "xml"},
		{"--log-level", "loud"},
		{filepath.Join(t.TempDir(), "missing.csv")},
	}
	for _, args := range tests {
		_, errOut, err := execute(t, "a\n", args...)
		if err == nil {
			t.Fatalf("Execute(%v) expected error", args)
		}
		if !strings.HasPrefix(errOut, "Error: ") {
			t.Fatalf("Execute(%v) stderr = %q", args, errOut)
		}
	}
}

func TestBuildConfigPrecedence(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "cfg.toml")
	if err := os.WriteFile(path, []byte("border = 1\nlinestyle = \"unicode\"\nseparator = \";\"\n"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	root := newRootCmd()
	if err := root.ParseFlags([]string{"--config", path, "--border", "0"}); err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}
	opts := &rootOptions{cfgFile: path, border: 0, lineStyle: "auto", separator: "auto", header: "auto"}

	cfg, err := buildConfig(root.Flags(), opts, false)
	if err != nil {
		t.Fatalf("buildConfig() error = %v", err)
	}
	if cfg.Border != 0 || cfg.LineStyle != csvpretty.LineStyleUnicode || cfg.Separator != ';' {
		t.Fatalf("buildConfig() = %+v", cfg)
	}
}

func TestBuildConfigAutoLineStyle(t *testing.T) {
	t.Parallel()

	root := newRootCmd()
	opts := &rootOptions{lineStyle: "auto", separator: "auto", header: "auto", border: 2}

	cfg, err := buildConfig(root.Flags(), opts, true)
	if err != nil {
		t.Fatalf("buildConfig() error = %v", err)
	}
	if cfg.LineStyle != csvpretty.LineStyleUnicode {
		t.Fatalf("terminal line style = %v, want unicode", cfg.LineStyle)
	}

	cfg, err = buildConfig(root.Flags(), opts, false)
	if err != nil {
		t.Fatalf("buildConfig() error = %v", err)
	}
	if cfg.LineStyle != csvpretty.LineStyleASCII {
		t.Fatalf("pipe line style = %v, want ascii", cfg.LineStyle)
	}
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	out, _, err := execute(t, "", "version")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.HasPrefix(out, "csvpretty v"+Version) {
		t.Fatalf("version output = %q", out)
	}
}
