package cmd

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/zinc-sig/gradeghost/internal/output"
	"github.com/zinc-sig/gradeghost/internal/sandbox"
)

func TestEvalCommand(t *testing.T) {
	tests := []struct {
		name      string
		code      string
		extra     []string
		wantEmpty bool
		wantKind  sandbox.Kind
		wantLogs  []string
	}{
		{
			name:     "success captures console output",
			code:     workingCode,
			wantKind: sandbox.KindSuccess,
			wantLogs: []string{"1 9"},
		},
		{
			name:     "syntax error",
			code:     "const = ;\nconsole.log('never');",
			wantKind: sandbox.KindCompileError,
		},
		{
			name:     "thrown error",
			code:     "throw new TypeError('bad input');",
			wantKind: sandbox.KindRuntimeError,
		},
		{
			name:     "infinite loop is stopped",
			code:     "for (;;) { Math.random(); }",
			extra:    []string{"--timeout", "50ms"},
			wantKind: sandbox.KindTimeout,
		},
		{
			name:      "comments only",
			code:      "// TODO 1\n/* later */",
			wantEmpty: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			file := filepath.Join(dir, "script.js")
			if err := os.WriteFile(file, []byte(tt.code), 0o644); err != nil {
				t.Fatal(err)
			}

			args := append([]string{"eval", "--repo", dir}, tt.extra...)
			stdout, err := execute(t, append(args, file)...)
			if err != nil {
				t.Fatalf("eval error = %v", err)
			}

			eval := decode[output.Evaluation](t, stdout)
			if eval.Script != "script.js" {
				t.Errorf("Script = %q, want script.js", eval.Script)
			}
			if eval.Empty != tt.wantEmpty {
				t.Errorf("Empty = %v, want %v", eval.Empty, tt.wantEmpty)
			}
			if tt.wantEmpty {
				if eval.Sandbox != nil {
					t.Errorf("empty code must not run, got %+v", eval.Sandbox)
				}
				return
			}
			if eval.Sandbox == nil || eval.Sandbox.Kind != tt.wantKind {
				t.Fatalf("Sandbox = %+v, want kind %s", eval.Sandbox, tt.wantKind)
			}
			if tt.wantLogs != nil && !slices.Equal(eval.Sandbox.Logs, tt.wantLogs) {
				t.Errorf("Logs = %q, want %q", eval.Sandbox.Logs, tt.wantLogs)
			}
		})
	}
}

func TestEvalCommandErrors(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "script.js")
	if err := os.WriteFile(file, []byte(workingCode), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
	}{
		{name: "missing file", args: []string{"eval", "--repo", dir, filepath.Join(dir, "nope.js")}},
		{name: "no file argument", args: []string{"eval", "--repo", dir}},
		{name: "invalid timeout format", args: []string{"eval", "--repo", dir, "--timeout", "invalid", file}},
		{name: "negative timeout", args: []string{"eval", "--repo", dir, "--timeout", "-1s", file}},
		{name: "missing lab config", args: []string{"eval", "--repo", dir, "--lab-config", "missing.yml", file}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, tt.args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
