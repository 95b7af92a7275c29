package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	texerrors "github.com/wippyai/texsvg/errors"
	"github.com/wippyai/texsvg/internal/testbundle"
)

func bundleFlags(t *testing.T) cliFlags {
	t.Helper()
	path, err := testbundle.WriteFile(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return cliFlags{bundlePath: path}
}

func TestRun_Tex(t *testing.T) {
	f := bundleFlags(t)
	f.tex = `\frac{a}{b}`

	var out bytes.Buffer
	if err := run(f, nil, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "<svg") || !strings.Contains(out.String(), `display="true"`) {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestRun_Stdin(t *testing.T) {
	f := bundleFlags(t)
	f.tex = "-"
	f.inline = true

	var out bytes.Buffer
	if err := run(f, strings.NewReader("x_i"), &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "x_i") {
		t.Errorf("stdin TeX not rendered: %q", out.String())
	}
	if strings.Contains(out.String(), `display="true"`) {
		t.Errorf("-inline ignored: %q", out.String())
	}
}

func TestRun_StandaloneFile(t *testing.T) {
	f := bundleFlags(t)
	f.tex = "E = mc^2"
	f.standalone = true
	f.out = filepath.Join(t.TempDir(), "out.svg")

	if err := run(f, nil, &bytes.Buffer{}); err != nil {
		t.Fatalf("run: %v", err)
	}
	data, err := os.ReadFile(f.out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "<?xml") {
		t.Errorf("expected an XML document, got %q", data)
	}
	if strings.Contains(string(data), "mjx-container") {
		t.Errorf("standalone output should hold only the svg element: %q", data)
	}
}

func TestRun_EvaluationError(t *testing.T) {
	f := bundleFlags(t)
	f.tex = "x^{2"

	err := run(f, nil, &bytes.Buffer{})
	if !errors.Is(err, texerrors.ErrEvaluation) {
		t.Fatalf("expected evaluation error, got %v", err)
	}
}

func TestRun_Markdown(t *testing.T) {
	dir := t.TempDir()
	md := filepath.Join(dir, "doc.md")
	if err := os.WriteFile(md, []byte("Energy $E = mc^2$ here.\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	f := bundleFlags(t)
	f.markdown = md
	var out bytes.Buffer
	if err := run(f, nil, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), `<span class="math inline">`) {
		t.Errorf("math not typeset: %q", out.String())
	}

	f.mathml = true
	out.Reset()
	if err := run(f, nil, &out); err != nil {
		t.Fatalf("run -mathml: %v", err)
	}
	if !strings.Contains(out.String(), "<math") {
		t.Errorf("expected MathML: %q", out.String())
	}
}

func TestRun_Schema(t *testing.T) {
	var out bytes.Buffer
	if err := run(cliFlags{schema: true}, nil, &out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), `"stack_limit_bytes"`) {
		t.Errorf("schema missing fields: %s", out.String())
	}
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name  string
		flags func(cliFlags) cliFlags
	}{
		{"nothing to do", func(f cliFlags) cliFlags { return f }},
		{"bad stack", func(f cliFlags) cliFlags { f.tex = "x"; f.stack = "lots"; return f }},
		{"bad heap", func(f cliFlags) cliFlags { f.tex = "x"; f.heap = "-1"; return f }},
		{"missing bundle", func(f cliFlags) cliFlags { f.tex = "x"; f.bundlePath = "/nonexistent/bundle.js"; return f }},
		{"missing markdown", func(f cliFlags) cliFlags { f.markdown = "/nonexistent/doc.md"; return f }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := tt.flags(bundleFlags(t))
			if err := run(f, nil, &bytes.Buffer{}); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestInteractiveModel(t *testing.T) {
	m := newInteractiveModel(nil)
	if m.View() != "Loading bundle..." {
		t.Errorf("View = %q", m.View())
	}

	m.Update(loadedMsg{err: errors.New("no bundle")})
	if !strings.Contains(m.View(), "no bundle") {
		t.Errorf("load error not shown: %q", m.View())
	}

	m.Update(renderResultMsg{tex: "x^{2", err: texerrors.Evaluation("x^{2", errors.New("Missing close brace"))})
	if m.state != stateShowResult || m.busy {
		t.Errorf("state = %d busy = %v", m.state, m.busy)
	}
	if !strings.Contains(m.View(), string(texerrors.KindEvaluation)) {
		t.Errorf("error kind not shown: %q", m.View())
	}
}
