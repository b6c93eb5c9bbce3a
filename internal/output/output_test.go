package output

import (
	"io"
	"os"
	"strings"
	"testing"
)

type sample struct {
	OK     bool   `yaml:"ok"     json:"ok"`
	Action string `yaml:"action" json:"action"`
}

// capture redirects stdout around fn and returns what was written.
func capture(t *testing.T, fn func() error) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	saved := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = saved }()

	if err := fn(); err != nil {
		t.Fatalf("print: %v", err)
	}
	w.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	return string(out)
}

func TestPrintYAML(t *testing.T) {
	saved := OutputFormat
	OutputFormat = FormatYAML
	defer func() { OutputFormat = saved }()

	out := capture(t, func() error { return Print(sample{OK: true, Action: "focus"}) })
	if !strings.Contains(out, "ok: true") || !strings.Contains(out, "action: focus") {
		t.Errorf("yaml output = %q", out)
	}
}

func TestPrintJSON(t *testing.T) {
	saved := OutputFormat
	OutputFormat = FormatJSON
	defer func() { OutputFormat = saved }()

	out := capture(t, func() error { return Print(sample{OK: true, Action: "focus"}) })
	want := `{"ok":true,"action":"focus"}` + "\n"
	if out != want {
		t.Errorf("json output = %q, want %q", out, want)
	}
}

func TestPrintJSONPretty(t *testing.T) {
	out := capture(t, func() error { return PrintJSON(sample{OK: true, Action: "focus"}, true) })
	if !strings.Contains(out, "\n  \"ok\": true") {
		t.Errorf("pretty json output = %q", out)
	}
}

func TestPrintUnsupportedFormat(t *testing.T) {
	saved := OutputFormat
	OutputFormat = Format("xml")
	defer func() { OutputFormat = saved }()

	if err := Print(sample{}); err == nil {
		t.Error("expected an error for an unsupported format")
	}
}
