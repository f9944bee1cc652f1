package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/wippyai/hax/config"
	haxerrors "github.com/wippyai/hax/errors"
)

const sample = `def add(a, b)
    LOAD_FAST("a")
    LOAD_FAST("b")
    BINARY_ADD()
    RETURN_VALUE()
end

def plain()
    return 1
end
`

func writeListing(t *testing.T, dir, src string) string {
	t.Helper()
	path := filepath.Join(dir, "sample.hxl")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestPipeline(t *testing.T) {
	dir := t.TempDir()
	path := writeListing(t, dir, sample)
	cfg := config.Default()

	entries, err := load([]string{path}, cfg)
	if err != nil {
		t.Fatalf("load() error = %v", err)
	}
	if len(entries) != 2 || entries[0].code.Name != "add" || entries[1].code.Name != "plain" {
		t.Fatalf("entries = %+v", entries)
	}
	if !entries[0].unit.Rewritten || entries[1].unit.Rewritten {
		t.Errorf("Rewritten = %v, %v", entries[0].unit.Rewritten, entries[1].unit.Rewritten)
	}

	if err := simulateAll(entries); err != nil {
		t.Fatalf("simulateAll() error = %v", err)
	}
	if entries[0].sim.MaxDepth != 2 {
		t.Errorf("add max depth = %d, want 2", entries[0].sim.MaxDepth)
	}

	out := filepath.Join(dir, "out")
	if err := writeArtifacts(out, entries, zap.NewNop()); err != nil {
		t.Fatalf("writeArtifacts() error = %v", err)
	}
	back, err := load([]string{filepath.Join(out, "add"+ArtifactExt)}, cfg)
	if err != nil {
		t.Fatalf("load(artifact) error = %v", err)
	}
	if !bytes.Equal(back[0].code.Bytecode, entries[0].code.Bytecode) {
		t.Errorf("artifact bytecode = %x, want %x", back[0].code.Bytecode, entries[0].code.Bytecode)
	}
	if back[0].unit != nil {
		t.Error("artifact entry should have no unit")
	}
}

func TestPipelineFilenameOverride(t *testing.T) {
	path := writeListing(t, t.TempDir(), sample)
	cfg := config.Default()
	cfg.Assemble.Filename = "<stdin>"

	entries, err := load([]string{path}, cfg)
	if err != nil {
		t.Fatalf("load() error = %v", err)
	}
	for _, e := range entries {
		if e.code.Filename != "<stdin>" {
			t.Errorf("%s Filename = %q", e.code.Name, e.code.Filename)
		}
	}
}

func TestPipelineErrors(t *testing.T) {
	dir := t.TempDir()
	bad := writeListing(t, dir, "def f()\n    LOAD_FAST(1)\nend\n")

	_, err := load([]string{bad}, config.Default())
	if err == nil {
		t.Fatal("load() succeeded on a bad operand")
	}
	got := render(err, false)
	if !strings.Contains(got, "type_mismatch") || !strings.Contains(got, "    LOAD_FAST(1)\n") {
		t.Errorf("render() = %q", got)
	}

	if _, err := load([]string{filepath.Join(dir, "x"+ArtifactExt)}, config.Default()); err == nil {
		t.Error("load() succeeded on a missing artifact")
	}
}

func TestRender(t *testing.T) {
	err := haxerrors.New(haxerrors.PhaseParse, haxerrors.KindInvalidInput).
		At("f.hxl", 2).
		Column(7).
		Source("\tg(1, @)").
		Detail("invalid character").
		Build()

	want := "Error: [parse] invalid_input at f.hxl:2:7: invalid character\n" +
		"    \tg(1, @)\n" +
		"    \t     ^\n"
	if got := render(err, false); got != want {
		t.Errorf("render() =\n%q\nwant\n%q", got, want)
	}

	usage := haxerrors.Usage("NOP")
	if got := render(usage, false); got != "Error: "+usage.Error()+"\n" {
		t.Errorf("render(usage) = %q", got)
	}
}

func TestNewLogger(t *testing.T) {
	for _, dev := range []bool{false, true} {
		log, err := newLogger(config.Log{Level: "info", Development: dev})
		if err != nil {
			t.Fatalf("newLogger() error = %v", err)
		}
		if !log.Core().Enabled(zap.InfoLevel) || log.Core().Enabled(zap.DebugLevel) {
			t.Errorf("development=%v: level not applied", dev)
		}
	}
	if _, err := newLogger(config.Log{Level: "loud"}); err == nil {
		t.Error("newLogger() accepted an unknown level")
	}
}
