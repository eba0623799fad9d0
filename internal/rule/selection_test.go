package rule

import (
	"strings"
	"testing"

	"unsound/internal/diag"
)

func buildTestRegistry(t *testing.T) *Registry {
	t.Helper()
	b := NewBuilder()
	b.Register(testMeta("warn-rule", LevelWarn))
	b.Register(testMeta("error-rule", LevelError))
	b.Register(testMeta("off-rule", LevelIgnore))
	return b.Build()
}

func mustGet(t *testing.T, reg *Registry, name string) ID {
	t.Helper()
	id, err := reg.Get(name)
	if err != nil {
		t.Fatalf("Get(%s): %v", name, err)
	}
	return id
}

func TestSelectionDefaults(t *testing.T) {
	reg := buildTestRegistry(t)
	sel := FromRegistry(reg)

	warnID := mustGet(t, reg, "warn-rule")
	errorID := mustGet(t, reg, "error-rule")
	offID := mustGet(t, reg, "off-rule")

	if sev, src, ok := sel.Get(warnID); !ok || sev != diag.SevWarning || src != SourceDefault {
		t.Fatalf("warn-rule = %v/%v/%v, want warning/default/true", sev, src, ok)
	}
	if sev, src, ok := sel.Get(errorID); !ok || sev != diag.SevError || src != SourceDefault {
		t.Fatalf("error-rule = %v/%v/%v, want error/default/true", sev, src, ok)
	}
	if sel.IsEnabled(offID) {
		t.Fatal("a rule defaulting to ignore must have no selection entry")
	}
	if sel.Len() != 2 {
		t.Fatalf("Len = %d, want 2", sel.Len())
	}
}

func TestSelectionOverrides(t *testing.T) {
	reg := buildTestRegistry(t)
	sel := FromRegistry(reg)

	warnings := sel.Apply(reg, []Override{
		{Rule: "warn-rule", Level: "error", Source: SourceFile, Origin: "pyproject.toml"},
		{Rule: "off-rule", Level: "warn", Source: SourceFile, Origin: "pyproject.toml"},
		{Rule: "error-rule", Level: "ignore", Source: SourceFile, Origin: "pyproject.toml"},
	})
	if warnings.Len() != 0 {
		t.Fatalf("unexpected warnings: %v", warnings.Items())
	}

	if sev, src, _ := sel.Get(mustGet(t, reg, "warn-rule")); sev != diag.SevError || src != SourceFile {
		t.Fatalf("warn-rule = %v/%v, want error/file", sev, src)
	}
	if sev, _, ok := sel.Get(mustGet(t, reg, "off-rule")); !ok || sev != diag.SevWarning {
		t.Fatal("off-rule should be enabled at warning by the file override")
	}
	if sel.IsEnabled(mustGet(t, reg, "error-rule")) {
		t.Fatal("ignore override must remove the rule from the enabled set")
	}
}

func TestCliOutranksConfigFile(t *testing.T) {
	reg := buildTestRegistry(t)
	warnID := mustGet(t, reg, "warn-rule")

	// File first, CLI second: CLI wins.
	sel := FromRegistry(reg)
	sel.Apply(reg, []Override{
		{Rule: "warn-rule", Level: "ignore", Source: SourceFile, Origin: "pyproject.toml"},
		{Rule: "warn-rule", Level: "error", Source: SourceCli, Origin: "command line"},
	})
	if sev, src, ok := sel.Get(warnID); !ok || sev != diag.SevError || src != SourceCli {
		t.Fatalf("after file-then-cli: %v/%v/%v, want error/cli/true", sev, src, ok)
	}

	// CLI first, file second: CLI still wins.
	sel = FromRegistry(reg)
	sel.Apply(reg, []Override{
		{Rule: "warn-rule", Level: "error", Source: SourceCli, Origin: "command line"},
		{Rule: "warn-rule", Level: "ignore", Source: SourceFile, Origin: "pyproject.toml"},
	})
	if sev, src, ok := sel.Get(warnID); !ok || sev != diag.SevError || src != SourceCli {
		t.Fatalf("after cli-then-file: %v/%v/%v, want error/cli/true", sev, src, ok)
	}

	// CLI ignore first, file enable second: the rule stays disabled.
	sel = FromRegistry(reg)
	sel.Apply(reg, []Override{
		{Rule: "warn-rule", Level: "ignore", Source: SourceCli, Origin: "command line"},
		{Rule: "warn-rule", Level: "error", Source: SourceFile, Origin: "pyproject.toml"},
	})
	if sel.IsEnabled(warnID) {
		t.Fatal("a file override must not re-enable a rule the command line disabled")
	}

	// And the reverse: a CLI enable replaces a file-sourced disable.
	sel = FromRegistry(reg)
	sel.Apply(reg, []Override{
		{Rule: "warn-rule", Level: "ignore", Source: SourceFile, Origin: "pyproject.toml"},
		{Rule: "warn-rule", Level: "warn", Source: SourceCli, Origin: "command line"},
	})
	if sev, src, ok := sel.Get(warnID); !ok || sev != diag.SevWarning || src != SourceCli {
		t.Fatalf("after file-ignore-then-cli-warn: %v/%v/%v, want warning/cli/true", sev, src, ok)
	}
}

func TestFingerprintIgnoresDisableProvenance(t *testing.T) {
	reg := buildTestRegistry(t)

	// Disabling via CLI and never configuring at all are the same
	// effective configuration once the enabled defaults match.
	a := FromRegistry(reg)
	a.Apply(reg, []Override{{Rule: "warn-rule", Level: "ignore", Source: SourceCli, Origin: "command line"}})

	b := FromRegistry(reg)
	b.Disable(mustGet(t, reg, "warn-rule"), SourceFile)

	if a.Fingerprint(reg) != b.Fingerprint(reg) {
		t.Fatal("selections with identical enabled sets must share a fingerprint")
	}
}

func TestUnknownOverrideWarnsAndContinues(t *testing.T) {
	reg := buildTestRegistry(t)
	sel := FromRegistry(reg)

	warnings := sel.Apply(reg, []Override{
		{Rule: "not-a-rule", Level: "error", Source: SourceFile, Origin: "pyproject.toml"},
		{Rule: "warn-rule", Level: "ignore", Source: SourceFile, Origin: "pyproject.toml"},
	})

	if warnings.Len() != 1 {
		t.Fatalf("warnings = %d, want 1", warnings.Len())
	}
	w := warnings.Items()[0]
	if w.Severity != diag.SevWarning {
		t.Fatalf("severity = %v, want warning", w.Severity)
	}
	if !strings.Contains(w.Message, "not-a-rule") || !strings.Contains(w.Message, "pyproject.toml") {
		t.Fatalf("message %q should name the rule and the origin", w.Message)
	}

	// The remaining override still applied.
	if sel.IsEnabled(mustGet(t, reg, "warn-rule")) {
		t.Fatal("warn-rule should be disabled despite the earlier bad override")
	}
}

func TestInvalidLevelWarns(t *testing.T) {
	reg := buildTestRegistry(t)
	sel := FromRegistry(reg)

	warnings := sel.Apply(reg, []Override{
		{Rule: "warn-rule", Level: "loud", Source: SourceCli, Origin: "command line"},
	})

	if warnings.Len() != 1 {
		t.Fatalf("warnings = %d, want 1", warnings.Len())
	}
	if sev, src, _ := sel.Get(mustGet(t, reg, "warn-rule")); sev != diag.SevWarning || src != SourceDefault {
		t.Fatal("a bad level string must leave the default configuration untouched")
	}
}

func TestFingerprintStability(t *testing.T) {
	reg := buildTestRegistry(t)

	a := FromRegistry(reg)
	b := FromRegistry(reg)
	if a.Fingerprint(reg) != b.Fingerprint(reg) {
		t.Fatal("identical selections must share a fingerprint")
	}

	b.Apply(reg, []Override{{Rule: "warn-rule", Level: "error", Source: SourceCli, Origin: "command line"}})
	if a.Fingerprint(reg) == b.Fingerprint(reg) {
		t.Fatal("differing selections must not share a fingerprint")
	}
}
