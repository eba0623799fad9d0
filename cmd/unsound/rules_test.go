package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"unsound/internal/rule"
)

func TestRulesListsRegistrationOrder(t *testing.T) {
	root := &cobra.Command{Use: "unsound"}
	root.PersistentFlags().String("color", "off", "")
	root.AddCommand(rulesCmd)

	var buf bytes.Buffer
	rulesCmd.SetOut(&buf)
	if err := runRules(rulesCmd, nil); err != nil {
		t.Fatalf("runRules: %v", err)
	}
	out := buf.String()

	reg := rule.DefaultRegistry()
	last := -1
	for _, id := range reg.Rules() {
		name := reg.Metadata(id).Name
		idx := strings.Index(out, name)
		if idx < 0 {
			t.Fatalf("rule %s missing from listing:\n%s", name, out)
		}
		if idx < last {
			t.Fatalf("rule %s listed out of registration order:\n%s", name, out)
		}
		last = idx
	}
}
