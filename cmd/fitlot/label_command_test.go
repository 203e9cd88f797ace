package main

import (
	"os"
	"path/filepath"
	"testing"

	"fitlot/internal/testsupport"
)

func TestLabelRendersDefaultTemplate(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.SeedOrder(t, env.store, "PO-100", "PIPE-200", 5)
	testsupport.SeedLot(t, env.store, "4025054114000001", "PO-100")

	out, _, err := runCLI(t, env.configPath, "label", "4025054114000001")
	if err != nil {
		t.Fatalf("label: %v", err)
	}
	requireContains(t, out, "LOT 4025054114000001")
	requireContains(t, out, "ORDER PO-100")
}

func TestLabelCustomTemplate(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.SeedOrder(t, env.store, "PO-100", "PIPE-200", 5)
	testsupport.SeedLot(t, env.store, "4025054114000001", "PO-100")

	templatePath := filepath.Join(env.baseDir, "label.tmpl")
	if err := os.WriteFile(templatePath, []byte("## {{.LotNumber}} ##\n"), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}

	out, _, err := runCLI(t, env.configPath, "label", "4025054114000001", "--template", templatePath)
	if err != nil {
		t.Fatalf("label: %v", err)
	}
	requireContains(t, out, "## 4025054114000001 ##")
}

func TestLabelMissingLotFails(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, env.configPath, "label", "4025054114000009")
	if err == nil {
		t.Fatal("expected error for missing lot")
	}
}
