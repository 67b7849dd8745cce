package main

import (
	"path/filepath"
	"testing"
)

func TestInventoryCreateListShow(t *testing.T) {
	env := setupCLITestEnv(t)
	outputDir := filepath.Join(t.TempDir(), "stock")

	out, _, err := runCLI(t, env, "inventory", "create", outputDir, "--name", "Main Stock")
	if err != nil {
		t.Fatalf("inventory create: %v", err)
	}
	requireContains(t, out, `Created inventory "main_stock"`)

	out, _, err = runCLI(t, env, "inventory", "list")
	if err != nil {
		t.Fatalf("inventory list: %v", err)
	}
	requireContains(t, out, "main_stock")
	requireContains(t, out, "Main Stock")

	out, _, err = runCLI(t, env, "inventory", "show", "main_stock")
	if err != nil {
		t.Fatalf("inventory show: %v", err)
	}
	requireContains(t, out, "Inventory ID: main_stock")
	requireContains(t, out, "Cards:        0")
}

func TestInventoryShowUnknownFails(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, env, "inventory", "show", "nope"); err == nil {
		t.Fatal("expected error for unknown inventory")
	}
}
