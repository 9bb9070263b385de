package codefreeze_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/aretw0/codefreeze"
)

// Example_basic freezes a file and shows that edits are reverted.
func Example_basic() {
	tmpDir, err := os.MkdirTemp("", "codefreeze-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	path := filepath.Join(tmpDir, "main.go")
	if err := os.WriteFile(path, []byte("package main"), 0644); err != nil {
		log.Fatal(err)
	}

	host, err := codefreeze.Open(tmpDir)
	if err != nil {
		log.Fatal(err)
	}
	defer host.Close()

	ctx := context.Background()
	host.Load(ctx)
	host.Start(ctx)

	id, err := host.Resolve(ctx, path)
	if err != nil {
		log.Fatal(err)
	}
	if _, err := host.Service.Toggle(ctx, id); err != nil {
		log.Fatal(err)
	}

	host.Workspace.Edit(ctx, id, "package oops")
	doc, _ := host.Workspace.Document(id)

	fmt.Println(host.Service.Status(id).Message("Ctrl+Alt+L"))
	fmt.Println(doc.Text())
	// Output:
	// main.go is currently in READ-ONLY mode. Use Ctrl+Alt+L to toggle.
	// package main
}
