package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// getBinaryPath returns the path to the cv_builder binary for testing
func getBinaryPath(t *testing.T) string {
	binaryName := "cv_builder"
	if testing.Short() {
		t.Skip("Skipping CLI tests in short mode")
	}

	binaryPath := filepath.Join("..", "..", "bin", binaryName)
	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		t.Skipf("Binary not found at %s, build it first with 'go build -o bin/cv_builder ./cmd/cv_builder'", binaryPath)
	}

	return binaryPath
}

func TestBinary_RenderCommand(t *testing.T) {
	binaryPath := getBinaryPath(t)

	dir := t.TempDir()
	in := writeFile(t, dir, "ada.json", adaJSON)
	out := filepath.Join(dir, "ada.pdf")

	cmd := exec.Command(binaryPath, "render", "--in", in, "--out", out)
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, string(output))

	assert.Contains(t, string(output), "Rendered 1 page(s)")
	assert.FileExists(t, out)
}

func TestBinary_FailureExitCode(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "render", "--in", filepath.Join(t.TempDir(), "missing.json"))
	output, err := cmd.CombinedOutput()

	require.Error(t, err)
	assert.Contains(t, string(output), "Error:")
}
