package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// buildBinary compiles the service into dir
func buildBinary(t *testing.T, dir string) string {
	t.Helper()
	binaryPath := filepath.Join(dir, "roomplanner-test")
	buildCmd := exec.Command("go", "build", "-o", binaryPath, ".")
	if output, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build binary: %v\n%s", err, output)
	}
	return binaryPath
}

// TestServiceValidate runs --validate against good and bad configs
func TestServiceValidate(t *testing.T) {
	if os.Getenv("RUN_INTEGRATION_TESTS") != "1" {
		t.Skip("Skipping integration test (set RUN_INTEGRATION_TESTS=1 to run)")
	}

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.yaml")
	if err := os.WriteFile(configPath, []byte("http:\n  port: 4141\n"), 0644); err != nil {
		t.Fatalf("Failed to create test config: %v", err)
	}
	designPath := writeTestDesign(t, tmpDir)
	binaryPath := buildBinary(t, tmpDir)

	tests := []struct {
		name           string
		args           []string
		expectInOutput []string
		expectFailure  bool
	}{
		{
			name: "valid config and design",
			args: []string{"--validate", "--config=" + configPath, "--design=" + designPath},
			expectInOutput: []string{
				"Loaded config from",
				"Catalog OK: 13 items",
				"Design OK: 4 corners, 4 walls, 0 entities",
			},
		},
		{
			name: "missing config file",
			args: []string{"--validate", "--config=nonexistent.yaml"},
			expectInOutput: []string{
				"Validation failed",
			},
			expectFailure: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			cmd := exec.CommandContext(ctx, binaryPath, tt.args...)
			output, err := cmd.CombinedOutput()
			outputStr := string(output)

			for _, expected := range tt.expectInOutput {
				if !strings.Contains(outputStr, expected) {
					t.Errorf("Expected output to contain '%s', but it didn't.\nFull output:\n%s",
						expected, outputStr)
				}
			}
			if tt.expectFailure && err == nil {
				t.Error("Expected command to fail, but it succeeded")
			}
			if !tt.expectFailure && err != nil {
				t.Errorf("Expected success, got %v", err)
			}
		})
	}
}

// TestServiceHTTPSignalHandling starts the HTTP service, polls /health and stops it with SIGINT
func TestServiceHTTPSignalHandling(t *testing.T) {
	if os.Getenv("RUN_INTEGRATION_TESTS") != "1" {
		t.Skip("Skipping integration test (set RUN_INTEGRATION_TESTS=1 to run)")
	}

	tmpDir := t.TempDir()
	configYAML := fmt.Sprintf("http:\n  port: 4142\nstore:\n  path: %s\n", filepath.Join(tmpDir, "designs.db"))
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(configYAML), 0644); err != nil {
		t.Fatalf("Failed to create config: %v", err)
	}
	binaryPath := buildBinary(t, tmpDir)

	var output bytes.Buffer
	cmd := exec.Command(binaryPath, "--http", "--config="+configPath)
	cmd.Stdout = &output
	cmd.Stderr = &output
	if err := cmd.Start(); err != nil {
		t.Fatalf("Failed to start service: %v", err)
	}

	healthy := false
	for i := 0; i < 20 && !healthy; i++ {
		time.Sleep(250 * time.Millisecond)
		resp, err := http.Get("http://127.0.0.1:4142/health")
		if err != nil {
			continue
		}
		resp.Body.Close()
		healthy = resp.StatusCode == http.StatusOK
	}
	if !healthy {
		t.Errorf("Service never became healthy.\nOutput:\n%s", output.String())
	}

	if err := cmd.Process.Signal(os.Interrupt); err != nil {
		t.Logf("Failed to send SIGINT (process may have already exited): %v", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	select {
	case <-done:
		if !strings.Contains(output.String(), "Service stopped") {
			t.Errorf("Expected graceful shutdown message.\nOutput:\n%s", output.String())
		}
	case <-time.After(5 * time.Second):
		t.Error("Service did not shut down within timeout")
		if err := cmd.Process.Kill(); err != nil {
			t.Logf("Failed to kill process: %v", err)
		}
	}
}

// TestServiceHelpFlag checks that --help documents the service modes
func TestServiceHelpFlag(t *testing.T) {
	cmd := exec.Command("go", "run", ".", "--help")
	output, err := cmd.CombinedOutput()
	if err != nil {
		// --help exits with status 0 or 2, depending on flag package
		if !strings.Contains(err.Error(), "exit status") {
			t.Fatalf("Failed to run --help: %v", err)
		}
	}

	outputStr := string(output)
	for _, flag := range []string{"-mqtt", "-http", "-render", "-geojson", "-validate"} {
		if !strings.Contains(outputStr, flag) {
			t.Errorf("Expected --help output to contain %s flag", flag)
		}
	}
	if !strings.Contains(outputStr, "Serve the planner HTTP API") {
		t.Error("Expected --help output to describe the HTTP service mode")
	}
}
