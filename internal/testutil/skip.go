// Package testutil provides testing utilities.
package testutil

import (
	"os"
	"os/exec"
	"testing"
)

// SkipDriveTests skips the test if RUN_DRIVE_TESTS is not set or the gog
// CLI is not installed. Use this for tests that talk to Google Drive.
//
// Run Drive tests with: RUN_DRIVE_TESTS=1 go test ./...
func SkipDriveTests(t *testing.T) {
	t.Helper()
	if os.Getenv("RUN_DRIVE_TESTS") == "" {
		t.Skip("Skipping Drive test (set RUN_DRIVE_TESTS=1 to run)")
	}
	if _, err := exec.LookPath("gog"); err != nil {
		t.Skip("Skipping Drive test (gog CLI not installed)")
	}
}
