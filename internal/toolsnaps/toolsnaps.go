// Package toolsnaps provides a way to snapshot test tool schemas. Tool
// definitions surface directly to MCP hosts, so unintended schema drift is a
// contract break for clients. Snapshots live in __toolsnaps__/<tool>.snap
// next to the test that exercises them.
//
// When UPDATE_TOOLSNAPS=true, the snapshot is rewritten instead of compared.
// A missing snapshot is written in place locally but is a failure in CI,
// where it means the snapshot was never committed.
package toolsnaps

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	jd "github.com/josephburnett/jd/lib"
)

// Test compares the JSON form of tool against its stored snapshot, failing
// with a readable diff on any mismatch.
func Test(toolName string, tool any) error {
	toolJSON, err := json.MarshalIndent(tool, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal tool %s: %w", toolName, err)
	}

	snapPath := filepath.Join("__toolsnaps__", fmt.Sprintf("%s.snap", toolName))

	snapJSON, err := os.ReadFile(snapPath) //nolint:gosec // snapshots are test fixtures
	if os.IsNotExist(err) {
		if isCI() {
			return fmt.Errorf("tool snapshot does not exist for %s; generate it locally and commit it", toolName)
		}
		return writeSnap(snapPath, toolJSON)
	} else if err != nil {
		return fmt.Errorf("failed to read snapshot file for %s: %w", toolName, err)
	}

	if os.Getenv("UPDATE_TOOLSNAPS") == "true" {
		return writeSnap(snapPath, toolJSON)
	}

	snapNode, err := jd.ReadJsonString(string(snapJSON))
	if err != nil {
		return fmt.Errorf("failed to parse snapshot JSON for %s: %w", toolName, err)
	}
	toolNode, err := jd.ReadJsonString(string(toolJSON))
	if err != nil {
		return fmt.Errorf("failed to parse tool JSON for %s: %w", toolName, err)
	}

	if diff := snapNode.Diff(toolNode).Render(); diff != "" {
		return fmt.Errorf("tool schema for %s has changed unexpectedly:\n%s\nrun with UPDATE_TOOLSNAPS=true if this is intended", toolName, diff)
	}

	return nil
}

func writeSnap(snapPath string, contents []byte) error {
	if err := os.MkdirAll(filepath.Dir(snapPath), 0700); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	if err := os.WriteFile(snapPath, contents, 0600); err != nil {
		return fmt.Errorf("failed to write snapshot file: %w", err)
	}
	return nil
}

func isCI() bool {
	return os.Getenv("GITHUB_ACTIONS") == "true"
}
