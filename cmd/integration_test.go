package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/dataloom-cli/internal/table"
)

// runCmd is a helper to execute the root command with args.
func runCmd(t *testing.T, args ...string) {
	t.Helper()
	resetFlags()
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
}

// resetFlags clears sticky flag state that persists across invocations in
// the same process.
func resetFlags() {
	cleanMethod = string(table.FillMean)
	cleanColumns = nil
	cleanOutput = ""
	trainTarget = ""
	trainFeatures = nil
	trainSplit = 0.8
	trainMethod = ""
	trainColumns = nil
	trainAdvise = false
	if fl := trainCmd.Flags().Lookup("split"); fl != nil {
		_ = fl.Value.Set("0.8")
		fl.Changed = false
	}
}

func writeFixtureCSV(t *testing.T, dir string) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("a,b,label\n")
	for i := 1; i <= 125; i++ {
		fmt.Fprintf(&b, "%d,%d,row%d\n", i, 2*i, i)
	}
	path := filepath.Join(dir, "data.csv")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestCLI_ProfileCleanTrain(t *testing.T) {
	home := t.TempDir()
	oldHome := os.Getenv("HOME")
	defer os.Setenv("HOME", oldHome)
	os.Setenv("HOME", home)

	path := writeFixtureCSV(t, home)

	runCmd(t, "profile", path)

	out := filepath.Join(home, "cleaned.csv")
	runCmd(t, "clean", path, "--method", "drop_rows", "--columns", "a,b", "-o", out)
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("expected cleaned csv at %s: %v", out, err)
	}

	runCmd(t, "train", path, "--target", "b", "--features", "a", "--split", "0.8")
}

func TestCLI_TrainRejectsMissingFlags(t *testing.T) {
	home := t.TempDir()
	oldHome := os.Getenv("HOME")
	defer os.Setenv("HOME", oldHome)
	os.Setenv("HOME", home)

	path := writeFixtureCSV(t, home)

	resetFlags()
	rootCmd.SetArgs([]string{"train", path})
	if err := rootCmd.Execute(); err == nil {
		t.Fatalf("expected error when --target/--features are missing")
	}
}
