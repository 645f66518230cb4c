package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/placerte/project-dumper/internal/config"
)

func TestResolveAndValidateRoot(testingHandle *testing.T) {
	existingDirectory := testingHandle.TempDir()
	existingFilePath := filepath.Join(existingDirectory, "plain.txt")
	if writeError := os.WriteFile(existingFilePath, []byte("x"), 0o644); writeError != nil {
		testingHandle.Fatalf("write fixture: %v", writeError)
	}

	testCases := []struct {
		name      string
		input     string
		expectErr bool
	}{
		{name: "existing directory", input: existingDirectory, expectErr: false},
		{name: "missing path", input: filepath.Join(existingDirectory, "missing"), expectErr: true},
		{name: "regular file", input: existingFilePath, expectErr: true},
	}

	for _, testCase := range testCases {
		testingHandle.Run(testCase.name, func(subTest *testing.T) {
			validated, validationError := resolveAndValidateRoot(testCase.input)
			if testCase.expectErr {
				if validationError == nil {
					subTest.Fatalf("resolveAndValidateRoot(%q) succeeded, want error", testCase.input)
				}
				return
			}
			if validationError != nil {
				subTest.Fatalf("resolveAndValidateRoot(%q) returned error: %v", testCase.input, validationError)
			}
			if !filepath.IsAbs(validated.AbsolutePath) {
				subTest.Errorf("AbsolutePath = %q, want absolute", validated.AbsolutePath)
			}
			if validated.Name != filepath.Base(validated.AbsolutePath) {
				subTest.Errorf("Name = %q, want %q", validated.Name, filepath.Base(validated.AbsolutePath))
			}
		})
	}
}

func TestDefaultOutputFileName(testingHandle *testing.T) {
	stamp := time.Date(2026, time.March, 14, 9, 30, 0, 0, time.Local)
	fileName := defaultOutputFileName("sample", stamp)
	if fileName != "sample-dump-20260314-0930.txt" {
		testingHandle.Fatalf("defaultOutputFileName = %q, want sample-dump-20260314-0930.txt", fileName)
	}
}

func TestApplyDumpConfiguration(testingHandle *testing.T) {
	var options dumpOptions
	command := &cobra.Command{Use: "dump"}
	addDumpFlags(command, &options)

	enabled := true
	maxBytes := int64(4096)
	applyDumpConfiguration(command, &options, config.DumpCommandConfiguration{
		Output:       "custom.txt",
		Summary:      &enabled,
		MaxFileBytes: &maxBytes,
		Tokens:       config.TokenConfiguration{Model: "gpt-4"},
		Paths: config.PathConfiguration{
			Exclude:            []string{"*.log"},
			ExcludeDirectories: []string{"vendor"},
			IncludeGit:         &enabled,
		},
	})

	if options.outputPath != "custom.txt" {
		testingHandle.Errorf("outputPath = %q, want custom.txt", options.outputPath)
	}
	if !options.summaryEnabled {
		testingHandle.Errorf("summaryEnabled = false, want true")
	}
	if options.maxFileBytes != maxBytes {
		testingHandle.Errorf("maxFileBytes = %d, want %d", options.maxFileBytes, maxBytes)
	}
	if options.tokenModel != "gpt-4" {
		testingHandle.Errorf("tokenModel = %q, want gpt-4", options.tokenModel)
	}
	if !options.includeGit {
		testingHandle.Errorf("includeGit = false, want true")
	}
	if len(options.exclusionPatterns) != 1 || options.exclusionPatterns[0] != "*.log" {
		testingHandle.Errorf("exclusionPatterns = %v, want [*.log]", options.exclusionPatterns)
	}
	if len(options.excludeDirectories) != 1 || options.excludeDirectories[0] != "vendor" {
		testingHandle.Errorf("excludeDirectories = %v, want [vendor]", options.excludeDirectories)
	}
}

func TestApplyDumpConfigurationKeepsExplicitFlags(testingHandle *testing.T) {
	var options dumpOptions
	command := &cobra.Command{Use: "dump"}
	addDumpFlags(command, &options)
	if parseError := command.Flags().Parse([]string{"--output", "flag.txt", "--summary"}); parseError != nil {
		testingHandle.Fatalf("parse flags: %v", parseError)
	}

	disabled := false
	applyDumpConfiguration(command, &options, config.DumpCommandConfiguration{
		Output:  "config.txt",
		Summary: &disabled,
	})

	if options.outputPath != "flag.txt" {
		testingHandle.Errorf("outputPath = %q, want flag.txt", options.outputPath)
	}
	if !options.summaryEnabled {
		testingHandle.Errorf("summaryEnabled = false, want true (flag wins)")
	}
}

func TestDumpCommandWritesDocument(testingHandle *testing.T) {
	testingHandle.Setenv("HOME", testingHandle.TempDir())

	projectDirectory := testingHandle.TempDir()
	writeFixture(testingHandle, filepath.Join(projectDirectory, "main.go"), "package main\n")
	writeFixture(testingHandle, filepath.Join(projectDirectory, "skipped.log"), "log\n")
	writeFixture(testingHandle, filepath.Join(projectDirectory, ".dumpignore"), "[ignore]\n*.log\n")

	outputFilePath := filepath.Join(testingHandle.TempDir(), "out.txt")

	rootCommand := createRootCommand()
	rootCommand.SetArgs([]string{"dump", projectDirectory, "--output", outputFilePath})
	var commandOutput bytes.Buffer
	rootCommand.SetOut(&commandOutput)
	if executeError := rootCommand.Execute(); executeError != nil {
		testingHandle.Fatalf("dump command failed: %v", executeError)
	}

	documentBytes, readError := os.ReadFile(outputFilePath)
	if readError != nil {
		testingHandle.Fatalf("read dump file: %v", readError)
	}
	document := string(documentBytes)

	if !strings.Contains(document, "==== FILE: main.go ====") {
		testingHandle.Errorf("document missing main.go section:\n%s", document)
	}
	if strings.Contains(document, "skipped.log") {
		testingHandle.Errorf("document contains ignored file:\n%s", document)
	}
	if strings.Contains(document, ".dumpignore") {
		testingHandle.Errorf("document lists the ignore file itself:\n%s", document)
	}
	if !strings.Contains(commandOutput.String(), "Wrote dump for 1 files to ") {
		testingHandle.Errorf("command output = %q, want completion message", commandOutput.String())
	}
}

func TestRootCommandDefaultsToDump(testingHandle *testing.T) {
	testingHandle.Setenv("HOME", testingHandle.TempDir())

	projectDirectory := testingHandle.TempDir()
	writeFixture(testingHandle, filepath.Join(projectDirectory, "readme.md"), "# readme\n")

	rootCommand := createRootCommand()
	rootCommand.SetArgs([]string{projectDirectory, "--stdout"})
	var commandOutput bytes.Buffer
	rootCommand.SetOut(&commandOutput)
	if executeError := rootCommand.Execute(); executeError != nil {
		testingHandle.Fatalf("root command failed: %v", executeError)
	}

	if !strings.Contains(commandOutput.String(), "==== FILE: readme.md ====") {
		testingHandle.Errorf("stdout document missing readme section:\n%s", commandOutput.String())
	}
}

func TestTreeCommandPrintsTree(testingHandle *testing.T) {
	testingHandle.Setenv("HOME", testingHandle.TempDir())

	projectDirectory := testingHandle.TempDir()
	writeFixture(testingHandle, filepath.Join(projectDirectory, "sub", "inner.txt"), "inner\n")

	rootCommand := createRootCommand()
	rootCommand.SetArgs([]string{"tree", projectDirectory})
	var commandOutput bytes.Buffer
	rootCommand.SetOut(&commandOutput)
	if executeError := rootCommand.Execute(); executeError != nil {
		testingHandle.Fatalf("tree command failed: %v", executeError)
	}

	rendered := commandOutput.String()
	if !strings.Contains(rendered, "└── sub/") {
		testingHandle.Errorf("tree output missing sub directory:\n%s", rendered)
	}
	if !strings.Contains(rendered, "inner.txt") {
		testingHandle.Errorf("tree output missing inner.txt:\n%s", rendered)
	}
}

func writeFixture(testingHandle *testing.T, path string, content string) {
	testingHandle.Helper()
	if directoryError := os.MkdirAll(filepath.Dir(path), 0o755); directoryError != nil {
		testingHandle.Fatalf("mkdir %s: %v", filepath.Dir(path), directoryError)
	}
	if writeError := os.WriteFile(path, []byte(content), 0o644); writeError != nil {
		testingHandle.Fatalf("write %s: %v", path, writeError)
	}
}
