//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/fivetwenty-io/superfaktura-client/internal/constants"
)

// TestConfig holds configuration for integration tests
type TestConfig struct {
	APIEmail  string
	APIKey    string
	CompanyID string
	SfapiPath string
	Verbose   bool
}

// LoadTestConfig loads configuration from environment variables
func LoadTestConfig() *TestConfig {
	return &TestConfig{
		APIEmail:  os.Getenv(constants.EnvAPIEmail),
		APIKey:    os.Getenv(constants.EnvAPIKey),
		CompanyID: os.Getenv(constants.EnvCompanyID),
		SfapiPath: getSfapiPath(),
		Verbose:   os.Getenv("SF_VERBOSE") == "true",
	}
}

// getSfapiPath determines the path to the sfapi binary
func getSfapiPath() string {
	if path := os.Getenv("SFAPI_BINARY_PATH"); path != "" {
		return path
	}

	candidates := []string{
		"../../sfapi",
		"./sfapi",
		"../sfapi",
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return "sfapi"
}

// SkipIfMissingCredentials skips the test unless sandbox credentials are set.
func (config *TestConfig) SkipIfMissingCredentials(t *testing.T) {
	t.Helper()

	if config.APIEmail == "" || config.APIKey == "" || config.CompanyID == "" {
		t.Skip("SF_API_EMAIL, SF_API_KEY and SF_COMPANY_ID not set, skipping integration test")
	}
}

// SkipIfMissingBinary skips the test when the sfapi binary is not built.
func (config *TestConfig) SkipIfMissingBinary(t *testing.T) {
	t.Helper()

	config.SkipIfMissingCredentials(t)

	if _, err := exec.LookPath(config.SfapiPath); err != nil {
		t.Skipf("sfapi binary not found at %s, skipping integration test", config.SfapiPath)
	}
}

// CommandRunner provides utilities for running sfapi commands
type CommandRunner struct {
	config *TestConfig
	t      *testing.T
}

// NewCommandRunner creates a new command runner
func NewCommandRunner(config *TestConfig, t *testing.T) *CommandRunner {
	return &CommandRunner{
		config: config,
		t:      t,
	}
}

// Run executes an sfapi command against the sandbox and returns its output.
func (runner *CommandRunner) Run(args ...string) (stdout, stderr string, err error) {
	return runner.RunWithInput("", args...)
}

// RunWithInput executes an sfapi command with stdin input
func (runner *CommandRunner) RunWithInput(input string, args ...string) (stdout, stderr string, err error) {
	cmd := exec.Command(runner.config.SfapiPath, append([]string{"--sandbox"}, args...)...) // #nosec G204
	cmd.Env = append(os.Environ(),
		constants.EnvAPIEmail+"="+runner.config.APIEmail,
		constants.EnvAPIKey+"="+runner.config.APIKey,
		constants.EnvCompanyID+"="+runner.config.CompanyID,
	)

	var stdoutBuf, stderrBuf bytes.Buffer

	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf
	cmd.Stdin = strings.NewReader(input)

	if runner.config.Verbose {
		runner.t.Logf("Running: %s %s", runner.config.SfapiPath, strings.Join(args, " "))
	}

	err = cmd.Run()
	stdout = stdoutBuf.String()
	stderr = stderrBuf.String()

	if runner.config.Verbose && err != nil {
		runner.t.Logf("Command failed: %v\nStdout: %s\nStderr: %s", err, stdout, stderr)
	}

	return stdout, stderr, err
}

// RunJSON runs a command with JSON output and decodes the result into out.
func (runner *CommandRunner) RunJSON(out interface{}, args ...string) error {
	stdout, stderr, err := runner.Run(append(args, "--output", constants.FormatJSON)...)
	if err != nil {
		return fmt.Errorf("%w: %s", err, stderr)
	}

	return json.Unmarshal([]byte(stdout), out)
}

// CleanupBankAccount attempts to delete a bank account created by a test.
func (runner *CommandRunner) CleanupBankAccount(id int) {
	stdout, stderr, err := runner.Run("bank-accounts", "delete", fmt.Sprintf("%d", id))
	if err != nil && runner.config.Verbose {
		runner.t.Logf("Cleanup warning for bank account %d: %s\nStderr: %s", id, stdout, stderr)
	}
}

// GenerateTestName creates a unique test resource name
func GenerateTestName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().Unix())
}
