package cli_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"hbexport/internal/cli"
	"hbexport/internal/commands"
	"hbexport/internal/config"
	"hbexport/internal/exitcode"
	"hbexport/internal/service"
	"hbexport/internal/testutil"
)

// sourceFactory returns a factory that hands out src and records the config it saw.
func sourceFactory(src *testutil.FakeSource, seen **config.Config) cli.SourceFactory {
	return func(ctx context.Context, cfg *config.Config) (service.Source, error) {
		if seen != nil {
			*seen = cfg
		}
		return src, nil
	}
}

func sinkFactory(sink *testutil.FakeSink) cli.SinkFactory {
	return func(ctx context.Context, cfg *config.Config) (service.Sink, error) {
		return sink, nil
	}
}

func newDispatcher(src *testutil.FakeSource, sink *testutil.FakeSink) *cli.Dispatcher {
	return cli.NewDispatcher(commands.DefaultRegistry, sourceFactory(src, nil), sinkFactory(sink))
}

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv(config.EnvUserID, "")
	t.Setenv(config.EnvAPIToken, "")
	t.Setenv(config.EnvBaseURL, "")
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	dispatcher := newDispatcher(testutil.NewFakeSource(), testutil.NewFakeSink())

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"unknowncmd"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: unknowncmd\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_FlagBeforeCommand(t *testing.T) {
	dispatcher := newDispatcher(testutil.NewFakeSource(), testutil.NewFakeSink())

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"--quiet"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: --quiet\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_HelpCommand(t *testing.T) {
	dispatcher := newDispatcher(testutil.NewFakeSource(), testutil.NewFakeSink())

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"help"}, &stdout, &stderr)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr.String() != "" {
		t.Errorf("expected no stderr, got %q", stderr.String())
	}
	if !bytes.Contains(stdout.Bytes(), []byte("Usage:")) {
		t.Error("expected help output to contain 'Usage:'")
	}
}

func TestDispatcher_VersionCommand(t *testing.T) {
	dispatcher := newDispatcher(testutil.NewFakeSource(), testutil.NewFakeSink())

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"version"}, &stdout, &stderr)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout.String() != "hbexport 0.1.0\n" {
		t.Errorf("expected 'hbexport 0.1.0\\n', got %q", stdout.String())
	}
}

func TestDispatcher_UnknownFlag(t *testing.T) {
	dispatcher := newDispatcher(testutil.NewFakeSource(), testutil.NewFakeSink())

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"help", "--unknown"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown flag: -unknown\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_FlagMissingValue(t *testing.T) {
	dispatcher := newDispatcher(testutil.NewFakeSource(), testutil.NewFakeSink())

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"export", "-o"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: flag needs an argument: -o\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_NoArgsRunsExport(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(config.EnvUserID, "user-1")
	t.Setenv(config.EnvAPIToken, "secret")

	src := testutil.NewFakeSource()
	src.AddTodo("a", "Buy milk")
	dispatcher := newDispatcher(src, testutil.NewFakeSink())

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), nil, &stdout, &stderr)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr.String())
	}
	data, err := os.ReadFile(config.DefaultOutputFile)
	if err != nil {
		t.Fatalf("expected default output file: %v", err)
	}
	if !strings.Contains(string(data), "- **Buy milk** (🕒 未完成)") {
		t.Errorf("unexpected report %q", data)
	}
}

func TestDispatcher_MissingCredentials(t *testing.T) {
	clearEnv(t)
	dispatcher := newDispatcher(testutil.NewFakeSource(), testutil.NewFakeSink())

	var stdout, stderr bytes.Buffer
	out := filepath.Join(t.TempDir(), "out.md")
	code := dispatcher.Run(context.Background(), []string{"export", "-o", out}, &stdout, &stderr)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	expected := "error: habitica credentials not set (use --user/--token or HABITICA_USER_ID/HABITICA_API_TOKEN)\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("expected no output file")
	}
}

func TestDispatcher_FlagsOverrideEnv(t *testing.T) {
	t.Setenv(config.EnvUserID, "env-user")
	t.Setenv(config.EnvAPIToken, "env-token")
	t.Setenv(config.EnvBaseURL, "http://env.example/api/v4")

	var seen *config.Config
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry,
		sourceFactory(testutil.NewFakeSource(), &seen), sinkFactory(testutil.NewFakeSink()))

	var stdout, stderr bytes.Buffer
	args := []string{"export", "--quiet",
		"--user", "flag-user", "--token", "flag-token",
		"--base-url", "http://flag.example/api/v4", "--timeout", "5s",
		"-o", filepath.Join(t.TempDir(), "out.md")}
	code := dispatcher.Run(context.Background(), args, &stdout, &stderr)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr.String())
	}
	if seen == nil {
		t.Fatal("source factory not called")
	}
	if seen.UserID != "flag-user" || seen.APIToken != "flag-token" {
		t.Errorf("expected flag credentials, got %q/%q", seen.UserID, seen.APIToken)
	}
	if seen.BaseURL != "http://flag.example/api/v4" {
		t.Errorf("expected flag base URL, got %q", seen.BaseURL)
	}
	if seen.Timeout != 5*time.Second {
		t.Errorf("expected 5s timeout, got %s", seen.Timeout)
	}
	if !seen.Quiet {
		t.Error("expected quiet")
	}
	if stdout.String() != "" {
		t.Errorf("expected no stdout in quiet mode, got %q", stdout.String())
	}
}

func TestDispatcher_NegativeTimeout(t *testing.T) {
	dispatcher := newDispatcher(testutil.NewFakeSource(), testutil.NewFakeSink())

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"version", "--timeout", "-1s"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr.String() != "error: invalid timeout: -1s\n" {
		t.Errorf("unexpected stderr %q", stderr.String())
	}
}

func TestDispatcher_SinkFactoryErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		want string
	}{
		{"auth", service.ErrUnauthorized, exitcode.AuthError, "error: auth error: unauthorized\n"},
		{"token file", errors.New("failed to read token.json: missing"), exitcode.AuthError, "error: auth error: failed to read token.json: missing\n"},
		{"backend", errors.New("failed to create tasks service: boom"), exitcode.BackendError, "error: backend error: failed to create tasks service: boom\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := func(ctx context.Context, cfg *config.Config) (service.Sink, error) {
				return nil, tt.err
			}
			dispatcher := cli.NewDispatcher(commands.DefaultRegistry, sourceFactory(testutil.NewFakeSource(), nil), sink)

			var stdout, stderr bytes.Buffer
			code := dispatcher.Run(context.Background(), []string{"lists"}, &stdout, &stderr)

			if code != tt.code {
				t.Errorf("expected exit code %d, got %d", tt.code, code)
			}
			if stderr.String() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, stderr.String())
			}
		})
	}
}

func TestDispatcher_NoSinkFactoryChecksAuthFiles(t *testing.T) {
	dir := t.TempDir()
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, nil, nil)

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"lists", "--config", dir}, &stdout, &stderr)
	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if !strings.Contains(stderr.String(), "oauth_client.json not found") {
		t.Errorf("unexpected stderr %q", stderr.String())
	}

	if err := os.WriteFile(filepath.Join(dir, config.OAuthClientFile), []byte("{}"), 0600); err != nil {
		t.Fatal(err)
	}
	stderr.Reset()
	code = dispatcher.Run(context.Background(), []string{"lists", "--config", dir}, &stdout, &stderr)
	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if stderr.String() != "error: not logged in (run: hbexport login)\n" {
		t.Errorf("unexpected stderr %q", stderr.String())
	}
}

func TestDispatcher_PushMirrorsIntoSink(t *testing.T) {
	t.Setenv(config.EnvUserID, "user-1")
	t.Setenv(config.EnvAPIToken, "secret")

	src := testutil.NewFakeSource()
	src.AddTodo("a", "Buy milk")
	src.AddTodo("b", "Call mom")
	sink := testutil.NewFakeSink()
	dispatcher := newDispatcher(src, sink)

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"push", "--quiet", "-l", "Errands"}, &stdout, &stderr)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr.String())
	}
	if got := len(sink.Tasks("errands")); got != 2 {
		t.Errorf("expected 2 tasks in errands, got %d", got)
	}
}
