package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"hbexport/internal/config"
	"hbexport/internal/exitcode"
	"hbexport/internal/service"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string        { return "help" }
func (c *HelpCmd) Aliases() []string   { return nil }
func (c *HelpCmd) Synopsis() string    { return "Print usage" }
func (c *HelpCmd) Usage() string       { return "hbexport help" }
func (c *HelpCmd) Needs() service.Need { return service.NeedNone }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, b service.Backends, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, usageText(DefaultRegistry))
	return exitcode.Success
}

// usageText lists every registered command followed by the common flags.
func usageText(r *Registry) string {
	var sb strings.Builder
	sb.WriteString("Usage:\n")
	fmt.Fprintf(&sb, "  %-24s Same as 'hbexport %s'\n", "hbexport", r.Default())
	for _, cmd := range r.All() {
		fmt.Fprintf(&sb, "  %-24s %s\n", cmd.Name(), cmd.Synopsis())
		fmt.Fprintf(&sb, "      %s\n", cmd.Usage())
	}
	sb.WriteString(commonFlagsText)
	return sb.String()
}

const commonFlagsText = `
Common flags:
  --user <id>          Habitica user ID (or HABITICA_USER_ID)
  --token <token>      Habitica API token (or HABITICA_API_TOKEN)
  --base-url <url>     Habitica API base (or HABITICA_BASE_URL)
  --timeout <dur>      Per-request timeout, 0 disables (default 30s)
  --config <dir>       Override config directory
  --quiet              Suppress informational output
  --debug              Print debug logs to stderr
`
