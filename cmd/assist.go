package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/evdbrink/networth"
	"github.com/evdbrink/networth/agent"
	"github.com/evdbrink/networth/renderer"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

// assistCmd holds the flags for the 'assist' subcommand.
type assistCmd struct {
	save bool
}

func (*assistCmd) Name() string     { return "assist" }
func (*assistCmd) Synopsis() string { return "ask the AI assistant to suggest a rule for a line" }
func (*assistCmd) Usage() string {
	return `nwt assist [-save] <line-id>

  Asks the assistant to suggest a business rule classifying the given
  transaction line against the chart of accounts. With -save the
  suggested rule is stored; without it the suggestion is only printed.
  Requires Gemini credentials in the environment.

`
}

func (c *assistCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.save, "save", false, "Store the suggested rule")
}

func (c *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: a line id is required")
		return subcommands.ExitUsageError
	}

	st, cfg, err := OpenStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer st.Close()

	line, err := st.Line(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	ledgers, err := st.LedgerAccounts()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}

	suggester := agent.NewSuggester(cfg.Assist.Model)
	if err := suggester.Start(ctx, client); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	suggestion, err := suggester.Suggest(ctx, line, ledgers)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	rule := suggestion.Rule()
	var md strings.Builder
	renderer.RenderRules(&md, []networth.BusinessRule{rule}, nil)
	printMarkdown(md.String())

	if !c.save {
		fmt.Println("Run again with -save to store this rule.")
		return subcommands.ExitSuccess
	}
	if err := st.SaveRule(&rule); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Added rule %s (%s).\n", rule.Name, rule.ID)
	return subcommands.ExitSuccess
}
