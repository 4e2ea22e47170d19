package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

// exportSeedCmd implements the 'export-seed' subcommand.
type exportSeedCmd struct {
	out string
}

func (*exportSeedCmd) Name() string     { return "export-seed" }
func (*exportSeedCmd) Synopsis() string { return "export the chart, accounts and rules as JSON" }
func (*exportSeedCmd) Usage() string {
	return `nwt export-seed [-o <file>]

  Writes the chart of accounts, the account list and the business rules
  as a JSON seed, to stdout or to a file. System rules are left out:
  they are regenerated from the accounts on import.

`
}

func (c *exportSeedCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.out, "o", "", "File to write to instead of stdout")
}

func (c *exportSeedCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	st, _, err := OpenStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer st.Close()

	w := os.Stdout
	if c.out != "" {
		f, err := os.Create(c.out)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating %q: %v\n", c.out, err)
			return subcommands.ExitFailure
		}
		defer f.Close()
		w = f
	}
	if err := st.ExportSeed(w); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// importSeedCmd implements the 'import-seed' subcommand.
type importSeedCmd struct{}

func (*importSeedCmd) Name() string     { return "import-seed" }
func (*importSeedCmd) Synopsis() string { return "import a JSON seed of chart, accounts and rules" }
func (*importSeedCmd) Usage() string {
	return `nwt import-seed <file.json>

  Reads a seed written by export-seed and stores its chart of accounts,
  accounts and rules. System rules are regenerated from the imported
  accounts afterwards.

`
}
func (*importSeedCmd) SetFlags(_ *flag.FlagSet) {}

func (c *importSeedCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: a seed file is required")
		return subcommands.ExitUsageError
	}

	st, _, err := OpenStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer st.Close()

	file, err := os.Open(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening %q: %v\n", f.Arg(0), err)
		return subcommands.ExitFailure
	}
	defer file.Close()

	if err := st.ImportSeed(file); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Imported seed from %s.\n", f.Arg(0))
	return subcommands.ExitSuccess
}
