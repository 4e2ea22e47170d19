package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"

	"github.com/evdbrink/networth"
	"github.com/google/subcommands"
)

// importCmd holds the flags for the 'import' subcommand.
type importCmd struct {
	bank string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import transaction lines from a bank JSON export" }
func (*importCmd) Usage() string {
	return `nwt import -bank <name> <file.json>

  Imports transaction lines from a bank's JSON export. The export format
  is described by the [imports.<name>] mapping in the configuration file,
  a set of JSONPath expressions selecting the records and their fields.
  Lines already present in the database are skipped.

Usage Examples:
# Import a rabobank export using the [imports.rabobank] mapping.
$ nwt import -bank rabobank export.json

`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.bank, "bank", "", "Name of the import mapping in the configuration file")
}

func (c *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.bank == "" || f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: -bank and a file argument are required")
		return subcommands.ExitUsageError
	}

	st, cfg, err := OpenStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer st.Close()

	mapping, ok := cfg.Imports[c.bank]
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: no [imports.%s] mapping in %s\n", c.bank, *configFile)
		return subcommands.ExitUsageError
	}

	file, err := os.Open(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening %q: %v\n", f.Arg(0), err)
		return subcommands.ExitFailure
	}
	defer file.Close()

	lines, err := extractLines(file, mapping, cfg.Currency)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading export: %v\n", err)
		return subcommands.ExitFailure
	}

	inserted, skipped := 0, 0
	for i := range lines {
		ok, err := st.InsertLine(&lines[i])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error storing line %d: %v\n", i, err)
			return subcommands.ExitFailure
		}
		if ok {
			inserted++
		} else {
			skipped++
		}
	}
	fmt.Printf("Imported %d lines (%d duplicates skipped) from %s\n", inserted, skipped, f.Arg(0))
	return subcommands.ExitSuccess
}

// extractLines parses a bank JSON export and maps its records onto
// transaction lines using the JSONPath expressions of the mapping.
func extractLines(r io.Reader, m ImportMapping, defaultCurrency string) ([]networth.TransactionLine, error) {
	dec := json.NewDecoder(r)
	// keep numbers as json.Number so amounts keep their exact decimal form
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	jval, err := jsonpath.Get(m.Lines, doc)
	if err != nil {
		return nil, fmt.Errorf("evaluating %q: %w", m.Lines, err)
	}
	records, ok := jval.([]any)
	if !ok {
		return nil, fmt.Errorf("path %q does not select a record array", m.Lines)
	}

	var lines []networth.TransactionLine
	for i, rec := range records {
		line, err := extractLine(rec, m, defaultCurrency)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func extractLine(rec any, m ImportMapping, defaultCurrency string) (networth.TransactionLine, error) {
	var line networth.TransactionLine

	rawDate, err := jsonText(rec, m.Date)
	if err != nil {
		return line, err
	}
	line.Date, err = parseImportDate(rawDate, m.DateFormat)
	if err != nil {
		return line, err
	}

	if line.OwnAccount, err = jsonText(rec, m.Own); err != nil {
		return line, err
	}

	rawAmount, err := jsonText(rec, m.Amount)
	if err != nil {
		return line, err
	}
	if line.Amount, err = decimal.NewFromString(rawAmount); err != nil {
		return line, fmt.Errorf("amount %q: %w", rawAmount, err)
	}

	// the remaining fields are optional
	line.ContraAccount, _ = jsonText(rec, m.Contra)
	line.ContraName, _ = jsonText(rec, m.Name)
	line.Description, _ = jsonText(rec, m.Description)
	if line.Currency, _ = jsonText(rec, m.Currency); line.Currency == "" {
		line.Currency = defaultCurrency
	}
	return line, nil
}

// jsonText evaluates a JSONPath expression against a record and returns its
// value as a string. An empty path yields an empty string.
func jsonText(rec any, path string) (string, error) {
	if path == "" {
		return "", nil
	}
	jval, err := jsonpath.Get(path, rec)
	if err != nil {
		return "", fmt.Errorf("evaluating %q: %w", path, err)
	}
	// because jsonpath is never clear about whether it returns a list of 1
	// answer, or a single answer: keep the first one if any
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	switch v := jval.(type) {
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case nil:
		return "", nil
	default:
		return fmt.Sprint(v), nil
	}
}

func parseImportDate(s, layout string) (networth.Date, error) {
	if layout == "" {
		return networth.ParseDate(s)
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return networth.Date{}, fmt.Errorf("date %q: %w", s, err)
	}
	return networth.NewDate(t.Date()), nil
}
