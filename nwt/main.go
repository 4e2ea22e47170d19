package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/evdbrink/networth"
	"github.com/evdbrink/networth/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	completion()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// completion registers shell completion and exits early when invoked by the
// shell's completion machinery.
func completion() {
	c := &complete.Command{
		Flags: map[string]complete.Predictor{
			"config": predict.Files("*.toml"),
			"db":     predict.Files("*.db"),
		},
		Sub: map[string]*complete.Command{
			"ledger":      {Flags: map[string]complete.Predictor{"add": predict.Nothing, "id": predict.Something, "name": predict.Something, "parent": predict.Something}},
			"accounts":    {Flags: map[string]complete.Predictor{"add": predict.Nothing, "name": predict.Something, "number": predict.Something, "kind": accountKinds(), "ledger": predict.Something}},
			"export-seed": {Flags: map[string]complete.Predictor{"o": predict.Files("*.json")}},
			"import-seed": {Args: predict.Files("*.json")},
			"rules":       {Flags: map[string]complete.Predictor{"add": predict.Nothing, "delete": predict.Something, "name": predict.Something, "field": predict.Set{"own-account", "contra-account", "contra-account-name", "description"}, "op": predict.Set{"contains", "equals", "starts-with"}, "value": predict.Something, "ledger": predict.Something, "split": predict.Something, "priority": predict.Something, "review": predict.Nothing}},
			"conflicts":   {},
			"assist":      {Flags: map[string]complete.Predictor{"save": predict.Nothing}},
			"import":      {Flags: map[string]complete.Predictor{"bank": predict.Something}, Args: predict.Files("*.json")},
			"book":        {Flags: map[string]complete.Predictor{"all": predict.Nothing, "own": predict.Something, "contra": predict.Something}},
			"resync":      {Flags: map[string]complete.Predictor{"q": predict.Nothing}},
			"review":      {Flags: map[string]complete.Predictor{"mark": predict.Nothing}},
			"serve":       {Flags: map[string]complete.Predictor{"listen": predict.Something}},
		},
	}
	c.Complete("nwt")
}

func accountKinds() predict.Set {
	var kinds predict.Set
	for _, k := range networth.AccountKinds() {
		kinds = append(kinds, string(k))
	}
	return kinds
}
