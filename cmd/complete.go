package cmd

import (
	"flag"
	"strings"

	"github.com/etnz/taxlots"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion returns the shell completion tree of the commands registered in c.
func Completion(c *subcommands.Commander) *complete.Command {
	root := &complete.Command{
		Sub:   map[string]*complete.Command{},
		Flags: map[string]complete.Predictor{},
	}
	c.VisitAll(func(f *flag.Flag) {
		root.Flags[f.Name] = predictFlag(f)
	})
	c.VisitCommands(func(_ *subcommands.CommandGroup, cmd subcommands.Command) {
		fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
		cmd.SetFlags(fs)
		sub := &complete.Command{Flags: map[string]complete.Predictor{}}
		fs.VisitAll(func(f *flag.Flag) {
			sub.Flags[f.Name] = predictFlag(f)
		})
		root.Sub[cmd.Name()] = sub
	})
	return root
}

// predictFlag guesses the values of a flag from its name.
func predictFlag(f *flag.Flag) complete.Predictor {
	switch {
	case f.Name == "method":
		var methods []string
		for _, m := range taxlots.LotMethods() {
			methods = append(methods, m.String())
		}
		return predict.Set(methods)
	case f.Name == "price-path":
		return predict.Set{taxlots.DefaultPricePath}
	case strings.HasSuffix(f.Name, "-file"), f.Name == "prices":
		return predict.Files("*")
	default:
		return predict.Nothing
	}
}
