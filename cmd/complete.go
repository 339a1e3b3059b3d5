package cmd

import (
	"flag"

	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// currencies suggested for the -currency flag.
var currencies = predict.Set{"EUR", "USD", "GBP", "CHF", "JPY"}

// Completion describes the jrnl command line for shell completion.
//
// global holds the global flags, the subcommands are the ones returned by Register.
func Completion(global *flag.FlagSet) *complete.Command {
	root := &complete.Command{
		Sub:   make(map[string]*complete.Command),
		Flags: flagPredictors(global),
	}
	for _, c := range Commands {
		f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		c.SetFlags(f)
		root.Sub[c.Name()] = &complete.Command{
			Flags: flagPredictors(f),
			Args:  argPredictor(c),
		}
	}
	for _, name := range []string{"help", "flags", "commands"} {
		root.Sub[name] = &complete.Command{}
	}
	return root
}

func flagPredictors(f *flag.FlagSet) map[string]complete.Predictor {
	flags := make(map[string]complete.Predictor)
	f.VisitAll(func(fl *flag.Flag) {
		switch {
		case isBool(fl):
			flags[fl.Name] = nil
		case fl.Name == "file":
			flags[fl.Name] = predict.Files("*")
		case fl.Name == "currency":
			flags[fl.Name] = currencies
		default:
			flags[fl.Name] = predict.Something
		}
	})
	return flags
}

func argPredictor(c subcommands.Command) complete.Predictor {
	if _, ok := c.(*topicCmd); ok {
		return topicPredictor{}
	}
	return nil
}

func isBool(fl *flag.Flag) bool {
	b, ok := fl.Value.(interface{ IsBoolFlag() bool })
	return ok && b.IsBoolFlag()
}
