// Package flagx lets several components parse command-line flags
// independently: each component filters os.Args down to the flags it
// owns before handing them to its own flag.FlagSet, so flags meant for
// another component never trip the parser.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// FilterArgs returns the subset of args belonging to allowedFlags
// (e.g. []string{"-c", "-config"}), preserving order.
//
// Both spellings are recognized:
//  1. separated value:  -c conf.json
//  2. equals form:      --config=conf.json
//
// For the separated form, the following token is kept as the flag's
// value as long as it does not itself start with a dash.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, name := range allowedFlags {
		allowed[name] = struct{}{}
	}

	// Always non-nil so callers can pass the result straight to Parse.
	kept := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") {
			if eq := strings.IndexByte(arg, '='); eq >= 0 {
				if _, ok := allowed[arg[:eq]]; ok {
					kept = append(kept, arg)
				}
				continue
			}
		}

		if _, ok := allowed[arg]; !ok {
			continue
		}
		kept = append(kept, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			kept = append(kept, args[i+1])
			i++ // the value token is consumed together with its flag
		}
	}

	return kept
}

// JsonConfigFlags extracts the config file path given via -c or
// -config. All other arguments are ignored, so callers can invoke this
// before (or independently of) their own flag parsing. Returns the
// empty string when neither flag is present.
func JsonConfigFlags() string {
	args := FilterArgs(os.Args[1:], []string{"-c", "-config"})

	var path string
	fs := flag.NewFlagSet("jsonconfig", flag.ContinueOnError)
	fs.StringVar(&path, "config", "", "path to JSON config file")
	fs.StringVar(&path, "c", "", "path to JSON config file (short)")
	_ = fs.Parse(args)

	return path
}
