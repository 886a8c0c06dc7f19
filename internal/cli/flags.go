package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	booleanFlagTypeName               = "bool"
	booleanFlagTrueLiteral            = "true"
	booleanFlagFalseLiteral           = "false"
	booleanFlagNegationPrefix         = "no-"
	booleanFlagAcceptedValuesListing  = "true, false, yes, no, on, off, 1, 0"
	booleanFlagInvalidValueErrorLabel = "invalid boolean value"
)

var booleanFlagLiterals = map[string]bool{
	"true":  true,
	"t":     true,
	"1":     true,
	"yes":   true,
	"y":     true,
	"on":    true,
	"false": false,
	"f":     false,
	"0":     false,
	"no":    false,
	"n":     false,
	"off":   false,
}

// booleanFlagValue accepts yes/no style literals in addition to the values pflag understands.
type booleanFlagValue struct {
	target  *bool
	flagKey string
}

func (value *booleanFlagValue) Set(input string) error {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		normalized = booleanFlagTrueLiteral
	}
	parsed, ok := booleanFlagLiterals[normalized]
	if !ok {
		return fmt.Errorf("%s %q for --%s; accepted values: %s", booleanFlagInvalidValueErrorLabel, input, value.flagKey, booleanFlagAcceptedValuesListing)
	}
	*value.target = parsed
	return nil
}

func (value *booleanFlagValue) String() string {
	if value.target == nil {
		return booleanFlagFalseLiteral
	}
	return strconv.FormatBool(*value.target)
}

func (value *booleanFlagValue) Type() string {
	return booleanFlagTypeName
}

// registerBooleanFlag defines a boolean flag that also accepts "--name value" and "--no-name".
func registerBooleanFlag(flagSet *pflag.FlagSet, target *bool, name string, shorthand string, defaultValue bool, usage string) {
	*target = defaultValue
	flagSet.VarP(&booleanFlagValue{target: target, flagKey: name}, name, shorthand, usage)
	lookup := flagSet.Lookup(name)
	lookup.DefValue = strconv.FormatBool(defaultValue)
	lookup.NoOptDefVal = booleanFlagTrueLiteral
}

// normalizeBooleanFlagArguments rewrites "--name literal" and "-n literal" into "--name=literal"
// and "--no-name" into "--name=false" for every boolean flag registered on command or its children.
func normalizeBooleanFlagArguments(command *cobra.Command, arguments []string) []string {
	booleanFlags := map[string]struct{}{}
	booleanShorthands := map[string]string{}
	collectBooleanFlagNames(command, booleanFlags, booleanShorthands)
	if len(booleanFlags) == 0 {
		return arguments
	}
	normalized := make([]string, 0, len(arguments))
	index := 0
	for index < len(arguments) {
		currentArgument := arguments[index]
		if currentArgument == "--" {
			normalized = append(normalized, arguments[index:]...)
			break
		}
		flagName, isBooleanFlag := "", false
		switch {
		case strings.HasPrefix(currentArgument, "--") && !strings.Contains(currentArgument, "="):
			flagName = strings.TrimPrefix(currentArgument, "--")
			if negatedName, negated := strings.CutPrefix(flagName, booleanFlagNegationPrefix); negated {
				if _, exists := booleanFlags[negatedName]; exists {
					normalized = append(normalized, fmt.Sprintf("--%s=%s", negatedName, booleanFlagFalseLiteral))
					index++
					continue
				}
			}
			_, isBooleanFlag = booleanFlags[flagName]
		case len(currentArgument) == 2 && currentArgument[0] == '-' && currentArgument[1] != '-':
			flagName, isBooleanFlag = booleanShorthands[currentArgument[1:]]
		}
		if isBooleanFlag && index+1 < len(arguments) {
			nextArgument := arguments[index+1]
			if !strings.HasPrefix(nextArgument, "-") {
				literal := strings.ToLower(strings.TrimSpace(nextArgument))
				if _, valid := booleanFlagLiterals[literal]; valid {
					normalized = append(normalized, fmt.Sprintf("--%s=%s", flagName, nextArgument))
					index += 2
					continue
				}
			}
		}
		normalized = append(normalized, currentArgument)
		index++
	}
	return normalized
}

func collectBooleanFlagNames(command *cobra.Command, names map[string]struct{}, shorthands map[string]string) {
	visit := func(flagSet *pflag.FlagSet) {
		flagSet.VisitAll(func(flag *pflag.Flag) {
			if flag.Value.Type() == booleanFlagTypeName {
				names[flag.Name] = struct{}{}
				if flag.Shorthand != "" {
					shorthands[flag.Shorthand] = flag.Name
				}
			}
		})
	}
	visit(command.PersistentFlags())
	visit(command.Flags())
	for _, child := range command.Commands() {
		collectBooleanFlagNames(child, names, shorthands)
	}
}
