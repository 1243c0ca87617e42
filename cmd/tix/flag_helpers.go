package main

import (
	"github.com/amonks/tix/internal/validation"
	"github.com/amonks/tix/ticket"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// ticketFlagAliases maps shorthand long flags onto ticket field flags.
var ticketFlagAliases = map[string]string{
	"desc": "description",
	"prio": "priority",
}

// addTicketFlagAliases lets --desc and --prio stand in for --description and
// --priority on the given commands.
func addTicketFlagAliases(cmds ...*cobra.Command) {
	for _, cmd := range cmds {
		flags := cmd.Flags()
		normalize := flags.GetNormalizeFunc()
		flags.SetNormalizeFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
			if canonical, ok := ticketFlagAliases[name]; ok {
				name = canonical
			}
			return normalize(f, name)
		})
	}
}

// shouldUseEditor reports whether a create or update goes through $EDITOR.
// --edit and --no-edit win; otherwise the editor opens only for an
// interactive session that named no fields on the command line.
func shouldUseEditor(namedFields, forceEdit, noEdit, interactive bool) bool {
	switch {
	case forceEdit:
		return true
	case noEdit, namedFields:
		return false
	default:
		return interactive
	}
}

func hasChangedFlags(cmd *cobra.Command, flags ...string) bool {
	for _, flag := range flags {
		if cmd.Flags().Changed(flag) {
			return true
		}
	}
	return false
}

// changedString returns a pointer to value when the flag was set.
func changedString(cmd *cobra.Command, flag string, value string) *string {
	if !cmd.Flags().Changed(flag) {
		return nil
	}
	return &value
}

// enumValue is a string flag that rejects values its parser refuses.
type enumValue struct {
	target *string
	parse  func(string) error
	valid  []string
}

var _ pflag.Value = (*enumValue)(nil)

func newEnumValue(target *string, parse func(string) error, valid []string) *enumValue {
	return &enumValue{target: target, parse: parse, valid: valid}
}

func (v *enumValue) String() string { return *v.target }

func (v *enumValue) Set(value string) error {
	if err := v.parse(value); err != nil {
		return err
	}
	*v.target = value
	return nil
}

func (v *enumValue) Type() string { return "string" }

func (v *enumValue) complete(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return v.valid, cobra.ShellCompDirectiveNoFileComp
}

// addEnumFlag registers a validated string flag with shell completion.
func addEnumFlag(cmd *cobra.Command, target *string, name, shorthand, usage string, parse func(string) error, valid []string) {
	value := newEnumValue(target, parse, valid)
	cmd.Flags().VarP(value, name, shorthand, usage+" ("+validation.FormatValidValues(valid)+")")
	_ = cmd.RegisterFlagCompletionFunc(name, value.complete)
}

func addStatusFlag(cmd *cobra.Command, target *string, usage string) {
	addEnumFlag(cmd, target, "status", "s", usage, parseWith(ticket.ParseStatus), names(ticket.ValidStatuses()))
}

func addPriorityFlag(cmd *cobra.Command, target *string, usage string) {
	addEnumFlag(cmd, target, "priority", "p", usage, parseWith(ticket.ParsePriority), names(ticket.ValidPriorities()))
}

func addTypeFlag(cmd *cobra.Command, target *string, usage string) {
	addEnumFlag(cmd, target, "type", "t", usage, parseWith(ticket.ParseType), names(ticket.ValidTypes()))
}

func addPrivacyFlag(cmd *cobra.Command, target *string, usage string) {
	addEnumFlag(cmd, target, "privacy", "", usage, parseWith(ticket.ParsePrivacy), names(ticket.ValidPrivacies()))
}

func parseWith[T any](parse func(string) (T, error)) func(string) error {
	return func(value string) error {
		_, err := parse(value)
		return err
	}
}

func names[T ~string](values []T) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, string(v))
	}
	return out
}
