package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thiagokokada/promptns/internal/ffi"
	"github.com/thiagokokada/promptns/internal/plugin"
)

type callOptions struct {
	namespace string
	key       string
	keys      []string
	args      []string
}

// arguments builds the record a host would pass for these flags.
func (o callOptions) arguments() (ffi.Arguments, error) {
	switch {
	case o.key != "" && len(o.keys) > 0:
		return nil, errors.New("--key and --keys are mutually exclusive")
	case o.key != "":
		return ffi.StringArg{Key: o.key, Args: o.args}, nil
	case len(o.keys) > 0:
		return ffi.ArrayArg{Keys: o.keys, Args: o.args}, nil
	case len(o.args) > 0:
		return nil, errors.New("--arg requires --key or --keys")
	default:
		return ffi.NoArgs{}, nil
	}
}

func newCallCmd() *cobra.Command {
	var opts callOptions
	cmd := &cobra.Command{
		Use:   "call <provider>",
		Short: "Invoke one provider through the C argument encoding",
		Example: "  promptns call branch\n" +
			"  promptns call --namespace describe describe --keys a,b --arg c",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ns, err := lookupNamespace(opts.namespace)
			if err != nil {
				return err
			}
			name := args[0]
			if _, ok := ns.Lookup(name); !ok {
				return fmt.Errorf("namespace %s has no provider %q (index: %s)", ns.Name(), name, ns.Names())
			}
			a, err := opts.arguments()
			if err != nil {
				return err
			}
			raw, err := ffi.EncodeArguments(a)
			if err != nil {
				return err
			}
			rt := plugin.NewEmbedded(ns, configFrom(cmd.Context()))
			value, ok := ffi.Take(rt.InvokeRaw(name, raw))
			if !ok {
				return fmt.Errorf("%s: %w", name, errNoValue)
			}
			return writeLine(cmd.OutOrStdout(), value)
		},
	}
	cmd.Flags().StringVarP(&opts.namespace, "namespace", "n", "git", "provider namespace")
	cmd.Flags().StringVar(&opts.key, "key", "", "single key argument")
	cmd.Flags().StringSliceVar(&opts.keys, "keys", nil, "key array argument")
	cmd.Flags().StringArrayVar(&opts.args, "arg", nil, "extra argument, repeatable")
	return cmd
}
