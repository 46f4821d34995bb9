package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/thiagokokada/promptns/internal/plugin"
	"github.com/thiagokokada/promptns/internal/provider"
)

var namespaces = map[string]func() *provider.Namespace{
	"git":      provider.Git,
	"describe": provider.Describe,
}

func namespaceNames() []string {
	names := make([]string, 0, len(namespaces))
	for name := range namespaces {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookupNamespace(name string) (*provider.Namespace, error) {
	ctor, ok := namespaces[name]
	if !ok {
		return nil, fmt.Errorf("unknown namespace %q (want one of %v)", name, namespaceNames())
	}
	return ctor(), nil
}

func newSymbolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "symbols [git|describe]",
		Short:     "Print the symbol index a provider library exports",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: namespaceNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			names := namespaceNames()
			if len(args) == 1 {
				names = args
			}
			for _, name := range names {
				ns, err := lookupNamespace(name)
				if err != nil {
					return err
				}
				rt := plugin.NewEmbedded(ns, configFrom(cmd.Context()))
				if err := writeLine(cmd.OutOrStdout(), fmt.Sprintf("%s: %s", ns.Name(), rt.SymbolIndex())); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
