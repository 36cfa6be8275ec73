// cmd/riskctl/cmd_catalog.go
package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var catalogCmd = &cobra.Command{
	Use:       "catalog [masks|environments|activities|dump]",
	Short:     "List the reference data the resolvers use",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"masks", "environments", "activities", "dump"},
	RunE:      runCatalog,
}

func runCatalog(cmd *cobra.Command, args []string) error {
	c, err := loadCatalog()
	if err != nil {
		return err
	}

	section := "masks"
	if len(args) == 1 {
		section = args[0]
	}

	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	switch section {
	case "masks":
		fmt.Fprintln(w, "ID\tLABEL\tF")
		for _, id := range c.MaskIDs() {
			m, _ := c.Mask(id)
			fmt.Fprintf(w, "%s\t%s\t%.2f\n", m.ID, m.Label, m.FValue)
		}
	case "environments":
		fmt.Fprintln(w, "GROUP\tACH\tVOLUME\tLABEL")
		for _, g := range c.Groups {
			for _, o := range g.Options {
				fmt.Fprintf(w, "%s\t%s\t%g\t%s\n", g.Name, o.ACHKey, o.Volume, o.Label)
			}
		}
		fmt.Fprintf(w, "vehicle\t*\t%g\tdefault volume\n", c.Vehicle.DefaultVolume)
		fmt.Fprintf(w, "aircraft\t*\t%g\tdefault volume\n", c.Aircraft.DefaultVolume)
	case "activities":
		fmt.Fprintln(w, "PHYSICAL\tVOCAL\tMULTIPLIER")
		for _, p := range c.Activities.Physical {
			for _, v := range c.Activities.Vocal {
				fmt.Fprintf(w, "%s\t%s\t%g\n", p, v, c.Activities.Multipliers[p][v])
			}
		}
	case "dump":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(c); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown catalog section %q", section)
	}
	return w.Flush()
}
