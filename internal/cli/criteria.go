package cli

import (
	"fmt"
	"strings"

	"o1ready/internal/criteria"

	"github.com/spf13/cobra"
)

var criteriaCmd = &cobra.Command{
	Use:   "criteria [criterion-name]",
	Short: "Show the eight O-1A criteria and USCIS guidance",
	Long: `List the eight O-1A evidentiary criteria with their regulatory
descriptions, or show the detailed USCIS Policy Manual guidance for a single
criterion. Runs entirely offline; no AI calls are made.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCriteria,
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return criteria.Names(), cobra.ShellCompDirectiveNoFileComp
	},
}

func runCriteria(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		var output strings.Builder
		output.WriteString("The eight O-1A evidentiary criteria (at least 3 must be satisfied):\n\n")
		for i, d := range criteria.Definitions {
			output.WriteString(fmt.Sprintf("%d. %s\n   %s\n\n", i+1, d.Name, d.Description))
		}
		cmd.Print(output.String())
		return nil
	}

	def, err := criteria.Lookup(args[0])
	if err != nil {
		return fmt.Errorf("unknown criterion %q (run 'o1ready criteria' for the list)", args[0])
	}

	guidance := criteria.FormatGuidance(def.Name)
	cmd.Printf("%s\n%s\n\n%s\n", def.Name, def.Description, guidance)
	return nil
}
