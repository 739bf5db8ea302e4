package cmd

import (
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/jobinsights/internal/cli"
)

func pathArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

func industriesCmd(a *cli.App) *cobra.Command {
	return &cobra.Command{
		Use:   "industries [path]",
		Short: "List the unique industries in a dataset",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.Industries(cmd.Context(), pathArg(args))
		},
	}
}

func maxSalaryCmd(a *cli.App) *cobra.Command {
	return &cobra.Command{
		Use:   "max-salary [path]",
		Short: "Print the highest max_salary in a dataset",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.MaxSalary(cmd.Context(), pathArg(args))
		},
	}
}

func minSalaryCmd(a *cli.App) *cobra.Command {
	return &cobra.Command{
		Use:   "min-salary [path]",
		Short: "Print the lowest min_salary in a dataset",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.MinSalary(cmd.Context(), pathArg(args))
		},
	}
}

func filterCmd(a *cli.App) *cobra.Command {
	var opts cli.FilterOptions

	cmd := &cobra.Command{
		Use:   "filter [path]",
		Short: "List jobs in an industry and/or whose salary range contains a value",
		Example: `  jobinsights filter jobs.csv --industry Tech
  jobinsights filter jobs.csv --salary 85000 --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.Filter(cmd.Context(), pathArg(args), opts)
		},
	}

	cmd.Flags().StringVar(&opts.Industry, "industry", "", "keep jobs whose industry equals this value")
	cmd.Flags().StringVar(&opts.Salary, "salary", "", "keep jobs whose salary range contains this value")
	return cmd
}
