package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func regionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "regions",
		Short: "List active delivery regions",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer e.Close()

			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CODE\tNAME\tETA\tFREE\tBASE")
			for _, r := range e.catalog.ListRegions(cmd.Context()) {
				base := "-"
				if r.BaseDeliveryPrice != nil {
					base = fmt.Sprint(*r.BaseDeliveryPrice)
				}
				fmt.Fprintf(tw, "%s\t%s\t%dh\t%t\t%s\n", r.Code, r.NameEn, r.DeliveryETAHours, r.IsFreeDelivery, base)
			}
			return tw.Flush()
		},
	}
}

func districtsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "districts [region]",
		Short: "List the districts of a region",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer e.Close()

			ds := e.catalog.ListDistricts(args[0])
			if len(ds) == 0 {
				return fmt.Errorf("no districts for region %q", args[0])
			}
			for _, d := range ds {
				mark := ""
				if d.IsHomeCity {
					mark = "  (home)"
				}
				fmt.Printf("%s / %s%s\n", d.Name, d.NameRu, mark)
			}
			return nil
		},
	}
}
