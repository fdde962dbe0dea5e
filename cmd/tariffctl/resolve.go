package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"deliverytariff/internal/i18n"
	"deliverytariff/internal/pricing"
	"deliverytariff/internal/rate"
	"deliverytariff/internal/tariff"
)

func resolveCmd() *cobra.Command {
	var (
		region string
		city   string
		weight float64
		lang   string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve the delivery tariff for a destination",
		Example: `  tariffctl resolve --region samarkand --city Urgut --weight 2.5
  tariffctl resolve --region bukhara --city "Buxoro shahri" --lang uz`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if region == "" {
				return fmt.Errorf("--region is required")
			}
			if !pricing.ValidWeight(weight) {
				return fmt.Errorf("--weight must be between 0 and %g kg", pricing.MaxWeightKg)
			}
			ctx := cmd.Context()
			e, err := openEnv(ctx, false)
			if err != nil {
				return err
			}
			defer e.Close()

			opts := tariff.Options{
				Home:     e.catalog,
				Carrier:  rate.NewByName(e.cfg.CarrierProvider),
				Schedule: pricing.Schedule{Base: e.cfg.FallbackBasePrice, PerKg: e.cfg.PerKgIncrement},
				TTL:      e.cfg.TariffCacheTTL,
			}
			if e.store != nil {
				opts.Store = e.store
			}
			t := tariff.NewEngine(opts).Resolve(ctx, region, city, weight)

			loc := i18n.ParseLocale(lang)
			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]any{
					"region":      region,
					"city":        city,
					"weight_kg":   t.WeightKg,
					"price":       t.Price,
					"eta_hours":   t.ETAHours,
					"provenance":  t.Provenance.Names(),
					"price_text":  i18n.FormatPrice(loc, t),
					"eta_text":    i18n.FormatETA(loc, t),
					"weight_text": i18n.FormatWeight(loc, weight),
				})
			}
			fmt.Printf("Price:      %s\n", i18n.FormatPrice(loc, t))
			fmt.Printf("ETA:        %s\n", i18n.FormatETA(loc, t))
			fmt.Printf("Weight:     %s\n", i18n.FormatWeight(loc, weight))
			fmt.Printf("Provenance: %s\n", t.Provenance)
			return nil
		},
	}
	cmd.Flags().StringVarP(&region, "region", "r", "", "region code")
	cmd.Flags().StringVarP(&city, "city", "c", "", "city or district name")
	cmd.Flags().Float64VarP(&weight, "weight", "w", 0, "shipment weight in kg")
	cmd.Flags().StringVarP(&lang, "lang", "l", "en", "output language (uz, ru, en)")
	cmd.Flags().BoolVarP(&asJSON, "json", "j", false, "output as JSON")
	return cmd
}
