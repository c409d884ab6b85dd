package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"travelscraper/offerworker/internal/profile"
)

// profileFlags override single fields of the loaded search profile
type profileFlags struct {
	path      string
	countries []string
	city      string
	minDate   string
	minDays   int
	maxDays   int
	meal      string
	amenities []string
}

func (f *profileFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.path, "profile", "", "YAML search profile (overrides PROFILE_PATH)")
	fs.StringArrayVar(&f.countries, "country", nil, "destination country, repeatable")
	fs.StringVar(&f.city, "city", "", "departure city")
	fs.StringVar(&f.minDate, "min-date", "", "earliest departure date (YYYY-MM-DD)")
	fs.IntVar(&f.minDays, "min-days", 0, "shortest stay in days")
	fs.IntVar(&f.maxDays, "max-days", 0, "longest stay in days")
	fs.StringVar(&f.meal, "meal", "", "meal plan")
	fs.StringArrayVar(&f.amenities, "amenity", nil, "required amenity (wifi, sunbeds), repeatable")
}

// build loads the profile file and applies the flags the user set
func (f *profileFlags) build(cmd *cobra.Command, defaultPath string) (profile.SearchProfile, error) {
	path := f.path
	if path == "" {
		path = defaultPath
	}
	p, err := profile.LoadFile(path)
	if err != nil {
		return profile.SearchProfile{}, err
	}

	changed := cmd.Flags().Changed
	if changed("country") {
		p.Countries = f.countries
	}
	if changed("city") {
		p.DepartureCity = f.city
	}
	if changed("min-date") {
		d, err := profile.ParseDate(f.minDate)
		if err != nil {
			return profile.SearchProfile{}, err
		}
		p.MinDate = d
	}
	if changed("min-days") {
		p.MinDuration = f.minDays
	}
	if changed("max-days") {
		p.MaxDuration = f.maxDays
	}
	if changed("meal") {
		p.MealPlan = f.meal
	}
	if changed("amenity") {
		p.Amenities = nil
		for _, raw := range f.amenities {
			a, err := profile.ParseAmenity(raw)
			if err != nil {
				return profile.SearchProfile{}, err
			}
			p.Amenities = append(p.Amenities, a)
		}
	}

	if err := p.Validate(); err != nil {
		return profile.SearchProfile{}, err
	}
	return p, nil
}

func newScrapeCmd(root *rootOptions) *cobra.Command {
	var (
		pf     profileFlags
		strict bool
		dryRun bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Run one collection and merge the offers into the catalog",
		Example: `  offerworker scrape
  offerworker scrape --country Egipt --min-days 7 --max-days 10
  offerworker scrape --profile profile.yaml --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, appOptions{
				logLevel: root.logLevel,
				dryRun:   dryRun,
				logOut:   cmd.ErrOrStderr(),
			})
			if err != nil {
				return err
			}
			defer a.close()

			prof, err := pf.build(cmd, a.cfg.ProfilePath)
			if err != nil {
				return err
			}
			a.log.Info().Str("profile", prof.String()).Msg("Starting collection")

			summary, err := a.worker(strict || a.cfg.StrictNormalize).Collect(ctx, prof)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(summary)
			}
			fmt.Fprintf(out, "found %d / saved %d (created %d, updated %d, skipped %d, samples %d)\n",
				summary.Found, summary.Saved, summary.Created, summary.Updated, summary.Skipped, summary.Samples)
			return nil
		},
	}

	pf.register(cmd)
	cmd.Flags().BoolVar(&strict, "strict", false, "reject mismatching offers instead of correcting them")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "keep offers in memory and publish nothing")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the run summary as JSON")
	return cmd
}
