package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"carhunt-engine/internal/config"
	"carhunt-engine/internal/money"
	"carhunt-engine/internal/rank"
	"carhunt-engine/internal/scrape"
	"carhunt-engine/internal/scrape/types"
	"carhunt-engine/internal/store"
)

// runOnce executes the configured search, persists it and prints a table.
func runOnce(deps scrape.Deps, cfg config.Config, db *store.DB, csvPath string) {
	q := types.Query{
		ModelText: cfg.Search.Model,
		State:     cfg.Search.State,
		City:      cfg.Search.City,
		MaxPages:  cfg.Search.MaxPages,
	}
	p := rank.Params{
		TargetPrice:         cfg.Search.TargetPrice,
		TargetMargin:        cfg.Search.TargetMargin,
		PriceTolerance:      cfg.Search.PriceTolerance,
		MarginTolerance:     cfg.Search.MarginTolerance,
		RequireNumericPrice: cfg.Search.RequireNumericPrice,
	}

	ctx := context.Background()
	res, err := scrape.RunSearch(ctx, deps, q, p)
	if err != nil {
		log.Fatalf("[once] search failed: %v", err)
	}
	for _, warn := range res.Warnings {
		log.Printf("[once] warning: %s", warn)
	}

	id, err := store.InsertSearch(ctx, db.Pool, store.Search{
		Model:           q.ModelText,
		State:           q.State,
		City:            q.City,
		TargetPrice:     p.TargetPrice,
		TargetMargin:    p.TargetMargin,
		PriceTolerance:  p.PriceTolerance,
		MarginTolerance: p.MarginTolerance,
	}, res.Ads)
	if err != nil {
		log.Fatalf("[once] persist failed: %v", err)
	}

	if len(res.Ads) == 0 {
		fmt.Println("no ads matched the price/margin bands")
		return
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tTITLE\tPRICE\tREFERENCE\tMARGIN\tURL")
	for i, ad := range res.Ads {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			i+1, ad.Title, fmtAmount(ad.Price), fmtAmount(ad.ReferencePrice), fmtAmount(ad.Margin), ad.URL)
	}
	_ = tw.Flush()
	fmt.Printf("\n%d ads ranked in %s (search #%d)\n", len(res.Ads), res.Took.Round(time.Millisecond), id)

	if csvPath != "" {
		if err := writeCSVFile(ctx, db, id, csvPath); err != nil {
			log.Fatalf("[once] csv export failed: %v", err)
		}
		fmt.Printf("wrote %s\n", csvPath)
	}
}

func writeCSVFile(ctx context.Context, db *store.DB, searchID int64, path string) error {
	s, err := store.GetSearch(ctx, db.Pool, searchID)
	if err != nil {
		return err
	}
	ads, err := store.ListAds(ctx, db.Pool, searchID)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return store.WriteCSV(f, s, ads)
}

func fmtAmount(p *int) string {
	if p == nil {
		return "-"
	}
	return money.FormatBRL(*p)
}
