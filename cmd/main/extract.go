package main

import (
	"fmt"
	"time"

	"category/extractor/internal/domain"
	"category/extractor/internal/output"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var extractFlags struct {
	main        string
	sub         string
	subsub      string
	retailerURL string
	output      string
}

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Run one extraction and save the products as JSON",
	RunE:  runExtract,
}

func init() {
	f := extractCmd.Flags()
	f.StringVar(&extractFlags.main, "main", "", "main category (required)")
	f.StringVar(&extractFlags.sub, "sub", "", "subcategory")
	f.StringVar(&extractFlags.subsub, "subsub", "", "sub-subcategory")
	f.StringVar(&extractFlags.retailerURL, "retailer-url", "", "retailer listing page scraped as a last resort")
	f.StringVarP(&extractFlags.output, "output", "o", "", "output file (default: output_<path>_<timestamp>.json)")
	_ = extractCmd.MarkFlagRequired("main")
}

func runExtract(cmd *cobra.Command, _ []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	path, err := domain.NewCategoryPath(extractFlags.main, extractFlags.sub, extractFlags.subsub)
	if err != nil {
		return err
	}

	app, err := setup(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	result, err := app.Service.Extract(ctx, domain.ExtractionRequest{Path: path, RetailerURL: extractFlags.retailerURL})
	if err != nil {
		return err
	}

	filename := extractFlags.output
	if filename == "" {
		filename = output.Filename(path, time.Now())
	}
	if err := output.Write(filename, result.Products); err != nil {
		return err
	}

	data, err := output.Encode(result.Products)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	label := color.New(color.FgCyan, color.Bold)
	label.Fprint(out, "Results saved to: ")
	fmt.Fprintln(out, filename)
	label.Fprint(out, "Total products found: ")
	color.New(color.FgGreen, color.Bold).Fprintln(out, result.Count)
	fmt.Fprint(out, string(data))
	return nil
}
