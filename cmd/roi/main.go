// Command roi runs a single ROI projection and writes report files.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"calcforge/internal/calculator"
	"calcforge/internal/config"
	"calcforge/internal/domain"
	"calcforge/internal/reporting"
	"calcforge/internal/roi"
	"calcforge/internal/templates"
)

func main() {
	// Parse flags
	template := flag.String("template", "", "Vertical template to use (see --list)")
	inputsPath := flag.String("inputs", "", "Path to a DealInputs JSON file")
	outputDir := flag.String("output-dir", "output", "Output directory for generated files")
	engineConfig := flag.String("engine-config", os.Getenv("CALCFORGE_ENGINE_CONFIG"), "Path to engine YAML config")
	title := flag.String("title", "", "Report title")
	writeHTML := flag.Bool("html", false, "Also write ROI_REPORT.html")
	writePDF := flag.Bool("pdf", false, "Also write ROI_REPORT.pdf (requires Chromium)")
	list := flag.Bool("list", false, "List available templates and exit")
	flag.Parse()

	catalog, err := templates.Default()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading templates: %v\n", err)
		os.Exit(1)
	}

	if *list {
		listing := catalog.Listing()
		for _, v := range listing.Verticals {
			fmt.Printf("%-20s %s\n", v, listing.Descriptions[v])
		}
		return
	}

	// Validate flags
	if (*template == "") == (*inputsPath == "") {
		fmt.Fprintln(os.Stderr, "Error: exactly one of --template or --inputs is required")
		os.Exit(1)
	}

	in, err := loadInputs(catalog, *template, *inputsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.LoadEngineConfig(*engineConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading engine config: %v\n", err)
		os.Exit(1)
	}
	engine, err := roi.NewEngine(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	svc, err := calculator.New(calculator.Options{Engine: engine})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	res, meta, err := svc.Calculate(ctx, in)
	if err != nil {
		var verr *roi.ValidationError
		if errors.As(err, &verr) {
			fmt.Fprintf(os.Stderr, "Invalid inputs: %v\n", verr)
		} else {
			fmt.Fprintf(os.Stderr, "Error running calculation: %v\n", err)
		}
		os.Exit(1)
	}

	reportTitle := *title
	if reportTitle == "" && *template != "" {
		reportTitle = fmt.Sprintf("Voice AI ROI Analysis: %s", *template)
	}
	report, err := reporting.NewGenerator(cfg).Generate(reportTitle, meta.Fingerprint, in, res)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating report: %v\n", err)
		os.Exit(1)
	}

	// Ensure output directory exists
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	written := []string{}
	write := func(name string, data []byte) {
		path := filepath.Join(*outputDir, name)
		if err := os.WriteFile(path, data, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", path, err)
			os.Exit(1)
		}
		written = append(written, path)
	}

	write("ROI_REPORT.md", []byte(reporting.RenderMarkdown(report)))
	write("roi_data.csv", []byte(reporting.RenderCSV(report)))

	if *writeHTML {
		html, err := reporting.RenderHTML(report)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error rendering HTML: %v\n", err)
			os.Exit(1)
		}
		write("ROI_REPORT.html", html)
	}

	if *writePDF {
		pdf, err := reporting.NewPDFRenderer("").Render(ctx, report)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error rendering PDF: %v\n", err)
			os.Exit(1)
		}
		write("ROI_REPORT.pdf", pdf)
	}

	printSummary(report)
	fmt.Println("\nFiles written:")
	for _, p := range written {
		fmt.Printf("  - %s\n", p)
	}
}

// loadInputs reads DealInputs from a template or a JSON file.
func loadInputs(catalog *templates.Catalog, template, path string) (domain.DealInputs, error) {
	if template != "" {
		return catalog.Get(template)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return domain.DealInputs{}, fmt.Errorf("read inputs: %w", err)
	}
	var in domain.DealInputs
	if err := json.Unmarshal(data, &in); err != nil {
		return domain.DealInputs{}, fmt.Errorf("parse inputs %s: %w", path, err)
	}
	return in, nil
}

func printSummary(r *reporting.Report) {
	h := r.Headline
	fmt.Println(r.Title)
	fmt.Printf("  5-Year Total Value: £%.0f\n", h.TotalValue5Y)
	if h.PaybackMonths != nil {
		fmt.Printf("  Payback Period:     %.1f months\n", *h.PaybackMonths)
	} else {
		fmt.Println("  Payback Period:     No payback")
	}
	fmt.Printf("  5-Year NPV:         £%.0f\n", h.NPV5Y)
	fmt.Printf("  5-Year ROI:         %.0f%%\n", h.ROI5YPercent)
	fmt.Printf("  Value Split:        %.1f%% ops / %.1f%% revenue\n", h.OpsSavingsPct, h.RevenueRetainedPct)
	fmt.Printf("  P10 / P50 / P90:    £%.0f / £%.0f / £%.0f\n",
		r.Results.Scenarios.P10, r.Results.Scenarios.P50, r.Results.Scenarios.P90)
	if len(r.Tornado) > 0 {
		fmt.Printf("  Top Driver:         %s (±£%.0f)\n", r.Tornado[0].Driver, absf(r.Tornado[0].Impact))
	}
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
