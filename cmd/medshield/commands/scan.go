package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/spf13/cobra"

	"github.com/stake-plus/medshield/src/claims"
	"github.com/stake-plus/medshield/src/logging"
	"github.com/stake-plus/medshield/src/scanner"
	"github.com/stake-plus/medshield/src/sidebar"
	"github.com/stake-plus/medshield/src/webclient"
)

type scanFlags struct {
	pageURL string
	file    string
	relay   string
	out     string
	dark    bool
}

func (c *CLI) newScanCmd() *cobra.Command {
	var f scanFlags
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan a page through the relay and write it back with the results panel",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runScan(cmd.Context(), f)
		},
	}
	cmd.Flags().StringVarP(&f.pageURL, "url", "u", "", "Page URL to fetch (or to report when --file is used)")
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "Read the page from a local HTML file")
	cmd.Flags().StringVarP(&f.relay, "relay", "r", "", "Relay /scan endpoint (overrides RELAY_URL)")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "Write the rendered page here instead of stdout")
	cmd.Flags().BoolVar(&f.dark, "dark", false, "Render the panel with the dark theme")
	return cmd
}

func (c *CLI) runScan(ctx context.Context, f scanFlags) error {
	if f.pageURL == "" && f.file == "" {
		return errors.New("scan: one of --url or --file is required")
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if f.relay != "" {
		cfg.Scanner.RelayURL = f.relay
	}
	logger := logging.NewWithWriter(c.errOut, cfg.Logging.Level).With("component", "scanner")

	doc, err := loadDocument(ctx, f, cfg.Scanner.Timeout)
	if err != nil {
		return err
	}

	client := scanner.NewClient(cfg.Scanner.RelayURL, cfg.Scanner.Timeout)
	renderer := sidebar.New(sidebar.WithDarkTheme(f.dark), sidebar.WithLogger(logger))
	results := scanner.New(client, renderer, logger).Scan(ctx, doc, f.pageURL)

	rendered, err := goquery.OuterHtml(doc.Selection)
	if err != nil {
		return fmt.Errorf("scan: render: %w", err)
	}

	out := c.out
	if f.out != "" {
		file, err := os.Create(f.out)
		if err != nil {
			return fmt.Errorf("scan: %w", err)
		}
		defer file.Close()
		out = file
	}
	if _, err := io.WriteString(out, rendered); err != nil {
		return fmt.Errorf("scan: write: %w", err)
	}

	logger.Info("scan complete", "claims", len(results), "severe", claims.CountSevere(results))
	return nil
}

func loadDocument(ctx context.Context, f scanFlags, timeout time.Duration) (*goquery.Document, error) {
	if f.file != "" {
		file, err := os.Open(f.file)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		defer file.Close()
		return parseDocument(file)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("scan: build request: %w", err)
	}
	req.Header.Set("User-Agent", "MedShield/"+Version)

	resp, err := webclient.NewDefault(timeout).Do(req)
	if err != nil {
		return nil, fmt.Errorf("scan: fetch page: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("scan: page returned %s", resp.Status)
	}
	return parseDocument(resp.Body)
}

func parseDocument(r io.Reader) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("scan: parse document: %w", err)
	}
	return doc, nil
}
