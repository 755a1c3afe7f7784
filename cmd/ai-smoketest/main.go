package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	aicore "github.com/stake-plus/medshield/src/ai/core"
	_ "github.com/stake-plus/medshield/src/ai/providers"
	"github.com/stake-plus/medshield/src/claims"
	sharedconfig "github.com/stake-plus/medshield/src/config"
	"github.com/stake-plus/medshield/src/logging"
)

var (
	providersFlag = flag.String("providers", "gemini", "Comma-separated provider list or 'all'")
	modeFlag      = flag.String("mode", "scan", "respond|scan|both")
	systemFlag    = flag.String("system", "", "Override system prompt")
	modelFlag     = flag.String("model", "", "Override model name")
	promptFlag    = flag.String("prompt", defaultPrompt, "User prompt for respond mode")
	textFlag      = flag.String("text", defaultText, "Page text for scan mode")
	urlFlag       = flag.String("url", "", "Page URL for scan mode")
	timeoutFlag   = flag.Duration("timeout", 45*time.Second, "Per-provider timeout")
	tempFlag      = flag.Float64("temp", 0.2, "Completion temperature")
	maxLenFlag    = flag.Int("max-bytes", 1200, "Maximum characters of output to print per response (0=unlimited)")
)

func main() {
	log.SetFlags(0)
	flag.Parse()

	providers := resolveProviders(*providersFlag)
	if len(providers) == 0 {
		log.Fatal("no providers specified")
	}

	aiEnv := sharedconfig.LoadAIFromEnv()
	systemPrompt := pickFirst(*systemFlag, aiEnv.SystemPrompt)
	model := pickFirst(*modelFlag, aiEnv.Model)

	mode, err := parseMode(*modeFlag)
	if err != nil {
		log.Fatalf("invalid mode: %v", err)
	}

	for _, provider := range providers {
		if err := runProvider(provider, mode, model, systemPrompt, aiEnv); err != nil {
			log.Printf("[%s] ERROR: %v", provider, err)
		}
	}
}

func runProvider(provider string, mode runMode, model, systemPrompt string, aiEnv sharedconfig.AI) error {
	client, err := aicore.NewClient(aicore.FactoryConfig{
		Provider:          provider,
		SystemPrompt:      systemPrompt,
		Model:             model,
		Temperature:       *tempFlag,
		GeminiKey:         aiEnv.GeminiKey,
		BaseURL:           aiEnv.BaseURL,
		Timeout:           *timeoutFlag,
		RetryClientErrors: true,
		Logger:            logging.New("warn"),
	})
	if err != nil {
		return fmt.Errorf("client init: %w", err)
	}

	fmt.Printf("=== %s (%s) ===\n", provider, aicore.ResolveModelName(provider, model))
	if mode == modeRespond || mode == modeBoth {
		if err := executeRespondTest(client); err != nil {
			fmt.Printf("respond ❌ %v\n", err)
		}
	}
	if mode == modeScan || mode == modeBoth {
		if err := executeScanTest(client); err != nil {
			fmt.Printf("scan ❌ %v\n", err)
		}
	}
	return nil
}

func executeRespondTest(client aicore.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), *timeoutFlag)
	defer cancel()

	start := time.Now()
	reply, err := client.Respond(ctx, *promptFlag, aicore.Options{Temperature: *tempFlag})
	if err != nil {
		return err
	}
	fmt.Printf("respond ✅ (%.1fs)\n%s\n", time.Since(start).Seconds(), logging.Excerpt(strings.TrimSpace(reply), *maxLenFlag))
	return nil
}

// executeScanTest sends the relay's classification prompt and runs the
// extractor over the reply.
func executeScanTest(client aicore.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), *timeoutFlag)
	defer cancel()

	start := time.Now()
	reply, err := client.Respond(ctx, claims.BuildPrompt(*textFlag, *urlFlag), aicore.Options{Temperature: *tempFlag})
	if err != nil {
		return err
	}

	records, stage, err := claims.ExtractRecords(reply)
	if err != nil {
		return fmt.Errorf("extract (stage %s): %w\nraw: %s", stage, err, logging.Excerpt(reply, *maxLenFlag))
	}
	fmt.Printf("scan ✅ (%.1fs, stage %s, %d claims, %d high/critical)\n", time.Since(start).Seconds(), stage, len(records), claims.CountSevere(records))
	for _, r := range records {
		fmt.Printf("  - [%s/%s] %s\n", r.Verdict, r.Danger, r.Claim)
	}
	return nil
}

func resolveProviders(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if strings.EqualFold(raw, "all") {
		return aicore.Registered()
	}
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == ';'
	})
	var out []string
	seen := map[string]struct{}{}
	for _, p := range parts {
		key := strings.ToLower(strings.TrimSpace(p))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}

func pickFirst(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func parseMode(input string) (runMode, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "respond":
		return modeRespond, nil
	case "scan":
		return modeScan, nil
	case "both":
		return modeBoth, nil
	default:
		return modeScan, fmt.Errorf("expected respond, scan, or both; got %q", input)
	}
}

type runMode int

const (
	modeRespond runMode = iota
	modeScan
	modeBoth
)

const (
	defaultPrompt = "In two sentences, what does the WHO say about vitamin C and the common cold?"
	defaultText   = `Natural Healing Weekly
High-dose vitamin C cures cancer without chemotherapy.
Drinking eight glasses of water a day flushes all toxins.
Regular exercise lowers the risk of heart disease.`
)
