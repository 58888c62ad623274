// Command moderate runs the community moderation pipeline over a built-in
// set of sample submissions, or over a single submission given by flags,
// and prints each verdict. With GEMINI_API_KEY set the content stage uses
// the reasoning service; otherwise it uses the keyword rules.
//
// Usage:
//
//	go run ./cmd/moderate
//	go run ./cmd/moderate -name "Ana" -content "Fog on the bridge again"
//	go run ./cmd/moderate -rules moderation.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"

	"github.com/couchcryptid/weather-comfort-service/internal/adapter/gemini"
	"github.com/couchcryptid/weather-comfort-service/internal/config"
	"github.com/couchcryptid/weather-comfort-service/internal/domain"
	"github.com/couchcryptid/weather-comfort-service/internal/moderation"
	"github.com/couchcryptid/weather-comfort-service/internal/observability"
)

type sample struct {
	label string
	sub   moderation.Submission
}

var samples = []sample{
	{"valid weather post", moderation.Submission{Name: "Ana", Content: "Beautiful sunny day today! Perfect weather for a picnic in the park."}},
	{"spam", moderation.Submission{Name: "Ana", Content: "BUY NOW! URGENT DEAL! Click here to make money fast! Limited time offer!!!"}},
	{"inappropriate", moderation.Submission{Name: "Ana", Content: "This is some inappropriate NSFW content that should be blocked."}},
	{"short content", moderation.Submission{Name: "Ana", Content: "Hi"}},
	{"weather discussion", moderation.Submission{Name: "Ana", Content: "Has anyone noticed the unusual weather patterns this winter? Temperatures keep swinging."}},
	{"placeholder name", moderation.Submission{Name: "test", Content: "Clouds building over the ridge this afternoon."}},
	{"temporary email", moderation.Submission{Name: "Ana", Email: "ana@tempmail.org", Content: "Clouds building over the ridge this afternoon."}},
	{"repeated characters", moderation.Submission{Name: "Ana", Content: "Sooooooo windy out there today"}},
}

func main() {
	name := flag.String("name", "", "submission name (runs a single submission when set)")
	email := flag.String("email", "", "submission email")
	content := flag.String("content", "", "submission content")
	rulesPath := flag.String("rules", "", "optional YAML moderation rules file")
	timeout := flag.Duration("timeout", 10*time.Second, "reasoning service timeout")
	flag.Parse()

	_ = godotenv.Load()

	rules, err := config.LoadModerationRules(*rulesPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	reasoner := gemini.NewClient(
		os.Getenv("GEMINI_API_KEY"),
		sharedcfg.EnvOrDefault("GEMINI_MODEL", "gemini-2.5-flash"),
		*timeout,
		logger,
	)
	p := moderation.NewPipeline(reasoner, *timeout, rules, logger, observability.NewMetrics())

	cases := samples
	if *name != "" || *content != "" {
		cases = []sample{{"flags", moderation.Submission{Name: *name, Email: *email, Content: *content}}}
	}

	mode := "keyword rules"
	if reasoner.Configured() {
		mode = "reasoning service"
	}
	os.Exit(run(context.Background(), os.Stdout, p, mode, cases))
}

// run moderates each case and prints a verdict table. It returns a non-zero
// code only when every case was rejected, which usually means broken rules.
func run(ctx context.Context, w io.Writer, p *moderation.Pipeline, mode string, cases []sample) int {
	fmt.Fprintf(w, "=== Community Moderation (%s) ===\n\n", mode)

	accepted := 0
	for _, c := range cases {
		d := p.Moderate(ctx, c.sub)
		if d.Accepted {
			accepted++
			fmt.Fprintf(w, "  %-22s \033[32mALLOWED\033[0m  content confidence %s\n", c.label, percent(d.Record.Content))
			continue
		}
		fmt.Fprintf(w, "  %-22s \033[31mBLOCKED\033[0m  %s\n", c.label, d.Message())
	}

	fmt.Fprintf(w, "\n%d/%d allowed\n", accepted, len(cases))
	if accepted == 0 && len(cases) > 1 {
		return 1
	}
	return 0
}

func percent(v domain.ModerationVerdict) string {
	return fmt.Sprintf("%.0f%%", v.Confidence*100)
}
