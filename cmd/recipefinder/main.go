package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recipefinder/internal/config"
	"recipefinder/internal/enrich"
	"recipefinder/internal/logging"
	"recipefinder/internal/mockdata"
	"recipefinder/internal/search"
)

func main() {
	os.Exit(realMain())
}

func realMain() int {
	var addr string
	var query string
	var random bool
	var help bool

	flag.StringVar(&addr, "addr", ":8080", "Address to bind the web server")
	flag.StringVar(&query, "search", "", "Print recipes matching a term and exit")
	flag.StringVar(&query, "s", "", "Print recipes matching a term and exit (short form)")
	flag.BoolVar(&random, "random", false, "Print one random recipe and exit")
	flag.BoolVar(&help, "help", false, "Show help message")
	flag.BoolVar(&help, "h", false, "Show help message")
	flag.Parse()

	if help {
		showHelp()
		return 0
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownLogging, err := logging.Setup(context.WithoutCancel(ctx), cfg.Logging)
	if err != nil {
		log.Fatalf("failed to set up logging: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownLogging(ctx); err != nil {
			log.Printf("failed to flush logs: %v", err)
		}
	}()

	if query != "" || random {
		err = run(ctx, cfg, query, random, os.Stdout)
	} else {
		err = runServer(ctx, cfg, addr)
	}
	if err != nil {
		slog.Error("exiting", "error", err)
		return 1
	}
	return 0
}

// run answers one search or random request on the command line.
func run(ctx context.Context, cfg *config.Config, query string, random bool, out io.Writer) error {
	source, err := recipeSource(cfg)
	if err != nil {
		return err
	}
	gen := mockdata.New()
	en := enrich.New(gen)
	agg := search.New(source, en, gen)

	if random {
		r := agg.FetchRandom(ctx)
		if r == nil {
			return fmt.Errorf("could not load a random recipe")
		}
		e := en.Enrich(*r)
		_, err := fmt.Fprintf(out, "%s\t%s\t%s\n", e.ID, e.Name, e.CookTime())
		return err
	}

	res := agg.Search(ctx, query)
	switch res.Outcome {
	case search.Failed:
		return fmt.Errorf("search %q: %w", query, res.Err)
	case search.NoMatches:
		_, err := fmt.Fprintln(out, "No recipes found. Try other keywords.")
		return err
	}
	for _, e := range en.All(res.Recipes) {
		if _, err := fmt.Fprintf(out, "%s\t%s\t%s\n", e.ID, e.Name, e.CookTime()); err != nil {
			return err
		}
	}
	return nil
}

func showHelp() {
	fmt.Println("Recipe Finder - search TheMealDB, keep favorites")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  recipefinder [-addr :8080]")
	fmt.Println("  recipefinder -search <term>")
	fmt.Println("  recipefinder -random")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -addr           Address to bind the web server (default :8080)")
	fmt.Println("  -search, -s     Print recipes matching a term and exit")
	fmt.Println("  -random         Print one random recipe and exit")
	fmt.Println("  -help, -h       Show this help message")
}
