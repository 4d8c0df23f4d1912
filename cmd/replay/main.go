// Command replay feeds a recorded MBO event file through the engine
// and prints the resulting market-by-price view.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"rainybook/domain/mbo"
	"rainybook/domain/mbp"
	"rainybook/feed"
	infralog "rainybook/infra/log"
)

func main() {
	var (
		dataPath = flag.String("file", "", "input event file (.csv, .jsonl or .ndjson)")
		topN     = flag.Int("top", 0, "print only the best N levels per side (0 = all)")
		scale    = flag.Int("scale", 2, "decimal places when rendering tick prices")
		verbose  = flag.Bool("verbose", false, "debug logging")
	)
	flag.Parse()

	level := "info"
	if *verbose {
		level = "debug"
	}
	logger := infralog.New(level, true)

	if *dataPath == "" {
		logger.Fatal().Msg("missing -file")
	}

	messages, err := feed.ReadFile(*dataPath)
	if err != nil {
		logger.Fatal().Err(err).Str("file", *dataPath).Msg("decode failed")
	}
	logger.Info().Str("file", *dataPath).Int("events", len(messages)).Msg("replaying")

	proc := mbo.NewProcessor(logger)
	for i, msg := range messages {
		if err := proc.Apply(msg); err != nil {
			logger.Fatal().Err(err).Int("event", i).Msg("event rejected")
		}
	}

	book := proc.Book()
	view := mbp.Snapshot(book)
	if *topN > 0 {
		view.Bids = truncate(view.Bids, *topN)
		view.Asks = truncate(view.Asks, *topN)
	}

	if bid, ok := book.BestBid(); ok {
		fmt.Printf("Best Bid: %s @ %d (total qty)\n", formatPrice(bid.Price, *scale), bid.Qty)
	}
	if ask, ok := book.BestAsk(); ok {
		fmt.Printf("Best Ask: %s @ %d (total qty)\n", formatPrice(ask.Price, *scale), ask.Qty)
	}
	if bid, okB := book.BestBid(); okB {
		if ask, okA := book.BestAsk(); okA {
			fmt.Printf("Spread:   %d ticks\n", ask.Price-bid.Price)
		}
	}
	fmt.Println()
	printView(view, *scale)
}

func truncate(levels []mbp.LevelSummary, n int) []mbp.LevelSummary {
	if len(levels) > n {
		return levels[:n]
	}
	return levels
}

// formatPrice renders an integer tick price as a decimal string.
func formatPrice(price int64, scale int) string {
	return decimal.New(price, -int32(scale)).StringFixed(int32(scale))
}

func printView(view *mbp.MarketByPrice, scale int) {
	fmt.Printf("%10s %12s %8s  |  %10s %12s %8s\n",
		"Ask Qty", "Ask Price", "Orders", "Bid Price", "Bid Qty", "Orders")
	for i := 0; i < 70; i++ {
		fmt.Print("-")
	}
	fmt.Println()

	rows := len(view.Bids)
	if len(view.Asks) > rows {
		rows = len(view.Asks)
	}
	for i := 0; i < rows; i++ {
		askStr := fmt.Sprintf("%10s %12s %8s", "", "", "")
		if i < len(view.Asks) {
			a := view.Asks[i]
			askStr = fmt.Sprintf("%10d %12s %8d", a.TotalQty, formatPrice(a.Price, scale), a.OrderCount)
		}
		bidStr := fmt.Sprintf("%10s %12s %8s", "", "", "")
		if i < len(view.Bids) {
			b := view.Bids[i]
			bidStr = fmt.Sprintf("%10s %12d %8d", formatPrice(b.Price, scale), b.TotalQty, b.OrderCount)
		}
		fmt.Printf("%s  |  %s\n", askStr, bidStr)
	}

	if rows == 0 {
		fmt.Println("(book is empty)")
	}
	_ = os.Stdout.Sync()
}
