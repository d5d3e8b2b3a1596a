// Command sale-drain replays queued sale drafts from journal files against
// the back-office API. Offline registers append one JSON draft per line to a
// journal (optionally gzip-compressed); the drain deduplicates entries by
// client reference and submits each unique draft once. The Idempotency-Key
// carried by every submission remains the real duplicate guard server-side.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	"github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gnretail/pos-terminal/internal/client"
	"github.com/gnretail/pos-terminal/internal/domain/sale"
)

const progressEvery = 1000

type draftJSON struct {
	ClientRef     string          `json:"clientRef"`
	StoreID       string          `json:"storeId"`
	Items         []itemJSON      `json:"items"`
	Discount      decimal.Decimal `json:"discount"`
	Tax           decimal.Decimal `json:"tax"`
	PaymentMethod string          `json:"paymentMethod"`
	AmountPaid    decimal.Decimal `json:"amountPaid"`
	Notes         string          `json:"notes"`
}

type itemJSON struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

func main() {
	var (
		apiURL        string
		apiToken      string
		concurrency   int
		dedupCapacity uint
		dedupFPR      float64
	)

	flag.StringVar(&apiURL, "api-url", "", "back-office API root URL (or API_URL env)")
	flag.StringVar(&apiToken, "api-token", "", "bearer token for the API session (or API_TOKEN env)")
	flag.IntVar(&concurrency, "concurrency", 4, "maximum in-flight submissions")
	flag.UintVar(&dedupCapacity, "dedup-capacity", 1_000_000, "expected number of unique client references")
	flag.Float64Var(&dedupFPR, "dedup-fpr", 0.001, "bloom pre-filter false positive rate")
	flag.Parse()

	if apiURL == "" {
		apiURL = os.Getenv("API_URL")
	}
	if apiURL == "" {
		slog.Error("API URL is required: set --api-url or API_URL")
		os.Exit(1)
	}
	if apiToken == "" {
		apiToken = os.Getenv("API_TOKEN")
	}

	files := flag.Args()
	if len(files) == 0 {
		slog.Error("no journal files given")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, apiURL, apiToken, concurrency, newRefDeduper(dedupCapacity, dedupFPR), files); err != nil {
		slog.Error("sale drain failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("sale drain completed successfully")
}

// refDeduper tracks client references that were already drained. The bloom
// filter screens most lookups without holding every reference in the hot
// path; positives are confirmed against an exact set so a false positive
// cannot silently drop a unique draft.
type refDeduper struct {
	filter *bloom.BloomFilter
	exact  map[string]struct{}
}

func newRefDeduper(capacity uint, fpr float64) *refDeduper {
	return &refDeduper{
		filter: bloom.NewWithEstimates(capacity, fpr),
		exact:  make(map[string]struct{}),
	}
}

// Seen reports whether ref was drained before, recording it otherwise. Not
// safe for concurrent use.
func (d *refDeduper) Seen(ref string) bool {
	if d.filter.TestString(ref) {
		if _, ok := d.exact[ref]; ok {
			return true
		}
	}
	d.filter.AddString(ref)
	d.exact[ref] = struct{}{}
	return false
}

func run(ctx context.Context, apiURL, apiToken string, concurrency int, seen *refDeduper, files []string) error {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			return errors.Wrapf(err, "check file %s", f)
		}
	}

	c, err := client.New(client.Config{BaseURL: apiURL}, client.NewSession(apiToken), zap.NewNop())
	if err != nil {
		return errors.Wrap(err, "create client")
	}

	var submitted, duplicates, rejected atomic.Uint64

	// Drafts are read and deduplicated sequentially; submissions run with
	// bounded concurrency. The deduper is only touched by the reader.
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var total uint64
	for _, f := range files {
		slog.Info("draining journal", slog.String("file", f))

		if err := streamJournal(ctx, f, func(line []byte) error {
			var d draftJSON
			if err := json.Unmarshal(line, &d); err != nil {
				return errors.Wrap(err, "parse draft")
			}
			if d.ClientRef != "" && seen.Seen(d.ClientRef) {
				duplicates.Add(1)
				slog.Debug("duplicate draft skipped", slog.String("client_ref", d.ClientRef))
				return nil
			}

			total++
			if total%progressEvery == 0 {
				slog.Info("drain progress", slog.Uint64("drafts", total))
			}

			g.Go(func() error {
				_, err := c.Submit(ctx, toRequest(d))
				if err != nil {
					var rejErr *client.RejectedError
					if errors.As(err, &rejErr) {
						// The backend refused this draft; record and move on.
						rejected.Add(1)
						slog.Warn("draft rejected",
							slog.String("client_ref", d.ClientRef),
							slog.String("message", rejErr.Message),
						)
						return nil
					}
					return errors.Wrapf(err, "submit draft %s", d.ClientRef)
				}
				submitted.Add(1)
				return nil
			})
			return nil
		}); err != nil {
			_ = g.Wait()
			return errors.Wrapf(err, "drain %s", f)
		}
	}

	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("drain summary",
		slog.Uint64("submitted", submitted.Load()),
		slog.Uint64("duplicates", duplicates.Load()),
		slog.Uint64("rejected", rejected.Load()),
	)
	return nil
}

func toRequest(d draftJSON) sale.Request {
	items := make([]sale.Item, len(d.Items))
	for i, it := range d.Items {
		items[i] = sale.Item{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		}
	}
	return sale.Request{
		ClientRef:     d.ClientRef,
		StoreID:       d.StoreID,
		Items:         items,
		Discount:      d.Discount,
		Tax:           d.Tax,
		PaymentMethod: sale.PaymentMethod(d.PaymentMethod),
		AmountPaid:    d.AmountPaid,
		Notes:         d.Notes,
	}
}

// streamJournal opens a journal file, transparently decompressing .gz, and
// calls fn for each non-empty line.
func streamJournal(ctx context.Context, path string, fn func(line []byte) error) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = f
	if filepath.Ext(path) == ".gz" {
		gz, err := pgzip.NewReader(f)
		if err != nil {
			return errors.Wrapf(err, "create gzip reader for %s", path)
		}
		defer func() { _ = gz.Close() }()
		r = gz
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := fn([]byte(line)); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "scan %s", path)
	}

	return nil
}
