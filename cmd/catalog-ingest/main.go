// Command catalog-ingest merges gzipped JSON-lines product exports into the
// storefront's key-value store. Each input line is one product in the catalog
// wire format; products are deduplicated by name, first export wins.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vitrine-shop/vitrine/internal/domain/catalog"
	"github.com/vitrine-shop/vitrine/internal/kv"
)

const (
	bloomCapacity = 1_000_000
	bloomFPR      = 0.001
	progressEvery = 100_000
)

func main() {
	var (
		storePath string
		replace   bool
	)
	flag.StringVar(&storePath, "store-path", "vitrine-store.json", "path to the key-value store file")
	flag.BoolVar(&replace, "replace", false, "discard the existing catalog instead of merging into it")
	flag.Parse()

	files := flag.Args()
	if len(files) == 0 {
		slog.Error("no input files: pass one or more product export .gz files")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, storePath, files, replace); err != nil {
		slog.Error("catalog ingest failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("catalog ingest completed successfully")
}

func run(ctx context.Context, storePath string, files []string, replace bool) error {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			return errors.Wrapf(err, "check file %s", f)
		}
	}

	// Pass 1: count products per file concurrently and pre-build the seen-name
	// filter capacity check. Counting first keeps pass 2 allocations tight and
	// surfaces malformed files before anything is written.
	slog.Info("pass 1: scanning exports", slog.Int("files", len(files)))

	counts := make([]int, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(countProductsInFile(gctx, i, f, counts))
	}
	if err := g.Wait(); err != nil {
		return errors.Wrap(err, "scan exports")
	}

	total := 0
	for i, n := range counts {
		slog.Info("pass 1 complete", slog.String("file", files[i]), slog.Int("products", n))
		total += n
	}

	// Pass 2: stream the files in argument order and merge. The bloom filter
	// answers "definitely new" cheaply; only maybe-seen names hit the exact
	// map, so false positives never drop a product.
	slog.Info("pass 2: merging", slog.Int("total_products", total))

	seen := bloom.NewWithEstimates(bloomCapacity, bloomFPR)
	kept := make(map[string]struct{})
	var merged []catalog.Product

	store, err := kv.Open(storePath, zap.NewNop())
	if err != nil {
		return errors.Wrap(err, "open store")
	}
	catalogStore := catalog.NewStore(store, zap.NewNop())

	if !replace {
		for _, p := range catalogStore.Products() {
			key := strings.ToLower(p.Name)
			seen.AddString(key)
			kept[key] = struct{}{}
			merged = append(merged, p)
		}
		slog.Info("merging into existing catalog", slog.Int("existing", len(merged)))
	}

	var scanned uint64
	for _, f := range files {
		if err := streamProducts(ctx, f, func(p catalog.Product) {
			scanned++
			if scanned%progressEvery == 0 {
				slog.Info("pass 2 progress", slog.Uint64("scanned", scanned))
			}

			key := strings.ToLower(p.Name)
			if seen.TestString(key) {
				if _, dup := kept[key]; dup {
					return
				}
			}
			seen.AddString(key)
			kept[key] = struct{}{}
			merged = append(merged, p)
		}); err != nil {
			return errors.Wrapf(err, "merge %s", f)
		}
	}

	// Reassign sequential IDs so merged exports cannot collide.
	for i := range merged {
		merged[i].ID = i + 1
	}

	if err := catalogStore.Replace(merged); err != nil {
		return errors.Wrap(err, "write catalog")
	}

	slog.Info("catalog written",
		slog.String("store", storePath),
		slog.Int("products", len(merged)),
	)
	return nil
}

func countProductsInFile(ctx context.Context, idx int, path string, counts []int) func() error {
	return func() error {
		n := 0
		if err := streamProducts(ctx, path, func(catalog.Product) { n++ }); err != nil {
			return errors.Wrapf(err, "count products in %s", path)
		}
		counts[idx] = n
		return nil
	}
}

// streamProducts opens a gzip-compressed JSON-lines file and calls fn for
// each decoded product. Blank lines are skipped; a malformed line aborts the
// stream.
func streamProducts(ctx context.Context, path string, fn func(catalog.Product)) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return errors.Wrapf(err, "create gzip reader for %s", path)
	}
	defer func() { _ = gz.Close() }()

	scanner := bufio.NewScanner(gz)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var p catalog.Product
		if err := json.Unmarshal([]byte(text), &p); err != nil {
			return errors.Wrapf(err, "decode %s line %d", path, line)
		}
		if p.Name == "" {
			return errors.Errorf("decode %s line %d: product has no name", path, line)
		}
		fn(p)
	}

	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "scan %s", path)
	}
	return nil
}
