// Command vectors is the operator tool for the vector index: show
// statistics, scan and remove duplicate records, or wipe the collection.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"

	"github.com/kactuary/actuary-rag/engine/domain"
	"github.com/kactuary/actuary-rag/engine/semantic"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: vectors <stats|dupes|wipe> [flags]")
	os.Exit(2)
}

func main() {
	_ = godotenv.Load()
	if len(os.Args) < 2 {
		usage()
	}

	fs := flag.NewFlagSet(os.Args[1], flag.ExitOnError)
	qdrantAddr := fs.String("qdrant", "localhost:6334", "Qdrant gRPC address")
	collection := fs.String("collection", "actuary-docs", "Qdrant collection name")
	yes := fs.Bool("yes", false, "skip confirmation prompts")
	fs.Parse(os.Args[2:])

	store, err := semantic.New(*qdrantAddr, *collection)
	if err != nil {
		fmt.Fprintf(os.Stderr, "qdrant connect: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx := context.Background()
	switch os.Args[1] {
	case "stats":
		err = runStats(ctx, store)
	case "dupes":
		err = runDupes(ctx, store, *yes)
	case "wipe":
		err = runWipe(ctx, store, *yes)
	default:
		usage()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// runStats prints index totals plus per-file and busiest-page counts.
func runStats(ctx context.Context, store *semantic.VectorStore) error {
	stats, err := store.Stats(ctx)
	if err != nil {
		return fmt.Errorf("stats: %w", err)
	}
	fmt.Println("=== index statistics ===")
	fmt.Printf("points:     %d\n", stats.Points)
	fmt.Printf("dimensions: %d\n", stats.Dimensions)

	fileCounts := map[string]int{}
	pageCounts := map[string]int{}
	err = store.Scroll(ctx, func(points []semantic.StoredPoint) error {
		for _, p := range points {
			fileCounts[p.FileName]++
			pageCounts[fmt.Sprintf("%s - page %d", p.FileName, p.Page)]++
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("scroll: %w", err)
	}

	fmt.Println("\nper-file counts:")
	for _, file := range sortedKeys(fileCounts) {
		fmt.Printf("  %s: %d\n", file, fileCounts[file])
	}

	fmt.Println("\nbusiest pages:")
	type pageCount struct {
		key   string
		count int
	}
	pages := make([]pageCount, 0, len(pageCounts))
	for k, c := range pageCounts {
		pages = append(pages, pageCount{k, c})
	}
	sort.Slice(pages, func(i, j int) bool {
		if pages[i].count != pages[j].count {
			return pages[i].count > pages[j].count
		}
		return pages[i].key < pages[j].key
	})
	if len(pages) > 10 {
		pages = pages[:10]
	}
	for _, p := range pages {
		fmt.Printf("  %s: %d\n", p.key, p.count)
	}
	return nil
}

// runDupes scans the whole collection for records sharing the same
// (file, page, content hash) and deletes all but the first of each group.
func runDupes(ctx context.Context, store *semantic.VectorStore, yes bool) error {
	var all []semantic.StoredPoint
	err := store.Scroll(ctx, func(points []semantic.StoredPoint) error {
		all = append(all, points...)
		return nil
	})
	if err != nil {
		return fmt.Errorf("scroll: %w", err)
	}

	groups := groupDuplicates(all)
	if len(groups) == 0 {
		fmt.Println("no duplicates found")
		return nil
	}

	var toDelete []string
	total := 0
	for _, g := range groups {
		fmt.Printf("file: %s, page: %d, copies: %d\n", g[0].FileName, g[0].Page, len(g))
		for _, p := range g[1:] {
			toDelete = append(toDelete, p.PointID)
		}
		total += len(g) - 1
	}
	fmt.Printf("\ntotal duplicate points: %d\n", total)

	if !yes && !confirm("delete duplicate points? (y/n): ") {
		fmt.Println("cancelled")
		return nil
	}
	if err := store.DeleteByIDs(ctx, toDelete); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	fmt.Printf("deleted %d points\n", len(toDelete))
	return nil
}

// runWipe removes every point in the collection.
func runWipe(ctx context.Context, store *semantic.VectorStore, yes bool) error {
	stats, err := store.Stats(ctx)
	if err != nil {
		return fmt.Errorf("stats: %w", err)
	}
	fmt.Printf("collection holds %d points\n", stats.Points)

	if !yes && !confirm("really delete ALL points? (y/n): ") {
		fmt.Println("cancelled")
		return nil
	}
	if err := store.DeleteAll(ctx); err != nil {
		return fmt.Errorf("delete all: %w", err)
	}
	fmt.Println("all points deleted")
	return nil
}

// groupDuplicates buckets points by (file, page, content hash) and
// returns only groups holding more than one point, with group members in
// scan order so the first member is the keeper.
func groupDuplicates(points []semantic.StoredPoint) [][]semantic.StoredPoint {
	byKey := map[string][]semantic.StoredPoint{}
	var order []string
	for _, p := range points {
		key := fmt.Sprintf("%s_%d_%s", p.FileName, p.Page, domain.ContentHash(p.Text))
		if _, seen := byKey[key]; !seen {
			order = append(order, key)
		}
		byKey[key] = append(byKey[key], p)
	}
	var groups [][]semantic.StoredPoint
	for _, key := range order {
		if g := byKey[key]; len(g) > 1 {
			groups = append(groups, g)
		}
	}
	return groups
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func confirm(prompt string) bool {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(line), "y")
}
