package main

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rl1809/inventario/internal/adapter/storage"
	"github.com/rl1809/inventario/internal/config"
	"github.com/rl1809/inventario/internal/core/schema"
	"github.com/rl1809/inventario/internal/core/service"
)

const (
	totalEditors = 50
	initialStock = 100
)

// Concurrent edits of one product race without locks or versions: every
// update must succeed and the final row must equal exactly one of them.
func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	store, err := storage.Open(cfg.Database, nil)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	products := service.NewProductService(store, nil, nil)
	product, err := products.Create(ctx, schema.ProductInput{
		Name:  "stress-item",
		Price: decimal.RequireFromString("1.00"),
		Stock: initialStock,
	})
	if err != nil {
		log.Fatalf("failed to create product: %v", err)
	}

	// Counters
	var successCount atomic.Int32
	var failCount atomic.Int32

	// Spawn concurrent editors, each writing its own stock value
	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < totalEditors; i++ {
		wg.Add(1)
		go func(editor int) {
			defer wg.Done()

			_, err := products.Update(ctx, product.ID, schema.ProductInput{
				Name:  fmt.Sprintf("stress-item-%d", editor),
				Price: decimal.NewFromInt(int64(editor)),
				Stock: editor,
			})
			if err == nil {
				successCount.Add(1)
			} else {
				log.Printf("editor %d: update failed: %v", editor, err)
				failCount.Add(1)
			}
		}(i)
	}

	wg.Wait()
	elapsed := time.Since(start)

	// Results
	success := successCount.Load()
	fail := failCount.Load()

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Driver:           %s\n", cfg.Database.Driver)
	fmt.Printf("Product ID:       %d\n", product.ID)
	fmt.Printf("Total Editors:    %d\n", totalEditors)
	fmt.Printf("Successful:       %d\n", success)
	fmt.Printf("Failed:           %d\n", fail)
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("==========================================")

	if success == totalEditors {
		fmt.Println("PASS: every concurrent update succeeded")
	} else {
		fmt.Printf("FAIL: Expected %d successful updates, got %d\n", totalEditors, success)
	}

	// Last writer wins: the row must match one editor's submission exactly
	final, err := products.Get(ctx, product.ID)
	if err != nil {
		log.Fatalf("failed to read product: %v", err)
	}
	fmt.Printf("Final Product:    %s, precio %s, stock %d\n", final.Name, final.Price.StringFixed(2), final.Stock)

	want := fmt.Sprintf("stress-item-%d", final.Stock)
	if final.Name == want && final.Price.Equal(decimal.NewFromInt(int64(final.Stock))) {
		fmt.Println("PASS: final row is one editor's complete write")
	} else {
		fmt.Println("FAIL: final row mixes fields from different editors")
	}
}
