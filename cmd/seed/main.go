// Command seed wipes the product catalog and loads the base ghee range.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/srrfarms/storefront/internal/catalog"
	"github.com/srrfarms/storefront/internal/config"
	"github.com/srrfarms/storefront/internal/postgres"
)

var products = []catalog.Product{
	{
		Name:        "Premium SRR Cow Ghee",
		Description: "Pure A2 cow ghee made using traditional Bilona method. Rich in vitamins A, D, E, and K.",
		Size:        "250ml",
		Price:       500,
		Image:       "https://images.pexels.com/photos/4198019/pexels-photo-4198019.jpeg?auto=compress&cs=tinysrgb&w=400",
		Category:    catalog.CategoryGhee,
		Stock:       50,
		Rating:      5,
		Reviews:     127,
		Badge:       catalog.BadgeBestseller,
	},
	{
		Name:          "Premium SRR Cow Ghee",
		Description:   "Perfect family size pack of our premium A2 cow ghee. Made with love and traditional methods.",
		Size:          "500ml",
		Price:         1000,
		OriginalPrice: 1100,
		Image:         "https://images.pexels.com/photos/4198019/pexels-photo-4198019.jpeg?auto=compress&cs=tinysrgb&w=400",
		Category:      catalog.CategoryGhee,
		Stock:         30,
		Rating:        4.5,
		Reviews:       98,
		Badge:         catalog.BadgeValuePack,
	},
	{
		Name:          "Premium SRR Cow Ghee",
		Description:   "Large family pack perfect for regular cooking. Premium quality A2 cow ghee at the best value.",
		Size:          "1000ml",
		Price:         1500,
		OriginalPrice: 1700,
		Image:         "https://images.pexels.com/photos/4198019/pexels-photo-4198019.jpeg?auto=compress&cs=tinysrgb&w=400",
		Category:      catalog.CategoryGhee,
		Stock:         20,
		Rating:        5,
		Reviews:       56,
		Badge:         catalog.BadgeFamilyPack,
	},
}

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, relying on environment")
	}
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		slog.Error("postgres connect failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		slog.Error("postgres migrate failed", "error", err)
		os.Exit(1)
	}

	if _, err := pool.Exec(ctx, `DELETE FROM products`); err != nil {
		slog.Error("clear products failed", "error", err)
		os.Exit(1)
	}

	store := catalog.NewPGStore(pool)
	for i := range products {
		if err := store.Create(ctx, &products[i]); err != nil {
			slog.Error("seed product failed", "name", products[i].Name, "size", products[i].Size, "error", err)
			os.Exit(1)
		}
	}

	slog.Info("database seeded", "products", len(products))
}
