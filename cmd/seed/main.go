// Package main provides a CLI tool for seeding the database with initial
// reference data: accounts, categories, providers and cashiers.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"cajalibro/internal/core/types"
	"cajalibro/internal/domain/catalogs/cashier"
	"cajalibro/internal/domain/catalogs/category"
	"cajalibro/internal/domain/catalogs/provider"
	"cajalibro/internal/domain/ledger/account"
	"cajalibro/internal/infrastructure/storage/postgres"
	"cajalibro/internal/infrastructure/storage/postgres/catalog_repo"
	"cajalibro/internal/infrastructure/storage/postgres/ledger_repo"
	"cajalibro/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	poolCfg := postgres.DefaultPoolConfig(dbURL)
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	txManager := postgres.NewTxManager(pool)

	accountService := account.NewService(ledger_repo.NewAccountRepo(txManager), txManager)
	categoryService := category.NewService(catalog_repo.NewCategoryRepo(txManager), txManager)
	providerService := provider.NewService(catalog_repo.NewProviderRepo(txManager), txManager)
	cashierService := cashier.NewService(catalog_repo.NewCashierRepo(txManager), txManager)

	// Accounts with opening balances
	for _, seed := range []struct {
		name    string
		balance string
	}{
		{"Caja principal", "0"},
		{"Banco", "0"},
		{"Caja menor", "0"},
	} {
		acc := account.New(seed.name, types.MustMoney(seed.balance))
		if err := accountService.Create(ctx, acc); err != nil {
			log.Warnw("account not seeded", "name", seed.name, "error", err)
			continue
		}
		log.Infow("account seeded", "name", seed.name, "id", acc.ID)
	}

	// Movement categories
	for _, name := range []string{
		"Ventas",
		"Servicios",
		"Arriendo",
		"Comisiones",
		"Suministros",
	} {
		if err := categoryService.Create(ctx, category.New(name)); err != nil {
			log.Warnw("category not seeded", "name", name, "error", err)
			continue
		}
		log.Infow("category seeded", "name", name)
	}

	// Providers
	for _, name := range []string{
		"Proveedor general",
	} {
		if err := providerService.Create(ctx, provider.New(name)); err != nil {
			log.Warnw("provider not seeded", "name", name, "error", err)
			continue
		}
		log.Infow("provider seeded", "name", name)
	}

	// Cashiers
	for _, name := range []string{
		"Cajero principal",
	} {
		if err := cashierService.Create(ctx, cashier.New(name)); err != nil {
			log.Warnw("cashier not seeded", "name", name, "error", err)
			continue
		}
		log.Infow("cashier seeded", "name", name)
	}

	log.Info("seeding complete")
}
