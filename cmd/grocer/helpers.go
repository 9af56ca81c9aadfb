package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/viper"

	"github.com/hearthward/grocer/internal/analytics"
	"github.com/hearthward/grocer/internal/common"
	"github.com/hearthward/grocer/internal/config"
	"github.com/hearthward/grocer/internal/match"
	"github.com/hearthward/grocer/internal/model"
	"github.com/hearthward/grocer/internal/service"
	"github.com/hearthward/grocer/internal/storage"
)

// initStorage opens the configured database and brings the schema current.
func initStorage(ctx context.Context) (service.Storage, error) {
	path := config.DatabasePath()
	store, err := storage.NewSQLiteStorage(path)
	if err != nil {
		return nil, common.NewUserError(fmt.Sprintf("could not open the database at %s", path), err)
	}

	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return store, nil
}

// analyzerConfig reads threshold overrides from viper.
func analyzerConfig() analytics.Config {
	return analytics.Config{
		MinMonthlySamples:   viper.GetInt("seasonal.min_monthly_samples"),
		PremiumThresholdPct: viper.GetFloat64("seasonal.premium_threshold_pct"),
		PriceAlertPct:       viper.GetFloat64("suggestions.price_alert_pct"),
		RestockUrgentRatio:  viper.GetFloat64("suggestions.restock_urgent_ratio"),
	}
}

// resolveItem finds a list item by id prefix or (case-insensitive) name.
func resolveItem(ctx context.Context, store service.Storage, ref string) (*model.ListItem, error) {
	items, err := store.LoadList(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load list: %w", err)
	}

	if id, err := uuid.Parse(ref); err == nil {
		for i := range items {
			if items[i].ID == id {
				return &items[i], nil
			}
		}
	}

	for i := range items {
		if strings.EqualFold(items[i].Name, ref) {
			return &items[i], nil
		}
	}
	for i := range items {
		if strings.HasPrefix(items[i].ID.String(), strings.ToLower(ref)) {
			return &items[i], nil
		}
	}
	return nil, fmt.Errorf("%w: no list item matches %q", common.ErrNotFound, ref)
}

// nowFunc is swappable in tests.
var nowFunc = time.Now

// canonicalKey maps a user-typed name to the history key.
func canonicalKey(name string) string {
	return match.Canonical(name)
}

func monthName(m int) string {
	return time.Month(m).String()
}

func confidenceBadge(c model.Confidence) string {
	switch c {
	case model.ConfidenceHigh:
		return "●●●"
	case model.ConfidenceMedium:
		return "●●○"
	default:
		return "●○○"
	}
}
