package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/cabdesk/internal/api"
	"github.com/Veraticus/cabdesk/internal/common"
	"github.com/Veraticus/cabdesk/internal/config"
	"github.com/Veraticus/cabdesk/internal/model"
	"github.com/Veraticus/cabdesk/internal/service"
	"github.com/spf13/viper"
)

// newAPIClient loads the settings and builds the fleet API client from them.
func newAPIClient() (*api.Client, config.Settings, error) {
	settings, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, config.Settings{}, err
	}

	client, err := api.NewClient(api.Config{
		BaseURL: settings.APIBaseURL,
		Timeout: settings.APITimeout,
	})
	if err != nil {
		return nil, config.Settings{}, fmt.Errorf("failed to create API client: %w", err)
	}

	return client, settings, nil
}

// resolveDate accepts YYYY-MM-DD, "today" or "yesterday".
func resolveDate(s string, now time.Time) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return now.Format(model.DateLayout), nil
	case "yesterday":
		return now.AddDate(0, 0, -1).Format(model.DateLayout), nil
	}

	t, err := time.Parse(model.DateLayout, strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t.Format(model.DateLayout), nil
}

// lookupCab resolves a service number against the fleet so entries are never
// written for a cab the API does not know.
func lookupCab(ctx context.Context, cabs service.CabDirectory, number string) (model.Cab, error) {
	list, err := cabs.ListCabs(ctx)
	if err != nil {
		return model.Cab{}, fmt.Errorf("failed to list cabs: %w", err)
	}
	cab, ok := model.FindCabByNumber(list, number)
	if !ok {
		return model.Cab{}, fmt.Errorf("%w: unknown cab %q", common.ErrInvalidInput, number)
	}
	return cab, nil
}
