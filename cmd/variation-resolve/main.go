package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/packfinderz-variations/internal/catalog"
	"github.com/angelmondragon/packfinderz-variations/internal/detail"
	"github.com/angelmondragon/packfinderz-variations/internal/engine"
	"github.com/angelmondragon/packfinderz-variations/internal/localization"
	"github.com/angelmondragon/packfinderz-variations/internal/notify"
	"github.com/angelmondragon/packfinderz-variations/pkg/config"
	pkgerrors "github.com/angelmondragon/packfinderz-variations/pkg/errors"
	"github.com/angelmondragon/packfinderz-variations/pkg/itemapi"
	"github.com/angelmondragon/packfinderz-variations/pkg/logger"
	"github.com/angelmondragon/packfinderz-variations/pkg/metrics"
	"github.com/angelmondragon/packfinderz-variations/pkg/redis"
)

const serviceName = "variation-resolve"

func main() {
	os.Exit(run())
}

// run returns the process exit code so deferred cleanup runs before exiting.
func run() int {
	ctx := context.Background()
	// bootstrap logger early (then re-init after config load)
	logg := logger.New(logger.Options{ServiceName: serviceName})

	if err := godotenv.Load(); err != nil {
		logg.Warn(ctx, ".env file not found, relying on environment")
	}

	var selections steps
	var props propertyValues
	productPath := flag.String("product", "", "path to the product variation catalog (json)")
	preselect := flag.Int("preselect", 0, "variation id to preselect before applying -select")
	quantity := flag.String("quantity", "", "order quantity applied after the selection settled")
	lang := flag.String("lang", "", "message language (defaults to PACKFINDERZ_ITEM_DEFAULT_LANGUAGE)")
	wait := flag.Duration("wait", 10*time.Second, "how long to wait for variation details")
	flag.Var(&selections, "select", "selection change: <attributeId>=<valueId>, <attributeId>= or unit=<unitId> (repeatable)")
	flag.Var(&props, "property", "order property value: <propertyId>=<value> (repeatable)")
	flag.Parse()

	cfg, err := config.Load()
	if !resourceOK(ctx, logg, "config", err) {
		return 1
	}

	logg = logger.New(logger.Options{
		ServiceName: serviceName,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx = logg.WithFields(ctx, map[string]any{
		"env":     cfg.App.Env,
		"product": *productPath,
	})

	if *productPath == "" {
		fmt.Fprintln(os.Stderr, "missing -product")
		return 1
	}
	if *lang == "" {
		*lang = cfg.Item.DefaultLanguage
	}

	var qty *decimal.Decimal
	if *quantity != "" {
		parsed, err := decimal.NewFromString(*quantity)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid -quantity: %v\n", err)
			return 1
		}
		qty = &parsed
	}

	file, err := os.Open(*productPath)
	if !resourceOK(ctx, logg, "product file", err) {
		return 1
	}
	product, index, err := catalog.Load(file)
	_ = file.Close()
	if !resourceOK(ctx, logg, "product catalog", err) {
		return 1
	}

	registry := prometheus.NewRegistry()
	variationMetrics := metrics.NewVariationMetrics(registry)

	source, err := detailSource(cfg, product, *lang)
	if !resourceOK(ctx, logg, "variation detail source", err) {
		return 1
	}

	cacheOpts := []detail.Option{detail.WithLogger(logg), detail.WithMetrics(variationMetrics)}
	if cfg.Redis.Enabled {
		redisClient, err := redis.New(ctx, cfg.Redis, logg)
		if !resourceOK(ctx, logg, "redis", err) {
			return 1
		}
		defer redisClient.Close()
		cacheOpts = append(cacheOpts, detail.WithStore(detail.NewRedisStore(redisClient, cfg.Redis.VariationTTL)))
	}
	details := detail.NewCache(source, cacheOpts...)

	translator, err := localization.New(*lang)
	if !resourceOK(ctx, logg, "localization", err) {
		return 1
	}

	recorder := &notify.Recorder{}
	e, err := engine.New(index,
		engine.WithLogger(logg),
		engine.WithMetrics(variationMetrics),
		engine.WithDetails(details),
		engine.WithTranslator(translator),
		engine.WithNotifier(notify.Fanout{notify.NewLogSink(logg), recorder}),
		engine.WithRequireOrderProperties(cfg.Item.RequireOrderProperties),
		engine.WithAutoClose(cfg.Notifications.AutoClose),
		engine.WithMessageSeparator(cfg.Item.MessageSeparator),
		engine.WithMemoSize(cfg.Resolver.Size()),
	)
	if !resourceOK(ctx, logg, "variation engine", err) {
		return 1
	}

	logg.Info(ctx, "variation resolver ready")

	waitCtx, cancel := context.WithTimeout(ctx, *wait)
	defer cancel()

	last, err := apply(waitCtx, e, plan{
		preselect:  *preselect,
		steps:      selections,
		properties: props,
		quantity:   qty,
	})
	if err != nil {
		logg.Error(ctx, "apply selection", err)
		_ = json.NewEncoder(os.Stderr).Encode(pkgerrors.Dump(err))
		return 1
	}

	out := json.NewEncoder(os.Stdout)
	out.SetIndent("", "  ")
	if err := out.Encode(buildReport(e, last, recorder)); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write report: %v\n", err)
		return 1
	}
	return 0
}

// detailSource picks the remote item API when configured and the catalog's
// embedded details otherwise.
func detailSource(cfg *config.Config, product *catalog.Product, lang string) (detail.Source, error) {
	if !cfg.ItemAPI.Enabled() {
		return detail.StaticSource(product.Details), nil
	}
	return itemapi.NewClient(cfg.ItemAPI.BaseURL,
		itemapi.WithTemplate(cfg.ItemAPI.Template),
		itemapi.WithTimeout(cfg.ItemAPI.Timeout),
		itemapi.WithLanguage(lang),
	)
}

// resourceOK logs a failed startup dependency and reports whether err is nil.
func resourceOK(ctx context.Context, logg *logger.Logger, resource string, err error) bool {
	if err == nil {
		return true
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	return false
}
