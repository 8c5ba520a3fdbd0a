package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/tiero/limitd/internal/config"
	"github.com/tiero/limitd/internal/core/application"
	"github.com/tiero/limitd/internal/core/domain"
	resthandler "github.com/tiero/limitd/internal/interface/rest/handler"
)

func main() {
	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))

	if err := config.Validate(
		config.LCDEndpointKey,
		config.SignerEndpointKey,
		config.SwapRouterEndpointKey,
		config.OrderbookContractKey,
		config.BaseDenomKey,
		config.QuoteDenomKey,
	); err != nil {
		log.WithError(err).Panic("error loading configuration")
	}

	timeout := config.GetDuration(config.RequestTimeoutKey)

	market := application.Market{
		BaseAsset: domain.Asset{
			Denom:    config.GetString(config.BaseDenomKey),
			Symbol:   config.GetString(config.BaseSymbolKey),
			Decimals: int32(config.GetInt(config.BaseDecimalsKey)),
		},
		QuoteAsset: domain.Asset{
			Denom:    config.GetString(config.QuoteDenomKey),
			Symbol:   config.GetString(config.QuoteSymbolKey),
			Decimals: int32(config.GetInt(config.QuoteDecimalsKey)),
		},
		ContractAddress: config.GetString(config.OrderbookContractKey),
		PoolID:          config.GetUint64(config.PoolIDKey),
	}

	// price service
	priceService, err := newPriceService(timeout)
	if err != nil {
		log.WithError(err).Panic("error starting price service")
	}

	maxSlippage, err := config.GetDecimal(config.MaxSlippageKey)
	if err != nil {
		log.WithError(err).Panic("error starting swap service")
	}

	lcdEndpoint := config.GetString(config.LCDEndpointKey)

	// place limit service
	placeLimitService, err := application.NewPlaceLimitService(application.PlaceLimitServiceOpts{
		Markets:         []application.Market{market},
		Orderbook:       application.NewOrderbookService(lcdEndpoint, timeout),
		Balances:        application.NewBalanceService(lcdEndpoint, timeout),
		Prices:          priceService,
		Swaps:           application.NewSwapService(config.GetString(config.SwapRouterEndpointKey), maxSlippage, timeout),
		Contracts:       application.NewContractExecutor(config.GetString(config.SignerEndpointKey), timeout),
		RefreshInterval: config.GetDuration(config.RefreshIntervalKey),
		SessionTTL:      config.GetDuration(config.SessionTTLKey),
	})
	if err != nil {
		log.WithError(err).Panic("error starting place limit service")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go placeLimitService.Run(ctx)

	// Echo instance
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Routes
	resthandler.NewPlaceLimitHandler(placeLimitService).Register(e)

	address := fmt.Sprintf(":%+v", config.GetInt(config.ListeningPortKey))

	log.Info("starting limitd")

	go func() {
		if err := e.Start(address); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("error starting http server")
		}
	}()

	log.Infof("market %s/%s on %s", market.BaseAsset.Symbol, market.QuoteAsset.Symbol, market.ContractAddress)
	log.Info("rest interface is listening on " + address)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	<-sigChan

	log.Info("shutting down limitd")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("error stopping http server")
	}
	log.Debug("exiting")
}

func newPriceService(timeout time.Duration) (application.PriceService, error) {
	if endpoint := config.GetString(config.PriceEndpointKey); endpoint != "" {
		return application.NewEndpointPriceService(endpoint, timeout), nil
	}

	price, err := config.GetDecimal(config.QuoteReferencePriceKey)
	if err != nil {
		return nil, err
	}
	return application.NewFixedPriceService(price)
}
