// Command warranty-quote serves the vehicle warranty pricing API.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"warranty-quote/config"
	httpLayer "warranty-quote/http"
	"warranty-quote/rates"
	"warranty-quote/repository"
	"warranty-quote/service"
)

var (
	cfgFile string
	addr    string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "warranty-quote",
	Short: "API de devis de garantie pour véhicules",
	Long: `warranty-quote expose un point d'entrée unique qui calcule le prix
d'une garantie (3 et 6 mois) à partir de la description d'une voiture ou
d'une moto, selon un barème de coefficients versionné.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

func init() {
	rootCmd.Flags().StringVar(&cfgFile, "config", "", "fichier de configuration (défaut: warranty-quote.yml)")
	rootCmd.Flags().StringVar(&addr, "addr", "", "adresse d'écoute (prioritaire sur la configuration)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "journalisation détaillée")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServer() error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Addr = addr
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	rateCfg, err := rates.Load(cfg.RatesFile)
	if err != nil {
		return err
	}
	if ruleSet, ok := rates.RuleSetByVersion(cfg.RuleVersion); ok {
		rateCfg.RuleSet = ruleSet
	} else {
		logger.Warn("version de barème inconnue, barème du fichier conservé",
			zap.String("version", cfg.RuleVersion))
	}
	if err := rateCfg.Validate(); err != nil {
		return err
	}

	var cache repository.CacheRepository = repository.NewMemoryCache()
	if cfg.RedisAddr != "" {
		redisCache := repository.NewRedisCache(cfg.RedisAddr)
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := redisCache.Ping(pingCtx)
		cancel()
		if err != nil {
			logger.Warn("redis injoignable, cache mémoire utilisé", zap.Error(err))
		} else {
			cache = redisCache
		}
	}

	quoteRepo := repository.NewQuoteRepositoryMemory()
	quoteService := service.NewQuoteService(rateCfg, quoteRepo, cache, logger)
	quoteHandler := httpLayer.NewQuoteHandler(quoteService, logger)

	rateLimiter := httpLayer.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
	defer rateLimiter.Stop()

	apiKey := os.Getenv(cfg.APIKeyEnv)

	quote := httpLayer.APIKeyMiddleware(apiKey,
		rateLimiter.Middleware(
			http.HandlerFunc(quoteHandler.CalculatePrice),
		),
	)

	mux := http.NewServeMux()
	mux.Handle("/calculer_prix", quote)
	mux.Handle("/calcul_prix/", quote)
	mux.HandleFunc("/health", httpLayer.Health)

	handler := httpLayer.RecoverMiddleware(logger,
		httpLayer.CORSMiddleware(cfg.AllowedOrigins, mux),
	)

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("API de devis démarrée",
			zap.String("addr", cfg.Addr),
			zap.String("bareme", rateCfg.RuleSet.Version),
			zap.Bool("auth", apiKey != ""),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		logger.Error("échec du démarrage du serveur", zap.Error(err))
		return err
	case <-quit:
		logger.Info("arrêt du serveur demandé")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("erreur lors de l'arrêt du serveur", zap.Error(err))
		return err
	}

	logger.Info("serveur arrêté")
	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	if verbose {
		lvl = zapcore.DebugLevel
	}

	logCfg := zap.NewProductionConfig()
	logCfg.Level = zap.NewAtomicLevelAt(lvl)
	logCfg.EncoderConfig.TimeKey = "timestamp"
	logCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return logCfg.Build()
}
