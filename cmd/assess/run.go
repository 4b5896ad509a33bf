package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"psy-consensus/internal/config"
	"psy-consensus/internal/db"
	"psy-consensus/internal/repository"
	"psy-consensus/internal/service"
)

var (
	batteryPath string
	answersPath string
	subjectID   string
	persist     bool
	verbose     bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Evalua una hoja de respuestas contra una bateria",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}

		logger := zap.NewNop()
		if verbose {
			logger, _ = zap.NewDevelopment()
		}
		defer logger.Sync()

		req, err := loadRequest(batteryPath, answersPath, subjectID)
		if err != nil {
			return err
		}

		var repo repository.ReportRepository
		if persist {
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("--persist needs DATABASE_URL")
			}
			pool, err := db.NewPool(ctx, cfg)
			if err != nil {
				return fmt.Errorf("db connect: %w", err)
			}
			defer pool.Close()
			if err := db.Ping(ctx, pool); err != nil {
				return err
			}
			if err := db.EnsureSchema(ctx, pool); err != nil {
				return err
			}
			repo = repository.NewPgReportRepository(pool)
		}

		redisClient := connectRedis(ctx, cfg, logger)
		if redisClient != nil {
			defer redisClient.Close()
		}

		resolver, err := service.BuildResolver(cfg, redisClient, logger)
		if err != nil {
			return err
		}
		svc := service.NewAssessmentService(resolver, repo, cfg.Concurrency, logger)

		report, err := svc.Evaluate(ctx, req)
		if err != nil {
			return err
		}
		return renderReport(cmd.OutOrStdout(), report)
	},
}

func init() {
	runCmd.Flags().StringVar(&batteryPath, "battery", "", "bateria YAML con los items (por defecto la OCEAN de 15 preguntas)")
	runCmd.Flags().StringVar(&answersPath, "answers", "", "hoja de respuestas JSON")
	runCmd.Flags().StringVar(&subjectID, "subject", "", "id del sujeto (pisa el de la hoja de respuestas)")
	runCmd.Flags().BoolVar(&persist, "persist", false, "guardar el reporte en Postgres")
	runCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log de desarrollo por stderr")
	_ = runCmd.MarkFlagRequired("answers")
}

func loadRequest(batteryPath, answersPath, subjectOverride string) (service.EvaluateRequest, error) {
	battery, err := loadBattery(batteryPath)
	if err != nil {
		return service.EvaluateRequest{}, err
	}

	af, err := os.Open(answersPath)
	if err != nil {
		return service.EvaluateRequest{}, err
	}
	defer af.Close()
	sheet, err := service.LoadAnswers(af)
	if err != nil {
		return service.EvaluateRequest{}, err
	}

	items, err := service.MergeAnswers(battery, sheet)
	if err != nil {
		return service.EvaluateRequest{}, err
	}
	subject := sheet.SubjectID
	if subjectOverride != "" {
		subject = subjectOverride
	}
	return service.EvaluateRequest{SubjectID: subject, Items: items}, nil
}

func loadBattery(path string) (service.Battery, error) {
	if path == "" {
		return service.DefaultBattery(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return service.Battery{}, err
	}
	defer f.Close()
	return service.LoadBattery(f)
}

func connectRedis(ctx context.Context, cfg *config.Config, logger *zap.Logger) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(ctxPing).Err(); err != nil {
		logger.Warn("redis ping failed; judge cache and rate limit disabled", zap.Error(err))
		_ = client.Close()
		return nil
	}
	return client
}
