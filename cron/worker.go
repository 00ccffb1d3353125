package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"caterbook/config"
	"caterbook/services/booking"
	"caterbook/services/verification"
	"caterbook/utils"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeReservationSweep = "booking:sweep"

// InitEngineWorker runs the async worker in background: face-match tasks
// enqueued by the verification gate and the periodic reservation sweeps.
func InitEngineWorker(bookingSvc booking.BookingService, gate verification.VerificationGate) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(verification.TypeFaceMatch, handleFaceMatchTask(gate))
	mux.HandleFunc(TypeReservationSweep, handleSweepTask(bookingSvc))

	// Start Redis health monitor.
	go monitorRedisConnection()

	// Start the sweep scheduler.
	go runSweepScheduler(asynq.NewClient(redisOpts))

	// Start async worker with retry logic.
	go func() {
		zap.L().Info("starting engine worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				zap.L().Error("engine worker failed to start",
					zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))

				if attempts == maxAttempts {
					zap.L().Fatal("engine worker could not start, giving up")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

func handleFaceMatchTask(gate verification.VerificationGate) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p verification.FaceMatchPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			zap.L().Error("invalid face match payload", zap.Error(err))
			return fmt.Errorf("invalid payload: %v: %w", err, asynq.SkipRetry)
		}

		record, err := gate.Match(ctx, p.UserID, p.BookingID)
		if err != nil {
			// Oracle outages are worth retrying; everything else is a state
			// problem a retry cannot fix.
			if utils.HasCode(err, utils.CodeOracleFailure) {
				return err
			}
			zap.L().Warn("face match task rejected",
				zap.String("userID", p.UserID), zap.String("bookingID", p.BookingID), zap.Error(err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}

		zap.L().Info("face match task finished",
			zap.String("userID", p.UserID),
			zap.String("bookingID", p.BookingID),
			zap.String("state", record.State))
		return nil
	}
}

func handleSweepTask(bookingSvc booking.BookingService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		now := time.Now().UTC()
		expired, err := bookingSvc.SweepExpired(ctx, now)
		if err != nil {
			zap.L().Error("expiration sweep failed", zap.Error(err))
			return err
		}
		completed, err := bookingSvc.CompleteElapsed(ctx, now)
		if err != nil {
			zap.L().Error("completion sweep failed", zap.Error(err))
			return err
		}
		if expired > 0 || completed > 0 {
			zap.L().Info("reservation sweep done",
				zap.Int("expired", expired), zap.Int("completed", completed))
		}
		return nil
	}
}

// runSweepScheduler enqueues a sweep task on the configured interval.
func runSweepScheduler(client *asynq.Client) {
	interval := time.Duration(config.AppConfig.SweepIntervalMinutes) * time.Minute
	if interval <= 0 {
		interval = 15 * time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		task := asynq.NewTask(TypeReservationSweep, nil)
		if _, err := client.Enqueue(task, asynq.MaxRetry(2)); err != nil {
			zap.L().Error("failed to enqueue sweep task", zap.Error(err))
		}
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at
// runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			zap.L().Warn("queue redis connection lost", zap.Error(err))
		}
		time.Sleep(10 * time.Second)
	}
}
