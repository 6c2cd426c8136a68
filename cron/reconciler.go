package cron

import (
	"context"
	"fmt"
	"log"
	"time"

	"tapstead/config"
	bookingRepo "tapstead/database/repository/booking"
	trackingRepo "tapstead/database/repository/tracking"
	"tapstead/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeReconcileSweep = "booking:reconcile"

// Reconciler sweeps internal bookings stranded mid-commit. The two-phase
// commit is not crash-safe between phases, so a pending row with no external
// reference past the age cutoff is an orphan and gets removed.
type Reconciler struct {
	Bookings bookingRepo.BookingRepository
	Tracking trackingRepo.TrackingRepository
	Logger   *zap.Logger
}

// InitReconcileWorker runs the asynq worker and the periodic enqueuer in the
// background.
func InitReconcileWorker(rec *Reconciler) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 2,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeReconcileSweep, rec.HandleSweep)

	go func() {
		log.Println("[Reconciler] starting async worker...")
		if err := srv.Run(mux); err != nil {
			log.Fatalf("[Reconciler] failed to start worker: %v", err)
		}
	}()

	scheduler := asynq.NewScheduler(redisOpts, nil)
	spec := fmt.Sprintf("@every %dm", config.AppConfig.ReconcileIntervalMin)
	if _, err := scheduler.Register(spec, asynq.NewTask(TypeReconcileSweep, nil)); err != nil {
		log.Fatalf("[Reconciler] failed to register periodic sweep: %v", err)
	}
	go func() {
		if err := scheduler.Run(); err != nil {
			log.Fatalf("[Reconciler] scheduler failed: %v", err)
		}
	}()
}

// HandleSweep finds and removes orphaned pending bookings. Idempotent: rows
// already swept simply stop matching the scan.
func (r *Reconciler) HandleSweep(ctx context.Context, _ *asynq.Task) error {
	maxAge := time.Duration(config.AppConfig.ReconcileMaxAgeMin) * time.Minute
	cutoff := time.Now().Add(-maxAge)

	stale, err := r.Bookings.FindStalePending(ctx, cutoff)
	if err != nil {
		r.Logger.Error("reconcile sweep failed to scan", zap.Error(err))
		return err
	}
	if len(stale) == 0 {
		return nil
	}

	for _, b := range stale {
		if err := r.Bookings.Delete(ctx, b.ID); err != nil {
			r.Logger.Error("reconcile sweep failed to delete orphan",
				zap.String("bookingID", b.ID), zap.Error(err))
			continue
		}
		r.Logger.Warn("removed orphaned pending booking",
			zap.String("bookingID", b.ID),
			zap.Time("createdAt", b.CreatedAt))
		if err := r.Tracking.Append(ctx, models.TrackingEntry{
			BookingID:  b.ID,
			ProviderID: b.ProviderID,
			Status:     models.StatusCancelled,
			Note:       "reconciliation removed orphaned pending booking with no external reference",
		}); err != nil {
			r.Logger.Error("reconcile sweep failed to record tracking entry",
				zap.String("bookingID", b.ID), zap.Error(err))
		}
	}
	return nil
}
