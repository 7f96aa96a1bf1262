package server

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"path/filepath"
	"time"

	"github.com/mwg2202/facial-recognition/internal/cascade"
	"github.com/mwg2202/facial-recognition/internal/feature"
	"github.com/mwg2202/facial-recognition/internal/sample"
	"github.com/mwg2202/facial-recognition/internal/store"
)

// runJob drives a cascade training run to completion in the background,
// reporting stage and round progress through jm and persisting the result
// through st. It mirrors the synchronous path the cascade CLI subcommand
// takes, but wires progress into the job manager and SSE broadcaster
// instead of printing to stdout.
func runJob(ctx context.Context, jm *JobManager, st *store.Store, jobID string) error {
	job, exists := jm.GetJob(jobID)
	if !exists {
		return fmt.Errorf("job not found: %s", jobID)
	}

	if err := jm.UpdateJob(jobID, func(j *Job) { j.State = StateRunning }); err != nil {
		return err
	}

	cfg := job.Config
	slog.Info("starting cascade training job", "job_id", jobID, "mode", cfg.Mode, "stages", cfg.Stages)

	objectDir := filepath.Join(cfg.BaseDir, "images", "training", "object")
	otherDir := filepath.Join(cfg.BaseDir, "images", "training", "other")

	trainCfg := cascade.DefaultConfig()
	rng := rand.New(rand.NewSource(cfg.Seed))

	set, err := sample.LoadDirs(objectDir, otherDir, cfg.NPos, cfg.NNeg, trainCfg.WL, trainCfg.WH, nil, rng)
	if err != nil {
		markJobFailed(jm, jobID, fmt.Errorf("load training set: %w", err))
		return err
	}

	pool := feature.Enumerate(trainCfg.WL, trainCfg.WH)

	start := time.Now()
	hooks := cascade.Hooks{
		OnRound: func(stageIdx int, p cascade.StageProgress) {
			jm.UpdateJob(jobID, func(j *Job) {
				j.Stage = stageIdx
				j.Round = p.Round
				j.DetectionRate = p.DetectionRate
				j.FalsePositiveRate = p.FalsePositive
			})
			jm.broadcaster.Broadcast(ProgressEvent{
				JobID:             jobID,
				State:             StateRunning,
				Stage:             stageIdx,
				Round:             p.Round,
				DetectionRate:     p.DetectionRate,
				FalsePositiveRate: p.FalsePositive,
				Timestamp:         time.Now(),
			})
		},
		OnStage: func(stageIdx int, report cascade.ConfusionReport, set *sample.Set) {
			jm.UpdateJob(jobID, func(j *Job) {
				j.StagesTrained = stageIdx + 1
				j.DetectionRate = report.DetectionRate()
				j.FalsePositiveRate = report.FalsePositiveRate()
			})
			slog.Info("stage complete", "job_id", jobID, "stage", stageIdx,
				"detection_rate", report.DetectionRate(), "false_positive_rate", report.FalsePositiveRate())
		},
		Backup: func(c *cascade.Cascade) error {
			return st.SaveCascadeBackup(c)
		},
	}

	var c *cascade.Cascade
	switch cfg.Mode {
	case "target-fpr":
		c, err = cascade.TrainTargetFPR(ctx, nil, pool, set, trainCfg, otherDir, rng, hooks)
	default:
		sizes := make([]int, cfg.Stages)
		for i := range sizes {
			sizes[i] = cfg.RoundsPerStage
		}
		c, err = cascade.TrainLayout(ctx, nil, pool, set, trainCfg, sizes, otherDir, rng, hooks)
	}
	if err != nil {
		markJobFailed(jm, jobID, fmt.Errorf("train cascade: %w", err))
		return err
	}

	if ctx.Err() != nil {
		markJobCancelled(jm, jobID)
		return ctx.Err()
	}

	if err := st.SaveFinalCascade(c); err != nil {
		markJobFailed(jm, jobID, fmt.Errorf("persist final cascade: %w", err))
		return err
	}

	elapsed := time.Since(start)
	endTime := time.Now()
	finalReport := c.Evaluate(set)
	err = jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateCompleted
		j.StagesTrained = len(c.Stages)
		j.DetectionRate = finalReport.DetectionRate()
		j.FalsePositiveRate = finalReport.FalsePositiveRate()
		j.EndTime = &endTime
	})
	if err != nil {
		return err
	}

	slog.Info("job completed", "job_id", jobID, "elapsed", elapsed, "stages_trained", len(c.Stages))

	jm.broadcaster.Broadcast(ProgressEvent{
		JobID:             jobID,
		State:             StateCompleted,
		StagesTrained:     len(c.Stages),
		DetectionRate:     finalReport.DetectionRate(),
		FalsePositiveRate: finalReport.FalsePositiveRate(),
		Timestamp:         time.Now(),
	})

	return nil
}

func markJobFailed(jm *JobManager, jobID string, err error) {
	endTime := time.Now()
	jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateFailed
		j.Error = err.Error()
		j.EndTime = &endTime
	})
	slog.Error("job failed", "job_id", jobID, "error", err)
}

func markJobCancelled(jm *JobManager, jobID string) {
	endTime := time.Now()
	jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateCancelled
		j.EndTime = &endTime
	})
	slog.Info("job cancelled", "job_id", jobID)
}
