package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"asciisymphony/internal/ascii"
	"asciisymphony/internal/history"
	"asciisymphony/internal/logging"
	"asciisymphony/internal/probe"
	"asciisymphony/internal/quality"
	"asciisymphony/internal/render"
	"asciisymphony/internal/services"
	"asciisymphony/internal/visualize"
	"asciisymphony/internal/workspace"
)

// Render executes a full render for the request. The returned summary is nil
// when any stage fails; the ledger row carries the failure message either way.
func (p *Pipeline) Render(ctx context.Context, req Request) (*Summary, error) {
	started := time.Now()

	plan, err := p.resolvePlan(req)
	if err != nil {
		return nil, err
	}
	if err := p.preflight(plan); err != nil {
		return nil, err
	}

	job, err := p.store.NewJob(ctx, plan.input, plan.mode.Name, plan.level.String(), plan.opts.Scheme.Name, plan.opts.FPS)
	if err != nil {
		return nil, err
	}
	ctx = services.WithJobID(ctx, job.ID)
	logger := logging.WithContext(ctx, p.logger)

	if err := p.store.SetStatus(ctx, job.ID, history.StatusProbing); err != nil {
		return nil, err
	}
	prober := probe.New(p.cfg.Tools.FFprobe)
	media, err := prober.Probe(ctx, plan.input)
	if err != nil {
		p.failJob(job.ID, err)
		return nil, err
	}
	if err := checkModeMedia(plan.mode, media); err != nil {
		p.failJob(job.ID, err)
		return nil, err
	}
	totalFrames := media.TotalFrames(plan.opts.FPS)

	logger.Info("render started",
		logging.String("input", plan.input),
		logging.String("mode", plan.mode.Name),
		logging.String("quality", plan.level.String()),
		logging.Int("total_frames", totalFrames))

	if err := p.store.SetPlan(ctx, job.ID, totalFrames, plan.output); err != nil {
		p.failJob(job.ID, err)
		return nil, err
	}

	ws, err := workspace.Create(p.cfg, job.ID)
	if err != nil {
		p.failJob(job.ID, err)
		return nil, err
	}
	keep := req.KeepWorkspace || p.cfg.Render.KeepWorkspace
	failed := true
	defer func() {
		// A failed run keeps its staging tree so the frames can be inspected.
		if err := ws.Cleanup(keep || failed); err != nil {
			logger.Warn("workspace cleanup failed", logging.Error(err))
		}
	}()

	summary, err := p.runStages(ctx, logger, plan, req, job, ws, totalFrames)
	if err != nil {
		p.failJob(job.ID, err)
		return nil, err
	}
	failed = false

	summary.Duration = time.Since(started)
	logger.Info("render completed",
		logging.String("output", summary.Output),
		logging.String("size", humanize.Bytes(uint64(summary.OutputBytes))),
		logging.Duration("duration", summary.Duration),
		logging.String("final_quality", summary.FinalQuality.String()),
		logging.Bool("fallback_used", summary.FallbackUsed))
	return summary, nil
}

// checkModeMedia rejects mode/input pairings the probe rules out.
func checkModeMedia(mode *visualize.Mode, media *probe.Media) error {
	if mode.RequiresVideo && !media.HasVideo {
		return services.Wrap(services.ErrValidation, "probe", "streams",
			fmt.Sprintf("mode %q needs a video stream in %q", mode.Name, media.Path), nil)
	}
	return nil
}

func (p *Pipeline) preflight(plan *plan) error {
	if err := workspace.CheckReadable(plan.input); err != nil {
		return err
	}
	if err := p.cfg.EnsureDirectories(); err != nil {
		return services.Wrap(services.ErrConfiguration, "preflight", "directories", err.Error(), nil)
	}
	if err := workspace.CheckFreeSpace(p.cfg.Paths.WorkspaceDir, p.cfg.Render.MinFreeMiB); err != nil {
		return err
	}
	return workspace.CheckWritable(filepath.Dir(plan.output))
}

func (p *Pipeline) runStages(ctx context.Context, logger *slog.Logger, plan *plan, req Request, job *history.Job, ws *workspace.Workspace, totalFrames int) (*Summary, error) {
	// Extraction, with the adaptive monitor attached when enabled.
	monitor := p.startMonitor(ctx, logger, plan, req, job.ID)
	result, err := p.extractFrames(ctx, logger, plan, ws, job.ID, totalFrames, monitor)
	if monitor != nil {
		monitor.stop()
	}
	if err != nil {
		return nil, err
	}
	if result.FallbackUsed {
		if err := p.store.MarkFallback(ctx, job.ID); err != nil {
			logger.Warn("failed to record fallback", logging.Error(err))
		}
	}

	framePattern := ws.RawFramePattern()
	if plan.ascii {
		if err := p.convertFrames(ctx, logger, req, ws, job.ID); err != nil {
			return nil, err
		}
		framePattern = ws.ColorizedFramePattern()
	}

	level := plan.level
	if monitor != nil {
		level = monitor.final
	}
	output, size, err := p.encodeAndMux(ctx, logger, plan, ws, job.ID, framePattern, level)
	if err != nil {
		return nil, err
	}

	if err := p.store.MarkCompleted(ctx, job.ID, output); err != nil {
		return nil, err
	}
	return &Summary{
		JobID:        job.ID,
		Output:       output,
		Frames:       countFrames(ws, plan.ascii),
		OutputBytes:  size,
		FallbackUsed: result.FallbackUsed,
		FinalQuality: level,
	}, nil
}

// monitorHandle pairs a running monitor with its cancel plumbing.
type monitorHandle struct {
	monitor *quality.Monitor
	cancel  context.CancelFunc
	final   quality.Level
}

func (h *monitorHandle) stop() {
	h.cancel()
	h.monitor.Wait()
	h.final = h.monitor.Current()
}

func (p *Pipeline) startMonitor(ctx context.Context, logger *slog.Logger, plan *plan, req Request, jobID string) *monitorHandle {
	if req.DisableMonitor || !p.cfg.Monitor.Enabled {
		return nil
	}
	minLevel, err := quality.Parse(p.cfg.Monitor.MinQuality)
	if err != nil {
		minLevel = quality.Low
	}
	maxLevel, err := quality.Parse(p.cfg.Monitor.MaxQuality)
	if err != nil {
		maxLevel = quality.Ultra
	}

	monitorCtx, cancel := context.WithCancel(ctx)
	monitor := quality.NewMonitor(quality.MonitorOptions{
		Interval:  time.Duration(p.cfg.Monitor.IntervalSeconds) * time.Second,
		TargetFPS: float64(p.cfg.Monitor.TargetFPS),
		Initial:   plan.level,
		Min:       minLevel,
		Max:       maxLevel,
		Logger:    logger,
		OnChange: func(from, to quality.Level, measured float64) {
			if err := p.store.SetQuality(context.WithoutCancel(ctx), jobID, to.String()); err != nil {
				logger.Warn("failed to persist quality change", logging.Error(err))
			}
		},
	})
	go monitor.Run(monitorCtx)
	return &monitorHandle{monitor: monitor, cancel: cancel, final: plan.level}
}

func (p *Pipeline) extractFrames(ctx context.Context, logger *slog.Logger, plan *plan, ws *workspace.Workspace, jobID string, totalFrames int, monitor *monitorHandle) (render.ExtractResult, error) {
	if err := p.store.SetStatus(ctx, jobID, history.StatusExtracting); err != nil {
		return render.ExtractResult{}, err
	}

	bar := render.NewBar(totalFrames, "extracting frames")
	defer bar.Finish()
	sampler := logging.NewProgressSampler(10)

	runner := render.NewRunner(p.cfg.Tools.FFmpeg, logger)
	extractor := render.NewExtractor(runner, logger)
	result, err := extractor.Extract(ctx, render.ExtractRequest{
		Input:        plan.input,
		Mode:         plan.mode,
		Options:      plan.opts,
		FramePattern: ws.RawFramePattern(),
		OnFrame: func(frames int) {
			bar.Set(frames)
			if monitor != nil {
				monitor.monitor.ObserveFrames(int64(frames))
			}
			percent := percentOf(frames, totalFrames)
			if sampler.ShouldLog(percent, "extracting") {
				if err := p.store.UpdateProgress(ctx, jobID, "extracting frames", percent, frames); err != nil {
					logger.Warn("failed to persist progress", logging.Error(err))
				}
			}
		},
	})
	if err != nil {
		return render.ExtractResult{}, err
	}

	frames, err := workspace.ListFrames(ws.FramesRaw)
	if err != nil {
		return render.ExtractResult{}, err
	}
	if len(frames) == 0 {
		return render.ExtractResult{}, services.Wrap(services.ErrExternalTool, "extract frames", "validate",
			"ffmpeg exited cleanly but produced no frames", nil)
	}
	return result, nil
}

func (p *Pipeline) convertFrames(ctx context.Context, logger *slog.Logger, req Request, ws *workspace.Workspace, jobID string) error {
	if err := p.store.SetStatus(ctx, jobID, history.StatusConverting); err != nil {
		return err
	}

	converter, err := ascii.NewConverter(p.cfg)
	if err != nil {
		return err
	}
	chain, err := ascii.NewChain(p.cfg, converter, ascii.Options{
		Glitch:   req.Glitch,
		HueShift: req.HueShift,
	}, logger)
	if err != nil {
		return err
	}

	sampler := logging.NewProgressSampler(10)
	var bar *render.Bar
	return chain.Process(ctx, ws, func(done, total int) {
		if bar == nil {
			bar = render.NewBar(total, "converting to character art")
		}
		bar.Set(done)
		if done == total {
			bar.Finish()
		}
		percent := percentOf(done, total)
		if sampler.ShouldLog(percent, "converting") {
			if err := p.store.UpdateProgress(ctx, jobID, "converting frames", percent, done); err != nil {
				logger.Warn("failed to persist progress", logging.Error(err))
			}
		}
	})
}

func (p *Pipeline) encodeAndMux(ctx context.Context, logger *slog.Logger, plan *plan, ws *workspace.Workspace, jobID, framePattern string, level quality.Level) (string, int64, error) {
	if err := p.store.SetStatus(ctx, jobID, history.StatusEncoding); err != nil {
		return "", 0, err
	}
	runner := render.NewRunner(p.cfg.Tools.FFmpeg, logger)

	silent := filepath.Join(ws.Root, "video_silent.mp4")
	if err := runner.Run(ctx, "encode video", render.EncodeArgs(framePattern, plan.opts.FPS, level, silent), nil); err != nil {
		return "", 0, err
	}
	if err := workspace.ValidateOutput(silent); err != nil {
		return "", 0, err
	}

	muxed := filepath.Join(ws.Root, "muxed.mp4")
	if err := runner.Run(ctx, "mux audio", render.MuxArgs(silent, plan.input, muxed), nil); err != nil {
		return "", 0, err
	}
	if err := workspace.ValidateOutput(muxed); err != nil {
		return "", 0, err
	}

	if err := runner.Run(ctx, "optimize output", render.OptimizeArgs(muxed, plan.output), nil); err != nil {
		return "", 0, err
	}
	if err := workspace.ValidateOutput(plan.output); err != nil {
		return "", 0, err
	}

	info, err := os.Stat(plan.output)
	if err != nil {
		return "", 0, err
	}
	return plan.output, info.Size(), nil
}

// failJob records the failure even when ctx is already canceled.
func (p *Pipeline) failJob(jobID string, cause error) {
	message := cause.Error()
	if errors.Is(cause, services.ErrTimeout) || errors.Is(cause, context.Canceled) {
		message = history.StopReason
	}
	if err := p.store.MarkFailed(context.Background(), jobID, message); err != nil {
		p.logger.Error("failed to record job failure", logging.Error(err))
	}
}

func percentOf(done, total int) float64 {
	if total <= 0 {
		return 0
	}
	percent := float64(done) / float64(total) * 100
	if percent > 100 {
		percent = 100
	}
	return percent
}

func countFrames(ws *workspace.Workspace, asciiChain bool) int {
	dir := ws.FramesRaw
	if asciiChain {
		dir = ws.FramesColorized
	}
	frames, err := workspace.ListFrames(dir)
	if err != nil {
		return 0
	}
	return len(frames)
}
