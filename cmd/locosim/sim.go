package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/vrlocomotion/arc"
	"github.com/milk9111/vrlocomotion/ecs/system"
	"github.com/milk9111/vrlocomotion/prefabs"
	"github.com/milk9111/vrlocomotion/rig"
	"github.com/milk9111/vrlocomotion/scenario"
	"github.com/milk9111/vrlocomotion/teleport"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type options struct {
	RunID   string
	Rig     string
	Scene   string
	Scripts []string
	Dt      float64
	Steps   int
	Watch   string
}

// record is one line of output.
type record struct {
	Run      string     `json:"run"`
	Script   string     `json:"script"`
	Step     int        `json:"step"`
	Time     float64    `json:"t"`
	Position [3]float64 `json:"pos"`
	Yaw      float64    `json:"yaw"`
	Speed    float64    `json:"speed"`
	Teleport string     `json:"teleport"`
	Progress float64    `json:"progress,omitempty"`
	Events   []string   `json:"events,omitempty"`
}

// recordWriter serializes records from concurrent runs.
type recordWriter struct {
	mu  sync.Mutex
	enc *json.Encoder
}

func newRecordWriter(w io.Writer) *recordWriter {
	return &recordWriter{enc: json.NewEncoder(w)}
}

func (w *recordWriter) Write(r record) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.enc.Encode(r)
}

// liveConfig holds the latest rig config; version bumps on every reload.
type liveConfig struct {
	cfg     atomic.Pointer[rig.Config]
	version atomic.Uint64
}

func (l *liveConfig) Store(cfg rig.Config) {
	l.cfg.Store(&cfg)
	l.version.Add(1)
}

func (l *liveConfig) Load() (rig.Config, uint64) {
	return *l.cfg.Load(), l.version.Load()
}

func run(ctx context.Context, opts options, out io.Writer, logger *zap.Logger) error {
	if len(opts.Scripts) == 0 {
		return errors.New("no scripts to run")
	}

	cfg, err := loadRig(opts.Rig)
	if err != nil {
		return err
	}
	scene, err := loadScene(opts.Scene)
	if err != nil {
		return err
	}
	world, err := scene.World()
	if err != nil {
		return err
	}
	logger.Info("scene loaded", zap.String("scene", scene.Name), zap.Int("shapes", world.Len()))

	live := &liveConfig{}
	live.Store(cfg)

	if opts.Watch != "" {
		watchCtx, stopWatch := context.WithCancel(ctx)
		defer stopWatch()
		if err := watchRig(watchCtx, opts.Watch, opts.Rig, live, logger); err != nil {
			return err
		}
	}

	sink := newRecordWriter(out)
	g, ctx := errgroup.WithContext(ctx)
	for _, name := range opts.Scripts {
		g.Go(func() error {
			return runScript(ctx, name, opts, live, world, sink, logger)
		})
	}
	return g.Wait()
}

func runScript(ctx context.Context, name string, opts options, live *liveConfig, prober arc.Prober, sink *recordWriter, logger *zap.Logger) error {
	logger = logger.With(zap.String("script", name))

	script, err := scenario.Load(name)
	if err != nil {
		return fmt.Errorf("script %s: %w", name, err)
	}
	cfg, version := live.Load()
	r, err := rig.New(cfg, prober, logger)
	if err != nil {
		return fmt.Errorf("script %s: %w", name, err)
	}

	n, err := scenario.Run(ctx, script, r, opts.Dt, opts.Steps, func(st scenario.Step) error {
		if err := sink.Write(newRecord(opts.RunID, name, st)); err != nil {
			return err
		}
		if next, v := live.Load(); v != version {
			version = v
			if err := r.Reconfigure(next); err != nil {
				logger.Warn("reconfigure rejected", zap.Error(err))
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("script %s: %w", name, err)
	}

	body := r.Body().Position
	logger.Info("script finished",
		zap.Int("steps", n),
		zap.Float64s("body", body[:]),
		zap.String("teleport_disabled", r.TeleportDisabled()),
		zap.String("locomotion_disabled", r.LocomotionDisabled()),
	)
	return nil
}

func newRecord(runID, script string, st scenario.Step) record {
	out := st.Output
	rec := record{
		Run:      runID,
		Script:   script,
		Step:     st.Step,
		Time:     st.Time,
		Position: [3]float64(out.Body.Position),
		Yaw:      mgl64.RadToDeg(out.Body.Yaw()),
		Speed:    out.Speed,
		Teleport: out.Teleport.State,
		Progress: out.Teleport.Progress,
	}
	for _, e := range out.Events {
		name := string(e.Type)
		if e.Type == system.EventTeleport {
			if te, ok := e.Data.(teleport.Event); ok {
				name = string(te.Kind)
			}
		}
		rec.Events = append(rec.Events, name)
	}
	return rec
}

// loadRig reads a rig from a file when name is an existing path, otherwise
// from the prefabs.
func loadRig(name string) (rig.Config, error) {
	var spec prefabs.RigSpec
	var err error
	if isFile(name) {
		spec, err = prefabs.LoadFile[prefabs.RigSpec](name)
	} else {
		spec, err = prefabs.LoadRigSpec(name)
	}
	if err != nil {
		return rig.Config{}, err
	}
	return spec.Config()
}

func loadScene(name string) (prefabs.SceneSpec, error) {
	if isFile(name) {
		return prefabs.LoadFile[prefabs.SceneSpec](name)
	}
	return prefabs.LoadSceneSpec(name)
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// watchRig reloads the rig whenever a file with the rig's base name changes
// under dir. Bad edits are logged and the previous config stays live.
func watchRig(ctx context.Context, dir, rigName string, live *liveConfig, logger *zap.Logger) error {
	w, err := prefabs.NewWatcher(dir)
	if err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	base := filepath.Base(rigName)

	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Warn("watch error", zap.Error(err))
			case path, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Base(path) != base {
					continue
				}
				cfg, err := loadRig(path)
				if err != nil {
					logger.Warn("rig reload failed", zap.String("path", path), zap.Error(err))
					continue
				}
				live.Store(cfg)
				logger.Info("rig reloaded", zap.String("path", path))
			}
		}
	}()
	return nil
}
