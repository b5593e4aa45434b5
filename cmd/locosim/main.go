// Command locosim runs scripted tracking sessions through a locomotion rig
// and writes one JSON record per tick.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"

	"github.com/google/uuid"
	"github.com/milk9111/vrlocomotion/logging"
	"go.uber.org/zap"
)

func main() {
	rigName := flag.String("rig", "locomotion.yaml", "rig prefab name or path to a rig YAML file")
	sceneName := flag.String("scene", "scene_flat.yaml", "scene prefab name or path to a scene YAML file")
	scripts := flag.String("scripts", "walk_forward,teleport_hop", "comma-separated scenario scripts, one rig each")
	dt := flag.Float64("dt", 1.0/72.0, "tick length in seconds")
	steps := flag.Int("steps", 5000, "tick limit per script (0 runs until the script is done)")
	level := flag.String("log-level", "info", "log level (debug, info, warn, error)")
	console := flag.Bool("log-console", false, "human-readable logs instead of JSON")
	watch := flag.String("watch", "", "directory to watch for rig edits; changes are applied between ticks")
	out := flag.String("out", "", "output file for tick records (default stdout)")
	flag.Parse()

	logger, err := logging.New(*level, *console)
	if err != nil {
		os.Stderr.WriteString("locosim: " + err.Error() + "\n")
		os.Exit(2)
	}
	defer func() { _ = logger.Sync() }()

	opts := options{
		RunID:   uuid.NewString(),
		Rig:     *rigName,
		Scene:   *sceneName,
		Scripts: splitList(*scripts),
		Dt:      *dt,
		Steps:   *steps,
		Watch:   *watch,
	}
	logger = logger.With(zap.String("run", opts.RunID))

	sink := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			logger.Fatal("open output", zap.Error(err))
		}
		defer f.Close()
		sink = f
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts, sink, logger); err != nil {
		logger.Error("locosim failed", zap.Error(err))
		os.Exit(1)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
