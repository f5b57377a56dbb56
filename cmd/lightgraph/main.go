// Package main provides the lightgraph CLI
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/lightgraph/lightgraph/internal/app/mapping"
	"github.com/lightgraph/lightgraph/internal/app/services"
	"github.com/lightgraph/lightgraph/internal/app/usecases"
	"github.com/lightgraph/lightgraph/internal/core/easing"
	"github.com/lightgraph/lightgraph/internal/core/registry"
	"github.com/lightgraph/lightgraph/internal/core/types"
	"github.com/lightgraph/lightgraph/internal/infrastructure/config"
	"github.com/lightgraph/lightgraph/internal/nodes"
	"github.com/lightgraph/lightgraph/pkg/entities"
	"github.com/lightgraph/lightgraph/pkg/prebuilt"
	"github.com/lightgraph/lightgraph/pkg/serialization"
)

// Version information set during build
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

const usage = `lightgraph - lighting profile node graphs

Usage:
  lightgraph version
  lightgraph run [-data file.json] <script> [frames]
  lightgraph profile [-data file.json] <profile> [frames]
  lightgraph convert <in> <out>
  lightgraph new [-path p] [-paths a,b] [-limit n] [-type t] [-name n] <prebuilt> <out>
  lightgraph easings

Files are read and written by extension: .json, .yaml, .msgpack, .lgs (msgpack+zstd).
`

var errUsage = errors.New("invalid arguments")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stdout, usage)
		return 0
	}

	var err error
	switch args[0] {
	case "version":
		fmt.Fprintf(stdout, "lightgraph %s (commit: %s, built: %s)\n", Version, Commit, BuildTime)
	case "easings":
		for _, fn := range easing.Functions() {
			fmt.Fprintf(stdout, "%2d %s\n", int(fn), fn)
		}
	case "run":
		err = runScript(args[1:], stdout, stderr)
	case "profile":
		err = runProfile(args[1:], stdout, stderr)
	case "convert":
		err = convert(args[1:])
	case "new":
		err = newScript(args[1:], stderr)
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
	default:
		err = fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}

	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		if errors.Is(err, errUsage) {
			fmt.Fprint(stderr, usage)
			return 2
		}
		return 1
	}
	return 0
}

// env is what the run and profile commands share
type env struct {
	cfg    *config.Config
	logger *slog.Logger
	mapper *mapping.ScriptMapper
	data   *services.DataContext
	frames int
	path   string
}

func newEnv(name string, args []string, stderr io.Writer) (*env, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	dataPath := fs.String("data", "", "JSON file with the initial data model")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %w", errUsage, err)
	}
	if fs.NArg() < 1 {
		return nil, fmt.Errorf("%w: %s needs a file", errUsage, name)
	}

	e := &env{path: fs.Arg(0), frames: 10}
	if fs.NArg() > 1 {
		n, err := strconv.Atoi(fs.Arg(1))
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%w: frames must be a positive number", errUsage)
		}
		e.frames = n
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	e.cfg = cfg
	e.logger = cfg.Log.NewLogger(stderr)

	r := registry.New()
	if err := nodes.RegisterBuiltins(r); err != nil {
		return nil, err
	}
	e.mapper = mapping.NewScriptMapper(r, e.logger)

	initial := map[string]any{}
	if *dataPath != "" {
		raw, err := os.ReadFile(*dataPath)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &initial); err != nil {
			return nil, fmt.Errorf("parse %s: %w", *dataPath, err)
		}
	}
	e.data = services.NewDataContext(initial)
	return e, nil
}

// advance moves the data model clock one frame forward
func (e *env) advance(frame int, delta time.Duration) {
	e.data.Set("Time.Frame", frame)
	e.data.Set("Time.Elapsed", (time.Duration(frame) * delta).Seconds())
}

func runScript(args []string, stdout, stderr io.Writer) error {
	e, err := newEnv("run", args, stderr)
	if err != nil {
		return err
	}
	var se entities.NodeScriptEntity
	if err := readFile(e.path, &se); err != nil {
		return err
	}
	script, warnings, err := e.mapper.FromEntity(&se, "", e.data)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		e.logger.Warn("script loaded with warnings", "error", w)
	}

	runner := usecases.NewScriptRunner(e.logger)
	delta := e.cfg.Host.TickInterval()
	for i := 0; i < e.frames; i++ {
		e.advance(i, delta)
		res, err := runner.Run(script)
		if err != nil {
			fmt.Fprintf(stdout, "%d\terror: %v\n", i, err)
			continue
		}
		fmt.Fprintf(stdout, "%d\t%v\n", i, res.Value)
	}
	return nil
}

func runProfile(args []string, stdout, stderr io.Writer) error {
	e, err := newEnv("profile", args, stderr)
	if err != nil {
		return err
	}
	var pe entities.ProfileEntity
	if err := readFile(e.path, &pe); err != nil {
		return err
	}
	profile, _, err := usecases.NewProfileLoader(e.mapper, nil, e.logger).Load(&pe, e.data)
	if err != nil {
		return err
	}

	host := usecases.NewHost(usecases.HostConfig{FrameBuffer: e.cfg.Host.FrameBuffer, Workers: e.cfg.Host.Workers}, e.logger)
	defer host.Close()
	if err := host.AddProfile(profile); err != nil {
		return err
	}

	ctx := context.Background()
	enc := json.NewEncoder(stdout)
	delta := e.cfg.Host.TickInterval()
	for i := 0; i < e.frames; i++ {
		e.advance(i, delta)
		if !host.Tick(delta) {
			continue
		}
		f, err := host.Frames().Receive(ctx)
		if err != nil {
			return err
		}
		if err := enc.Encode(f); err != nil {
			return err
		}
	}
	return nil
}

// newScript writes one of the prebuilt scripts to a file
func newScript(args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("new", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cfg := prebuilt.Config{}
	fs.StringVar(&cfg.Name, "name", "", "script name")
	fs.StringVar(&cfg.Path, "path", "", "data model path")
	paths := fs.String("paths", "", "comma separated data model paths")
	fs.Float64Var(&cfg.Limit, "limit", 0, "threshold limit")
	resultType := fs.String("type", "", "result type of value scripts")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("%w: new needs <prebuilt> <out>, prebuilts: %s", errUsage, strings.Join(prebuilt.DefaultRegistry.Names(), ", "))
	}
	if *paths != "" {
		cfg.Paths = strings.Split(*paths, ",")
	}
	if *resultType != "" {
		t, err := types.Parse(*resultType)
		if err != nil {
			return fmt.Errorf("%w: %w", errUsage, err)
		}
		cfg.ResultType = t
	}

	kinds := registry.New()
	if err := nodes.RegisterBuiltins(kinds); err != nil {
		return err
	}
	s, err := prebuilt.DefaultRegistry.Build(fs.Arg(0), kinds, cfg)
	if errors.Is(err, prebuilt.ErrUnknownPrebuilt) || errors.Is(err, prebuilt.ErrMissingPath) {
		return fmt.Errorf("%w: %w", errUsage, err)
	}
	if err != nil {
		return err
	}
	e, err := mapping.NewScriptMapper(kinds, nil).ToEntity(s)
	if err != nil {
		return err
	}
	return writeFile(fs.Arg(1), e)
}

// convert re-encodes a script or profile between formats
func convert(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: convert needs <in> <out>", errUsage)
	}
	var doc map[string]any
	if err := readFile(args[0], &doc); err != nil {
		return err
	}
	if _, isProfile := doc["Layers"]; isProfile {
		var pe entities.ProfileEntity
		if err := readFile(args[0], &pe); err != nil {
			return err
		}
		return writeFile(args[1], pe)
	}
	var se entities.NodeScriptEntity
	if err := readFile(args[0], &se); err != nil {
		return err
	}
	return writeFile(args[1], se)
}

func readFile(path string, v any) error {
	s, err := serialization.ForPath(path)
	if err != nil {
		return err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := s.Deserialize(raw, v); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return nil
}

func writeFile(path string, v any) error {
	s, err := serialization.ForPath(path)
	if err != nil {
		return err
	}
	raw, err := s.Serialize(v)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return os.WriteFile(path, raw, 0o644)
}
