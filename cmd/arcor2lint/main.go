// Command arcor2lint loads a scene+project pair, runs every structural and
// behavioral check this module implements, and either reports every
// problem found or emits the Python script pair PyEmit produces.
//
// # Configuration
//
// arcor2lint reads a YAML config file, located via the ARCOR2LINT_CONFIG
// environment variable or the -config flag (default: "arcor2lint.yaml"):
//
//	scene: path/to/scene.json
//	project: path/to/project.json
//	defaultActionPoint: ap1
//	emit: true
//	outDir: ./out
//	enums:
//	  - kind: integer_enum
//	    allowedInts: [0, 1, 2]
//	  - kind: string_enum
//	    allowedStrings: ["a", "b"]
//
// # Example
//
//	ARCOR2LINT_CONFIG=./arcor2lint.yaml go run ./cmd/arcor2lint
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/robofit/arcor2-core/cache"
	"github.com/robofit/arcor2-core/model"
	"github.com/robofit/arcor2-core/plugin"
	"github.com/robofit/arcor2-core/pyemit"
)

type enumConfig struct {
	Kind           string   `yaml:"kind"`
	AllowedInts    []int64  `yaml:"allowedInts,omitempty"`
	AllowedStrings []string `yaml:"allowedStrings,omitempty"`
}

type config struct {
	Scene              string       `yaml:"scene"`
	Project            string       `yaml:"project"`
	DefaultActionPoint string       `yaml:"defaultActionPoint"`
	Emit               bool         `yaml:"emit"`
	OutDir             string       `yaml:"outDir"`
	Enums              []enumConfig `yaml:"enums"`
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	configPath := flag.String("config", envOr("ARCOR2LINT_CONFIG", "arcor2lint.yaml"), "path to the arcor2lint YAML config file")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	scene, project, err := loadInputs(cfg)
	if err != nil {
		return fmt.Errorf("load inputs: %w", err)
	}

	registry := plugin.NewRegistry()
	if err := plugin.RegisterBuiltins(registry); err != nil {
		return fmt.Errorf("register plugins: %w", err)
	}
	for _, e := range cfg.Enums {
		switch e.Kind {
		case "integer_enum":
			if err := plugin.RegisterIntegerEnum(registry, e.AllowedInts); err != nil {
				return fmt.Errorf("register integer enum: %w", err)
			}
		case "string_enum":
			if err := plugin.RegisterStringEnum(registry, e.AllowedStrings); err != nil {
				return fmt.Errorf("register string enum: %w", err)
			}
		default:
			return fmt.Errorf("config: unknown enum kind %q", e.Kind)
		}
	}

	problems := lint(scene, project, registry)
	for _, p := range problems {
		fmt.Fprintln(os.Stderr, p.Error())
	}
	if len(problems) > 0 {
		return fmt.Errorf("%d problem(s) found", len(problems))
	}

	if !cfg.Emit {
		log.Println("no problems found")
		return nil
	}

	result, err := pyemit.Emit(scene, project, registry)
	if err != nil {
		return fmt.Errorf("emit: %w", err)
	}
	return writeOutputs(cfg.OutDir, result)
}

func loadConfig(path string) (config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return config{}, err
	}
	var cfg config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Scene == "" || cfg.Project == "" {
		return config{}, fmt.Errorf("%s: both scene and project paths are required", path)
	}
	if cfg.OutDir == "" {
		cfg.OutDir = "."
	}
	return cfg, nil
}

func loadInputs(cfg config) (*cache.Scene, *cache.Project, error) {
	var ms model.Scene
	if err := readJSON(cfg.Scene, &ms); err != nil {
		return nil, nil, fmt.Errorf("read scene: %w", err)
	}
	scene, err := cache.NewScene(ms)
	if err != nil {
		return nil, nil, fmt.Errorf("build scene cache: %w", err)
	}

	var mp model.Project
	if err := readJSON(cfg.Project, &mp); err != nil {
		return nil, nil, fmt.Errorf("read project: %w", err)
	}
	project, err := cache.NewProject(mp)
	if err != nil {
		return nil, nil, fmt.Errorf("build project cache: %w", err)
	}

	return scene, project, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func writeOutputs(outDir string, result pyemit.Result) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outDir, "main.py"), []byte(result.Script), 0o644); err != nil {
		return fmt.Errorf("write main.py: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outDir, "action_points.py"), []byte(result.ActionPoints), 0o644); err != nil {
		return fmt.Errorf("write action_points.py: %w", err)
	}
	log.Printf("wrote main.py and action_points.py to %s", outDir)
	return nil
}

func envOr(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
