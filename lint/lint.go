// Package lint is the public entry point for driving the vlin engine
// over files, directories and in-memory sources.
package lint

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/veridian-labs/vlin/internal"
	"github.com/veridian-labs/vlin/internal/types"
)

// LintEngine is the engine surface this package drives.
type LintEngine interface {
	Run(filePath string) ([]types.Issue, error)
	RunSource(source []byte) ([]types.Issue, error)
	IgnoreRule(rule string)
	IgnorePath(path string)
}

// Config represents the overall configuration with a name and a map of
// per-rule settings.
type Config struct {
	Name  string                      `yaml:"name"`
	Rules map[string]types.ConfigRule `yaml:"rules"`
}

// New builds an engine from an optional YAML configuration file. An empty
// path yields an engine with every rule at its defaults.
func New(configurationPath string) (*internal.Engine, error) {
	config, err := ParseConfigurationFile(configurationPath)
	if err != nil {
		return nil, err
	}
	return internal.NewEngine(config.Rules)
}

// NewWithCache is New plus a result cache stored in cacheDir.
func NewWithCache(configurationPath, cacheDir string, maxAge time.Duration) (*internal.Engine, error) {
	engine, err := New(configurationPath)
	if err != nil {
		return nil, err
	}
	cache, err := internal.NewCache(cacheDir, maxAge)
	if err != nil {
		return nil, err
	}
	engine.SetCache(cache)
	return engine, nil
}

// ParseConfigurationFile reads and decodes a YAML configuration file.
// An empty path returns the zero Config.
func ParseConfigurationFile(configurationPath string) (Config, error) {
	var config Config
	if configurationPath == "" {
		return config, nil
	}

	f, err := os.Open(configurationPath)
	if err != nil {
		return config, err
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(&config); err != nil {
		return config, fmt.Errorf("error parsing configuration: %w", err)
	}

	return config, nil
}

// ProcessSources lints a batch of in-memory sources.
func ProcessSources(
	ctx context.Context,
	logger *zap.Logger,
	engine LintEngine,
	sources [][]byte,
) ([]types.Issue, error) {
	var allIssues []types.Issue
	for i, source := range sources {
		issues, err := engine.RunSource(source)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing source", zap.Int("source", i), zap.Error(err))
			}
			return nil, err
		}
		allIssues = append(allIssues, issues...)
	}

	return allIssues, nil
}

// ProcessFiles lints every given path, recursing into directories.
func ProcessFiles(
	ctx context.Context,
	logger *zap.Logger,
	engine LintEngine,
	paths []string,
) ([]types.Issue, error) {
	var allIssues []types.Issue
	for _, path := range paths {
		issues, err := ProcessPath(ctx, logger, engine, path)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing path", zap.String("path", path), zap.Error(err))
			}
			return nil, err
		}
		allIssues = append(allIssues, issues...)
	}

	return allIssues, nil
}

// ProcessPath lints one path. Directories are walked for Verilog sources
// and linted concurrently with a bounded worker pool.
func ProcessPath(
	ctx context.Context,
	logger *zap.Logger,
	engine LintEngine,
	path string,
) ([]types.Issue, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing %s: %w", path, err)
	}

	if !info.IsDir() {
		if !hasDesiredExtension(path) {
			return nil, nil
		}
		return engine.Run(path)
	}

	var files []string
	err = filepath.Walk(path, func(filePath string, fileInfo os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !fileInfo.IsDir() && hasDesiredExtension(filePath) {
			files = append(files, filePath)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking directory %s: %w", path, err)
	}

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetDescription(path),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))

	// limit the number of workers
	maxWorkers := runtime.NumCPU()
	sem := make(chan struct{}, maxWorkers)

	resultChan := make(chan []types.Issue, len(files))
	errorChan := make(chan error, len(files))

	for _, filePath := range files {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
			sem <- struct{}{}
			go func(fp string) {
				defer func() { <-sem }()

				fileIssues, err := engine.Run(fp)
				if err != nil {
					if logger != nil {
						logger.Error("Error processing file", zap.String("file", fp), zap.Error(err))
					}
					errorChan <- err
					resultChan <- nil
				} else {
					resultChan <- fileIssues
					errorChan <- nil
				}
				_ = bar.Add(1)
			}(filePath)
		}
	}

	var issues []types.Issue
	for range files {
		if err := <-errorChan; err != nil {
			continue
		}
		if result := <-resultChan; result != nil {
			issues = append(issues, result...)
		}
	}

	fmt.Println()
	return issues, nil
}

var desiredExtensions = map[string]bool{
	".sv":  true,
	".svh": true,
	".v":   true,
	".vh":  true,
}

func hasDesiredExtension(path string) bool {
	return desiredExtensions[filepath.Ext(path)]
}
