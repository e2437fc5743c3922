package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdstream/internal/configloader"
	"github.com/yaklabco/mdstream/internal/logging"
	"github.com/yaklabco/mdstream/pkg/config"
	goldmarkparser "github.com/yaklabco/mdstream/pkg/parser/goldmark"
	"github.com/yaklabco/mdstream/pkg/stream"
)

// loadConfig merges file, environment, and CLI configuration for a command.
func loadConfig(cmd *cobra.Command, cliCfg *config.Config) (*config.Config, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return nil, errors.Join(errors.New("failed to load configuration"), err)
	}

	logger := logging.FromContext(ctx)
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", logging.FieldPath, loadResult.LoadedFrom)
	}
	logger.Debug("configuration loaded",
		logging.FieldFlavor, loadResult.Config.Flavor,
		logging.FieldChunkSize, loadResult.Config.ChunkSize,
		logging.FieldFormat, loadResult.Config.Format,
	)

	return loadResult.Config, nil
}

// readInput reads the whole document from the named file, or stdin when no
// path is given.
func readInput(args []string) (string, error) {
	if len(args) > 0 && args[0] != "-" {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return string(content), nil
	}

	content, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(content), nil
}

// newSplitter wires a splitter from the resolved configuration.
func newSplitter(cfg *config.Config) *stream.Splitter {
	parser := goldmarkparser.New(string(cfg.Flavor))
	return stream.NewSplitter(
		stream.WithParser(parser),
		stream.WithObserver(&stream.Observer{Logger: logging.Default()}),
		stream.WithLanguageDetection(cfg.LanguageDetection()),
	)
}

// replay feeds the document through the splitter chunkSize bytes at a time,
// calling visit after each call with the previous and current registry
// versions. A positive jitter widens each chunk by a random 0..jitter bytes;
// splitting is chunk-invariant, so the result is unaffected. It finishes with
// a forced finalize of any in-progress block.
func replay(
	ctx context.Context,
	splitter *stream.Splitter,
	doc string,
	chunkSize, jitter int,
	visit func(prev, cur *stream.Registry),
) *stream.Registry {
	if chunkSize <= 0 {
		chunkSize = len(doc)
	}

	reg := stream.NewRegistry()
	for offset := 0; offset < len(doc); {
		size := chunkSize
		if jitter > 0 {
			size += rand.IntN(jitter + 1)
		}
		end := offset + size
		if end > len(doc) {
			end = len(doc)
		}
		prev := reg
		reg = splitter.Process(ctx, reg, doc[:end])
		if visit != nil {
			visit(prev, reg)
		}
		offset = end
	}

	prev := reg
	reg = splitter.Finalize(ctx, reg)
	if visit != nil && reg != prev {
		visit(prev, reg)
	}
	return reg
}
