// Selene CLI - inspect compiled chunks, the chunk cache, and project
// configuration. Compilation itself is driven by the embedding host; this
// tool works with the artifacts it produces.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tliron/commonlog"

	"github.com/selene-lang/selene/config"
	"github.com/selene-lang/selene/pkg/cache"
	"github.com/selene-lang/selene/pkg/wire"

	_ "github.com/tliron/commonlog/simple"
)

func main() {
	verbose := flag.Bool("v", false, "Verbose output")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: selene [options] <command> [args]\n\n")
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  dis <file>     Disassemble a serialized chunk\n")
		fmt.Fprintf(os.Stderr, "  cache stat     Show chunk cache statistics\n")
		fmt.Fprintf(os.Stderr, "  cache clear    Remove all cached chunks\n")
		fmt.Fprintf(os.Stderr, "  config         Print the effective configuration\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	verbosity := 0
	if *verbose {
		verbosity = 2
	}
	commonlog.Configure(verbosity, nil)

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	var err error
	switch args[0] {
	case "dis":
		err = runDis(args[1:])
	case "cache":
		err = runCache(args[1:])
	case "config":
		err = runConfig()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", args[0])
		flag.Usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runDis(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("dis expects exactly one chunk file")
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	proto, err := wire.Unmarshal(data)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", args[0], err)
	}

	fmt.Print(proto.Disassemble())
	return nil
}

func runCache(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("cache expects 'stat' or 'clear'")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.Cache.Enabled {
		return fmt.Errorf("chunk cache is disabled in configuration")
	}

	c, err := cache.Open(cfg.Cache.Path)
	if err != nil {
		return err
	}
	defer c.Close()

	switch args[0] {
	case "stat":
		entries, size, err := c.Stat()
		if err != nil {
			return err
		}
		fmt.Printf("cache: %s\n", cfg.Cache.Path)
		fmt.Printf("chunks: %d (%d bytes)\n", entries, size)
		return nil
	case "clear":
		return c.Clear()
	default:
		return fmt.Errorf("cache expects 'stat' or 'clear', got %q", args[0])
	}
}

func runConfig() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if cfg.Dir != "" {
		fmt.Printf("project: %s\n", cfg.Dir)
	} else {
		fmt.Println("project: (defaults, no selene.toml found)")
	}
	fmt.Printf("gc.young-threshold:  %d\n", cfg.GC.YoungThreshold)
	fmt.Printf("gc.middle-threshold: %d\n", cfg.GC.MiddleThreshold)
	fmt.Printf("gc.old-threshold:    %d\n", cfg.GC.OldThreshold)
	fmt.Printf("gc.threshold-floor:  %d\n", cfg.GC.ThresholdFloor)
	fmt.Printf("cache.enabled:       %t\n", cfg.Cache.Enabled)
	fmt.Printf("cache.path:          %s\n", cfg.Cache.Path)
	return nil
}

func loadConfig() (*config.Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	cfg, err := config.FindAndLoad(cwd)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = config.Default()
	}
	return cfg, nil
}
