// Command vvmesh evaluates mesh scripts and writes every emitted mesh as a
// binary STL file.
//
//	vvmesh [-config vvmesh.toml] [-out dir] script.vvl...
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/chazu/vvmesh/pkg/config"
	"github.com/chazu/vvmesh/pkg/session"
	"github.com/plan-systems/klog"
)

func main() {
	fset := flag.NewFlagSet("", flag.ContinueOnError)
	klog.InitFlags(fset)
	fset.Set("logtostderr", "true")
	klog.SetFormatter(&klog.FmtConstWidth{
		FileNameCharWidth: 16,
		UseColor:          true,
	})

	configPath := flag.String("config", "", "TOML configuration file")
	outDir := flag.String("out", ".", "directory the STL files are written to")
	verbosity := flag.String("v", "0", "log verbosity")
	flag.Parse()
	fset.Set("v", *verbosity)

	err := run(*configPath, *outDir, flag.Args())
	klog.Flush()
	if err != nil {
		fmt.Fprintln(os.Stderr, "vvmesh:", err)
		os.Exit(1)
	}
}

func run(configPath, outDir string, scripts []string) error {
	if len(scripts) == 0 {
		return fmt.Errorf("no scripts given")
	}

	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return err
		}
	}

	s := session.New(cfg)
	for _, path := range scripts {
		source, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		written, err := s.ExportSTL(string(source), outDir)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		for _, w := range written {
			klog.Infof("%s: wrote %s", path, w)
		}
	}
	return nil
}
