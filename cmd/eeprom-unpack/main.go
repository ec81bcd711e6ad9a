// Command eeprom-unpack restores the files stored by eeprom-pack.
//
// It reads the file index, verifies each file's checksum and writes the
// file to the output directory. Files that fail to read or verify are
// reported and skipped. The exit status is non-zero when no file was restored.
//
// Usage:
//
//	eeprom-unpack [flags]
//
// Flags:
//
//	-config string     YAML device profile
//	-transport string  Transport identifier, overrides the profile
//	-out string        Output directory (default "out")
//	-log-level string  Log level, overrides the profile
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/arloliu/go-eeprom/eeprom"
	"github.com/arloliu/go-eeprom/fileindex"
	"github.com/arloliu/go-eeprom/internal/cliconfig"
	"github.com/arloliu/go-eeprom/logger"
)

var (
	configFile = flag.String("config", "", "YAML device profile")
	transport  = flag.String("transport", "", "Transport identifier, overrides the profile")
	outputDir  = flag.String("out", "out", "Output directory")
	logLevel   = flag.String("log-level", "", "Log level, overrides the profile")
)

// unpack restores every indexed file into outDir and returns how many were
// restored and how many the index lists.
func unpack(dev *eeprom.Device, outDir string, log logger.Logger) (int, int, error) {
	idx, err := fileindex.Load(dev)
	if err != nil {
		return 0, 0, fmt.Errorf("load index: %w", err)
	}
	log.Info("index loaded", "version", fileindex.Version, "files", len(idx.Records))

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return 0, len(idx.Records), fmt.Errorf("create output directory: %w", err)
	}

	restored := 0
	for _, rec := range idx.Records {
		l := log.With("name", rec.Name, "addr", fmt.Sprintf("0x%04X", rec.Addr), "size", rec.Size)

		data, err := fileindex.Extract(dev, rec)
		if err != nil {
			l.Error("failed to restore file", "kind", eeprom.StrError(eeprom.CodeOf(err)), "error", err)
			continue
		}

		path := filepath.Join(outDir, rec.Name)
		if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec
			l.Error("failed to write output file", "path", path, "error", err)
			continue
		}

		restored++
		l.Info("file restored", "path", path, "checksum", fmt.Sprintf("0x%02X", rec.Checksum))
	}

	return restored, len(idx.Records), nil
}

func main() {
	flag.Parse()

	prof, err := cliconfig.Load(*configFile)
	if err != nil {
		logger.Fatal("failed to load profile", "error", err)
	}
	if *transport != "" {
		prof.Transport = *transport
	}
	if *logLevel != "" {
		prof.LogLevel = *logLevel
	}
	log := logger.NewSlog(prof.Level(), false)

	dev, err := prof.Open(log)
	if err != nil {
		log.Fatal("failed to open device", "kind", eeprom.StrError(eeprom.CodeOf(err)), "error", err)
	}

	restored, total, err := unpack(dev, *outputDir, log)
	_ = dev.Close()
	if err != nil {
		log.Fatal("unpack failed", "kind", eeprom.StrError(eeprom.CodeOf(err)), "error", err)
	}

	log.Info("unpack finished", "restored", restored, "total", total)
	if restored == 0 {
		os.Exit(1)
	}
}
