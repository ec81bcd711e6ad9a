// Command eeprom-pack stores the *.dat files of a directory in an EEPROM
// behind a file index, for eeprom-unpack to restore.
//
// Usage:
//
//	eeprom-pack [flags]
//
// Flags:
//
//	-config string     YAML device profile
//	-transport string  Transport identifier, overrides the profile
//	-dir string        Directory to pack (default "camera_parameters")
//	-erase             Erase the whole device before writing
//	-log-level string  Log level, overrides the profile
//
// Examples:
//
//	# Pack camera_parameters into the default device
//	eeprom-pack
//
//	# Erase first, using a board profile
//	eeprom-pack -config /etc/eeprom/board.yaml -erase
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/arloliu/go-eeprom/eeprom"
	"github.com/arloliu/go-eeprom/fileindex"
	"github.com/arloliu/go-eeprom/internal/cliconfig"
	"github.com/arloliu/go-eeprom/logger"
)

var (
	configFile = flag.String("config", "", "YAML device profile")
	transport  = flag.String("transport", "", "Transport identifier, overrides the profile")
	inputDir   = flag.String("dir", "camera_parameters", "Directory to pack")
	eraseFirst = flag.Bool("erase", false, "Erase the whole device before writing")
	logLevel   = flag.String("log-level", "", "Log level, overrides the profile")
)

// collectFiles returns the regular *.dat files of dir in name order.
func collectFiles(dir string, log logger.Logger) ([]fileindex.File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}

	var files []fileindex.File
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(name, ".dat") {
			continue
		}

		path := filepath.Join(dir, name)
		st, err := os.Stat(path)
		if err != nil || !st.Mode().IsRegular() {
			log.Debug("skip non-regular entry", "path", path)
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		files = append(files, fileindex.File{Name: name, Data: data})
	}

	return files, nil
}

// pack writes files and their index to dev. It stops at the first device error.
func pack(dev *eeprom.Device, files []fileindex.File, erase bool, log logger.Logger) (*fileindex.Index, error) {
	info, err := dev.Info()
	if err != nil {
		return nil, err
	}

	idx, err := fileindex.Plan(files, info.PageSize(), info.TotalSize())
	if err != nil {
		return nil, err
	}

	if erase {
		log.Info("erasing device", "size", info.TotalSize())
		if err := dev.EraseAll(); err != nil {
			return nil, fmt.Errorf("erase: %w", err)
		}
	}

	for i, rec := range idx.Records {
		log.Info("writing file", "name", rec.Name, "size", rec.Size, "addr", fmt.Sprintf("0x%04X", rec.Addr))
		if err := fileindex.WriteFile(dev, rec, files[i].Data); err != nil {
			return nil, err
		}
	}

	if err := fileindex.WriteIndex(dev, idx); err != nil {
		return nil, err
	}

	return idx, nil
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

	files, err := collectFiles(*inputDir, log)
	if err != nil {
		log.Fatal("failed to collect files", "dir", *inputDir, "error", err)
	}
	if len(files) == 0 {
		log.Fatal("no .dat files to pack", "dir", *inputDir)
	}

	dev, err := prof.Open(log)
	if err != nil {
		log.Fatal("failed to open device", "kind", eeprom.StrError(eeprom.CodeOf(err)), "error", err)
	}

	idx, err := pack(dev, files, *eraseFirst, log)
	_ = dev.Close()
	if err != nil {
		log.Fatal("pack failed", "kind", eeprom.StrError(eeprom.CodeOf(err)), "error", err)
	}

	last := fileindex.DataStart(prof.PageSize) + idx.TotalSize()
	log.Info("pack finished",
		"files", len(idx.Records),
		"bytes", idx.TotalSize(),
		"dataRange", fmt.Sprintf("0x%04X-0x%04X", fileindex.DataStart(prof.PageSize), last),
	)
}
