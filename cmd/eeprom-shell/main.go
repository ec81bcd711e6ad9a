// Command eeprom-shell is an interactive shell for inspecting and editing an EEPROM.
//
// Usage:
//
//	eeprom-shell [flags]
//
// Flags:
//
//	-config string     YAML device profile
//	-transport string  Transport identifier, overrides the profile
//	-log-level string  Log level, overrides the profile
//
// Type "help" at the prompt for the command list.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"github.com/arloliu/go-eeprom/eeprom"
	"github.com/arloliu/go-eeprom/internal/cliconfig"
	"github.com/arloliu/go-eeprom/logger"
)

var (
	configFile = flag.String("config", "", "YAML device profile")
	transport  = flag.String("transport", "", "Transport identifier, overrides the profile")
	logLevel   = flag.String("log-level", "", "Log level, overrides the profile")
)

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

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "eeprom> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		logger.Fatal("failed to create readline", "error", err)
	}
	defer rl.Close()

	// log lines go through readline so they don't tear the prompt
	log := logger.NewSlogWithWriter(rl.Stdout(), prof.Level(), false)

	dev, err := prof.Open(log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open device: %s: %v\n", eeprom.StrError(eeprom.CodeOf(err)), err)
		_ = rl.Close()
		os.Exit(1)
	}
	defer dev.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sh := newShell(dev, rl.Stdout())
	fmt.Fprintf(rl.Stdout(), "Connected to %s\n", prof.Transport)
	sh.printHelp()

	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			fmt.Fprintln(rl.Stdout(), "Exiting...")

			return
		}

		if sh.exec(ctx, strings.TrimSpace(line)) {
			fmt.Fprintln(rl.Stdout(), "Exiting...")

			return
		}
	}
}
