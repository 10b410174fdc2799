package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"

	"github.com/clinicware/go-clinic-console/api"
	"github.com/clinicware/go-clinic-console/internal/config"
	"github.com/clinicware/go-clinic-console/session/filestore"
	"github.com/clinicware/go-clinic-console/tui"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error running clinic console: %s\n", err)
	}
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.Load()
	displayAppname(c.GetAppName())

	logger, closeLog, err := newLogger(c)
	if err != nil {
		return fmt.Errorf("newLogger: %w", err)
	}
	defer closeLog()

	store, err := filestore.New(c.GetDataFolder())
	if err != nil {
		return fmt.Errorf("filestore.New: %w", err)
	}

	client := api.New(c, store, logger)
	program := tea.NewProgram(tui.NewModel(client, logger), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("program.Run: %w", err)
	}
	return nil
}

// newLogger writes to a file in the data folder; the TUI owns the
// terminal, so stderr is not an option while the program runs.
func newLogger(c config.Config) (zerolog.Logger, func(), error) {
	if err := os.MkdirAll(c.GetDataFolder(), 0o700); err != nil {
		return zerolog.Nop(), nil, err
	}
	path := filepath.Join(c.GetDataFolder(), "clinic-console.log")
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return zerolog.Nop(), nil, err
	}
	level := zerolog.InfoLevel
	if c.GetEnv() == "DEV" {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(file).Level(level).With().Timestamp().Logger()
	return logger, func() { _ = file.Close() }, nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
