package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"git.home.luguber.info/inful/docsplice/internal/logfields"
)

var envFiles = []string{".env", ".env.local"}

// loadEnvFiles loads KEY=VALUE files from the working directory. Variables already
// set in the process environment win.
func loadEnvFiles() []string {
	var loaded []string
	for _, name := range envFiles {
		if _, err := os.Stat(name); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			slog.Warn("Failed to load env file", logfields.File(name), logfields.Error(err))
			continue
		}
		slog.Debug("Loaded environment variables", logfields.File(name))
		loaded = append(loaded, name)
	}
	return loaded
}
