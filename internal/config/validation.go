package config

import (
	"path/filepath"
	"strings"
	"time"

	ferrors "git.home.luguber.info/inful/docsplice/internal/foundation/errors"
	"git.home.luguber.info/inful/docsplice/internal/observability"
	"git.home.luguber.info/inful/docsplice/internal/splice"
)

// Validate checks a defaulted configuration.
func Validate(cfg *Config) error {
	if _, err := splice.ParseKind(cfg.Strategy); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryValidation, "invalid strategy").
			WithContext("accepted", strings.Join(splice.KindNames(), ", ")).
			Build()
	}
	if _, err := observability.ParseLevel(cfg.Logging.Level); err != nil {
		return invalid("logging.level", err)
	}
	if _, err := observability.ParseFormat(cfg.Logging.Format); err != nil {
		return invalid("logging.format", err)
	}
	if d, err := time.ParseDuration(cfg.Watch.Debounce); err != nil || d < 0 {
		return ferrors.ValidationError("watch.debounce must be a non-negative duration").
			WithContext("value", cfg.Watch.Debounce).
			Build()
	}
	if err := validatePaths(cfg.Paths); err != nil {
		return err
	}
	if _, err := cfg.MarkerSet(); err != nil {
		return invalid("markers", err)
	}
	return nil
}

func validatePaths(p PathsConfig) error {
	source := filepath.Clean(p.Source)
	output := filepath.Clean(p.Output)
	if source == output {
		return ferrors.ValidationError("paths.source and paths.output must differ").
			WithContext("path", source).
			Build()
	}
	if p.StagingDir != "" {
		staging := filepath.Clean(p.StagingDir)
		if staging == source || staging == output {
			return ferrors.ValidationError("paths.staging_dir must differ from source and output").
				WithContext("path", staging).
				Build()
		}
	}
	return nil
}

func invalid(field string, err error) error {
	return ferrors.WrapError(err, ferrors.CategoryValidation, "invalid "+field).Build()
}
