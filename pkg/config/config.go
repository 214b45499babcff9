package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dskvich/imagegen/pkg/domain"
	"github.com/hashicorp/go-multierror"
	"github.com/samber/lo"
)

// Config holds the per-provider generation settings, keyed by provider.
type Config struct {
	OpenAI    OpenAIConfig
	Replicate ReplicateConfig
}

func (c *Config) Validate() error {
	var errs *multierror.Error

	if err := c.OpenAI.Validate(); err != nil {
		errs = multierror.Append(errs, fmt.Errorf("openai: %w", err))
	}
	if err := c.Replicate.Validate(); err != nil {
		errs = multierror.Append(errs, fmt.Errorf("replicate: %w", err))
	}

	return errs.ErrorOrNil()
}

type OpenAIConfig struct {
	Model   string
	Size    domain.ImageSize
	Quality domain.ImageQuality // optional
	Style   domain.ImageStyle   // optional
}

func (c OpenAIConfig) Validate() error {
	var errs *multierror.Error

	if c.Model == "" {
		errs = multierror.Append(errs, errors.New("model is required"))
	}
	if !lo.Contains(domain.KnownImageSizes, c.Size) {
		errs = multierror.Append(errs, fmt.Errorf("unsupported image size: %q", c.Size))
	}
	if c.Quality != "" && !lo.Contains(domain.KnownImageQualities, c.Quality) {
		errs = multierror.Append(errs, fmt.Errorf("unsupported image quality: %q", c.Quality))
	}
	if c.Style != "" && !lo.Contains(domain.KnownImageStyles, c.Style) {
		errs = multierror.Append(errs, fmt.Errorf("unsupported image style: %q", c.Style))
	}

	return errs.ErrorOrNil()
}

type ReplicateConfig struct {
	Model string // "owner/name" model identifier
}

func (c ReplicateConfig) Validate() error {
	var errs *multierror.Error

	switch {
	case c.Model == "":
		errs = multierror.Append(errs, errors.New("model is required"))
	case !strings.Contains(c.Model, "/"):
		errs = multierror.Append(errs, fmt.Errorf("model must be in owner/name form: %q", c.Model))
	}

	return errs.ErrorOrNil()
}
