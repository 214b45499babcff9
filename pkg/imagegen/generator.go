package imagegen

import "context"

// ImageGenerator generates one image from a text prompt and writes it to
// outputPath, returning the written path. Implementations are stateless
// across calls and safe for concurrent use; on failure the destination file
// is left absent.
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string, outputPath string) (string, error)
}
