package imagegen

import (
	"github.com/dskvich/imagegen/pkg/config"
	"github.com/dskvich/imagegen/pkg/domain"
	"github.com/dskvich/imagegen/pkg/imagegen/openai"
	"github.com/dskvich/imagegen/pkg/imagegen/replicate"
)

type builderFunc func(credential string, cfg *config.Config) (ImageGenerator, error)

var builders = map[string]builderFunc{
	domain.ProviderOpenAI: func(credential string, cfg *config.Config) (ImageGenerator, error) {
		return openai.NewClient(credential, cfg.OpenAI)
	},
	domain.ProviderReplicate: func(credential string, cfg *config.Config) (ImageGenerator, error) {
		return replicate.NewClient(credential, cfg.Replicate)
	},
}

var credentialKeys = map[string]string{
	domain.ProviderOpenAI:    domain.OpenAIKeyCredential,
	domain.ProviderReplicate: domain.ReplicateTokenCredential,
}

// New selects a provider by name. It yields no provider for an unknown name
// or a missing/empty required credential; the caller treats that as a
// configuration error. Exactly one provider is selected or none, never a
// fallback.
func New(provider string, creds domain.Credentials, cfg *config.Config) (ImageGenerator, bool) {
	build, ok := builders[provider]
	if !ok {
		return nil, false
	}

	credential := creds[credentialKeys[provider]]
	if credential == "" {
		return nil, false
	}

	gen, err := build(credential, cfg)
	if err != nil {
		return nil, false
	}
	return gen, true
}
