package domain

const (
	ProviderOpenAI    = "openai"
	ProviderReplicate = "replicate"
)

var KnownProviders = []string{ProviderOpenAI, ProviderReplicate}

const (
	OpenAIKeyCredential      = "OPENAI_API_KEY"
	ReplicateTokenCredential = "REPLICATE_API_TOKEN"
)

// Credentials maps credential keys to secret values. Values must never be logged.
type Credentials map[string]string

type ImageSize string

const (
	Size256x256   ImageSize = "256x256"
	Size512x512   ImageSize = "512x512"
	Size1024x1024 ImageSize = "1024x1024"
	Size1024x1792 ImageSize = "1024x1792"
	Size1792x1024 ImageSize = "1792x1024"
)

var KnownImageSizes = []ImageSize{
	Size256x256,
	Size512x512,
	Size1024x1024,
	Size1024x1792,
	Size1792x1024,
}

type ImageQuality string

const (
	QualityStandard ImageQuality = "standard"
	QualityHD       ImageQuality = "hd"
)

var KnownImageQualities = []ImageQuality{QualityStandard, QualityHD}

type ImageStyle string

const (
	StyleVivid   ImageStyle = "vivid"
	StyleNatural ImageStyle = "natural"
)

var KnownImageStyles = []ImageStyle{StyleVivid, StyleNatural}
