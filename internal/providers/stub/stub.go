// Package stub implements placeholder providers. They construct without
// credentials so fallback chains can be exercised end to end, but every
// generation call fails with a provider failure marker.
package stub

import (
	"context"
	"fmt"

	"github.com/phatcz/TiktokClipGenerator/internal/providers"
	"github.com/phatcz/TiktokClipGenerator/internal/services"
)

const name = "stub"

func callNotImplemented(capability providers.Capability) error {
	return fmt.Errorf("%w: stub %s provider has no backing implementation", services.ErrProviderFailure, capability)
}

// ImageProvider always fails generation. Useful for testing fallback chains
// and as a placeholder slot for future integrations.
type ImageProvider struct{}

func NewImageProvider() *ImageProvider { return &ImageProvider{} }

func (*ImageProvider) Name() string { return name }

func (*ImageProvider) GenerateImage(ctx context.Context, _ providers.ImageRequest) (providers.ImageResult, error) {
	if err := ctx.Err(); err != nil {
		return providers.ImageResult{}, err
	}
	return providers.ImageResult{}, callNotImplemented(providers.CapabilityImage)
}

// VideoProvider always fails generation.
type VideoProvider struct{}

func NewVideoProvider() *VideoProvider { return &VideoProvider{} }

func (*VideoProvider) Name() string { return name }

func (*VideoProvider) GenerateSegment(ctx context.Context, _ providers.VideoRequest) (providers.VideoResult, error) {
	if err := ctx.Err(); err != nil {
		return providers.VideoResult{}, err
	}
	return providers.VideoResult{}, callNotImplemented(providers.CapabilityVideo)
}

// AudioProvider always fails generation.
type AudioProvider struct{}

func NewAudioProvider() *AudioProvider { return &AudioProvider{} }

func (*AudioProvider) Name() string { return name }

func (*AudioProvider) GenerateVoiceover(ctx context.Context, _ providers.AudioRequest) (providers.AudioResult, error) {
	if err := ctx.Err(); err != nil {
		return providers.AudioResult{}, err
	}
	return providers.AudioResult{}, callNotImplemented(providers.CapabilityAudio)
}
