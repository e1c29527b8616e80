// Package registry resolves configured provider selections into concrete
// instances. Resolution never fails: every chain terminates in the mock
// provider, and construction failures or unknown names degrade with a
// warning instead of aborting the run.
package registry

import (
	"log/slog"

	"github.com/phatcz/TiktokClipGenerator/internal/config"
	"github.com/phatcz/TiktokClipGenerator/internal/logging"
	"github.com/phatcz/TiktokClipGenerator/internal/providers"
	"github.com/phatcz/TiktokClipGenerator/internal/providers/mock"
	"github.com/phatcz/TiktokClipGenerator/internal/providers/stub"
	"github.com/phatcz/TiktokClipGenerator/internal/providers/vertex"
)

const selectionAuto = "auto"

// Registry builds providers from configuration. A nil logger falls back to a
// no-op logger.
type Registry struct {
	cfg    *config.Config
	logger *slog.Logger
}

func New(cfg *config.Config, logger *slog.Logger) *Registry {
	return &Registry{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "providers"),
	}
}

type imageFactory struct {
	name  string
	build func() (providers.ImageProvider, error)
}

type videoFactory struct {
	name  string
	build func() (providers.VideoProvider, error)
}

type audioFactory struct {
	name  string
	build func() (providers.AudioProvider, error)
}

// imageFactories lists constructible image backends in auto-selection
// priority order. Mock is not listed; it is the implicit terminus.
func (r *Registry) imageFactories() []imageFactory {
	return []imageFactory{
		{name: "vertex", build: func() (providers.ImageProvider, error) {
			return vertex.NewImageProvider(vertex.Options{
				APIKey:    r.cfg.Providers.VertexAPIKey,
				ProjectID: r.cfg.Providers.VertexProjectID,
				Location:  r.cfg.Providers.VertexLocation,
				OutputDir: r.cfg.Paths.ImagesDir,
				Timeout:   r.cfg.ProviderTimeout(),
			})
		}},
		{name: "stub", build: func() (providers.ImageProvider, error) {
			return stub.NewImageProvider(), nil
		}},
	}
}

func (r *Registry) videoFactories() []videoFactory {
	return []videoFactory{
		{name: "stub", build: func() (providers.VideoProvider, error) {
			return stub.NewVideoProvider(), nil
		}},
	}
}

func (r *Registry) audioFactories() []audioFactory {
	return []audioFactory{
		{name: "stub", build: func() (providers.AudioProvider, error) {
			return stub.NewAudioProvider(), nil
		}},
	}
}

// ResolveImage returns the image provider for the configured selection.
func (r *Registry) ResolveImage() providers.ImageProvider {
	selection := canonicalName(r.cfg.Providers.Image)
	factories := r.imageFactories()

	if selection == selectionAuto {
		for _, factory := range factories {
			provider, err := factory.build()
			if err != nil {
				r.warnConstructionFailed(providers.CapabilityImage, factory.name, err)
				continue
			}
			return provider
		}
		r.warnFellToMock(providers.CapabilityImage, selection)
		return mock.NewImageProvider()
	}

	if selection != "mock" {
		for _, factory := range factories {
			if factory.name != selection {
				continue
			}
			provider, err := factory.build()
			if err != nil {
				r.warnConstructionFailed(providers.CapabilityImage, factory.name, err)
				break
			}
			return provider
		}
		r.warnFellToMock(providers.CapabilityImage, selection)
	}
	return mock.NewImageProvider()
}

// ResolveVideo returns the video provider for the configured selection.
func (r *Registry) ResolveVideo() providers.VideoProvider {
	selection := canonicalName(r.cfg.Providers.Video)
	factories := r.videoFactories()

	if selection == selectionAuto {
		for _, factory := range factories {
			provider, err := factory.build()
			if err != nil {
				r.warnConstructionFailed(providers.CapabilityVideo, factory.name, err)
				continue
			}
			return provider
		}
		r.warnFellToMock(providers.CapabilityVideo, selection)
		return mock.NewVideoProvider()
	}

	if selection != "mock" {
		for _, factory := range factories {
			if factory.name != selection {
				continue
			}
			provider, err := factory.build()
			if err != nil {
				r.warnConstructionFailed(providers.CapabilityVideo, factory.name, err)
				break
			}
			return provider
		}
		r.warnFellToMock(providers.CapabilityVideo, selection)
	}
	return mock.NewVideoProvider()
}

// ResolveAudio returns the audio provider for the configured selection.
func (r *Registry) ResolveAudio() providers.AudioProvider {
	selection := canonicalName(r.cfg.Providers.Audio)
	factories := r.audioFactories()

	if selection == selectionAuto {
		for _, factory := range factories {
			provider, err := factory.build()
			if err != nil {
				r.warnConstructionFailed(providers.CapabilityAudio, factory.name, err)
				continue
			}
			return provider
		}
		r.warnFellToMock(providers.CapabilityAudio, selection)
		return mock.NewAudioProvider()
	}

	if selection != "mock" {
		for _, factory := range factories {
			if factory.name != selection {
				continue
			}
			provider, err := factory.build()
			if err != nil {
				r.warnConstructionFailed(providers.CapabilityAudio, factory.name, err)
				break
			}
			return provider
		}
		r.warnFellToMock(providers.CapabilityAudio, selection)
	}
	return mock.NewAudioProvider()
}

// canonicalName folds historical aliases into factory names.
func canonicalName(selection string) string {
	if selection == "google" {
		return "vertex"
	}
	return selection
}

func (r *Registry) warnConstructionFailed(capability providers.Capability, name string, err error) {
	r.logger.Warn("provider construction failed, trying next in chain",
		logging.String(logging.FieldCapability, string(capability)),
		logging.String(logging.FieldProvider, name),
		logging.Error(err),
	)
}

func (r *Registry) warnFellToMock(capability providers.Capability, selection string) {
	r.logger.Warn("falling back to mock provider",
		logging.String(logging.FieldCapability, string(capability)),
		logging.String("selection", selection),
	)
}
