// Package mock implements offline providers that fabricate deterministic
// artifact paths without touching the network or the filesystem. They are
// the default selection and the guaranteed terminus of every fallback chain.
package mock

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/phatcz/TiktokClipGenerator/internal/providers"
)

const name = "mock"

// wordsPerMinute approximates voiceover pacing for duration estimates.
const wordsPerMinute = 150

// ImageProvider fabricates image artifacts keyed by a hash of the prompt so
// repeated runs over the same storyboard yield stable paths.
type ImageProvider struct{}

func NewImageProvider() *ImageProvider { return &ImageProvider{} }

func (*ImageProvider) Name() string { return name }

func (*ImageProvider) GenerateImage(ctx context.Context, req providers.ImageRequest) (providers.ImageResult, error) {
	if err := ctx.Err(); err != nil {
		return providers.ImageResult{}, err
	}
	id := promptID(req.Prompt)
	return providers.ImageResult{
		ImageURL:  fmt.Sprintf("https://mock-images.example.com/generated/%06d.jpg", id),
		ImagePath: fmt.Sprintf("mock/images/image_%06d.jpg", id),
		Metadata: map[string]string{
			"provider": name,
			"prompt":   req.Prompt,
		},
	}, nil
}

// VideoProvider fabricates segment artifacts and echoes the requested
// duration back as the produced duration.
type VideoProvider struct{}

func NewVideoProvider() *VideoProvider { return &VideoProvider{} }

func (*VideoProvider) Name() string { return name }

func (*VideoProvider) GenerateSegment(ctx context.Context, req providers.VideoRequest) (providers.VideoResult, error) {
	if err := ctx.Err(); err != nil {
		return providers.VideoResult{}, err
	}
	id := promptID(req.Prompt + "|" + req.StartKeyframePath + "|" + req.EndKeyframePath)
	return providers.VideoResult{
		VideoPath: fmt.Sprintf("mock/segments/segment_%06d.mp4", id),
		Duration:  req.Duration,
		Metadata: map[string]string{
			"provider":        name,
			"motion_type":     req.MotionType,
			"camera_movement": req.CameraMovement,
			"start_keyframe":  req.StartKeyframePath,
			"end_keyframe":    req.EndKeyframePath,
		},
	}, nil
}

// AudioProvider fabricates voiceover artifacts and estimates duration from
// word count at a fixed speaking pace.
type AudioProvider struct{}

func NewAudioProvider() *AudioProvider { return &AudioProvider{} }

func (*AudioProvider) Name() string { return name }

func (*AudioProvider) GenerateVoiceover(ctx context.Context, req providers.AudioRequest) (providers.AudioResult, error) {
	if err := ctx.Err(); err != nil {
		return providers.AudioResult{}, err
	}
	speed := req.Speed
	if speed <= 0 {
		speed = 1.0
	}
	words := len(strings.Fields(req.Text))
	duration := float64(words) / wordsPerMinute * 60 / speed

	id := promptID(req.Text)
	return providers.AudioResult{
		AudioPath: fmt.Sprintf("mock/audio/voiceover_%06d.mp3", id),
		Duration:  duration,
		Metadata: map[string]string{
			"provider": name,
			"language": req.Language,
			"voice_id": req.VoiceID,
		},
	}, nil
}

func promptID(prompt string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(prompt))
	return h.Sum32() % 1000000
}
