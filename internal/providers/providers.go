package providers

import "context"

// Capability identifies which generation concern a provider serves.
type Capability string

const (
	CapabilityImage Capability = "image"
	CapabilityVideo Capability = "video"
	CapabilityAudio Capability = "audio"
)

// ImageRequest describes a single image generation call.
type ImageRequest struct {
	Prompt      string
	AspectRatio string
	Style       string
	Quality     string
}

// ImageResult carries the artifact location for a generated image. ImageURL
// is set for remote artifacts, ImagePath for local ones; providers may set
// both.
type ImageResult struct {
	ImageURL  string
	ImagePath string
	Metadata  map[string]string
}

// VideoRequest describes a single segment generation call. StartKeyframePath
// and EndKeyframePath anchor the segment's first and last frames.
type VideoRequest struct {
	Prompt            string
	Duration          float64
	StartKeyframePath string
	EndKeyframePath   string
	Resolution        string
	FPS               int
	MotionType        string
	CameraMovement    string
	Style             string
}

// VideoResult carries the rendered segment artifact. Duration is the
// provider-reported length of the produced clip.
type VideoResult struct {
	VideoPath string
	Duration  float64
	Metadata  map[string]string
}

// AudioRequest describes a voiceover generation call.
type AudioRequest struct {
	Text     string
	VoiceID  string
	Language string
	Speed    float64
	Emotion  string
}

// AudioResult carries the generated audio artifact and its duration in
// seconds.
type AudioResult struct {
	AudioPath string
	Duration  float64
	Metadata  map[string]string
}

// ImageProvider generates still images from text prompts.
type ImageProvider interface {
	Name() string
	GenerateImage(ctx context.Context, req ImageRequest) (ImageResult, error)
}

// VideoProvider generates short video segments, optionally anchored by
// keyframe images.
type VideoProvider interface {
	Name() string
	GenerateSegment(ctx context.Context, req VideoRequest) (VideoResult, error)
}

// AudioProvider generates voiceover audio from text.
type AudioProvider interface {
	Name() string
	GenerateVoiceover(ctx context.Context, req AudioRequest) (AudioResult, error)
}
