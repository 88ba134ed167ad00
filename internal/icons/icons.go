// Package icons provides the media-kind and transport glyphs for the UI.
package icons

// Style represents the icon style to use.
type Style string

const (
	StyleNerd    Style = "nerd"
	StyleUnicode Style = "unicode"
	StyleNone    Style = "none"
)

// Icons holds the icon characters for the current style.
type Icons struct {
	Video    string
	Audio    string
	Image    string
	Volume   string
	Muted    string
	Subtitle string
}

var (
	nerdIcons = Icons{
		Video:    " ", // nf-fa-video_camera
		Audio:    " ", // nf-fa-music
		Image:    " ", // nf-fa-picture_o
		Volume:   "",  // nf-fa-volume_up
		Muted:    "",  // nf-fa-volume_off
		Subtitle: "󰨖",  // nf-md-subtitles
	}

	unicodeIcons = Icons{
		Video:    "🎬 ",
		Audio:    "🎵 ",
		Image:    "🖼 ",
		Volume:   "🔊",
		Muted:    "🔇",
		Subtitle: "💬",
	}

	noneIcons = Icons{
		Video:    "",
		Audio:    "",
		Image:    "",
		Volume:   "vol",
		Muted:    "mute",
		Subtitle: "[cc]",
	}

	current = noneIcons
)

// Init selects the icon set. Call once at startup; unknown styles fall
// back to the ASCII set.
func Init(style string) {
	switch Style(style) {
	case StyleNerd:
		current = nerdIcons
	case StyleUnicode:
		current = unicodeIcons
	default:
		current = noneIcons
	}
}

// Video returns the video file indicator.
func Video() string { return current.Video }

// Audio returns the audio file indicator.
func Audio() string { return current.Audio }

// Image returns the image file indicator.
func Image() string { return current.Image }

// Volume returns the volume indicator.
func Volume() string { return current.Volume }

// Muted returns the muted volume indicator.
func Muted() string { return current.Muted }

// Subtitle returns the subtitles-enabled indicator.
func Subtitle() string { return current.Subtitle }
