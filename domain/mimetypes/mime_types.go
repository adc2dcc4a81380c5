package mimetypes

import (
	"mime"
	"slices"
	"strings"

	"justus/domain/chat"
)

type MIME string

const (
	Unknown     MIME = "unknown"
	OctetStream MIME = "application/octet-stream"
	TextPlain   MIME = "text/plain"

	ImagePNG  MIME = "image/png"
	ImageJPEG MIME = "image/jpeg"
	ImageGIF  MIME = "image/gif"
	ImageWebP MIME = "image/webp"

	AudioMPEG MIME = "audio/mpeg"
	AudioOGG  MIME = "audio/ogg"
	AudioWAV  MIME = "audio/wav"
	AudioWebM MIME = "audio/webm"
)

// Attachable lists what an image or audio message may carry, in the order
// sniffed content is tested against.
var Attachable = []MIME{ImagePNG, ImageJPEG, ImageGIF, ImageWebP, AudioMPEG, AudioOGG, AudioWAV, AudioWebM}

var aliases = map[string]MIME{
	"image/jpg":      ImageJPEG,
	"image/pjpeg":    ImageJPEG,
	"audio/mp3":      AudioMPEG,
	"audio/x-mpeg":   AudioMPEG,
	"audio/x-wav":    AudioWAV,
	"audio/wave":     AudioWAV,
	"audio/vnd.wave": AudioWAV,
}

// Normalize strips parameters, lowercases a content type header and folds
// common aliases. Anything unparsable is Unknown.
func Normalize(contentType string) MIME {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return Unknown
	}
	mt = strings.ToLower(mt)
	if canonical, ok := aliases[mt]; ok {
		return canonical
	}
	return MIME(mt)
}

func Matches(detected string, expected MIME) (MIME, bool) {
	mt := Normalize(detected)
	if mt == Unknown {
		return Unknown, false
	}
	return expected, mt == expected
}

// IsUndetermined reports a type the client did not really choose.
func IsUndetermined(contentType string) bool {
	mt := Normalize(contentType)
	return mt == Unknown || mt == OctetStream
}

// MessageTypeOf tells which kind of message may carry an attachment.
// Only Attachable types qualify.
func MessageTypeOf(contentType string) (chat.MessageType, bool) {
	mt := Normalize(contentType)
	if !slices.Contains(Attachable, mt) {
		return "", false
	}
	if strings.HasPrefix(string(mt), "image/") {
		return chat.ImageType, true
	}
	return chat.AudioType, true
}
