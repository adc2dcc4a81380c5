package mimetypes

import (
	"testing"

	"justus/domain/chat"

	"github.com/stretchr/testify/require"
)

func TestMatches(t *testing.T) {
	tests := []struct {
		name     string
		detected string
		expected MIME
		want     bool
	}{
		{"Plain text with charset", "text/plain; charset=utf-8", TextPlain, true},
		{"PNG", "image/png", ImagePNG, true},
		{"Upper case JPEG", "IMAGE/JPEG", ImageJPEG, true},
		{"Ogg with codec", "audio/ogg; codecs=opus", AudioOGG, true},
		{"Mismatch", "image/gif", ImagePNG, false},
		{"Alias", "audio/x-wav", AudioWAV, true},
		{"JPG alias", "image/jpg", ImageJPEG, true},
		{"Invalid MIME", "not a mime", TextPlain, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := Matches(tt.detected, tt.expected)
			require.Equal(t, tt.want, ok)
		})
	}
}

func TestMessageTypeOf(t *testing.T) {
	req := require.New(t)

	mt, ok := MessageTypeOf("image/webp")
	req.True(ok)
	req.Equal(chat.ImageType, mt)

	mt, ok = MessageTypeOf("audio/mpeg")
	req.True(ok)
	req.Equal(chat.AudioType, mt)

	_, ok = MessageTypeOf("application/pdf")
	req.False(ok)

	// Scriptable images are never attachable
	_, ok = MessageTypeOf("image/svg+xml")
	req.False(ok)
	_, ok = MessageTypeOf("audio/x-unknown")
	req.False(ok)

	req.True(IsUndetermined(""))
	req.True(IsUndetermined("application/octet-stream"))
	req.False(IsUndetermined("image/png"))
}
