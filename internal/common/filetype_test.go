package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectFileType(t *testing.T) {
	tests := []struct {
		mimeType string
		want     AttachmentFileType
	}{
		{"image/jpeg", AttachmentTypeImage},
		{"image/png", AttachmentTypeImage},
		{"IMAGE/GIF", AttachmentTypeImage},
		{"video/mp4", AttachmentTypeVideo},
		{"video/webm", AttachmentTypeVideo},
		{"application/pdf", AttachmentTypeFile},
		{"text/plain", AttachmentTypeFile},
		{"", AttachmentTypeFile},
	}

	for _, tt := range tests {
		t.Run(tt.mimeType, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectFileType(tt.mimeType))
		})
	}
}

func TestAttachmentFileType_IsValid(t *testing.T) {
	assert.True(t, AttachmentTypeImage.IsValid())
	assert.True(t, AttachmentTypeVideo.IsValid())
	assert.True(t, AttachmentTypeFile.IsValid())
	assert.False(t, AttachmentFileType("gif").IsValid())
	assert.False(t, AttachmentFileType("").IsValid())
}
