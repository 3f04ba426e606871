package common

import "strings"

// AttachmentFileType classifies stored attachments by their MIME family.
type AttachmentFileType string

const (
	AttachmentTypeImage AttachmentFileType = "image"
	AttachmentTypeVideo AttachmentFileType = "video"
	AttachmentTypeFile  AttachmentFileType = "file"
)

func (ft AttachmentFileType) String() string {
	return string(ft)
}

func (ft AttachmentFileType) IsValid() bool {
	return ft == AttachmentTypeImage || ft == AttachmentTypeVideo || ft == AttachmentTypeFile
}

// DetectFileType maps a MIME type to an attachment classification. Anything
// that is not an image or a video is treated as a generic file.
func DetectFileType(mimeType string) AttachmentFileType {
	lower := strings.ToLower(mimeType)
	if strings.HasPrefix(lower, "image/") {
		return AttachmentTypeImage
	}
	if strings.HasPrefix(lower, "video/") {
		return AttachmentTypeVideo
	}
	return AttachmentTypeFile
}
