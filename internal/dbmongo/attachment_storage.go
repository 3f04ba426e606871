package dbmongo

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"chatrelay/internal/common"
)

// AttachmentStorage streams message attachments in and out of GridFS.
type AttachmentStorage struct {
	gridFS *gridfs.Bucket
}

func NewAttachmentStorage(mongoClient *MongoClient) *AttachmentStorage {
	return &AttachmentStorage{
		gridFS: mongoClient.GridFS,
	}
}

// Attachment describes a stored file. The ID is referenced by messages
// through their attachment_id column.
type Attachment struct {
	ID         string                    `json:"id"`
	Filename   string                    `json:"filename"`
	Size       int64                     `json:"size"`
	MimeType   string                    `json:"mime_type"`
	FileType   common.AttachmentFileType `json:"file_type"`
	UploadedBy string                    `json:"uploaded_by"`
	UploadedAt time.Time                 `json:"uploaded_at"`
}

func (as *AttachmentStorage) Upload(ctx context.Context, filename, mimeType, uploaderID string, content io.Reader) (*Attachment, error) {
	fileType := common.DetectFileType(mimeType)

	metadata := bson.M{
		"file_type":   fileType.String(),
		"mime_type":   mimeType,
		"uploaded_by": uploaderID,
		"uploaded_at": time.Now(),
	}

	opts := options.GridFSUpload().SetMetadata(metadata)
	stream, err := as.gridFS.OpenUploadStream(filename, opts)
	if err != nil {
		return nil, fmt.Errorf("upload failed: %w", err)
	}
	defer stream.Close()

	size, err := io.Copy(stream, content)
	if err != nil {
		return nil, fmt.Errorf("file copy failed: %w", err)
	}

	return &Attachment{
		ID:         stream.FileID.(primitive.ObjectID).Hex(),
		Filename:   filename,
		Size:       size,
		MimeType:   mimeType,
		FileType:   fileType,
		UploadedBy: uploaderID,
		UploadedAt: time.Now(),
	}, nil
}

func (as *AttachmentStorage) Download(ctx context.Context, fileID string) (io.Reader, *Attachment, error) {
	objectID, err := primitive.ObjectIDFromHex(fileID)
	if err != nil {
		return nil, nil, common.ErrValidation
	}

	stream, err := as.gridFS.OpenDownloadStream(objectID)
	if err != nil {
		return nil, nil, common.ErrNotFound
	}

	fileInfo := stream.GetFile()
	var metadata bson.M
	if fileInfo.Metadata != nil {
		bson.Unmarshal(fileInfo.Metadata, &metadata)
	}

	attachment := &Attachment{
		ID:         fileID,
		Filename:   fileInfo.Name,
		Size:       fileInfo.Length,
		MimeType:   stringFromMeta(metadata, "mime_type"),
		FileType:   common.AttachmentFileType(stringFromMeta(metadata, "file_type")),
		UploadedBy: stringFromMeta(metadata, "uploaded_by"),
		UploadedAt: fileInfo.UploadDate,
	}

	return stream, attachment, nil
}

func (as *AttachmentStorage) Delete(ctx context.Context, fileID string) error {
	objectID, err := primitive.ObjectIDFromHex(fileID)
	if err != nil {
		return common.ErrValidation
	}
	return as.gridFS.Delete(objectID)
}

func stringFromMeta(m bson.M, key string) string {
	if m == nil {
		return ""
	}
	if val, ok := m[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}
