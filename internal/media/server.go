// Package media serves message attachments over plain HTTP.
package media

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"chatrelay/internal/common"
	"chatrelay/internal/dbmongo"
)

const maxUploadBytes = 25 << 20 // 25 MiB

type HTTPServer struct {
	storage   *dbmongo.AttachmentStorage
	jwtSecret string
}

func NewHTTPServer(mongoClient *dbmongo.MongoClient, jwtSecret string) *HTTPServer {
	return &HTTPServer{
		storage:   dbmongo.NewAttachmentStorage(mongoClient),
		jwtSecret: jwtSecret,
	}
}

func (s *HTTPServer) Router() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/attachments", s.upload).Methods("POST")
	router.HandleFunc("/attachments/{fileID}", s.serveFile).Methods("GET")
	router.HandleFunc("/health", s.health).Methods("GET")
	return router
}

func (s *HTTPServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router().ServeHTTP(w, r)
}

func (s *HTTPServer) upload(w http.ResponseWriter, r *http.Request) {
	claims, err := s.authenticate(r)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "file too large or malformed form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	attachment, err := s.storage.Upload(r.Context(), header.Filename, mimeType, claims.UserID, file)
	if err != nil {
		logrus.WithError(err).Error("attachment upload failed")
		http.Error(w, "upload failed", http.StatusInternalServerError)
		return
	}

	logrus.WithFields(logrus.Fields{
		"file_id":  attachment.ID,
		"uploader": claims.UserID,
		"size":     attachment.Size,
	}).Info("attachment stored")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(attachment)
}

func (s *HTTPServer) serveFile(w http.ResponseWriter, r *http.Request) {
	fileID := mux.Vars(r)["fileID"]

	reader, attachment, err := s.storage.Download(r.Context(), fileID)
	if err != nil {
		http.Error(w, "file not found", http.StatusNotFound)
		return
	}

	contentType := attachment.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", fmt.Sprintf("%d", attachment.Size))
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", attachment.Filename))

	if _, err := io.Copy(w, reader); err != nil {
		logrus.WithError(err).WithField("file_id", fileID).Warn("error streaming attachment")
	}
}

func (s *HTTPServer) authenticate(r *http.Request) (*common.Claims, error) {
	token, err := common.ExtractBearerToken(r.Header.Get("Authorization"))
	if err != nil {
		return nil, err
	}
	return common.ValidToken(token, s.jwtSecret)
}

func (s *HTTPServer) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
