package handler

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/sevillaa/Travel-bros/internal/service"
)

// UploadHandler stores participant presentation files on disk and records
// their public path on the participant record.
//
// The stored name is deterministic — {CODE}_{participantId}{ext} — so
// re-uploading simply overwrites the previous file. The file is written
// before the trip/participant lookup runs, matching the original flow;
// a failed lookup therefore leaves an orphaned file behind, which is an
// accepted limitation.
type UploadHandler struct {
	service    *service.TripService
	uploadsDir string
	logger     *slog.Logger
}

// uploadField is the fixed multipart field name the file must arrive under.
const uploadField = "presentation"

type uploadResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
	File    string `json:"file"`
}

// NewUploadHandler creates an UploadHandler writing into uploadsDir,
// creating the directory if needed.
func NewUploadHandler(svc *service.TripService, uploadsDir string, logger *slog.Logger) (*UploadHandler, error) {
	if err := os.MkdirAll(uploadsDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating uploads directory: %w", err)
	}
	return &UploadHandler{service: svc, uploadsDir: uploadsDir, logger: logger}, nil
}

// HandleUpload handles POST /api/trips/{code}/participants/{participantId}/presentation.
func (h *UploadHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	tripCode := strings.ToUpper(r.PathValue("code"))
	participantID := r.PathValue("participantId")

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "no file received"})
		return
	}
	defer file.Close()

	// filepath.Ext keeps whatever extension the client used, dot included;
	// a name without one yields an empty string and that is fine too.
	ext := filepath.Ext(header.Filename)
	filename := fmt.Sprintf("%s_%s%s", tripCode, participantID, ext)

	dst, err := os.Create(filepath.Join(h.uploadsDir, filename))
	if err != nil {
		h.logger.Error("failed to create upload file",
			slog.String("file", filename),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}
	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		h.logger.Error("failed to store upload",
			slog.String("file", filename),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}
	dst.Close()

	publicPath := "/uploads/" + filename
	if err := h.service.AttachPresentation(r.Context(), tripCode, participantID, publicPath); err != nil {
		// The file stays on disk; only the record failed.
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, uploadResponse{
		OK:      true,
		Message: "presentation uploaded successfully",
		File:    publicPath,
	})
}
