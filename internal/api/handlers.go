package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/meetscribe/meeting-notes/internal/logger"
	"github.com/meetscribe/meeting-notes/internal/notes"
	"github.com/meetscribe/meeting-notes/internal/pipeline"
)

// Handler exposes the video pipeline over HTTP.
type Handler struct {
	coord *pipeline.Coordinator
	log   *logger.Logger
}

func NewHandler(coord *pipeline.Coordinator, log *logger.Logger) *Handler {
	return &Handler{
		coord: coord,
		log:   log.WithComponent("api"),
	}
}

// HandleHealth returns server health status.
func (h *Handler) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// HandleUploadVideo accepts a multipart recording, stores it, and kicks
// off transcription. Status polling begins in the background so the
// listing reflects progress without the client driving it.
func (h *Handler) HandleUploadVideo(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return NewBadRequestError("multipart field 'file' is required", err)
	}

	src, err := file.Open()
	if err != nil {
		return NewBadRequestError("unreadable upload", err)
	}
	defer src.Close()

	media, err := io.ReadAll(src)
	if err != nil {
		return NewInternalError("failed to read upload", err)
	}
	if len(media) == 0 {
		return NewBadRequestError("uploaded file is empty", nil)
	}

	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	video, err := h.coord.Upload(c.Request().Context(), file.Filename, media, contentType)
	if err != nil {
		h.log.WithError(err).Error("upload failed")
		return NewInternalError("failed to start transcription", err)
	}

	h.coord.PollUntilTerminal(video.ID, nil)
	return c.JSON(http.StatusCreated, video)
}

// HandleListVideos returns the stored videos with fresh job statuses.
func (h *Handler) HandleListVideos(c echo.Context) error {
	videos, err := h.coord.ListVideos(c.Request().Context())
	if err != nil {
		return NewInternalError("failed to list videos", err)
	}
	return c.JSON(http.StatusOK, videos)
}

// HandleGetVideo returns the tracked entry for one video.
func (h *Handler) HandleGetVideo(c echo.Context) error {
	id := c.Param("id")
	video, ok := h.coord.Video(id)
	if !ok {
		return NewNotFoundError("video", id)
	}
	return c.JSON(http.StatusOK, video)
}

// notesResponse carries the raw note text plus its parsed structure so
// the client renders without re-parsing.
type notesResponse struct {
	VideoID         string             `json:"videoId"`
	Raw             string             `json:"raw"`
	QuickSummary    []string           `json:"quickSummary"`
	DetailedSummary []string           `json:"detailedSummary"`
	Decisions       []string           `json:"decisions"`
	ActionItems     []notes.ActionItem `json:"actionItems"`
	Blockers        []string           `json:"blockers"`
	Sections        []notes.Section    `json:"sections"`
}

// HandleGetNotes returns the notes for a video, generating and caching
// them on first request. ?format=xlsx streams a workbook instead of
// JSON.
func (h *Handler) HandleGetNotes(c echo.Context) error {
	id := c.Param("id")

	raw, err := h.coord.FetchNotes(c.Request().Context(), id)
	if errors.Is(err, pipeline.ErrNoTranscript) {
		return NewNotesUnavailableError(id)
	}
	if err != nil {
		h.log.WithError(err).WithField("video_id", id).Error("notes fetch failed")
		return NewInternalError("failed to generate notes", err)
	}

	doc := notes.Parse(raw)

	if c.QueryParam("format") == "xlsx" {
		res := c.Response()
		res.Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		res.Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+id+`-notes.xlsx"`)
		res.WriteHeader(http.StatusOK)
		if err := notes.WriteWorkbook(doc, res); err != nil {
			h.log.WithError(err).Error("workbook export failed")
		}
		return nil
	}

	return c.JSON(http.StatusOK, notesResponse{
		VideoID:         id,
		Raw:             raw,
		QuickSummary:    doc.QuickSummary(),
		DetailedSummary: doc.DetailedSummary(),
		Decisions:       doc.Decisions(),
		ActionItems:     doc.ActionItems(),
		Blockers:        doc.Blockers(),
		Sections:        doc.Sections,
	})
}

// HandleDeleteVideo removes a video and its artifacts. Deletion is
// best-effort downstream, so the response is 204 whenever the video is
// known.
func (h *Handler) HandleDeleteVideo(c echo.Context) error {
	id := c.Param("id")
	video, ok := h.coord.Video(id)
	if !ok {
		return NewNotFoundError("video", id)
	}

	h.coord.DeleteVideo(c.Request().Context(), id, video.Name)
	return c.NoContent(http.StatusNoContent)
}
