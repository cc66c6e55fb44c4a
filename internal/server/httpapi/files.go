package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mzarins/filedepot/internal/server/models"
)

type fileResponse struct {
	ID         int64     `json:"id"`
	FileName   string    `json:"file_name"`
	BlobRef    string    `json:"blob_ref"`
	UploadDate time.Time `json:"upload_date"`
}

func toFileResponse(f *models.FileRecord) fileResponse {
	return fileResponse{
		ID:         f.ID,
		FileName:   f.DisplayName,
		BlobRef:    f.BlobRef,
		UploadDate: f.CreatedAt,
	}
}

func (s *Server) listFiles(c echo.Context) error {
	user := currentUser(c)

	records, err := s.sharing.ListFiles(c.Request().Context(), user.ID)
	if err != nil {
		return s.writeError(c, err)
	}

	result := make([]fileResponse, 0, len(records))
	for _, f := range records {
		result = append(result, toFileResponse(f))
	}
	return c.JSON(http.StatusOK, result)
}

func (s *Server) uploadFile(c echo.Context) error {
	user := currentUser(c)

	fh, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing file")
	}

	src, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "could not open file")
	}
	defer src.Close()

	record, err := s.sharing.Upload(c.Request().Context(), user.ID, src, fh.Filename)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusCreated, toFileResponse(record))
}

func (s *Server) downloadFile(c echo.Context) error {
	user := currentUser(c)

	fileID, err := parseID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid file id")
	}

	content, record, err := s.sharing.Download(c.Request().Context(), user.ID, fileID)
	if err != nil {
		return s.writeError(c, err)
	}
	defer content.Close()

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", record.DisplayName))
	return c.Stream(http.StatusOK, echo.MIMEOctetStream, content)
}

func (s *Server) deleteFile(c echo.Context) error {
	user := currentUser(c)

	fileID, err := parseID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid file id")
	}

	if err := s.sharing.Delete(c.Request().Context(), user.ID, fileID); err != nil {
		return s.writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func parseID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
