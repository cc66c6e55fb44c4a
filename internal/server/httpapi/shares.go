package httpapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mzarins/filedepot/internal/server/models"
)

type offerShareRequest struct {
	RecipientEmail string `json:"recipient_email"`
	FileName       string `json:"file_name"`
	BlobRef        string `json:"blob_ref"`
}

type shareResponse struct {
	ID          int64     `json:"id"`
	FileName    string    `json:"file_name"`
	BlobRef     string    `json:"blob_ref"`
	SenderID    int64     `json:"sender_id"`
	RecipientID int64     `json:"recipient_id"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

func toShareResponse(sh *models.PendingShare) shareResponse {
	return shareResponse{
		ID:          sh.ID,
		FileName:    sh.DisplayName,
		BlobRef:     sh.BlobRef,
		SenderID:    sh.SenderID,
		RecipientID: sh.RecipientID,
		Status:      sh.Status,
		CreatedAt:   sh.CreatedAt,
	}
}

func (s *Server) offerShare(c echo.Context) error {
	user := currentUser(c)

	req := &offerShareRequest{}
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	share, err := s.sharing.OfferShare(c.Request().Context(), user.ID, req.RecipientEmail, req.FileName, req.BlobRef)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusCreated, toShareResponse(share))
}

func (s *Server) pendingShares(c echo.Context) error {
	user := currentUser(c)

	pending, err := s.sharing.GetPendingShares(c.Request().Context(), user.ID)
	if err != nil {
		return s.writeError(c, err)
	}

	result := make([]shareResponse, 0, len(pending))
	for _, sh := range pending {
		result = append(result, toShareResponse(sh))
	}
	return c.JSON(http.StatusOK, result)
}

func (s *Server) acceptShare(c echo.Context) error {
	shareID, err := parseID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid share id")
	}

	record, err := s.sharing.AcceptShare(c.Request().Context(), shareID)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusOK, toFileResponse(record))
}

func (s *Server) refuseShare(c echo.Context) error {
	shareID, err := parseID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid share id")
	}

	if err := s.sharing.RefuseShare(c.Request().Context(), shareID); err != nil {
		return s.writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
