package handler

import (
	"fmt"
	"net/http"
	"stellarone-api/common"
	"stellarone-api/model"
	"stellarone-api/service"
)

type StatementHandler struct {
	service *service.StatementService
}

func NewStatementHandler(s *service.StatementService) *StatementHandler {
	return &StatementHandler{service: s}
}

// Create requests a statement for a date range and account type.
func (h *StatementHandler) Create(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, _, appErr := userFromContext(r)
	if appErr != nil {
		return appErr
	}

	var req model.CreateStatementRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	statement, err := h.service.RequestStatement(userID, req)
	if err != nil {
		return serviceError(err, "Could not generate statement")
	}
	common.WriteJSON(w, http.StatusCreated, statement)
	return nil
}

func (h *StatementHandler) List(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, _, appErr := userFromContext(r)
	if appErr != nil {
		return appErr
	}

	statements, err := h.service.ListStatements(userID)
	if err != nil {
		return serviceError(err, "Could not retrieve statements")
	}
	common.WriteJSON(w, http.StatusOK, statements)
	return nil
}

// Get godoc
// @Summary      Download a statement
// @Description  Renders the statement in its stored format. The requester must own the statement.
// @Tags         statements
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id path string true "Statement ID"
// @Success      200  {file}    binary
// @Failure      403  {object}  common.AppError "Not the owner"
// @Failure      404  {object}  common.AppError "Statement not found"
// @Router       /statements/{id} [get]
func (h *StatementHandler) Get(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, role, appErr := userFromContext(r)
	if appErr != nil {
		return appErr
	}

	statement, err := h.service.GetStatement(r.PathValue("id"), userID, isAdmin(role))
	if err != nil {
		return serviceError(err, "Could not retrieve statement")
	}

	content, contentType, filename, err := h.service.Render(statement)
	if err != nil {
		return common.NewAppError(common.KindInternal, "Could not render statement", err)
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(content)
	return nil
}
