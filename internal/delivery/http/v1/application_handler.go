package v1

import (
	"net/http"

	"job-tracker-backend/internal/delivery/http/response"
	"job-tracker-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type ApplicationHandler struct {
	applicationUC domain.ApplicationUsecase
}

// NewApplicationHandler registers the /application routes on an authenticated group
func NewApplicationHandler(r *gin.RouterGroup, applicationUC domain.ApplicationUsecase) {
	handler := &ApplicationHandler{applicationUC: applicationUC}

	applications := r.Group("/application")
	{
		applications.GET("/all", handler.ListAll)
		applications.GET("/user/:user_id", handler.ListByUser)
		applications.DELETE("/user/:user_id", handler.DeleteByUser)
		applications.GET("/:id", handler.GetByID)
		applications.POST("/", handler.Create)
		applications.PUT("/:id", handler.Update)
		applications.DELETE("/:id", handler.DeleteByID)
	}
}

// DeleteUserResult reports how many rows a bulk delete removed
type DeleteUserResult struct {
	Deleted int `json:"deleted"`
}

// ListAll godoc
// @Summary      List all applications
// @Tags         applications
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.Application}
// @Failure      401  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /application/all [get]
// @Security     BearerAuth
func (h *ApplicationHandler) ListAll(c *gin.Context) {
	apps, err := h.applicationUC.ListAll(c)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Applications retrieved", apps)
}

// GetByID godoc
// @Summary      Get an application
// @Tags         applications
// @Produce      json
// @Param        id   path      string  true  "Application ID"
// @Success      200  {object}  response.Response{data=domain.Application}
// @Failure      404  {object}  response.Response
// @Router       /application/{id} [get]
// @Security     BearerAuth
func (h *ApplicationHandler) GetByID(c *gin.Context) {
	app, err := h.applicationUC.GetByID(c, c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Application retrieved", app)
}

// ListByUser godoc
// @Summary      List a user's applications
// @Description  Returns an empty list when the user has none
// @Tags         applications
// @Produce      json
// @Param        user_id  path      string  true  "User ID"
// @Success      200      {object}  response.Response{data=[]domain.Application}
// @Router       /application/user/{user_id} [get]
// @Security     BearerAuth
func (h *ApplicationHandler) ListByUser(c *gin.Context) {
	apps, err := h.applicationUC.ListByUser(c, c.Param("user_id"))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Applications retrieved", apps)
}

// Create godoc
// @Summary      Create an application
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        body  body      domain.ApplicationInput  true  "Application data"
// @Success      201   {object}  response.Response{data=domain.Application}
// @Failure      400   {object}  response.Response
// @Router       /application/ [post]
// @Security     BearerAuth
func (h *ApplicationHandler) Create(c *gin.Context) {
	var input domain.ApplicationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(bindError(err))
		return
	}

	app, err := h.applicationUC.Create(c, input)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Application created", app)
}

// Update godoc
// @Summary      Update an application
// @Description  Merge-patch: only the fields present in the body change
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        id    path      string                   true  "Application ID"
// @Param        body  body      domain.ApplicationPatch  true  "Fields to change"
// @Success      200   {object}  response.Response{data=domain.Application}
// @Failure      400   {object}  response.Response
// @Failure      404   {object}  response.Response
// @Router       /application/{id} [put]
// @Security     BearerAuth
func (h *ApplicationHandler) Update(c *gin.Context) {
	var patch domain.ApplicationPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.Error(bindError(err))
		return
	}

	app, err := h.applicationUC.Update(c, c.Param("id"), patch)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Application updated", app)
}

// DeleteByID godoc
// @Summary      Delete an application
// @Tags         applications
// @Produce      json
// @Param        id   path      string  true  "Application ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /application/{id} [delete]
// @Security     BearerAuth
func (h *ApplicationHandler) DeleteByID(c *gin.Context) {
	if err := h.applicationUC.DeleteByID(c, c.Param("id")); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Application deleted successfully", nil)
}

// DeleteByUser godoc
// @Summary      Delete all of a user's applications
// @Description  Succeeds even when the user has no applications
// @Tags         applications
// @Produce      json
// @Param        user_id  path      string  true  "User ID"
// @Success      200      {object}  response.Response{data=DeleteUserResult}
// @Router       /application/user/{user_id} [delete]
// @Security     BearerAuth
func (h *ApplicationHandler) DeleteByUser(c *gin.Context) {
	n, err := h.applicationUC.DeleteByUser(c, c.Param("user_id"))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "All applications for user deleted successfully", DeleteUserResult{Deleted: n})
}
