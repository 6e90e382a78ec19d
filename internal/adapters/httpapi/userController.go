package httpapi

import (
	"net/http"

	"github.com/eunmi228/PostApp/internal/adapters/httpapi/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UserController struct {
	uc     UserUseCase
	logger *zap.Logger
}

func NewUserController(uc UserUseCase, logger *zap.Logger) *UserController {
	return &UserController{uc: uc, logger: logger}
}

func (ctl *UserController) Signup(c *gin.Context) {
	var req struct {
		Email    string `json:"email" form:"email"`
		Name     string `json:"name" form:"name"`
		Password string `json:"password" form:"password"`
	}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid input"})
		return
	}
	u, err := ctl.uc.Signup(c.Request.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "User created!", "userId": u.ID})
}

func (ctl *UserController) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" form:"email"`
		Password string `json:"password" form:"password"`
	}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid input"})
		return
	}
	res, err := ctl.uc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ctl *UserController) GetStatus(c *gin.Context) {
	status, err := ctl.uc.GetStatus(c.Request.Context(), c.GetString(middleware.UserIDKey))
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": status})
}

func (ctl *UserController) UpdateStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" form:"status"`
	}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid input"})
		return
	}
	if err := ctl.uc.UpdateStatus(c.Request.Context(), c.GetString(middleware.UserIDKey), req.Status); err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User updated."})
}
