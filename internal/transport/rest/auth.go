package rest

import (
	"net/http"

	"github.com/KotFed0t/stocks_portfolio_api/internal/converter/restConverter"
	"github.com/KotFed0t/stocks_portfolio_api/internal/model/restModel"
	"github.com/KotFed0t/stocks_portfolio_api/utils"
	"github.com/gin-gonic/gin"
)

func (ctrl *Controller) SignUp(c *gin.Context) {
	ctx := utils.CreateCtxWithRqID(c)

	var req restModel.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.badRequest(c, err)
		return
	}

	res, err := ctrl.authService.SignUp(ctx, req.Firstname, req.Lastname, req.Email, req.Password)
	if err != nil {
		ctrl.errorResponse(c, ctx, err)
		return
	}

	c.JSON(http.StatusCreated, restConverter.AuthResponse(res))
}

func (ctrl *Controller) SignIn(c *gin.Context) {
	ctx := utils.CreateCtxWithRqID(c)

	var req restModel.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.badRequest(c, err)
		return
	}

	res, err := ctrl.authService.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		ctrl.errorResponse(c, ctx, err)
		return
	}

	c.JSON(http.StatusOK, restConverter.AuthResponse(res))
}

func (ctrl *Controller) Refresh(c *gin.Context) {
	ctx := utils.CreateCtxWithRqID(c)

	var req restModel.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.badRequest(c, err)
		return
	}

	res, err := ctrl.authService.Refresh(ctx, req.RefreshToken)
	if err != nil {
		ctrl.errorResponse(c, ctx, err)
		return
	}

	c.JSON(http.StatusOK, restConverter.AuthResponse(res))
}

func (ctrl *Controller) SignOut(c *gin.Context) {
	ctx := utils.CreateCtxWithRqID(c)

	var req restModel.SignOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.badRequest(c, err)
		return
	}

	if err := ctrl.authService.SignOut(ctx, req.RefreshToken); err != nil {
		ctrl.errorResponse(c, ctx, err)
		return
	}

	c.JSON(http.StatusOK, restModel.MessageResponse{Message: "signed out"})
}
