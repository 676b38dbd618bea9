package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kryos/employee-accounts/internal/core/domain"
	"github.com/kryos/employee-accounts/internal/core/ports"
	"github.com/kryos/employee-accounts/internal/pkg/metrics"
)

type AccountHandler struct {
	accounts ports.AccountService
}

func NewAccountHandler(accounts ports.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

type registerRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type editRequest struct {
	Name     *string `json:"name,omitempty"     validate:"omitempty,min=1"`
	Email    *string `json:"email,omitempty"    validate:"omitempty,email"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=1"`
}

type logoutRequest struct {
	Token string `json:"token"`
}

type accountResponse struct {
	Message  string          `json:"message,omitempty"`
	Employee *domain.Account `json:"employee"`
}

type loginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Register creates a new employee account.
//
// @Summary      Register an employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Employee details"
// @Success      201   {object}  accountResponse
// @Failure      400   {object}  map[string]string
// @Router       /register [post]
func (h *AccountHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	account, err := h.accounts.Register(c.Request().Context(), req.Name, req.Email, req.Password, req.Role)
	countOperation("register", err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, accountResponse{Message: "User registered", Employee: account})
}

// Login authenticates an employee and returns a session token.
//
// @Summary      Login
// @Tags         employees
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Router       /login [post]
func (h *AccountHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	token, _, err := h.accounts.Login(c.Request().Context(), req.Email, req.Password)
	countOperation("login", err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, loginResponse{Message: "Login successful", Token: token})
}

// Edit applies a partial update to an employee, at most once per cooldown.
//
// @Summary      Edit an employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Param        id    path      string       true  "Employee ID"
// @Param        body  body      editRequest  true  "Fields to change"
// @Success      200   {object}  accountResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /edit/{id} [put]
func (h *AccountHandler) Edit(c echo.Context) error {
	var req editRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	account, err := h.accounts.Edit(c.Request().Context(), c.Param("id"), ports.EditAccountInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	countOperation("edit", err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, accountResponse{Message: "User updated", Employee: account})
}

// Logout invalidates a session token.
//
// @Summary      Logout
// @Tags         employees
// @Accept       json
// @Produce      json
// @Param        body  body      logoutRequest  true  "Session token"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Router       /logout [post]
func (h *AccountHandler) Logout(c echo.Context) error {
	var req logoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	err := h.accounts.Logout(c.Request().Context(), req.Token)
	countOperation("logout", err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "Logout successful"})
}

// Me returns the account behind the session token.
//
// @Summary      Current employee
// @Tags         employees
// @Produce      json
// @Security     SessionToken
// @Success      200  {object}  accountResponse
// @Failure      401  {object}  map[string]string
// @Router       /me [get]
func (h *AccountHandler) Me(c echo.Context) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, accountResponse{Employee: account})
}

func countOperation(op string, err error) {
	metrics.AccountOperationsTotal.WithLabelValues(op, resultLabel(err)).Inc()
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrEmailExists):
		return "conflict"
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrInvalidToken):
		return "unauthorized"
	case errors.Is(err, domain.ErrAccountNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrEditCooldown):
		return "cooldown"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid"
	default:
		return "error"
	}
}
