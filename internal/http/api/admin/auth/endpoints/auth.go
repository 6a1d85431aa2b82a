package endpoints

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/salawat/internal/http/api"
	"github.com/Nixie-Tech-LLC/salawat/internal/http/api/admin/auth/packets"
	"github.com/Nixie-Tech-LLC/salawat/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/salawat/internal/model"
)

// Accounts is the part of the store the auth endpoints use.
type Accounts interface {
	CreateUser(email, hashedPassword string, name *string) (int, error)
	GetUserByEmail(email string) (*model.User, error)
	GetUserByID(id int) (*model.User, error)
	UpdateUserProfile(id int, email string, name *string) error
	CountUsers() (int, error)
}

// AuthPublicModule mounts public auth endpoints (/auth/signup, /auth/login).
// Signup only creates the first admin unless allowSignup is set.
func AuthPublicModule(jwtSecret string, store Accounts, allowSignup bool) api.Module {
	ctl := newAccountManager(jwtSecret, store)
	ctl.allowSignup = allowSignup
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_POST("/auth/signup", ctl.userSignup)
		c.PUBLIC_POST("/auth/login", ctl.userLogin)
	})
}

// AuthSessionModule mounts private session/profile endpoints (JWT required)
func AuthSessionModule(jwtSecret string, store Accounts) api.Module {
	ctl := newAccountManager(jwtSecret, store)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/auth/current_profile", ctl.getCurrentProfile)
		c.PUT("/auth/current_profile", ctl.updateCurrentProfile)
	})
}

type AccountManager struct {
	jwtSecret   string
	store       Accounts
	allowSignup bool
}

func newAccountManager(secret string, store Accounts) *AccountManager {
	return &AccountManager{jwtSecret: secret, store: store}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func profile(u *model.User) packets.ProfileResponse {
	return packets.ProfileResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
		UpdatedAt: u.UpdatedAt.Format(time.RFC3339),
	}
}

func (a *AccountManager) issue(u *model.User) (any, *api.APIError) {
	token, err := middleware.GenerateJWT(u.ID, a.jwtSecret)
	if err != nil {
		log.Error().Err(err).Int("user", u.ID).Msg("could not sign token")
		return nil, api.Internal("could not generate token")
	}
	return packets.TokenResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(middleware.TokenTTL).Format(time.RFC3339),
		Profile:   profile(u),
	}, nil
}

// POST /api/admin/auth/signup
func (a *AccountManager) userSignup(ctx *gin.Context) (any, *api.APIError) {
	if !a.allowSignup {
		n, err := a.store.CountUsers()
		if err != nil {
			return nil, api.Internal("could not check accounts")
		}
		if n > 0 {
			log.Warn().Str("ip", ctx.ClientIP()).Msg("signup rejected, admin already exists")
			return nil, &api.APIError{Code: http.StatusForbidden, Message: "signup is closed"}
		}
	}

	var request packets.RegisterAdminRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, api.BadRequest(err.Error())
	}
	email := normalizeEmail(request.Email)

	if existing, _ := a.store.GetUserByEmail(email); existing != nil {
		log.Warn().Str("email", email).Msg("signup email already registered")
		return nil, &api.APIError{Code: http.StatusConflict, Message: "email already registered"}
	}

	hashed, err := middleware.HashPassword(request.Password)
	if err != nil {
		return nil, api.Internal("could not hash password")
	}

	userID, err := a.store.CreateUser(email, hashed, request.Name)
	if err != nil {
		return nil, api.Internal("could not create user")
	}
	user, err := a.store.GetUserByID(userID)
	if err != nil {
		return nil, api.Internal("could not fetch new user")
	}

	resp, apiErr := a.issue(user)
	if apiErr != nil {
		return nil, apiErr
	}
	log.Info().Int("user", userID).Msg("admin account created")
	return api.Created{Body: resp}, nil
}

// POST /api/admin/auth/login
func (a *AccountManager) userLogin(ctx *gin.Context) (any, *api.APIError) {
	var request packets.LoginRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, api.BadRequest(err.Error())
	}

	foundUser, err := a.store.GetUserByEmail(normalizeEmail(request.Email))
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, api.Internal("could not look up user")
	}
	if foundUser == nil || !middleware.CheckPassword(foundUser.HashedPassword, request.Password) {
		return nil, &api.APIError{Code: http.StatusUnauthorized, Message: middleware.ErrInvalidCredentials.Error()}
	}

	log.Info().Int("user", foundUser.ID).Str("name", foundUser.DisplayName()).Msg("admin signed in")
	return a.issue(foundUser)
}

// GET /api/admin/auth/current_profile
func (a *AccountManager) getCurrentProfile(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	return profile(user), nil
}

// PUT /api/admin/auth/current_profile
func (a *AccountManager) updateCurrentProfile(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, api.BadRequest(err.Error())
	}
	email := normalizeEmail(request.Email)

	if email != user.Email {
		if other, _ := a.store.GetUserByEmail(email); other != nil {
			return nil, &api.APIError{Code: http.StatusConflict, Message: "email already in use"}
		}
	}

	if err := a.store.UpdateUserProfile(user.ID, email, request.Name); err != nil {
		return nil, api.Internal("could not update profile")
	}

	updated, err := a.store.GetUserByID(user.ID)
	if err != nil {
		return nil, api.Internal("could not fetch updated profile")
	}
	return profile(updated), nil
}
