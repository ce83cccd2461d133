package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"connectrpc.com/connect"
	"github.com/shubh-aarambh/fintrack/internal/auth"
	"github.com/shubh-aarambh/fintrack/internal/middleware"
	"github.com/shubh-aarambh/fintrack/internal/models"
)

// SeedFunc prepares a newly registered user's records.
type SeedFunc func(ctx context.Context, userID string) error

// AuthService registers users, signs them in and manages their profile.
type AuthService struct {
	authenticator auth.Authenticator
	directory     *auth.Directory
	jwtManager    *auth.JWTManager
	seed          SeedFunc
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service. seed may be nil.
func NewAuthService(authenticator auth.Authenticator, directory *auth.Directory, jwtManager *auth.JWTManager, seed SeedFunc, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		authenticator: authenticator,
		directory:     directory,
		jwtManager:    jwtManager,
		seed:          seed,
		logger:        logger,
	}
}

// Register creates a new user account and signs it in.
func (s *AuthService) Register(ctx context.Context, req *connect.Request[RegisterRequest]) (*connect.Response[AuthResponse], error) {
	s.logger.InfoContext(ctx, "Register request", "email", req.Msg.Email)

	user, err := s.authenticator.Register(ctx, req.Msg.Email, req.Msg.Name, req.Msg.Password)
	if err != nil {
		s.logger.WarnContext(ctx, "Registration failed", "email", req.Msg.Email, "error", err)
		return nil, toConnectError(err)
	}

	if s.seed != nil {
		if err := s.seed(ctx, user.ID); err != nil {
			// The account exists; the user can still add records by hand.
			s.logger.ErrorContext(ctx, "Failed to seed default records", "user_id", user.ID, "error", err)
		}
	}

	resp, err := s.signIn(user)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "User registered successfully", "user_id", user.ID)
	return resp, nil
}

// Login authenticates a user and returns a session token.
func (s *AuthService) Login(ctx context.Context, req *connect.Request[LoginRequest]) (*connect.Response[AuthResponse], error) {
	user, err := s.authenticator.Authenticate(ctx, req.Msg.Email, req.Msg.Password)
	if err != nil {
		s.logger.InfoContext(ctx, "Login failed", "email", req.Msg.Email)
		return nil, toConnectError(err)
	}
	return s.signIn(user)
}

func (s *AuthService) signIn(user *models.User) (*connect.Response[AuthResponse], error) {
	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(&AuthResponse{Token: token, User: user.Public()}), nil
}

// Logout acknowledges a sign-out. Tokens are stateless, so the client
// discards its copy.
func (s *AuthService) Logout(ctx context.Context, _ *connect.Request[LogoutRequest]) (*connect.Response[LogoutResponse], error) {
	if userID := middleware.GetUserID(ctx); userID != "" {
		s.logger.InfoContext(ctx, "User signed out", "user_id", userID)
	}
	return connect.NewResponse(&LogoutResponse{}), nil
}

// Me returns the signed-in user.
func (s *AuthService) Me(ctx context.Context, _ *connect.Request[MeRequest]) (*connect.Response[UserResponse], error) {
	user, err := s.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&UserResponse{User: user.Public()}), nil
}

// UpdateProfile changes the signed-in user's display name or avatar.
func (s *AuthService) UpdateProfile(ctx context.Context, req *connect.Request[UpdateProfileRequest]) (*connect.Response[UserResponse], error) {
	user, err := s.currentUser(ctx)
	if err != nil {
		return nil, err
	}

	if req.Msg.Name != nil {
		name := strings.TrimSpace(*req.Msg.Name)
		if name == "" {
			return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("name cannot be empty"))
		}
		user.Name = name
	}
	if req.Msg.Avatar != nil {
		user.Avatar = strings.TrimSpace(*req.Msg.Avatar)
	}

	if err := s.directory.UpdateUser(ctx, user); err != nil {
		return nil, toConnectError(err)
	}
	s.logger.InfoContext(ctx, "Profile updated", "user_id", user.ID)
	return connect.NewResponse(&UserResponse{User: user.Public()}), nil
}

func (s *AuthService) currentUser(ctx context.Context) (*models.User, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	user, err := s.directory.GetUserByID(ctx, userID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return user, nil
}
