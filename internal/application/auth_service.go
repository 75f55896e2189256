package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/learnpath-auth/internal/domain/entity"
	repo "github.com/oksasatya/learnpath-auth/internal/domain/repository"
	"github.com/oksasatya/learnpath-auth/pkg/helpers"
	"github.com/oksasatya/learnpath-auth/pkg/mailer"
)

const RegisterMessage = "Registration successful! Please login."

// UserDirectory is a searchable index of user profiles.
type UserDirectory interface {
	IndexUser(ctx context.Context, p entity.Profile) error
	Search(ctx context.Context, query string, size int) ([]entity.Profile, error)
}

// JobPublisher enqueues JSON jobs for out-of-process workers.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// PasswordHasher hashes and verifies passwords. VerifyDummy must cost the
// same as a Verify so unknown accounts are not distinguishable by latency.
type PasswordHasher interface {
	Hash(ctx context.Context, plain string) (string, error)
	Verify(ctx context.Context, hash, plain string) (bool, error)
	VerifyDummy(ctx context.Context, plain string) error
}

// WelcomeMail controls the email enqueued after registration.
type WelcomeMail struct {
	Enabled     bool
	CompanyName string
	LoginURL    string
}

type AuthService struct {
	Repo      repo.UserRepository
	Hasher    PasswordHasher
	JWT       *helpers.JWTManager
	BG        *Background
	Logger    *logrus.Logger
	Directory UserDirectory
	Mail      JobPublisher
	Welcome   WelcomeMail

	now func() time.Time
}

func NewAuthService(r repo.UserRepository, hasher PasswordHasher, jwt *helpers.JWTManager, bg *Background, logger *logrus.Logger) *AuthService {
	return &AuthService{
		Repo:   r,
		Hasher: hasher,
		JWT:    jwt,
		BG:     bg,
		Logger: logger,
		now:    time.Now,
	}
}

// WithDirectory enables indexing of new accounts and admin search.
func (s *AuthService) WithDirectory(d UserDirectory) *AuthService {
	s.Directory = d
	return s
}

// WithWelcomeMail enables the welcome email job on registration.
func (s *AuthService) WithWelcomeMail(pub JobPublisher, w WelcomeMail) *AuthService {
	s.Mail = pub
	s.Welcome = w
	return s
}

type RegisterInput struct {
	FullName   string
	Email      string
	Password   string
	Role       string
	Department string
	Position   string
}

type RegisterResult struct {
	Success  bool
	Message  string
	Redirect string
	UserID   string
}

// Register validates the input, hashes the password and stores the account.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	fullName := strings.TrimSpace(in.FullName)
	email := entity.NormalizeEmail(in.Email)
	department := strings.TrimSpace(in.Department)
	position := strings.TrimSpace(in.Position)

	var missing []string
	if fullName == "" {
		missing = append(missing, "full_name")
	}
	if email == "" {
		missing = append(missing, "email")
	}
	if in.Password == "" {
		missing = append(missing, "password")
	}
	if strings.TrimSpace(in.Role) == "" {
		missing = append(missing, "role")
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Fields: missing}
	}

	role := entity.Role(in.Role)
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	if role.RequiresProfile() && (department == "" || position == "") {
		return nil, ErrMissingInstructorFields
	}
	if !role.RequiresProfile() {
		department, position = "", ""
	}
	if len(in.Password) > helpers.MaxPasswordBytes {
		return nil, &ValidationError{
			Fields: []string{"password"},
			Reason: fmt.Sprintf("password must be at most %d bytes", helpers.MaxPasswordBytes),
		}
	}

	switch _, err := s.Repo.FindByEmail(ctx, email); {
	case err == nil:
		registerConflictTotal.Add(1)
		return nil, ErrEmailExists
	case errors.Is(err, repo.ErrNotFound):
	default:
		return nil, storeError(err)
	}

	hash, err := s.Hasher.Hash(ctx, in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &entity.User{
		FullName:   fullName,
		Email:      email,
		Password:   hash,
		Role:       role,
		Department: department,
		Position:   position,
		Active:     true,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			// lost a race with a concurrent registration
			registerConflictTotal.Add(1)
			return nil, ErrEmailExists
		}
		return nil, storeError(err)
	}
	registerTotal.Add(1)
	if s.Logger != nil {
		helpers.LogInfo(s.Logger, "user registered", logrus.Fields{"user_id": u.ID, "role": u.Role})
	}

	s.afterRegister(ctx, u)

	return &RegisterResult{
		Success:  true,
		Message:  RegisterMessage,
		Redirect: entity.RegisterRedirect,
		UserID:   u.ID,
	}, nil
}

func (s *AuthService) afterRegister(ctx context.Context, u *entity.User) {
	if s.BG == nil {
		return
	}
	fields := logrus.Fields{"user_id": u.ID}
	profile := u.Profile()
	if s.Directory != nil {
		s.BG.Go(ctx, "index_user", fields, func(c context.Context) error {
			return s.Directory.IndexUser(c, profile)
		})
	}
	if s.Mail != nil && s.Welcome.Enabled {
		job := mailer.NewWelcomeJob(profile.Email, profile.FullName, string(profile.Role), s.Welcome.CompanyName, s.Welcome.LoginURL)
		s.BG.Go(ctx, "enqueue_welcome_email", fields, func(c context.Context) error {
			return s.Mail.PublishJSON(c, job)
		})
	}
}

// UserView is the login projection of a user; it never carries the hash.
type UserView struct {
	ID        string
	Email     string
	Role      entity.Role
	FullName  string
	LastLogin *time.Time
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      UserView
	Redirect  string
}

// Login checks the credentials and issues a signed token.
// Unknown emails, wrong passwords and inactive accounts all return
// ErrInvalidCredentials after the same amount of bcrypt work.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = entity.NormalizeEmail(email)

	var missing []string
	if email == "" {
		missing = append(missing, "email")
	}
	if password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Fields: missing}
	}

	u, err := s.Repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			if derr := s.Hasher.VerifyDummy(ctx, password); derr != nil {
				return nil, fmt.Errorf("verify password: %w", derr)
			}
			loginFailedTotal.Add(1)
			return nil, ErrInvalidCredentials
		}
		return nil, storeError(err)
	}

	ok, err := s.Hasher.Verify(ctx, u.Password, password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok || !u.Active {
		loginFailedTotal.Add(1)
		return nil, ErrInvalidCredentials
	}

	token, exp, err := s.JWT.Generate(u.ID, string(u.Role), u.Email)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	at := s.now()
	s.recordLogin(ctx, u.ID, at)
	loginTotal.Add(1)

	return &LoginResult{
		Token:     token,
		ExpiresAt: exp,
		User: UserView{
			ID:        u.ID,
			Email:     u.Email,
			Role:      u.Role,
			FullName:  u.FullName,
			LastLogin: u.LastLogin,
		},
		Redirect: u.Role.Redirect(),
	}, nil
}

func (s *AuthService) recordLogin(ctx context.Context, userID string, at time.Time) {
	record := func(c context.Context) error {
		if err := s.Repo.RecordLogin(c, userID, at); err != nil {
			return storeError(err)
		}
		return nil
	}
	if s.BG == nil {
		if err := record(ctx); err != nil && s.Logger != nil {
			helpers.LogError(s.Logger, "record login failed", err, logrus.Fields{"user_id": userID})
		}
		return
	}
	s.BG.Go(ctx, "record_login", logrus.Fields{"user_id": userID}, record)
}

// SearchUsers queries the user directory. Without a directory it returns
// an empty result.
func (s *AuthService) SearchUsers(ctx context.Context, query string, size int) ([]entity.Profile, error) {
	if s.Directory == nil {
		return []entity.Profile{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	return s.Directory.Search(ctx, strings.TrimSpace(query), size)
}
