package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"

	"github.com/cortexsupport/backend-api/internal/logger"
	"github.com/cortexsupport/backend-api/internal/models"
	"github.com/cortexsupport/backend-api/internal/repositories"
)

// Error variables
var (
	ErrEmailTaken    = errors.New("email already registered")
	ErrUsernameTaken = errors.New("username already taken")
	// ErrUserAlreadyExists covers a duplicate detected by the storage-level
	// unique index, where the colliding field is unknown.
	ErrUserAlreadyExists  = errors.New("username or email already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

const (
	defaultListLimit = 10
	maxListLimit     = 100
)

// UserRepo defines the storage operations the service needs.
type UserRepo interface {
	List(ctx context.Context, skip, limit int64) (*models.Page[models.UserDB], error)
	Get(ctx context.Context, id string) (*models.UserDB, error)
	GetByEmail(ctx context.Context, email string) (*models.UserDB, error)
	GetByUsername(ctx context.Context, username string) (*models.UserDB, error)
	Create(ctx context.Context, user *models.UserDB) (*models.UserDB, error)
	Update(ctx context.Context, id string, set bson.M) (*models.UserDB, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// TokenIssuer defines an interface for minting access tokens.
type TokenIssuer interface {
	Issue(ctx context.Context, subject string) (string, error)
}

// UserService implements the domain rules atop the user repository.
type UserService struct {
	users UserRepo
	jwt   TokenIssuer
}

// NewUserService creates a new UserService instance.
func NewUserService(users UserRepo, jwt TokenIssuer) *UserService {
	return &UserService{
		users: users,
		jwt:   jwt,
	}
}

// Register creates a new user. Email and username uniqueness are checked
// independently before the insert; the unique index catches racing writers.
func (svc *UserService) Register(ctx context.Context, in models.UserCreate) (*models.UserResponse, error) {
	existing, err := svc.users.GetByEmail(ctx, in.Email)
	if err != nil {
		logger.Log.Errorw("failed to check email", "err", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	existing, err = svc.users.GetByUsername(ctx, in.Username)
	if err != nil {
		logger.Log.Errorw("failed to check username", "err", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return nil, err
	}

	role := in.Role
	if role == "" {
		role = models.RoleUser
	}

	now := time.Now().UTC()
	user := &models.UserDB{
		Email:          in.Email,
		Username:       in.Username,
		FullName:       in.FullName,
		HashedPassword: string(hashed),
		Role:           role,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	created, err := svc.users.Create(ctx, user)
	if errors.Is(err, repositories.ErrDuplicateKey) {
		return nil, ErrUserAlreadyExists
	}
	if err != nil {
		logger.Log.Errorw("failed to save user", "err", err)
		return nil, err
	}

	return models.NewUserResponse(created), nil
}

// Authenticate verifies credentials. An unknown username and a wrong password
// produce the identical outward signal.
func (svc *UserService) Authenticate(ctx context.Context, username, password string) (*models.UserDB, error) {
	user, err := svc.users.GetByUsername(ctx, username)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// Login authenticates a user and mints an access token for them.
func (svc *UserService) Login(ctx context.Context, username, password string) (*models.Token, error) {
	user, err := svc.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}

	token, err := svc.jwt.Issue(ctx, user.Username)
	if err != nil {
		logger.Log.Errorw("failed to issue token", "err", err)
		return nil, err
	}

	return &models.Token{AccessToken: token, TokenType: "bearer"}, nil
}

// List returns a page of users. A non-superuser requester always receives
// exactly their own record; skip and limit are ignored on that branch.
func (svc *UserService) List(ctx context.Context, requester *models.UserDB, skip, limit int64) (*models.Page[models.UserResponse], error) {
	if limit < 1 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if skip < 0 {
		skip = 0
	}

	if requester != nil && !requester.IsSuperuser {
		return &models.Page[models.UserResponse]{
			Items:      []models.UserResponse{*models.NewUserResponse(requester)},
			Total:      1,
			Page:       1,
			PageSize:   1,
			TotalPages: 1,
		}, nil
	}

	page, err := svc.users.List(ctx, skip, limit)
	if err != nil {
		return nil, err
	}

	items := make([]models.UserResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, *models.NewUserResponse(&page.Items[i]))
	}

	return &models.Page[models.UserResponse]{
		Items:      items,
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}, nil
}

// Get returns the user with the given id.
func (svc *UserService) Get(ctx context.Context, id string) (*models.UserResponse, error) {
	user, err := svc.users.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return models.NewUserResponse(user), nil
}

// Update applies a partial update. Only non-nil fields change; an empty
// partial returns the record unchanged. A new email or username must not
// belong to a different user; the password, if present, is re-hashed.
func (svc *UserService) Update(ctx context.Context, id string, in models.UserUpdate) (*models.UserResponse, error) {
	existing, err := svc.users.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrUserNotFound
	}

	set := bson.M{}

	if in.Email != nil && *in.Email != existing.Email {
		other, err := svc.users.GetByEmail(ctx, *in.Email)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != existing.ID {
			return nil, ErrEmailTaken
		}
		set["email"] = *in.Email
	}

	if in.Username != nil && *in.Username != existing.Username {
		other, err := svc.users.GetByUsername(ctx, *in.Username)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != existing.ID {
			return nil, ErrUsernameTaken
		}
		set["username"] = *in.Username
	}

	if in.FullName != nil {
		set["full_name"] = *in.FullName
	}
	if in.Role != nil {
		set["role"] = *in.Role
	}
	if in.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			logger.Log.Errorw("failed to hash password", "err", err)
			return nil, err
		}
		set["hashed_password"] = string(hashed)
	}

	if len(set) == 0 {
		return models.NewUserResponse(existing), nil
	}
	set["updated_at"] = time.Now().UTC()

	updated, err := svc.users.Update(ctx, id, set)
	if errors.Is(err, repositories.ErrDuplicateKey) {
		return nil, ErrUserAlreadyExists
	}
	if err != nil {
		logger.Log.Errorw("failed to update user", "err", err)
		return nil, err
	}
	if updated == nil {
		return nil, ErrUserNotFound
	}

	return models.NewUserResponse(updated), nil
}

// Delete hard-deletes the user with the given id.
func (svc *UserService) Delete(ctx context.Context, id string) error {
	ok, err := svc.users.Delete(ctx, id)
	if err != nil {
		logger.Log.Errorw("failed to delete user", "err", err)
		return err
	}
	if !ok {
		return ErrUserNotFound
	}
	return nil
}
