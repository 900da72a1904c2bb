package services

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
	"golang.org/x/crypto/bcrypt"

	"github.com/SparkJorel/payment-api-paynote/internal/apperrors"
	"github.com/SparkJorel/payment-api-paynote/internal/models"
	"github.com/SparkJorel/payment-api-paynote/internal/phone"
	"github.com/SparkJorel/payment-api-paynote/internal/store"
)

type UserService struct {
	store     store.Store
	jwtSecret []byte
	now       func() time.Time
}

func NewUserService(st store.Store, jwtSecret string) *UserService {
	return &UserService{store: st, jwtSecret: []byte(jwtSecret), now: time.Now}
}

func (s *UserService) Register(ctx context.Context, fullname, email, phoneNumber, password string) (string, error) {
	fullname = strings.TrimSpace(fullname)
	email = strings.ToLower(strings.TrimSpace(email))

	if fullname == "" || email == "" {
		return "", apperrors.New(apperrors.KindInvalidArgument, "fullname and email cannot be empty")
	}
	if len(password) < 8 {
		return "", apperrors.New(apperrors.KindInvalidArgument, "password must be at least 8 characters")
	}
	msisdn, err := phone.Normalize(phoneNumber)
	if err != nil {
		return "", apperrors.Wrap(apperrors.KindInvalidArgument, err, "invalid phone number")
	}

	if _, err := s.store.GetUserByEmail(ctx, email); err == nil {
		return "", apperrors.New(apperrors.KindInvalidArgument, "email already registered")
	} else if apperrors.KindOf(err) != apperrors.KindNotFound {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", apperrors.Wrap(apperrors.KindInternal, err, "failed to hash password")
	}

	return s.store.InsertUser(ctx, &models.User{
		FullName:  fullname,
		Email:     email,
		Msisdn:    msisdn,
		HPassword: string(hash),
		Role:      models.RoleMember,
	})
}

// Login verifies the credentials and issues the HS256 bearer token the rest
// of the API consumes.
func (s *UserService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindNotFound {
			return "", nil, apperrors.New(apperrors.KindPermissionDenied, "invalid credentials")
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HPassword), []byte(password)); err != nil {
		return "", nil, apperrors.New(apperrors.KindPermissionDenied, "invalid credentials")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID.Hex(),
		"role":    user.Role,
		"exp":     s.now().Add(24 * time.Hour).Unix(),
	})
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to sign token")
	}

	return signed, user, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.store.GetUserByID(ctx, id)
}
