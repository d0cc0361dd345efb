package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"math/big"
	"stellarone-api/config"
	"stellarone-api/logger"
	"stellarone-api/model"
	"stellarone-api/repository"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials  = errors.New("invalid account number or password")
	ErrInvalidOrExpiredOTP = errors.New("invalid or expired verification code")
	ErrUserNotFound        = errors.New("account not found")
	ErrAccountNotActive    = errors.New("account is not active")
	ErrEmailTaken          = errors.New("email is already registered")
	ErrUnknownCurrency     = errors.New("unknown currency")
)

// AuthService owns the two-factor login flow: credential check, OTP issuance
// and verification, bearer token minting, and password resets.
type AuthService struct {
	userRepo    repository.IUserRepository
	accountRepo repository.IAccountRepository
	otpRepo     repository.IOTPRepository
	resetRepo   repository.IOTPRepository
	mailer      Mailer
}

func NewAuthService(userRepo repository.IUserRepository, accountRepo repository.IAccountRepository,
	otpRepo, resetRepo repository.IOTPRepository, mailer Mailer) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		accountRepo: accountRepo,
		otpRepo:     otpRepo,
		resetRepo:   resetRepo,
		mailer:      mailer,
	}
}

func getJwtKey() []byte {
	return []byte(config.AppConfig.JWT.SecretKey)
}

func otpTTL() time.Duration {
	return time.Duration(config.AppConfig.OTP.ExpiryMinutes) * time.Minute
}

func (s *AuthService) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to hash password")
		return "", err
	}
	return string(bytes), err
}

func (s *AuthService) CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// generateNumericCode returns n random decimal digits from crypto/rand.
func generateNumericCode(n int) (string, error) {
	digits := make([]byte, n)
	for i := range digits {
		d, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate code: %w", err)
		}
		digits[i] = byte('0' + d.Int64())
	}
	return string(digits), nil
}

// generateAccountNumber produces an 11-digit account number with the issuing
// prefix 2030.
func generateAccountNumber() (string, error) {
	suffix, err := generateNumericCode(7)
	if err != nil {
		return "", err
	}
	return "2030" + suffix, nil
}

// Register creates a user with a fresh unique account number, role USER, and
// one zero-balance sub-account of each type.
func (s *AuthService) Register(req model.RegisterRequest) (*model.User, []*model.Account, error) {
	hash, err := s.HashPassword(req.Password)
	if err != nil {
		return nil, nil, err
	}

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         model.RoleUser,
		AccountLevel: model.LevelStandard,
	}

	// The account number space is sparse; retry a handful of times on the
	// off chance a generated number collides.
	for attempt := 0; attempt < 5; attempt++ {
		user.AccountNumber, err = generateAccountNumber()
		if err != nil {
			return nil, nil, err
		}
		err = s.userRepo.CreateUser(user)
		if err == nil {
			break
		}
		if repository.IsUniqueViolation(err) {
			if _, lookupErr := s.userRepo.GetUserByEmail(req.Email); lookupErr == nil {
				return nil, nil, ErrEmailTaken
			}
			continue
		}
		return nil, nil, err
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}

	accounts := make([]*model.Account, 0, 3)
	for _, accountType := range []model.AccountType{model.AccountChecking, model.AccountLoan, model.AccountInvestment} {
		account := &model.Account{
			UserID:   user.ID,
			Type:     accountType,
			Currency: req.Currency,
		}
		if err := s.accountRepo.CreateAccount(account); err != nil {
			if repository.IsForeignKeyViolation(err) {
				return nil, nil, ErrUnknownCurrency
			}
			return nil, nil, err
		}
		accounts = append(accounts, account)
	}

	logger.Log.WithField("account_number", user.AccountNumber).Info("New user registered")
	return user, accounts, nil
}

// RequestLogin verifies the credentials and, on success, issues an OTP to the
// user's registered email. Unknown accounts and wrong passwords are
// indistinguishable to the caller.
func (s *AuthService) RequestLogin(ctx context.Context, accountNumber, password string) error {
	user, err := s.userRepo.GetUserByAccountNumber(accountNumber)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrInvalidCredentials
		}
		return err
	}
	if !s.CheckPasswordHash(password, user.PasswordHash) {
		return ErrInvalidCredentials
	}
	if user.Status != model.UserActive {
		return ErrAccountNotActive
	}

	return s.issueOTP(ctx, user)
}

// ResendOTP invalidates any outstanding code for the account and issues a new
// one.
func (s *AuthService) ResendOTP(ctx context.Context, accountNumber string) error {
	user, err := s.userRepo.GetUserByAccountNumber(accountNumber)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrUserNotFound
		}
		return err
	}
	return s.issueOTP(ctx, user)
}

func (s *AuthService) issueOTP(ctx context.Context, user *model.User) error {
	code, err := generateNumericCode(6)
	if err != nil {
		return err
	}

	ttl := otpTTL()
	// Storing overwrites any previous code for this account, so at most one
	// OTP is ever live per account.
	if err := s.otpRepo.StoreCode(ctx, user.AccountNumber, code, ttl); err != nil {
		return fmt.Errorf("failed to store otp: %w", err)
	}

	if err := s.mailer.SendOTP(user.Email, code, ttl); err != nil {
		return err
	}

	logger.Log.WithField("account_number", user.AccountNumber).Info("OTP issued")
	return nil
}

// VerifyOTP checks the submitted code against the stored challenge and, on an
// exact match, consumes it and mints a bearer token plus a profile snapshot.
func (s *AuthService) VerifyOTP(ctx context.Context, accountNumber, code string) (string, *model.UserSnapshot, error) {
	stored, err := s.otpRepo.GetCode(ctx, accountNumber)
	if err != nil {
		if err == repository.ErrCodeNotFound {
			return "", nil, ErrInvalidOrExpiredOTP
		}
		return "", nil, err
	}
	if stored != code {
		return "", nil, ErrInvalidOrExpiredOTP
	}

	// Consume the code so it cannot be replayed.
	if err := s.otpRepo.DeleteCode(ctx, accountNumber); err != nil {
		return "", nil, err
	}

	user, err := s.userRepo.GetUserByAccountNumber(accountNumber)
	if err != nil {
		return "", nil, err
	}
	// The account may have been frozen or closed since the code was issued;
	// a token must never be minted for an inactive account.
	if user.Status != model.UserActive {
		return "", nil, ErrAccountNotActive
	}

	accounts, err := s.accountRepo.GetAccountsByUserID(user.ID)
	if err != nil {
		return "", nil, err
	}
	accountIDs := make([]int, 0, len(accounts))
	for _, acc := range accounts {
		accountIDs = append(accountIDs, acc.ID)
	}

	token, err := s.GenerateJWT(user)
	if err != nil {
		return "", nil, err
	}

	snapshot := user.Snapshot(accountIDs)
	return token, &snapshot, nil
}

// GenerateJWT mints a signed bearer token carrying the user's identity and the
// role at issuance time.
func (s *AuthService) GenerateJWT(user *model.User) (string, error) {
	expirationTime := time.Now().Add(time.Duration(config.AppConfig.JWT.ExpiryHours) * time.Hour)

	claims := &model.AppClaims{
		UserID:        user.ID,
		Role:          string(user.Role),
		AccountNumber: user.AccountNumber,
		AccountLevel:  string(user.AccountLevel),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.AccountNumber,
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(getJwtKey())
	if err != nil {
		logger.Log.WithError(err).WithField("account_number", user.AccountNumber).Error("Failed to sign JWT")
		return "", fmt.Errorf("failed to sign token string: %w", err)
	}

	return tokenString, nil
}

// ForgotPassword issues a reset code to the account's registered email.
func (s *AuthService) ForgotPassword(ctx context.Context, accountNumber string) error {
	user, err := s.userRepo.GetUserByAccountNumber(accountNumber)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrUserNotFound
		}
		return err
	}

	code, err := generateNumericCode(6)
	if err != nil {
		return err
	}

	ttl := otpTTL()
	if err := s.resetRepo.StoreCode(ctx, user.AccountNumber, code, ttl); err != nil {
		return fmt.Errorf("failed to store reset code: %w", err)
	}

	return s.mailer.SendResetCode(user.Email, code, ttl)
}

// ResetPassword verifies the reset code, stores the new password hash, and
// consumes the code.
func (s *AuthService) ResetPassword(ctx context.Context, accountNumber, code, newPassword string) error {
	stored, err := s.resetRepo.GetCode(ctx, accountNumber)
	if err != nil {
		if err == repository.ErrCodeNotFound {
			return ErrInvalidOrExpiredOTP
		}
		return err
	}
	if stored != code {
		return ErrInvalidOrExpiredOTP
	}

	user, err := s.userRepo.GetUserByAccountNumber(accountNumber)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrUserNotFound
		}
		return err
	}

	hash, err := s.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(user.ID, hash); err != nil {
		return err
	}

	return s.resetRepo.DeleteCode(ctx, accountNumber)
}
