package usecases

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"kemea.backend/internal/domain/entities"
	domainerrors "kemea.backend/internal/domain/errors"
	"kemea.backend/internal/domain/repositories"
	"kemea.backend/pkg/crypto"
	"kemea.backend/pkg/logger"
	"kemea.backend/pkg/metrics"
	"kemea.backend/pkg/utils"
)

var generateOTPCode = crypto.GenerateNumericCode

// DefaultMaxOTPAttempts is how many wrong codes an OTP survives.
const DefaultMaxOTPAttempts = 5

// VerificationUsecase issues and checks one-time passcodes and drives the
// flows built on them: email verification, email change and password reset.
type VerificationUsecase struct {
	userRepo    repositories.UserRepository
	otpRepo     repositories.OTPRepository
	uow         repositories.UnitOfWork
	mail        *mailQueue
	resetCodec  ResetTokenCodec
	revoker     TokenRevoker
	ttl         time.Duration
	digits      int
	maxAttempts int
	now         func() time.Time
}

// NewVerificationUsecase creates a new verification usecase
func NewVerificationUsecase(
	userRepo repositories.UserRepository,
	otpRepo repositories.OTPRepository,
	outboxRepo repositories.OutboxRepository,
	uow repositories.UnitOfWork,
	renderer EmailRenderer,
	resetCodec ResetTokenCodec,
	revoker TokenRevoker,
	ttl time.Duration,
	digits int,
) *VerificationUsecase {
	u := &VerificationUsecase{
		userRepo:    userRepo,
		otpRepo:     otpRepo,
		uow:         uow,
		resetCodec:  resetCodec,
		revoker:     revoker,
		ttl:         ttl,
		digits:      digits,
		maxAttempts: DefaultMaxOTPAttempts,
		now:         time.Now,
	}
	u.mail = &mailQueue{outbox: outboxRepo, renderer: renderer, now: u.clock}
	return u
}

// SetClock replaces the time source.
func (u *VerificationUsecase) SetClock(now func() time.Time) {
	u.now = now
}

// SetMaxAttempts changes how many wrong codes burn an OTP. Values below 1 are ignored.
func (u *VerificationUsecase) SetMaxAttempts(n int) {
	if n > 0 {
		u.maxAttempts = n
	}
}

func (u *VerificationUsecase) clock() time.Time {
	return u.now()
}

// IssueOTP replaces any live code for (owner, purpose) with a fresh one and
// queues its email to recipient, both in one transaction. Called with a ctx
// that already carries a transaction, it joins it.
func (u *VerificationUsecase) IssueOTP(ctx context.Context, owner *entities.User, recipient entities.Recipient, purpose entities.OTPPurpose) error {
	code, err := generateOTPCode(u.digits)
	if err != nil {
		return err
	}

	address := recipient.EmailAddress()
	otp := &entities.OTPSecret{
		ID:        utils.GenerateUUIDv7(),
		UserID:    owner.ID,
		Purpose:   purpose,
		Email:     address,
		Code:      code,
		CreatedAt: u.now(),
	}

	err = u.uow.Do(ctx, func(ctx context.Context) error {
		if err := u.otpRepo.Replace(ctx, otp); err != nil {
			return err
		}
		return u.mail.enqueue(ctx, purpose.Template(), purpose.Subject(), []string{address}, map[string]interface{}{
			"full_name":   owner.FullName,
			"email":       address,
			"otp":         code,
			"ttl_minutes": int(u.ttl / time.Minute),
		})
	})
	if err != nil {
		return err
	}

	metrics.OTPIssued.WithLabelValues(string(purpose)).Inc()
	return nil
}

// consumeOTP checks code against the live OTP for (userID, purpose). On a
// match apply runs and the OTP is deleted, in the same transaction. A miss
// is recorded and commits; the OTP is burned after maxAttempts misses.
func (u *VerificationUsecase) consumeOTP(ctx context.Context, userID uuid.UUID, purpose entities.OTPPurpose, code string, apply func(ctx context.Context, otp *entities.OTPSecret) error) error {
	outcome := "error"
	defer func() {
		metrics.OTPVerifications.WithLabelValues(string(purpose), outcome).Inc()
	}()

	var missErr error
	err := u.uow.Do(ctx, func(ctx context.Context) error {
		otp, err := u.otpRepo.Get(ctx, userID, purpose)
		if err != nil {
			if errors.Is(err, domainerrors.ErrNotFound) {
				outcome = "missing"
				return errNoOTP()
			}
			return err
		}

		// expiry wins over a wrong code
		if otp.Expired(u.now(), u.ttl) {
			outcome = "expired"
			return domainerrors.ExpiredOTP("OTP has expired")
		}
		if !otp.Matches(code) {
			outcome = "incorrect"
			exhausted, err := u.otpRepo.RecordMiss(ctx, otp.ID, u.maxAttempts)
			if err != nil {
				if errors.Is(err, domainerrors.ErrNotFound) {
					return errNoOTP()
				}
				return err
			}
			if exhausted {
				outcome = "exhausted"
				logger.Warn(ctx, "OTP burned after repeated misses",
					zap.String("user_id", userID.String()),
					zap.String("purpose", string(purpose)),
				)
				missErr = domainerrors.IncorrectOTP("Too many incorrect attempts, request a new code")
				return nil
			}
			missErr = domainerrors.IncorrectOTP("Invalid OTP")
			return nil
		}

		if err := apply(ctx, otp); err != nil {
			return err
		}
		if err := u.otpRepo.Delete(ctx, otp.ID); err != nil {
			if errors.Is(err, domainerrors.ErrNotFound) {
				outcome = "missing"
				return errNoOTP()
			}
			return err
		}
		outcome = "success"
		return nil
	})
	if err != nil {
		return err
	}
	return missErr
}

func errNoOTP() error {
	return domainerrors.NonExistent("No OTP found for this account")
}

// VerifyEmail marks the account behind input.Email as verified.
func (u *VerificationUsecase) VerifyEmail(ctx context.Context, input *entities.VerifyEmailInput) error {
	user, err := u.userByEmail(ctx, input.Email)
	if err != nil {
		return err
	}
	if user.EmailVerified {
		return domainerrors.VerifiedUser("Email address already verified")
	}

	err = u.consumeOTP(ctx, user.ID, entities.OTPPurposeEmailVerification, input.OTP, func(ctx context.Context, _ *entities.OTPSecret) error {
		return u.userRepo.MarkEmailVerified(ctx, user.ID)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "Email verified", zap.String("user_id", user.ID.String()))
	return nil
}

// ResendVerification issues a new verification code unless the account is already verified.
func (u *VerificationUsecase) ResendVerification(ctx context.Context, email string) error {
	user, err := u.userByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user.EmailVerified {
		return domainerrors.VerifiedUser("Email address already verified")
	}
	return u.IssueOTP(ctx, user, entities.RegisteredRecipient{User: user}, entities.OTPPurposeEmailVerification)
}

// ForgotPassword sends a password reset code.
func (u *VerificationUsecase) ForgotPassword(ctx context.Context, email string) error {
	user, err := u.userByEmail(ctx, email)
	if err != nil {
		return err
	}
	return u.IssueOTP(ctx, user, entities.RegisteredRecipient{User: user}, entities.OTPPurposePasswordReset)
}

// VerifyResetCode exchanges a password reset code for a reset token.
func (u *VerificationUsecase) VerifyResetCode(ctx context.Context, input *entities.VerifyEmailInput) (*entities.ResetToken, error) {
	user, err := u.userByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}

	var token string
	err = u.consumeOTP(ctx, user.ID, entities.OTPPurposePasswordReset, input.OTP, func(ctx context.Context, _ *entities.OTPSecret) error {
		var err error
		token, err = u.resetCodec.Encrypt(user.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &entities.ResetToken{Token: token}, nil
}

// ResetPassword sets a new password with a reset token. Each token works once.
func (u *VerificationUsecase) ResetPassword(ctx context.Context, token, password string) error {
	claims, err := u.resetCodec.Decrypt(token)
	if err != nil {
		if errors.Is(err, crypto.ErrExpiredResetToken) {
			return domainerrors.InvalidEntry("Reset link has expired")
		}
		return domainerrors.InvalidEntry("Reset link is invalid")
	}

	user, err := u.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return domainerrors.NonExistent("User not found")
		}
		return err
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return err
	}

	ttl := claims.ExpiresAt.Sub(u.now())
	if ttl <= 0 {
		ttl = time.Minute
	}
	fresh, err := u.revoker.Consume(ctx, claims.TokenID, ttl)
	if err != nil {
		return err
	}
	if !fresh {
		return domainerrors.InvalidEntry("Reset link has already been used")
	}

	if err := u.userRepo.UpdatePassword(ctx, user.ID, hash); err != nil {
		if relErr := u.revoker.Release(ctx, claims.TokenID); relErr != nil {
			logger.Error(ctx, "Failed to release reset token", zap.Error(relErr))
		}
		return err
	}
	logger.Info(ctx, "Password reset", zap.String("user_id", user.ID.String()))
	return nil
}

// RequestEmailChange sends a confirmation code to the new address.
func (u *VerificationUsecase) RequestEmailChange(ctx context.Context, userID uuid.UUID, newEmail string) error {
	user, err := u.userByID(ctx, userID)
	if err != nil {
		return err
	}

	newEmail = normalizeEmail(newEmail)
	if newEmail == user.Email {
		return domainerrors.OldEmail("You can't use your previous email")
	}
	if err := u.ensureEmailFree(ctx, newEmail); err != nil {
		return err
	}

	return u.IssueOTP(ctx, user, entities.RawEmailRecipient{Address: newEmail}, entities.OTPPurposeEmailChange)
}

// ConfirmEmailChange switches the account to the address the code was sent to.
func (u *VerificationUsecase) ConfirmEmailChange(ctx context.Context, userID uuid.UUID, input *entities.ChangeEmailInput) error {
	user, err := u.userByID(ctx, userID)
	if err != nil {
		return err
	}

	newEmail := normalizeEmail(input.Email)
	if newEmail == user.Email {
		return domainerrors.OldEmail("You can't use your previous email")
	}

	return u.consumeOTP(ctx, user.ID, entities.OTPPurposeEmailChange, input.OTP, func(ctx context.Context, otp *entities.OTPSecret) error {
		if otp.Email != newEmail {
			return domainerrors.IncorrectOTP("Invalid OTP")
		}
		if err := u.ensureEmailFree(ctx, newEmail); err != nil {
			return err
		}
		user.Email = newEmail
		if err := u.userRepo.Update(ctx, user); err != nil {
			if errors.Is(err, domainerrors.ErrAlreadyExists) {
				return domainerrors.AlreadyExists("Account with this email already exists")
			}
			return err
		}
		return nil
	})
}

func (u *VerificationUsecase) userByEmail(ctx context.Context, email string) (*entities.User, error) {
	user, err := u.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NonExistent("User with this email not found")
		}
		return nil, err
	}
	return user, nil
}

func (u *VerificationUsecase) userByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NonExistent("User not found")
		}
		return nil, err
	}
	return user, nil
}

func (u *VerificationUsecase) ensureEmailFree(ctx context.Context, email string) error {
	_, err := u.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return domainerrors.AlreadyExists("Account with this email already exists")
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return err
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
