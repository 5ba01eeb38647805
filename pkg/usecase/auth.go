package usecase

import (
	"context"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/m-mizutani/goerr/v2"
	"github.com/standup-lab/jirabot/pkg/domain/interfaces"
	"github.com/standup-lab/jirabot/pkg/domain/model"
	"github.com/standup-lab/jirabot/pkg/domain/types"
	"golang.org/x/crypto/bcrypt"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour

	typClaim         = "typ"
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// TokenPair is what a successful credential exchange yields.
type TokenPair struct {
	Access  string
	Refresh string
}

type AuthUseCase struct {
	repo   interfaces.Repository
	secret []byte
	cache  *authCache
	now    func() time.Time
}

func NewAuthUseCase(repo interfaces.Repository, secret []byte) *AuthUseCase {
	return &AuthUseCase{
		repo:   repo,
		secret: secret,
		cache:  newAuthCache(),
		now:    time.Now,
	}
}

func (uc *AuthUseCase) sign(userID types.UserID, tokenType string, ttl time.Duration) (string, error) {
	if len(uc.secret) == 0 {
		return "", goerr.New("JWT secret is not configured", goerr.T(types.ErrTagConfig))
	}

	now := uc.now().UTC()
	tok, err := jwt.NewBuilder().
		Subject(userID.String()).
		IssuedAt(now).
		Expiration(now.Add(ttl)).
		Claim(typClaim, tokenType).
		Build()
	if err != nil {
		return "", goerr.Wrap(err, "failed to build token")
	}

	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, uc.secret))
	if err != nil {
		return "", goerr.Wrap(err, "failed to sign token")
	}

	return string(signed), nil
}

func (uc *AuthUseCase) parse(raw string) (jwt.Token, error) {
	if len(uc.secret) == 0 {
		return nil, goerr.New("JWT secret is not configured", goerr.T(types.ErrTagConfig))
	}

	// Allow 10 seconds of clock skew to handle time synchronization differences
	return jwt.Parse([]byte(raw),
		jwt.WithKey(jwa.HS256, uc.secret),
		jwt.WithValidate(true),
		jwt.WithAcceptableSkew(10*time.Second),
	)
}

func tokenType(tok jwt.Token) string {
	val, ok := tok.Get(typClaim)
	if !ok {
		return ""
	}
	typ, _ := val.(string)
	return typ
}

// IssueTokens exchanges a username and password for a JWT pair. Unknown
// usernames and wrong passwords are indistinguishable to the caller.
func (uc *AuthUseCase) IssueTokens(ctx context.Context, username, password string) (*TokenPair, *model.User, error) {
	user, err := uc.repo.Users().GetUserByUsername(ctx, username)
	if err != nil {
		if goerr.HasTag(err, types.ErrTagNotFound) {
			return nil, nil, goerr.Wrap(ErrInvalidCredentials, "unknown username")
		}
		return nil, nil, goerr.Wrap(err, "failed to look up user", goerr.V("username", username))
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, nil, goerr.Wrap(ErrInvalidCredentials, "password mismatch", goerr.V("username", username))
	}

	access, err := uc.sign(user.ID, tokenTypeAccess, accessTokenTTL)
	if err != nil {
		return nil, nil, err
	}
	refresh, err := uc.sign(user.ID, tokenTypeRefresh, refreshTokenTTL)
	if err != nil {
		return nil, nil, err
	}

	return &TokenPair{Access: access, Refresh: refresh}, user, nil
}

// Refresh issues a new access token for a valid refresh token.
func (uc *AuthUseCase) Refresh(ctx context.Context, refreshToken string) (string, error) {
	tok, err := uc.parse(refreshToken)
	if err != nil {
		return "", goerr.Wrap(err, "invalid refresh token", goerr.T(types.ErrTagValidation))
	}
	if tokenType(tok) != tokenTypeRefresh {
		return "", goerr.New("token is not a refresh token", goerr.T(types.ErrTagValidation))
	}

	userID := types.UserID(tok.Subject())
	if err := userID.Validate(); err != nil {
		return "", goerr.Wrap(err, "refresh token has no subject", goerr.T(types.ErrTagValidation))
	}

	return uc.sign(userID, tokenTypeAccess, accessTokenTTL)
}

// VerifyAccess validates an access token and returns its user ID. Verified
// claims are cached briefly so the middleware does not re-parse every
// request.
func (uc *AuthUseCase) VerifyAccess(ctx context.Context, raw string) (types.UserID, error) {
	if userID, ok := uc.cache.get(raw); ok {
		return userID, nil
	}

	tok, err := uc.parse(raw)
	if err != nil {
		return "", goerr.Wrap(ErrInvalidToken, "access token verification failed")
	}
	if tokenType(tok) != tokenTypeAccess {
		return "", goerr.Wrap(ErrInvalidToken, "token is not an access token")
	}

	userID := types.UserID(tok.Subject())
	if err := userID.Validate(); err != nil {
		return "", goerr.Wrap(ErrInvalidToken, "access token has no subject")
	}

	uc.cache.set(raw, userID, tok.Expiration())
	return userID, nil
}

// Register creates a user together with an empty profile. The profile is
// unlinked until LinkJiraAccount is called.
func (uc *AuthUseCase) Register(ctx context.Context, username, password, email, displayName string) (*model.User, error) {
	if username == "" || password == "" {
		return nil, goerr.New("username and password are required", goerr.T(types.ErrTagValidation))
	}

	if _, err := uc.repo.Users().GetUserByUsername(ctx, username); err == nil {
		return nil, goerr.Wrap(ErrUsernameTaken, "registration rejected", goerr.V("username", username))
	} else if !goerr.HasTag(err, types.ErrTagNotFound) {
		return nil, goerr.Wrap(err, "failed to check username", goerr.V("username", username))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to hash password")
	}

	user := model.NewUser(username, email, displayName)
	user.PasswordHash = hash
	if err := uc.repo.Users().PutUser(ctx, user); err != nil {
		return nil, goerr.Wrap(err, "failed to store user")
	}
	if err := uc.repo.Users().PutProfile(ctx, model.NewProfile(user.ID)); err != nil {
		return nil, goerr.Wrap(err, "failed to store profile", goerr.V("userID", user.ID))
	}

	return user, nil
}

// LinkJiraAccount attaches a Jira account ID to the user's profile.
func (uc *AuthUseCase) LinkJiraAccount(ctx context.Context, userID types.UserID, accountID string) error {
	if accountID == "" {
		return goerr.New("jira account ID is required", goerr.T(types.ErrTagValidation))
	}

	profile, err := uc.repo.Users().GetProfile(ctx, userID)
	if err != nil {
		if !goerr.HasTag(err, types.ErrTagNotFound) {
			return goerr.Wrap(err, "failed to load profile", goerr.V("userID", userID))
		}
		profile = model.NewProfile(userID)
	}

	profile.JiraAccountID = accountID
	profile.UpdatedAt = uc.now().UTC()

	if err := uc.repo.Users().PutProfile(ctx, profile); err != nil {
		return goerr.Wrap(err, "failed to store profile", goerr.V("userID", userID))
	}
	return nil
}
