package middlewares

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"laufmanager.de/configs/configslog"
	"laufmanager.de/models"
	"laufmanager.de/services"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt"
	"go.uber.org/zap"
)

const (
	localsIdentity = "identity"
	localsRunner   = "runner"

	claimSubject = "sub"
	claimEmail   = "email"
	claimExpiry  = "exp"
)

var (
	errMissingToken = errors.New("missing bearer token")
	errInvalidToken = errors.New("invalid token")
)

// IssueToken signs an HS256 access token for id, valid for ttl.
func IssueToken(secret []byte, id services.Identity, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		claimSubject: id.Subject,
		claimEmail:   id.Email,
		claimExpiry:  time.Now().Add(ttl).Unix(),
	})
	return token.SignedString(secret)
}

// ParseToken verifies signature and expiry and returns the identity it asserts.
func ParseToken(secret []byte, raw string) (services.Identity, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return services.Identity{}, fmt.Errorf("parse token: %w", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return services.Identity{}, errInvalidToken
	}
	// MapClaims.Valid accepts tokens without exp
	if !claims.VerifyExpiresAt(time.Now().Unix(), true) {
		return services.Identity{}, fmt.Errorf("%w: no expiry", errInvalidToken)
	}

	sub, _ := claims[claimSubject].(string)
	email, _ := claims[claimEmail].(string)
	if strings.TrimSpace(sub) == "" {
		return services.Identity{}, fmt.Errorf("%w: no subject", errInvalidToken)
	}
	return services.Identity{Subject: sub, Email: email}, nil
}

func bearer(c *fiber.Ctx) (string, error) {
	h := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
		return "", errMissingToken
	}
	return strings.TrimSpace(token), nil
}

// Authenticate rejects requests without a valid bearer token with 401.
func Authenticate(secret []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, err := bearer(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Nicht angemeldet"})
		}
		id, err := ParseToken(secret, raw)
		if err != nil {
			configslog.Log.Debug("Rejected access token", zap.String("path", c.Path()), zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Sitzung ungültig oder abgelaufen"})
		}
		c.Locals(localsIdentity, id)
		return c.Next()
	}
}

// RequireRunner loads the caller's runner row and answers 403 when there is none yet.
func RequireRunner(runners services.IRunnerService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := IdentityFrom(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Nicht angemeldet"})
		}
		runner, err := runners.GetBySubject(c.UserContext(), id.Subject)
		if err != nil {
			if errors.Is(err, services.ErrRunnerNotFound) {
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Kein Läuferprofil vorhanden"})
			}
			configslog.Log.Error("RequireRunner: lookup failed", zap.String("subject", id.Subject), zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Profil konnte nicht geladen werden"})
		}
		c.Locals(localsRunner, runner)
		return c.Next()
	}
}

// RequireAdmin must run after RequireRunner.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		runner, ok := RunnerFrom(c)
		if !ok || !runner.IsAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Nur für Admins"})
		}
		return c.Next()
	}
}

// IdentityFrom returns the verified token identity stored by Authenticate.
func IdentityFrom(c *fiber.Ctx) (services.Identity, bool) {
	id, ok := c.Locals(localsIdentity).(services.Identity)
	return id, ok
}

// RunnerFrom returns the runner resolved by RequireRunner.
func RunnerFrom(c *fiber.Ctx) (*models.Runner, bool) {
	r, ok := c.Locals(localsRunner).(*models.Runner)
	return r, ok && r != nil
}
