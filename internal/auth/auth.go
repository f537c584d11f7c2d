package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/golang-jwt/jwt/v4"

	"usage-report-server/internal/api/common/errors"
)

const (
	identityKey = "identity"
	tokenKey    = "user"

	AdminRole = "admin"

	ProjectHeader = "X-Project-Id"
	RolesHeader   = "X-Roles"
	TokenHeader   = "X-Auth-Token"
)

// Identity is the caller a report is scoped to.
type Identity struct {
	ProjectID string
	Roles     []string
	// Token is the upstream API token forwarded to the compute and network
	// services, when the caller sent one.
	Token string
}

func (i Identity) IsAdmin() bool {
	for _, role := range i.Roles {
		if role == AdminRole {
			return true
		}
	}
	return false
}

// CanView reports whether the caller may read projectID's usage.
func (i Identity) CanView(projectID string) bool {
	return i.IsAdmin() || (projectID != "" && i.ProjectID == projectID)
}

// Middleware authenticates requests. With a secret, callers present an HS256
// bearer token carrying project_id and roles claims; without one, the
// X-Project-Id and X-Roles headers set by a trusted proxy are used.
func Middleware(secret string) []fiber.Handler {
	if secret == "" {
		return []fiber.Handler{fromHeaders}
	}
	return []fiber.Handler{
		jwtware.New(jwtware.Config{
			SigningKey:    []byte(secret),
			SigningMethod: "HS256",
			ContextKey:    tokenKey,
			ErrorHandler: func(c *fiber.Ctx, err error) error {
				return c.Status(fiber.StatusUnauthorized).JSON(&fiber.Map{
					"status":  "fail",
					"message": err.Error(),
				})
			},
		}),
		fromClaims,
	}
}

func fromHeaders(c *fiber.Ctx) error {
	identity := Identity{
		ProjectID: c.Get(ProjectHeader),
		Token:     c.Get(TokenHeader),
	}
	for _, role := range strings.Split(c.Get(RolesHeader), ",") {
		if role = strings.TrimSpace(role); role != "" {
			identity.Roles = append(identity.Roles, role)
		}
	}
	c.Locals(identityKey, identity)
	return c.Next()
}

func fromClaims(c *fiber.Ctx) error {
	token, ok := c.Locals(tokenKey).(*jwt.Token)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(&fiber.Map{
			"status":  "fail",
			"message": "missing token",
		})
	}
	claims, _ := token.Claims.(jwt.MapClaims)

	identity := Identity{Token: c.Get(TokenHeader)}
	identity.ProjectID, _ = claims["project_id"].(string)
	switch roles := claims["roles"].(type) {
	case []interface{}:
		for _, role := range roles {
			if s, ok := role.(string); ok {
				identity.Roles = append(identity.Roles, s)
			}
		}
	case string:
		identity.Roles = strings.Split(roles, ",")
	}

	c.Locals(identityKey, identity)
	return c.Next()
}

func FromContext(c *fiber.Ctx) Identity {
	identity, _ := c.Locals(identityKey).(Identity)
	return identity
}

// Authorize returns a ForbiddenError unless the caller may view projectID.
func Authorize(c *fiber.Ctx, projectID string) (Identity, error) {
	identity := FromContext(c)
	if !identity.CanView(projectID) {
		return identity, errors.ForbiddenErr(projectID)
	}
	return identity, nil
}

// RequireAdmin rejects callers without the admin role.
func RequireAdmin(c *fiber.Ctx) error {
	if !FromContext(c).IsAdmin() {
		return c.Status(fiber.StatusForbidden).JSON(&fiber.Map{
			"status":  "fail",
			"message": "admin role required",
		})
	}
	return c.Next()
}
