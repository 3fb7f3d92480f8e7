package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"strconv"

	"dnaarchive/internal/access"
	"dnaarchive/internal/audit"
	"dnaarchive/internal/model"
	"dnaarchive/internal/obs"
	"dnaarchive/internal/session"
	"dnaarchive/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	userContextKey = "currentUser"

	// maxAuditedBody caps what the audit wrapper buffers from a mutating request
	maxAuditedBody = 1 << 20

	// largest float64 that still holds every integer exactly
	maxExactID = 1 << 53
)

// Access builds the authentication, authorization and audit interceptors.
// Each interceptor either aborts the chain with a final response or calls c.Next.
type Access struct {
	resolver  session.Resolver
	directory access.Directory
	recorder  audit.Recorder
}

func NewAccess(resolver session.Resolver, directory access.Directory, recorder audit.Recorder) *Access {
	return &Access{resolver: resolver, directory: directory, recorder: recorder}
}

// CurrentUser returns the user resolved by an earlier interceptor
func CurrentUser(c *gin.Context) (*access.AuthenticatedUser, bool) {
	v, ok := c.Get(userContextKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*access.AuthenticatedUser)
	return u, ok && u != nil
}

// Authenticated only requires a valid session that maps to a known user
func (a *Access) Authenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := a.resolveUser(c); !ok {
			return
		}
		c.Next()
	}
}

// WithRole admits the request only if the user's role is one of roles
func (a *Access) WithRole(roles ...model.RoleName) gin.HandlerFunc {
	required := append([]model.RoleName(nil), roles...)
	return func(c *gin.Context) {
		user, ok := a.resolveUser(c)
		if !ok {
			return
		}

		decision := access.Authorize(required, *user)
		obs.ObserveDecision(decision.String())
		if decision == access.Deny {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Message(response.MsgForbidden))
			return
		}
		c.Next()
	}
}

// WithAuditLogging records one audit trail row for every POST, PUT and DELETE
// that reaches the handler, whatever status the handler returns. The handler's
// response is held back until the row is written; if the write fails the
// client gets a 500 instead.
func (a *Access) WithAuditLogging(entityType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := a.resolveUser(c)
		if !ok {
			return
		}

		if !isMutating(c.Request.Method) {
			c.Next()
			return
		}

		var raw []byte
		if c.Request.Body != nil {
			var err error
			raw, err = io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxAuditedBody))
			if err != nil {
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, response.Error(http.StatusRequestEntityTooLarge, "Request body too large"))
					return
				}
				c.AbortWithStatusJSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Failed to read request body"))
				return
			}
			_ = c.Request.Body.Close()
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(raw))

		original := c.Writer
		buf := newBufferedWriter(original)
		c.Writer = buf

		// On panic the real writer goes back before re-panicking so the
		// recovery handler's 500 reaches the client.
		defer func() {
			if rec := recover(); rec != nil {
				c.Writer = original
				buf.discard()
				if err := a.record(c, user, entityType, raw); err != nil {
					log.Printf("[%s] audit write failed for %s %s: %v", RequestID(c), c.Request.Method, c.Request.URL.Path, err)
				}
				panic(rec)
			}
		}()

		c.Next()

		c.Writer = original
		if err := a.record(c, user, entityType, raw); err != nil {
			log.Printf("[%s] audit write failed for %s %s: %v", RequestID(c), c.Request.Method, c.Request.URL.Path, err)
			buf.discard()
			c.AbortWithStatusJSON(http.StatusInternalServerError, response.Message(response.MsgInternal))
			return
		}
		buf.flush()
	}
}

func (a *Access) record(c *gin.Context, user *access.AuthenticatedUser, entityType string, raw []byte) error {
	_, err := a.recorder.Record(c.Request.Context(), audit.Entry{
		EntityType: entityType,
		EntityID:   entityIDFromBody(raw),
		Action:     fmt.Sprintf("%s %s", c.Request.Method, entityType),
		UserID:     user.ID,
		Details:    raw,
	})
	return err
}

// resolveUser runs the session and directory steps once per request; later
// interceptors reuse the cached user. On failure the request is aborted.
func (a *Access) resolveUser(c *gin.Context) (*access.AuthenticatedUser, bool) {
	if u, ok := CurrentUser(c); ok {
		return u, true
	}

	sess, err := a.resolver.Resolve(c.Request)
	if err != nil {
		if !errors.Is(err, session.ErrNoSession) {
			log.Printf("[%s] session resolve failed: %v", RequestID(c), err)
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, response.Message(response.MsgUnauthorized))
		return nil, false
	}

	user, err := a.directory.Lookup(c.Request.Context(), sess.Email)
	if err != nil {
		if errors.Is(err, access.ErrUserNotFound) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Message(response.MsgUnauthorized))
			return nil, false
		}
		log.Printf("[%s] user lookup failed: %v", RequestID(c), err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Message(response.MsgInternal))
		return nil, false
	}

	c.Set(userContextKey, user)
	return user, true
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

// entityIDFromBody reads a non-negative integral "id" from a JSON object body;
// 5.0 and 1e2 count, anything else is 0
func entityIDFromBody(raw []byte) uint {
	if len(raw) == 0 {
		return 0
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var body map[string]any
	if err := dec.Decode(&body); err != nil {
		return 0
	}
	n, ok := body["id"].(json.Number)
	if !ok {
		return 0
	}
	if id, err := strconv.ParseUint(n.String(), 10, 0); err == nil {
		return uint(id)
	}
	f, err := n.Float64()
	if err != nil || f < 0 || f != math.Trunc(f) || f > maxExactID {
		return 0
	}
	return uint(f)
}
