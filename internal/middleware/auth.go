package middleware

import (
	"context"
	"strings"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/neighborly/api/transport"
	"github.com/fastygo/neighborly/domain"
	"github.com/fastygo/neighborly/pkg/httpcontext"
	"github.com/fastygo/neighborly/pkg/token"
)

// SessionChecker confirms that the session behind a token is still live.
type SessionChecker interface {
	Session(ctx context.Context, sessionID string) (*domain.Session, error)
}

// Auth resolves bearer tokens into a verified caller identity.
type Auth struct {
	signer   *token.Signer
	sessions SessionChecker
	adapter  *httpcontext.Adapter
	logger   *zap.Logger
}

func NewAuth(signer *token.Signer, sessions SessionChecker, adapter *httpcontext.Adapter, logger *zap.Logger) *Auth {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Auth{
		signer:   signer,
		sessions: sessions,
		adapter:  adapter,
		logger:   logger,
	}
}

// Required rejects requests without a valid token.
func (a *Auth) Required(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return a.wrap(next, true)
}

// Optional lets anonymous requests through but still rejects bad tokens.
func (a *Auth) Optional(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return a.wrap(next, false)
}

func (a *Auth) wrap(next fasthttp.RequestHandler, required bool) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		raw := extractToken(ctx)
		if raw == "" {
			if required {
				unauthorized(ctx)
				return
			}
			next(ctx)
			return
		}

		claims, err := a.signer.Parse(raw)
		if err != nil {
			a.logger.Warn("invalid jwt token", zap.Error(err))
			unauthorized(ctx)
			return
		}

		if a.sessions != nil {
			stdCtx, cancel := a.adapter.Attach(ctx)
			session, err := a.sessions.Session(stdCtx, claims.SessionID)
			cancel()
			if err != nil || session.UserID != claims.UserID {
				a.logger.Warn("session rejected", zap.String("session_id", claims.SessionID), zap.Error(err))
				unauthorized(ctx)
				return
			}
		}

		httpcontext.SetCaller(ctx, claims.UserID, claims.SessionID)
		next(ctx)
	}
}

func unauthorized(ctx *fasthttp.RequestCtx) {
	transport.WriteJSON(ctx, fasthttp.StatusUnauthorized,
		transport.NewError(string(domain.ErrCodeUnauthenticated), domain.ErrUnauthenticated.Error(), nil))
}

func extractToken(ctx *fasthttp.RequestCtx) string {
	header := strings.TrimSpace(string(ctx.Request.Header.Peek("Authorization")))
	if header == "" {
		return ""
	}
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return header
}
