package api

import (
	domainerrors "github.com/flashlyapp/flashly-server/internal/errors"
)

// allowAuth applies the login/register limiter to ip. chi's RealIP
// middleware has already folded X-Forwarded-For and X-Real-IP into it.
func (s *Server) allowAuth(ip string) error {
	if s.authRateLimiter == nil {
		return nil
	}
	if !s.authRateLimiter.Allow(ip) {
		s.logger.Warn("rate limit exceeded", "ip", ip)
		return domainerrors.RateLimited("Too many requests. Please try again later.")
	}
	return nil
}
