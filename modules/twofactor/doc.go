// Package twofactor is the HTTP module exposing TOTP two-factor
// authentication: enrollment, activation, login-time challenges, recovery
// code management, disablement, and status.
//
// Mount it under the host application's API namespace:
//
//	svc := twofactor.NewService(cfg, core, sessions, keychain, limiter, log)
//	r.Mount("/2fa/totp", svc.Handle())
//
// Handlers resolve the caller's session, rate-limit code submissions per
// user, delegate to the core service, and apply trusted session updates
// after successful verifications. All responses are marked no-store.
package twofactor
