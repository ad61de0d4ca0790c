// Package auth authorizes upload requests with static project tokens.
//
// A request is classified by a linear sequence of checks:
//
//  1. mode=demo (form field or query, case-insensitive) is always refused
//     with ErrDemoUploadDisabled.
//  2. A project token is taken from X-Project-Token, Authorization: Bearer,
//     the token query parameter or the token form field, first non-empty wins.
//     No token yields ErrTokenRequired.
//  3. The token is looked up in the project map. An unreadable map yields
//     ErrMisconfigured, an unknown token ErrUnknownProjectToken.
//
// When an operator configures LEGACY_UPLOAD_SECRET, a matching X-Legacy-Token
// header or legacy_token form field changes the decision mode from "project"
// to "legacy". It never grants access on its own.
//
//	authz := auth.NewAuthorizer(store, auth.WithLegacySecret(os.Getenv("LEGACY_UPLOAD_SECRET")))
//	decision, err := authz.Authorize(r)
//	if err != nil {
//		// map to HTTP status
//	}
//	log.Info("authorized", "auth_mode", decision.Mode, "token", decision.MaskedToken())
package auth
