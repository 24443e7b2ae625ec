// Package acl keeps downstream wire formats out of the domain.
//
// A [Gateway] performs the call and hands back the body of a 2xx answer.
// Anything else comes back as a domain error:
//
//   - 404 becomes [domain.ErrNotFound]
//   - 400, 422 and bodies that do not decode become [domain.ErrValidation]
//   - 401, 403, 429, 5xx, transport failures, an open breaker and exhausted
//     retries become [domain.ErrUnavailable]
//
// [QuoteClient] speaks to the Sasuke quotes API, where collections arrive
// as {"quotes": [...]} and the random endpoint returns one bare record.
package acl
