// Package sdk is the client side of the ticketing platform API.
//
// It has two halves. IdentityStore owns the current session: it decodes a
// bearer credential into a Principal, persists the raw credential through a
// CredentialStore and answers role questions. Client is the only transport to
// the API: it attaches the current credential to every request and, when the
// API answers 401, clears the session and sends the user to LoginPath before
// returning ErrAuthenticationExpired to the caller.
//
// Credentials are decoded WITHOUT verifying their signature. The decoded
// Principal and HasRole exist to decide what to show the user; they are not
// a security boundary. The API verifies the token and enforces roles on
// every call, and callers must not treat HasRole as authorization.
//
// Errors fall into four groups:
//
//   - ErrMalformedCredential: a credential did not decode; nothing changed.
//   - ErrAuthenticationExpired: the API answered 401; the session is gone.
//   - *TransportError: the request never got an answer.
//   - *RemoteError: any other non-2xx answer, carrying the server message.
//
// Input rejected before dispatch is reported as *ValidationError.
package sdk
