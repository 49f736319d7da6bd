package common

// AuthHeaderName is the HTTP header carrying the token credential.
const AuthHeaderName = "Authorization"

// AuthSchemeToken is the scheme prefix expected in the Authorization
// header for token-authenticated requests ("Token <key>").
const AuthSchemeToken = "Token"

// TokenKeyByteLength is the number of random bytes in a token key; the
// resulting hex key is twice as long (40 characters).
const TokenKeyByteLength = 20
