package common

// AuthorizationHeaderName is the HTTP header carrying the bearer token.
const AuthorizationHeaderName = "Authorization"

// BearerScheme prefixes the token inside the Authorization header.
const BearerScheme = "Bearer"

// TokenType is reported to clients alongside issued access tokens.
const TokenType = "bearer"

// UnlinkedGoalID marks plans that were generated without a stored goal.
const UnlinkedGoalID = "generated"
