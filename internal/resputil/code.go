package resputil

type ErrorCode int

const (
	OK ErrorCode = 0

	// General
	InvalidRequest  ErrorCode = 40001
	InvalidAssignee ErrorCode = 40002

	// Token
	TokenExpired ErrorCode = 40101
	TokenInvalid ErrorCode = 40102

	// Login
	InvalidCredentials ErrorCode = 40106
	UserInactive       ErrorCode = 40107

	// User is not allowed to access the resource
	UserNotAllowed ErrorCode = 40301

	NotFound ErrorCode = 40401

	// Request conflicts with the current state of the board
	InvalidState        ErrorCode = 40901
	DuplicateMembership ErrorCode = 40902
	UserExists          ErrorCode = 40903

	// Indicates laziness of the developer
	// Frontend will directly print the message without any translation
	NotSpecified ErrorCode = 99999
)
