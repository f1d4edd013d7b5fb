/*
Package errs provides custom error types and application-level error code constants.

These error codes identify specific business or system failures both inside
the server and in responses sent to clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON is malformed.
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates trailing content after valid JSON data.
	ErrExtraContentInBody = 1004

	// ErrRateLimitExceeded indicates that the request rate exceeded the limit.
	ErrRateLimitExceeded = 1005
)

// 2xxx: Room and Membership Errors
const (
	// ErrRoomNameRequired indicates an empty or whitespace-only room name.
	ErrRoomNameRequired = 2101

	// ErrRoomNameTaken indicates that the requested room name is already in use.
	ErrRoomNameTaken = 2102

	// ErrRoomNotFound indicates that the referenced room does not exist.
	ErrRoomNotFound = 2103

	// ErrNotRoomOwner indicates an operation reserved for the room owner.
	ErrNotRoomOwner = 2104

	// ErrAlreadyParticipant indicates a join attempt by an existing participant.
	ErrAlreadyParticipant = 2105

	// ErrNotParticipant indicates a leave attempt by a non-participant.
	ErrNotParticipant = 2106

	// ErrOwnerNotRemovable indicates an attempt to remove the owner from their room.
	ErrOwnerNotRemovable = 2107

	// ErrMessageContentTooLong indicates that a chat message exceeded the length limit.
	ErrMessageContentTooLong = 2201
)

// 3xxx: Identity, Session, and Moderation Errors
const (
	// ErrUnauthorized indicates a missing, malformed, or expired session token,
	// or a token whose subject no longer exists.
	ErrUnauthorized = 3001

	// ErrForbidden indicates that the acting identity's role is not allowed here.
	ErrForbidden = 3002

	// ErrBanned indicates that the acting identity is banned. The message
	// carries the ban reason.
	ErrBanned = 3003

	// ErrInvalidCredentials indicates a failed email/password verification.
	ErrInvalidCredentials = 3004

	// ErrEmailTaken indicates that the email is already registered.
	ErrEmailTaken = 3005

	// ErrUsernameTaken indicates that the username is already registered.
	ErrUsernameTaken = 3006

	// ErrInvalidPassword indicates a password outside the length policy.
	ErrInvalidPassword = 3007

	// ErrUserNotFound indicates that the referenced user does not exist.
	ErrUserNotFound = 3008

	// ErrOldPasswordInvalid indicates that the current password check failed.
	ErrOldPasswordInvalid = 3009

	// ErrAlreadyAdmin indicates a promotion of a user who is already an admin.
	ErrAlreadyAdmin = 3101

	// ErrNotAdmin indicates a demotion of a user who is not an admin.
	ErrNotAdmin = 3102

	// ErrCannotBan indicates a ban attempt against root or a same-role target.
	ErrCannotBan = 3103

	// ErrCannotUnban indicates an unban attempt against a same-role target.
	ErrCannotUnban = 3104

	// ErrNotBanned indicates an unban attempt against a user who is not banned.
	ErrNotBanned = 3105
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified server internal error.
	ErrUnknown = 5000
)
