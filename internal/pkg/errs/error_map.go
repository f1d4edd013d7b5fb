/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to
standardize HTTP responses and internal error handling.
*/
package errs

import "net/http"

// errorMap stores the CustomError template for every application error code.
// The key is the error code, the value carries the user message and HTTP status.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:        {Code: ErrInvalidParams, Message: "Invalid request parameters.", Status: http.StatusBadRequest},
	ErrUnsupportedMediaType: {Code: ErrUnsupportedMediaType, Message: "Unsupported request format.", Status: http.StatusUnsupportedMediaType},
	ErrInvalidJSONFormat:    {Code: ErrInvalidJSONFormat, Message: "Unsupported request format.", Status: http.StatusBadRequest},
	ErrExtraContentInBody:   {Code: ErrExtraContentInBody, Message: "Request contains unexpected data.", Status: http.StatusBadRequest},
	ErrRateLimitExceeded:    {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 2xxx: Room and Membership Errors
	ErrRoomNameRequired:      {Code: ErrRoomNameRequired, Message: "Room name is required.", Status: http.StatusBadRequest},
	ErrRoomNameTaken:         {Code: ErrRoomNameTaken, Message: "Room name is already in use.", Status: http.StatusConflict},
	ErrRoomNotFound:          {Code: ErrRoomNotFound, Message: "Room not found.", Status: http.StatusNotFound},
	ErrNotRoomOwner:          {Code: ErrNotRoomOwner, Message: "Only the room owner can do this.", Status: http.StatusForbidden},
	ErrAlreadyParticipant:    {Code: ErrAlreadyParticipant, Message: "You are already in this room.", Status: http.StatusConflict},
	ErrNotParticipant:        {Code: ErrNotParticipant, Message: "You are not in this room.", Status: http.StatusConflict},
	ErrOwnerNotRemovable:     {Code: ErrOwnerNotRemovable, Message: "The room owner cannot be removed.", Status: http.StatusForbidden},
	ErrMessageContentTooLong: {Code: ErrMessageContentTooLong, Message: "Message is too long.", Status: http.StatusBadRequest},

	// 3xxx: Identity, Session, and Moderation Errors
	ErrUnauthorized:       {Code: ErrUnauthorized, Message: "Please sign in to continue.", Status: http.StatusUnauthorized},
	ErrForbidden:          {Code: ErrForbidden, Message: "Access denied.", Status: http.StatusForbidden},
	ErrBanned:             {Code: ErrBanned, Message: "Account banned. Reason: %s", Status: http.StatusForbidden},
	ErrInvalidCredentials: {Code: ErrInvalidCredentials, Message: "Incorrect email or password.", Status: http.StatusUnauthorized},
	ErrEmailTaken:         {Code: ErrEmailTaken, Message: "Email is already in use.", Status: http.StatusConflict},
	ErrUsernameTaken:      {Code: ErrUsernameTaken, Message: "Username is already taken.", Status: http.StatusConflict},
	ErrInvalidPassword:    {Code: ErrInvalidPassword, Message: "Password must be between %d and %d characters.", Status: http.StatusBadRequest},
	ErrUserNotFound:       {Code: ErrUserNotFound, Message: "User not found.", Status: http.StatusNotFound},
	ErrOldPasswordInvalid: {Code: ErrOldPasswordInvalid, Message: "Current password is incorrect.", Status: http.StatusUnauthorized},
	ErrAlreadyAdmin:       {Code: ErrAlreadyAdmin, Message: "User is already an administrator.", Status: http.StatusConflict},
	ErrNotAdmin:           {Code: ErrNotAdmin, Message: "User is not an administrator.", Status: http.StatusConflict},
	ErrCannotBan:          {Code: ErrCannotBan, Message: "This user cannot be banned.", Status: http.StatusConflict},
	ErrCannotUnban:        {Code: ErrCannotUnban, Message: "This user cannot be unbanned.", Status: http.StatusConflict},
	ErrNotBanned:          {Code: ErrNotBanned, Message: "This user is not banned.", Status: http.StatusConflict},

	// 5xxx: Internal System Errors
	ErrUnknown: {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
}
