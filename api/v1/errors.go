package v1

var (
	// common errors
	ErrSuccess             = newError(0, "ok")
	ErrBadRequest          = newError(400, "bad request")
	ErrUnauthorized        = newError(401, "unauthorized")
	ErrNotFound            = newError(404, "not found")
	ErrInternalServerError = newError(500, "internal server error")

	// more biz errors
	ErrEmailAlreadyUse    = newError(1001, "The email is already in use.")
	ErrUsernameAlreadyUse = newError(1002, "The username is already in use.")

	// node errors
	ErrNodeNotFound     = newError(2001, "node not found")
	ErrNodeNameConflict = newError(2002, "node name already exists")

	// migration errors
	ErrTaskNotFound      = newError(3001, "migration task not found")
	ErrTaskNotCancelable = newError(3002, "migration task can no longer be cancelled")
	ErrNoGuestsGiven     = newError(3003, "no guests given to migrate")
)
