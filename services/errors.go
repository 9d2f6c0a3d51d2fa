package services

import "errors"

// Sentinel errors shared across services and the HTTP error mapping.
var (
	// Not found
	ErrNotFound           = errors.New("requested resource not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrMatchNotFound      = errors.New("match not found")
	ErrAlertNotFound      = errors.New("alert not found")

	// Validation
	ErrValidationFailed       = errors.New("validation failed")
	ErrTournamentNameRequired = errors.New("tournament name is required")
	ErrInvalidMaxPlayers      = errors.New("max players must be 4 or 8")
	ErrInvalidEntryCost       = errors.New("entry cost must be positive")
	ErrInvalidPrizePool       = errors.New("prize pool must be positive")
	ErrInvalidAwardPercentage = errors.New("award percentage must be between 0 and 100")
	ErrInvalidAmount          = errors.New("amount must be positive")
	ErrMatchPlayersMustDiffer = errors.New("match players must be two distinct users")
	ErrPasswordTooShort       = errors.New("password is too short")
	ErrIncompleteRoster       = errors.New("roster must be full before the tournament can start")

	// State
	ErrWrongStatus      = errors.New("operation is not valid for the current status")
	ErrStaleMatch       = errors.New("match is not pending in the current round")
	ErrInvalidWinner    = errors.New("winner must be one of the match participants")
	ErrAlreadySettled   = errors.New("tournament prize has already been distributed")
	ErrConcurrentUpdate = errors.New("tournament was modified concurrently, retries exhausted")

	// Resource
	ErrTournamentFull         = errors.New("tournament registration is full")
	ErrAlreadyJoined          = errors.New("user is already registered for this tournament")
	ErrNotJoined              = errors.New("user is not registered for this tournament")
	ErrInsufficientFunds      = errors.New("insufficient coin balance")
	ErrTournamentNameConflict = errors.New("tournament name already exists")

	// Auth
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrAuthEmailTaken         = errors.New("email is already taken")
	ErrAuthNicknameTaken      = errors.New("nickname is already taken")

	// Infrastructure
	ErrBannersDisabled = errors.New("banner storage is not configured")
)
