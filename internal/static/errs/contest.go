package errs

import "errors"

var (
	// AlreadyRegistered is returned when a (contest, user) pair already has
	// a participant record. Surfaced to callers as a conflict.
	AlreadyRegistered = errors.New("user is already registered for this contest")

	// ParticipantNotFound marks a submission or update referencing a
	// missing participant. A data-integrity fault: logged loudly, the
	// single record is aborted, batch passes continue.
	ParticipantNotFound = errors.New("participant not found")

	ContestNotFound  = errors.New("contest not found")
	ProblemNotFound  = errors.New("problem not found in contest")
	QuestionNotFound = errors.New("question not found")

	// StorageConflict is the storage layer's translation of a uniqueness
	// constraint violation. The registration service maps it to
	// AlreadyRegistered at its boundary.
	StorageConflict = errors.New("storage constraint conflict")

	// QuestionAlreadyAnswered guards the one-way pending -> answered flip.
	QuestionAlreadyAnswered = errors.New("question is already answered")
)
