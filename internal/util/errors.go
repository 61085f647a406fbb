package util

import "errors"

var (
	// ErrLearnerNotFound is the "absent" signal for memory and policy
	// queries about an unregistered learner id. Callers are expected to
	// create the profile before querying it.
	ErrLearnerNotFound = errors.New("learner not found")

	ErrEmptyAlignment   = errors.New("alignment input carries neither phoneme sequences nor classified errors")
	ErrSnapshotDisabled = errors.New("snapshot persistence is not configured")
)
