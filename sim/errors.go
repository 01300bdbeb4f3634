package sim

import "errors"

// Config-time errors returned by LoadServices/LoadTopology and, for
// ErrInvalidSchedulingPolicy, by ValidatePolicyName. Runtime business
// rejections (DEADLINE_MISSED, CONGESTION, NO_INSTANCES) are not errors —
// they are AdmissionReason values returned alongside an accepted bool
// (spec §7).
var (
	ErrInvalidSchedulingPolicy = errors.New("sim: unknown scheduling policy")
	ErrNoServices              = errors.New("sim: services table is empty")
	ErrInvalidService          = errors.New("sim: invalid service definition")
	ErrInvalidTopology         = errors.New("sim: invalid topology definition")
)
