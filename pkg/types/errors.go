// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "errors"

// ErrDataMismatch marks an internal contract violation: a pipeline stage
// produced data whose shape the next stage cannot accept. It is never
// papered over with a coercion; callers surface it as a server fault.
var ErrDataMismatch = errors.New("internal data mismatch")
