// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "errors"

// ErrInvalidArgument marks CLI-level input errors (bad page count,
// conflicting sink flags). Stage errors wrap it so main can distinguish
// usage mistakes from pipeline failures.
var ErrInvalidArgument = errors.New("invalid argument")
