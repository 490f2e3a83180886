// SPDX-License-Identifier: EPL-2.0

package composition

import "errors"

// Errors returned by Parse and Load. Decoder failures wrap ErrDecode.
var (
	ErrEmptyDocument = errors.New("empty composition document")
	ErrDecode        = errors.New("cannot decode composition")
)
