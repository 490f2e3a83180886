// SPDX-License-Identifier: EPL-2.0

package scoreport

// Version is the release of this module, overridable at link time.
var Version = "0.1.0"
