// SPDX-License-Identifier: EPL-2.0

package utils

// CubicInterpolate evaluates the Catmull-Rom spline through p1 and p2 at
// t in [0, 1], using p0 and p3 as the outer control points. It returns p1
// at t=0 and p2 at t=1.
func CubicInterpolate(p0, p1, p2, p3, t float32) float32 {
	c3 := 0.5 * (3*(p1-p2) + p3 - p0)
	c2 := p0 - 2.5*p1 + 2*p2 - 0.5*p3
	c1 := 0.5 * (p2 - p0)

	return ((c3*t+c2)*t+c1)*t + p1
}
