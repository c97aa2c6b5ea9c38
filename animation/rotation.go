package animation

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/particlecore/components"
)

// AxisAngle returns the unit quaternion rotating by angle radians about axis.
// A zero axis yields the identity.
func AxisAngle(axis r3.Vec, angle float64) quat.Number {
	if r3.Norm(axis) == 0 {
		return components.IdentityQuat
	}
	u := r3.Unit(axis)
	s := math.Sin(angle / 2)
	return quat.Number{Real: math.Cos(angle / 2), Imag: u.X * s, Jmag: u.Y * s, Kmag: u.Z * s}
}

// WorldRotation expresses q, given in the local frame, in world space:
// frame * q * frame⁻¹. A zero frame is treated as identity.
func WorldRotation(q, frame quat.Number) quat.Number {
	if frame == (quat.Number{}) || frame == components.IdentityQuat {
		return q
	}
	return quat.Mul(quat.Mul(frame, q), quat.Inv(frame))
}

// Rotate applies q to v with the conjugate sandwich q * v * q⁻¹.
func Rotate(q quat.Number, v r3.Vec) r3.Vec {
	p := quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}
	r := quat.Mul(quat.Mul(q, p), quat.Inv(q))
	return r3.Vec{X: r.Imag, Y: r.Jmag, Z: r.Kmag}
}

// RotationVelocity returns offset - rotate(offset), where the rotation is q
// taken from the local frame into world space.
func RotationVelocity(offset r3.Vec, q, frame quat.Number) r3.Vec {
	return r3.Sub(offset, Rotate(WorldRotation(q, frame), offset))
}

// StepRotation evaluates the rotation step for a particle at pos.
// Returns false for the identity rotation.
func StepRotation(st *components.RotationState, pos r3.Vec) (r3.Vec, bool) {
	if st == nil || st.Inert() {
		return r3.Vec{}, false
	}
	return RotationVelocity(r3.Sub(pos, st.Center), st.Quat, st.Frame), true
}
