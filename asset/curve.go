package asset

import "math"

// Evaluate samples a float curve at t with cubic Hermite interpolation.
// Times outside the keys clamp to the first or last key. A segment with an
// infinite tangent on either side holds its left key's value.
func Evaluate(keys []Keyframe, t float32) (float32, bool) {
	if len(keys) == 0 {
		return 0, false
	}
	if t <= keys[0].Time {
		return keys[0].Value, true
	}
	last := keys[len(keys)-1]
	if t >= last.Time {
		return last.Value, true
	}
	for i := 0; i+1 < len(keys); i++ {
		k0, k1 := keys[i], keys[i+1]
		if t < k0.Time || t > k1.Time {
			continue
		}
		if IsStepped(k0, k1) {
			return k0.Value, true
		}
		dt := k1.Time - k0.Time
		if dt <= 0 {
			return k1.Value, true
		}
		s := (t - k0.Time) / dt
		s2, s3 := s*s, s*s*s
		h00 := 2*s3 - 3*s2 + 1
		h10 := s3 - 2*s2 + s
		h01 := -2*s3 + 3*s2
		h11 := s3 - s2
		return h00*k0.Value + h10*dt*k0.OutTangent + h01*k1.Value + h11*dt*k1.InTangent, true
	}
	return last.Value, true
}

// IsStepped reports whether the segment between k0 and k1 holds k0's value.
func IsStepped(k0, k1 Keyframe) bool {
	return isInf(k0.OutTangent) || isInf(k1.InTangent)
}

func isInf(f float32) bool {
	return math.IsInf(float64(f), 0)
}
