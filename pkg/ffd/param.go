package ffd

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Faultbox/latticeffd/pkg/math"
)

// ConvertToParam expresses world in the lattice frame spanned by axes from
// box.Min. Each component is the ratio of two triple products, so the result
// is correct for oblique axes too. Inside the lattice all three components lie
// in [0,1].
func ConvertToParam(world math.Vec3, box math.Box, axes [3]math.Vec3) (math.Vec3, error) {
	offset := r3.Sub(world, box.Min)

	var param math.Vec3
	for i := 0; i < 3; i++ {
		c := r3.Cross(axes[(i+1)%3], axes[(i+2)%3])
		denom := r3.Dot(c, axes[i])
		if denom == 0 {
			return math.Vec3{}, fmt.Errorf("%w: axis %d is zero or coplanar with the others", ErrDegenerateLattice, i)
		}
		param = math.WithComponent(param, i, r3.Dot(c, offset)/denom)
	}
	return param, nil
}
