package constraint

import "github.com/akmonengine/plume/actor"

// CombineFriction combines two surface frictions pairwise by averaging
func CombineFriction(matA, matB actor.Material) float64 {
	return (matA.Friction + matB.Friction) / 2
}

// CombineRestitution combines two restitutions pairwise by multiplying:
// a contact only bounces as much as both surfaces allow
func CombineRestitution(matA, matB actor.Material) float64 {
	return matA.Restitution * matB.Restitution
}
