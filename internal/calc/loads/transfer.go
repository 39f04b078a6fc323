package loads

// MomentXReference moves a moment about x from point P to point U:
//
//	MxU = MxP - Fy*(zP - zU) + Fz*(yP - yU)
func MomentXReference(mxP, fy, fz, zP, yP, zU, yU float64) float64 {
	return mxP - fy*(zP-zU) + fz*(yP-yU)
}

// MomentYReference moves a moment about y from point P to point U:
//
//	MyU = MyP + Fx*(zP - zU) - Fz*(xP - xU)
func MomentYReference(myP, fx, fz, xP, zP, xU, zU float64) float64 {
	return myP + fx*(zP-zU) - fz*(xP-xU)
}

// MomentZReference moves a moment about z from point P to point U:
//
//	MzU = MzP - Fx*(yP - yU) + Fy*(xP - xU)
func MomentZReference(mzP, fx, fy, xP, yP, xU, yU float64) float64 {
	return mzP - fx*(yP-yU) + fy*(xP-xU)
}

// TransformMoments moves the moments m, acting together with forces f applied at p,
// to the reference point u.
func TransformMoments(m Moments, f Forces, p, u Point) MomentsU {
	return MomentsU{
		X: MomentXReference(m.X, f.Y, f.Z, p.Z, p.Y, u.Z, u.Y),
		Y: MomentYReference(m.Y, f.X, f.Z, p.X, p.Z, u.X, u.Z),
		Z: MomentZReference(m.Z, f.X, f.Y, p.X, p.Y, u.X, u.Y),
	}
}
