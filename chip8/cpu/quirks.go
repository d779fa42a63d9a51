package cpu

// Quirks selects between behaviors that differ across CHIP-8 interpreters.
// The zero value matches CHIP-48 and most modern ROMs.
type Quirks struct {
	// ShiftUsesVY makes 8XY6/8XYE shift VY and store the result in VX,
	// as the COSMAC VIP did. Otherwise VX is shifted in place.
	ShiftUsesVY bool

	// LoadStoreIncrementsI leaves I pointing past the last register
	// transferred by FX55/FX65.
	LoadStoreIncrementsI bool

	// JumpUsesVX turns BNNN into BXNN, jumping to XNN + VX.
	JumpUsesVX bool

	// LogicResetsVF clears VF after 8XY1, 8XY2 and 8XY3.
	LogicResetsVF bool

	// WrapSprites wraps sprite pixels around the screen edges instead of
	// clipping them.
	WrapSprites bool
}

// COSMACQuirks returns the behavior of the original COSMAC VIP interpreter.
// Sprites still clip, as they did on the VIP.
func COSMACQuirks() Quirks {
	return Quirks{
		ShiftUsesVY:          true,
		LoadStoreIncrementsI: true,
		LogicResetsVF:        true,
	}
}
