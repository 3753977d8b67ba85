package mmtf

// NAltLocDecode says how many times the alternate locations were decoded.
func (s *Structure) NAltLocDecode() int { return s.nAltLocDecode }
