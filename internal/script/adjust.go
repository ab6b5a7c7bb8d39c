package script

// ValidateAndAdjust returns a copy of s whose total fits maxSeconds. A script
// already within the ceiling comes back unchanged apart from a recomputed
// total; otherwise every duration becomes floor(d * maxSeconds / total). The
// operation is idempotent. A non-positive ceiling disables the check.
func ValidateAndAdjust(s VideoScript, maxSeconds int) VideoScript {
	out := s.clone()
	out.Recompute()
	total := out.EstimatedDurationSeconds
	if maxSeconds <= 0 || total <= maxSeconds {
		return out
	}
	for i := range out.Sections {
		out.Sections[i].Duration = out.Sections[i].Duration * maxSeconds / total
	}
	out.Recompute()
	return out
}
