package skills

// MatchScore returns the Jaccard index of two skill sets: |A∩B| / |A∪B|.
// Defined as 0.0 when either set is empty, not NaN.
func MatchScore(resume, jd SkillSet) float64 {
	if len(resume) == 0 || len(jd) == 0 {
		return 0.0
	}
	intersection := 0
	for term := range resume {
		if _, ok := jd[term]; ok {
			intersection++
		}
	}
	union := len(resume) + len(jd) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}
