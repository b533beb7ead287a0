package changelog

import "sort"

// Categorize groups records into a Report between two versions.
//
// Types outside the fixed category set are folded into "other" here, not in
// the parser. Empty categories never appear. Sections are sorted by rank;
// records inside a section keep their input order.
func Categorize(from, to string, records []CommitRecord) *Report {
	grouped := make(map[Category][]CommitRecord)
	for _, rec := range records {
		cat := Category(rec.Type)
		if !cat.IsKnown() {
			cat = CategoryOther
		}
		grouped[cat] = append(grouped[cat], rec)
	}

	sections := make([]Section, 0, len(grouped))
	for cat, recs := range grouped {
		sections = append(sections, Section{Category: cat, Records: recs})
	}

	// Ranks are unique, so the map iteration order above cannot leak.
	sort.Slice(sections, func(i, j int) bool {
		return sections[i].Category.Rank() < sections[j].Category.Rank()
	})

	return &Report{From: from, To: to, Sections: sections}
}
