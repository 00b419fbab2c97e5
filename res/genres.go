package res

import "github.com/tejashwikalptaru/mixviz/internal/domain"

// GenreInfo is the default panel content shown while no pattern of a genre is active.
type GenreInfo struct {
	Title           string
	BPM             string
	Characteristics string
	Description     string
	LearnMoreURL    string
	LearnMoreText   string
}

// Genres holds the default panel content per category.
var Genres = map[domain.Category]GenreInfo{
	domain.CategoryJungle: {
		Title:           "JUNGLE",
		BPM:             "150-170 BPM",
		Characteristics: "Reggae inspired, complicated breaks",
		Description: "Jungle is a music genre birthed from underground UK raves, driven by young working-class " +
			"and immigrant musicians. Its 150-170 BPM songs are heavily reggae inspired and feature complicated " +
			"breaks made from sampled music like the 1969 track \"Amen, Brother\" by The Winstons.",
		LearnMoreURL:  "https://www.youtube.com/watch?v=vDZHEAwDAVo",
		LearnMoreText: "What Makes Something Jungle?",
	},
	domain.CategoryDnB: {
		Title:           "DNB",
		BPM:             "170-180 BPM",
		Characteristics: "Simpler breaks, bass heavy",
		Description: "DnB evolved out of jungle in the mid-late 90s. It keeps the same elements as jungle with " +
			"a faster tempo (170-180 BPM), simpler breaks (typically 2-step) and lots of bass. The reggae and reese " +
			"basses of jungle are still used, alongside newer sounds like the foghorn bass.",
	},
}

// Genre returns the default panel content for a category.
// Categories without their own panel get an empty GenreInfo.
func Genre(c domain.Category) GenreInfo {
	return Genres[c]
}
