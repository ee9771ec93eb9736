package news

// categoryKeywords maps a category name to the substrings that mark an item
// as belonging to it. Static for the process lifetime; adding a category is
// a code change, not a runtime operation.
var categoryKeywords = map[string][]string{
	"football":   {"فوتبال", "پرسپولیس", "استقلال", "تیم ملی", "لیگ برتر", "جام جهانی"},
	"basketball": {"بسکتبال", "سوپرلیگ بسکتبال"},
	"wrestling":  {"کشتی", "رزمی", "جودو", "کاراته", "تکواندو"},
	"volleyball": {"والیبال", "سایپا", "کالای خودرو"},
	"athletics":  {"دو و میدانی", "دومیدانی", "دوومیدانی", "المپیک"},
}

// Categories returns the known category names.
func Categories() []string {
	names := make([]string, 0, len(categoryKeywords))
	for name := range categoryKeywords {
		names = append(names, name)
	}
	return names
}

// KnownCategory reports whether name has a keyword set.
func KnownCategory(name string) bool {
	_, ok := categoryKeywords[name]
	return ok
}
